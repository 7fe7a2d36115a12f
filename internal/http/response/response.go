package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps an aggregate error code onto an HTTP status.
// Errors without a code are reported as internal and their text is not exposed.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	status := StatusFor(code)
	if code == "" {
		code = domainagg.CodeInternal
	}
	msg := "internal error"
	var aggErr *domainagg.Error
	if code != domainagg.CodeInternal && errors.As(err, &aggErr) && aggErr.Message != "" {
		msg = aggErr.Message
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(code),
		},
	})
}

func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeInvalidState, domainagg.CodeInvalidTransition:
		return http.StatusConflict
	case domainagg.CodeConflictRetryable, domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
