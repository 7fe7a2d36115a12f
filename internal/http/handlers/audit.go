package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type AuditHandler struct {
	audit services.AuditService
}

func NewAuditHandler(audit services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// POST /api/audit
// Reconciles the caller's theme counters and returns what was repaired.
func (h *AuditHandler) AuditMe(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	report, err := h.audit.AuditUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
