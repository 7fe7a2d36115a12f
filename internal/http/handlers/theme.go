package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type ThemeHandler struct {
	themes services.ThemeService
}

func NewThemeHandler(themes services.ThemeService) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// GET /api/themes
func (h *ThemeHandler) ListThemes(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	rows, err := h.themes.ListThemes(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": rows})
}

// GET /api/themes/:id/sessions
func (h *ThemeHandler) ListThemeSessions(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	themeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.themes.ListThemeSessions(c.Request.Context(), userID, themeID, queryLimit(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": rows})
}
