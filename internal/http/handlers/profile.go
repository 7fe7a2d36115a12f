package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// PUT /api/profile
// body: { "role"?, "level"?, "company_type"?, "timezone"? }
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req services.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UpsertProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// POST /api/profile/onboarding
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req services.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.CompleteOnboarding(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}
