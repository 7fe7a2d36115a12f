package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type ArtifactHandler struct {
	artifacts services.ArtifactService
	goals     services.GoalService
}

func NewArtifactHandler(artifacts services.ArtifactService, goals services.GoalService) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts, goals: goals}
}

// POST /api/artifacts
// body: { "session_id"?: uuid, "type": "...", "title"?: "...", "content": {...} }
// Without a session the artifact is standalone and always new.
func (h *ArtifactHandler) CreateArtifact(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		SessionID *uuid.UUID          `json:"session_id"`
		Type      memory.ArtifactType `json:"type"`
		Title     *string             `json:"title"`
		Content   json.RawMessage     `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.artifacts.Generate(c.Request.Context(), userID, req.SessionID, services.ArtifactDraft{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"artifact": res.Artifact, "created": res.Created})
}

// GET /api/artifacts?type=&session_id=&pinned=&limit=
func (h *ArtifactHandler) ListArtifacts(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	opts := services.ArtifactListOptions{Limit: queryLimit(c)}
	if t := c.Query("type"); t != "" {
		at := memory.ArtifactType(t)
		opts.Type = &at
	}
	if s := c.Query("session_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("invalid session_id"))
			return
		}
		opts.SessionID = &id
	}
	if p := c.Query("pinned"); p != "" {
		pinned, err := strconv.ParseBool(p)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("invalid pinned"))
			return
		}
		opts.PinnedOnly = pinned
	}
	rows, err := h.artifacts.List(c.Request.Context(), userID, opts)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"artifacts": rows})
}

// GET /api/artifacts/:id
func (h *ArtifactHandler) GetArtifact(c *gin.Context) {
	h.withArtifact(c, h.artifacts.Get)
}

// POST /api/artifacts/:id/pin
func (h *ArtifactHandler) PinArtifact(c *gin.Context) {
	h.withArtifact(c, h.artifacts.Pin)
}

// POST /api/artifacts/:id/unpin
func (h *ArtifactHandler) UnpinArtifact(c *gin.Context) {
	h.withArtifact(c, h.artifacts.Unpin)
}

// PATCH /api/artifacts/:id
// body: { "title": "..." | null }
func (h *ArtifactHandler) RenameArtifact(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	artifactID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title *string `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.artifacts.Rename(c.Request.Context(), userID, artifactID, req.Title)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"artifact": a})
}

// POST /api/artifacts/:id/promote
func (h *ArtifactHandler) PromoteArtifact(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	artifactID, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.goals.Promote(c.Request.Context(), userID, artifactID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"goal": res.Goal, "created": res.Created})
}

func (h *ArtifactHandler) withArtifact(c *gin.Context, fn func(ctx context.Context, userID, artifactID uuid.UUID) (*memory.Artifact, error)) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	artifactID, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := fn(c.Request.Context(), userID, artifactID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"artifact": a})
}
