package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type GoalHandler struct {
	goals services.GoalService
}

func NewGoalHandler(goals services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// POST /api/goals
// body: { "description": "...", "time_horizon"?: "...", "target_date"?: RFC3339, "artifact_id"?: uuid }
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		Description string     `json:"description"`
		TimeHorizon *string    `json:"time_horizon"`
		TargetDate  *time.Time `json:"target_date"`
		ArtifactID  *uuid.UUID `json:"artifact_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Create(c.Request.Context(), domainagg.CreateGoalInput{
		UserID:      userID,
		Description: req.Description,
		TimeHorizon: req.TimeHorizon,
		TargetDate:  req.TargetDate,
		ArtifactID:  req.ArtifactID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"goal": g})
}

// GET /api/goals?status=
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var status *memory.GoalStatus
	if s := c.Query("status"); s != "" {
		gs := memory.GoalStatus(s)
		if !gs.Valid() {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("invalid status"))
			return
		}
		status = &gs
	}
	rows, err := h.goals.List(c.Request.Context(), userID, status, queryLimit(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goals": rows})
}

// GET /api/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	g, err := h.goals.Get(c.Request.Context(), userID, goalID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": g})
}

// PATCH /api/goals/:id
// body: { "description"?, "time_horizon"?, "target_date"?, "clear_target_date"?: bool }
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description     *string    `json:"description"`
		TimeHorizon     *string    `json:"time_horizon"`
		TargetDate      *time.Time `json:"target_date"`
		ClearTargetDate bool       `json:"clear_target_date"`
	}
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.UpdateDetails(c.Request.Context(), domainagg.UpdateGoalDetailsInput{
		UserID:          userID,
		GoalID:          goalID,
		Description:     req.Description,
		TimeHorizon:     req.TimeHorizon,
		TargetDate:      req.TargetDate,
		ClearTargetDate: req.ClearTargetDate,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": g})
}

// POST /api/goals/:id/transition
// body: { "status": "in_progress" | "done" | "dropped" }
func (h *GoalHandler) TransitionGoal(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status memory.GoalStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Transition(c.Request.Context(), userID, goalID, req.Status)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": g})
}
