package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
)

// Handlers adapts MCP tool calls onto the memory services. Tool failures are
// reported in the result, never as protocol errors.
type Handlers struct {
	log  *logger.Logger
	deps HandlerDeps
}

func NewHandlers(log *logger.Logger, deps HandlerDeps) *Handlers {
	return &Handlers{log: log.With("component", "MCPHandlers"), deps: deps}
}

func (h *Handlers) ListThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, res := requireUUID(req, "user_id")
	if res != nil {
		return res, nil
	}
	rows, err := h.deps.Themes.ListThemes(ctx, userID, req.GetInt("limit", 0))
	if err != nil {
		return h.failed("list_themes", err), nil
	}
	return jsonResult(map[string]any{"themes": rows})
}

func (h *Handlers) ListGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, res := requireUUID(req, "user_id")
	if res != nil {
		return res, nil
	}
	var status *memory.GoalStatus
	if s := req.GetString("status", ""); s != "" {
		gs := memory.GoalStatus(s)
		status = &gs
	}
	rows, err := h.deps.Goals.List(ctx, userID, status, req.GetInt("limit", 0))
	if err != nil {
		return h.failed("list_goals", err), nil
	}
	return jsonResult(map[string]any{"goals": rows})
}

func (h *Handlers) ListArtifacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, res := requireUUID(req, "user_id")
	if res != nil {
		return res, nil
	}
	opts := services.ArtifactListOptions{Limit: req.GetInt("limit", 0)}
	if t := req.GetString("type", ""); t != "" {
		at := memory.ArtifactType(t)
		opts.Type = &at
	}
	if s := req.GetString("session_id", ""); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return mcp.NewToolResultError("session_id must be a UUID"), nil
		}
		opts.SessionID = &id
	}
	rows, err := h.deps.Artifacts.List(ctx, userID, opts)
	if err != nil {
		return h.failed("list_artifacts", err), nil
	}
	return jsonResult(map[string]any{"artifacts": rows})
}

func (h *Handlers) RecordExtraction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, res := requireUUID(req, "user_id")
	if res != nil {
		return res, nil
	}
	sessionID, res := requireUUID(req, "session_id")
	if res != nil {
		return res, nil
	}
	raw, ok := req.GetArguments()["extraction"]
	if !ok || raw == nil {
		return mcp.NewToolResultError("extraction argument is required"), nil
	}
	var ext services.Extraction
	b, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(b, &ext)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction is malformed: %v", err)), nil
	}
	out, err := h.deps.Sessions.ProcessExtraction(ctx, userID, sessionID, ext)
	if err != nil {
		return h.failed("record_extraction", err), nil
	}
	return jsonResult(out)
}

func (h *Handlers) TransitionGoal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, res := requireUUID(req, "user_id")
	if res != nil {
		return res, nil
	}
	goalID, res := requireUUID(req, "goal_id")
	if res != nil {
		return res, nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status argument is required"), nil
	}
	g, err := h.deps.Goals.Transition(ctx, userID, goalID, memory.GoalStatus(status))
	if err != nil {
		return h.failed("transition_goal", err), nil
	}
	return jsonResult(map[string]any{"goal": g})
}

func (h *Handlers) failed(tool string, err error) *mcp.CallToolResult {
	h.log.Warn("MCP tool failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}

func requireUUID(req mcp.CallToolRequest, key string) (uuid.UUID, *mcp.CallToolResult) {
	s, err := req.RequireString(key)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(key + " argument is required")
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, mcp.NewToolResultError(key + " must be a UUID")
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
