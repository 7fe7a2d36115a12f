package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
)

const (
	ServerName    = "standup-memory"
	ServerVersion = "0.1.0"
)

// NewServer builds the MCP server the mentor agent talks to over stdio.
func NewServer(log *logger.Logger, deps HandlerDeps) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(ServerName, ServerVersion, mcpserver.WithToolCapabilities(false))
	s.AddTools(NewHandlers(log, deps).Tools()...)
	return s
}

type HandlerDeps struct {
	Themes    services.ThemeService
	Goals     services.GoalService
	Artifacts services.ArtifactService
	Sessions  services.SessionService
}

func (h *Handlers) Tools() []mcpserver.ServerTool {
	userID := mcp.WithString("user_id", mcp.Required(), mcp.Description("UUID of the user whose memory is read or written"))
	limit := mcp.WithNumber("limit", mcp.Description("Maximum number of rows to return"))
	return []mcpserver.ServerTool{
		{
			Tool: mcp.NewTool("list_themes",
				mcp.WithDescription("List the user's recurring themes, most frequent first."),
				userID, limit,
			),
			Handler: h.ListThemes,
		},
		{
			Tool: mcp.NewTool("list_goals",
				mcp.WithDescription("List the user's goals, optionally filtered by status."),
				userID,
				mcp.WithString("status", mcp.Description("Goal status filter"), mcp.Enum("not_started", "in_progress", "done", "dropped")),
				limit,
			),
			Handler: h.ListGoals,
		},
		{
			Tool: mcp.NewTool("list_artifacts",
				mcp.WithDescription("List the user's saved artifacts, pinned first."),
				userID,
				mcp.WithString("type", mcp.Description("Artifact type filter"), mcp.Enum("summary", "action_plan", "question_draft", "goal", "insight")),
				mcp.WithString("session_id", mcp.Description("Only artifacts generated from this session")),
				limit,
			),
			Handler: h.ListArtifacts,
		},
		{
			Tool: mcp.NewTool("record_extraction",
				mcp.WithDescription("Record the themes and artifact drafts extracted from a closed session. Safe to repeat."),
				userID,
				mcp.WithString("session_id", mcp.Required(), mcp.Description("UUID of the closed session")),
				mcp.WithObject("extraction", mcp.Required(), mcp.Description(`{"themes":[{"label","description"?}],"artifacts":[{"type","title"?,"content"}]}`)),
			),
			Handler: h.RecordExtraction,
		},
		{
			Tool: mcp.NewTool("transition_goal",
				mcp.WithDescription("Move a goal to a new status. Allowed: not_started->in_progress|dropped, in_progress->done|dropped."),
				userID,
				mcp.WithString("goal_id", mcp.Required(), mcp.Description("UUID of the goal")),
				mcp.WithString("status", mcp.Required(), mcp.Enum("in_progress", "done", "dropped")),
			),
			Handler: h.TransitionGoal,
		},
	}
}
