package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danfirsten/Standup/internal/domain/chat"
	"github.com/danfirsten/Standup/internal/http/response"
	"github.com/danfirsten/Standup/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /api/sessions
// body: { "title"?: "...", "is_brain_dump"?: bool }
func (h *SessionHandler) OpenSession(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		IsBrainDump bool    `json:"is_brain_dump"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	sess, err := h.sessions.OpenSession(c.Request.Context(), userID, req.Title, req.IsBrainDump)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": sess})
}

// GET /api/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	rows, err := h.sessions.ListSessions(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": rows})
}

// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sess, err := h.sessions.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// PATCH /api/sessions/:id
// body: { "title": "..." | null }
func (h *SessionHandler) RenameSession(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title *string `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.sessions.RenameSession(c.Request.Context(), userID, sessionID, req.Title)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// POST /api/sessions/:id/close
// body (optional): { "ended_at"?: RFC3339, "extraction"?: { "themes": [...], "artifacts": [...] } }
func (h *SessionHandler) CloseSession(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		EndedAt    *time.Time           `json:"ended_at"`
		Extraction *services.Extraction `json:"extraction"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.sessions.CloseSession(c.Request.Context(), userID, sessionID, req.EndedAt, req.Extraction)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/sessions/:id/messages
// body: { "role": "user"|"assistant"|"system", "content": "...", "metadata"?: {...} }
func (h *SessionHandler) AppendMessage(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role     chat.MessageRole `json:"role"`
		Content  string           `json:"content"`
		Metadata map[string]any   `json:"metadata"`
	}
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.sessions.AppendMessage(c.Request.Context(), userID, sessionID, req.Role, req.Content, req.Metadata)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}

// GET /api/sessions/:id/messages
func (h *SessionHandler) ListMessages(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.sessions.ListMessages(c.Request.Context(), userID, sessionID, queryLimit(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": rows})
}

// POST /api/sessions/:id/extraction
// body: { "themes": [{ "label", "description"? }], "artifacts": [{ "type", "title"?, "content" }] }
func (h *SessionHandler) SubmitExtraction(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.Extraction
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.sessions.ProcessExtraction(c.Request.Context(), userID, sessionID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}
