package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/chat"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// SessionPipeline hands a closed session's extraction to durable background
// processing. Implementations must tolerate the same session being submitted twice.
type SessionPipeline interface {
	StartSessionProcessing(ctx context.Context, userID, sessionID uuid.UUID, ext Extraction) (workflowID string, err error)
}

type ProcessingMode string

const (
	ProcessedInline   ProcessingMode = "inline"
	ProcessedWorkflow ProcessingMode = "workflow"
)

type ProcessResult struct {
	Mode       ProcessingMode `json:"mode"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Result     *IngestResult  `json:"result,omitempty"`
}

type CloseResult struct {
	Session       *types.Session `json:"session"`
	AlreadyClosed bool           `json:"already_closed"`
	Processing    *ProcessResult `json:"processing,omitempty"`
}

type SessionService interface {
	OpenSession(ctx context.Context, userID uuid.UUID, title *string, isBrainDump bool) (*types.Session, error)
	AppendMessage(ctx context.Context, userID, sessionID uuid.UUID, role chat.MessageRole, content string, metadata map[string]any) (*types.Message, error)
	// CloseSession ends the session and, when ext is given, processes it.
	CloseSession(ctx context.Context, userID, sessionID uuid.UUID, endedAt *time.Time, ext *Extraction) (CloseResult, error)
	RenameSession(ctx context.Context, userID, sessionID uuid.UUID, title *string) (*types.Session, error)
	// ProcessExtraction starts the pipeline when one is configured and ingests inline otherwise.
	ProcessExtraction(ctx context.Context, userID, sessionID uuid.UUID, ext Extraction) (ProcessResult, error)

	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Session, error)
	ListMessages(ctx context.Context, userID, sessionID uuid.UUID, limit int) ([]*types.Message, error)
}

type sessionService struct {
	log      *logger.Logger
	agg      domainagg.SessionAggregate
	sessions repos.SessionRepo
	messages repos.MessageRepo
	ingest   IngestService
	pipeline SessionPipeline
	bus      events.Bus
}

type SessionServiceDeps struct {
	Aggregate domainagg.SessionAggregate
	Sessions  repos.SessionRepo
	Messages  repos.MessageRepo
	Ingest    IngestService
	// Pipeline is optional.
	Pipeline SessionPipeline
	Bus      events.Bus
}

func NewSessionService(log *logger.Logger, deps SessionServiceDeps) SessionService {
	return &sessionService{
		log:      log.With("service", "SessionService"),
		agg:      deps.Aggregate,
		sessions: deps.Sessions,
		messages: deps.Messages,
		ingest:   deps.Ingest,
		pipeline: deps.Pipeline,
		bus:      deps.Bus,
	}
}

func (s *sessionService) OpenSession(ctx context.Context, userID uuid.UUID, title *string, isBrainDump bool) (*types.Session, error) {
	return s.agg.OpenSession(ctx, domainagg.OpenSessionInput{UserID: userID, Title: title, IsBrainDump: isBrainDump})
}

func (s *sessionService) AppendMessage(ctx context.Context, userID, sessionID uuid.UUID, role chat.MessageRole, content string, metadata map[string]any) (*types.Message, error) {
	return s.agg.AppendMessage(ctx, domainagg.AppendMessageInput{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	})
}

func (s *sessionService) CloseSession(ctx context.Context, userID, sessionID uuid.UUID, endedAt *time.Time, ext *Extraction) (CloseResult, error) {
	in := domainagg.CloseSessionInput{UserID: userID, SessionID: sessionID}
	if endedAt != nil {
		in.EndedAt = *endedAt
	}
	res, err := s.agg.CloseSession(ctx, in)
	if err != nil {
		return CloseResult{}, err
	}
	out := CloseResult{Session: res.Session, AlreadyClosed: res.AlreadyClosed}
	if !res.AlreadyClosed {
		publish(ctx, s.bus, s.log, events.SessionClosed, userID, events.SessionClosedData{
			SessionID: res.Session.ID,
			EndedAt:   *res.Session.EndedAt,
		})
	}
	if ext != nil && !ext.Empty() {
		processed, err := s.ProcessExtraction(ctx, userID, sessionID, *ext)
		if err != nil {
			return out, err
		}
		out.Processing = &processed
	}
	return out, nil
}

func (s *sessionService) ProcessExtraction(ctx context.Context, userID, sessionID uuid.UUID, ext Extraction) (ProcessResult, error) {
	const op = "Chat.Session.ProcessExtraction"
	if s.pipeline != nil {
		if err := validateDrafts(op, ext.Artifacts); err != nil {
			return ProcessResult{}, err
		}
		sess, err := s.GetSession(ctx, userID, sessionID)
		if err != nil {
			return ProcessResult{}, err
		}
		if !sess.Closed() {
			return ProcessResult{}, domainagg.NewError(domainagg.CodeInvalidState, op, "session is still open", nil)
		}
		wfID, err := s.pipeline.StartSessionProcessing(ctx, userID, sessionID, ext)
		if err != nil {
			return ProcessResult{}, domainagg.NewError(domainagg.CodeRetryable, op, "start session processing", err)
		}
		return ProcessResult{Mode: ProcessedWorkflow, WorkflowID: wfID}, nil
	}
	res, err := s.ingest.IngestExtraction(ctx, userID, sessionID, ext)
	if err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Mode: ProcessedInline, Result: &res}, nil
}

func (s *sessionService) RenameSession(ctx context.Context, userID, sessionID uuid.UUID, title *string) (*types.Session, error) {
	return s.agg.RenameSession(ctx, domainagg.RenameSessionInput{UserID: userID, SessionID: sessionID, Title: title})
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, error) {
	const op = "Chat.Session.Get"
	if userID == uuid.Nil || sessionID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id or session_id")
	}
	sess, err := s.sessions.GetForUser(dbctx.From(ctx), userID, sessionID)
	if err != nil {
		return nil, readError(op, err)
	}
	return sess, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	const op = "Chat.Session.List"
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	rows, err := s.sessions.ListByUser(dbctx.From(ctx), userID, limit)
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}

func (s *sessionService) ListMessages(ctx context.Context, userID, sessionID uuid.UUID, limit int) ([]*types.Message, error) {
	const op = "Chat.Session.ListMessages"
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.messages.ListBySession(dbctx.From(ctx), sessionID, limit)
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}
