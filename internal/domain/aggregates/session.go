package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/domain/chat"
)

var SessionAggregateContract = Contract{
	Name:      "Chat.SessionAggregate",
	Writes:    []string{"session", "message"},
	Invariant: "ended_at is write-once; messages append to open sessions in order.",
}

// SessionAggregate records conversations.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvalidState, CodeRetryable, CodeInternal.
type SessionAggregate interface {
	Aggregate

	// OpenSession starts a session. A user may hold several open sessions.
	OpenSession(ctx context.Context, in OpenSessionInput) (*chat.Session, error)

	// AppendMessage adds the next message to an open session.
	AppendMessage(ctx context.Context, in AppendMessageInput) (*chat.Message, error)

	// CloseSession sets ended_at once. Closing a closed session is a no-op.
	CloseSession(ctx context.Context, in CloseSessionInput) (CloseSessionResult, error)

	// RenameSession replaces the session title.
	RenameSession(ctx context.Context, in RenameSessionInput) (*chat.Session, error)
}

type OpenSessionInput struct {
	UserID      uuid.UUID
	Title       *string
	IsBrainDump bool
	StartedAt   time.Time
}

type AppendMessageInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      chat.MessageRole
	Content   string
	Metadata  map[string]any
	At        time.Time
}

type CloseSessionInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	EndedAt   time.Time
}

type CloseSessionResult struct {
	Session       *chat.Session
	AlreadyClosed bool
}

type RenameSessionInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Title     *string
}
