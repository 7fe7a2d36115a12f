package aggregates

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/chat"
	"github.com/danfirsten/Standup/internal/normalization"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

const maxMessageBytes = 64 * 1024

type SessionAggregateDeps struct {
	Base BaseDeps

	Sessions repos.SessionRepo
	Messages repos.MessageRepo
}

type sessionAggregate struct {
	deps SessionAggregateDeps
}

func NewSessionAggregate(deps SessionAggregateDeps) domainagg.SessionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &sessionAggregate{deps: deps}
}

func (a *sessionAggregate) Contract() domainagg.Contract {
	return domainagg.SessionAggregateContract
}

func (a *sessionAggregate) OpenSession(ctx context.Context, in domainagg.OpenSessionInput) (*types.Session, error) {
	const op = "Chat.Session.Open"
	if in.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	started := in.StartedAt.UTC()
	if in.StartedAt.IsZero() {
		started = a.deps.Base.now()
	}
	row := &types.Session{
		ID:          uuid.New(),
		UserID:      in.UserID,
		Title:       cleanTitle(in.Title),
		IsBrainDump: in.IsBrainDump,
		StartedAt:   started,
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		_, err := a.deps.Sessions.Create(dbc, []*types.Session{row})
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (a *sessionAggregate) AppendMessage(ctx context.Context, in domainagg.AppendMessageInput) (*types.Message, error) {
	const op = "Chat.Session.AppendMessage"
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	if !in.Role.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "unknown message role: "+string(in.Role), nil)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "message content is required", nil)
	}
	if len(in.Content) > maxMessageBytes {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "message content too large", nil)
	}
	meta, err := encodeMessageMetadata(in.Role, in.Metadata)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	at := in.At.UTC()
	if in.At.IsZero() {
		at = a.deps.Base.now()
	}

	var out *types.Message
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sess, err := a.deps.Sessions.GetForUser(dbc, in.UserID, in.SessionID)
		if err != nil {
			return err
		}
		if sess.Closed() {
			return InvalidStateError("session has ended")
		}
		seq, ok, err := a.deps.Sessions.ReserveSeq(dbc, sess.ID)
		if err != nil {
			return err
		}
		if !ok {
			// Closed between the read and the bump.
			return InvalidStateError("session has ended")
		}
		msg := &types.Message{
			ID:        uuid.New(),
			SessionID: sess.ID,
			UserID:    in.UserID,
			Seq:       seq,
			Role:      in.Role,
			Content:   in.Content,
			Metadata:  meta,
			CreatedAt: at,
		}
		if _, err := a.deps.Messages.Create(dbc, []*types.Message{msg}); err != nil {
			return err
		}
		out = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *sessionAggregate) CloseSession(ctx context.Context, in domainagg.CloseSessionInput) (domainagg.CloseSessionResult, error) {
	const op = "Chat.Session.Close"
	var out domainagg.CloseSessionResult
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	endedAt := in.EndedAt.UTC()
	if in.EndedAt.IsZero() {
		endedAt = a.deps.Base.now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sess, err := a.deps.Sessions.GetForUser(dbc, in.UserID, in.SessionID)
		if err != nil {
			return err
		}
		if sess.Closed() {
			out = domainagg.CloseSessionResult{Session: sess, AlreadyClosed: true}
			return nil
		}
		if endedAt.Before(sess.StartedAt) {
			return ValidationError("ended_at precedes started_at")
		}
		closed, err := a.deps.Sessions.CloseIfOpen(dbc, sess.ID, endedAt)
		if err != nil {
			return err
		}
		reloaded, err := a.deps.Sessions.GetByID(dbc, sess.ID)
		if err != nil {
			return err
		}
		out = domainagg.CloseSessionResult{Session: reloaded, AlreadyClosed: !closed}
		return nil
	})
	if err != nil {
		return domainagg.CloseSessionResult{}, err
	}
	return out, nil
}

func (a *sessionAggregate) RenameSession(ctx context.Context, in domainagg.RenameSessionInput) (*types.Session, error) {
	const op = "Chat.Session.Rename"
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	title := cleanTitle(in.Title)
	var out *types.Session
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		sess, err := a.deps.Sessions.GetForUser(dbc, in.UserID, in.SessionID)
		if err != nil {
			return err
		}
		if err := a.deps.Sessions.UpdateFields(dbc, sess.ID, map[string]interface{}{"title": title}); err != nil {
			return err
		}
		out, err = a.deps.Sessions.GetByID(dbc, sess.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func cleanTitle(title *string) *string {
	if title == nil {
		return nil
	}
	v := normalization.DisplayLabel(*title)
	if v == "" {
		return nil
	}
	if r := []rune(v); len(r) > 200 {
		v = string(r[:200])
	}
	return &v
}

// encodeMessageMetadata keeps metadata a JSON object and stamps the role so
// readers can tell which variant they hold.
func encodeMessageMetadata(role chat.MessageRole, meta map[string]any) (datatypes.JSON, error) {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, ValidationError("metadata keys must not be blank")
		}
		out[k] = v
	}
	out["role"] = string(role)
	b, err := json.Marshal(out)
	if err != nil {
		return nil, ValidationError("metadata is not JSON-encodable: " + err.Error())
	}
	return datatypes.JSON(b), nil
}

