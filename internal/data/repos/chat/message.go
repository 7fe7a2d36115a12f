package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.Message, error)
	CountBySession(dbc dbctx.Context, sessionID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySession returns messages in append order.
func (r *messageRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.Message, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	var out []*types.Message
	if err := dbc.DB(r.db).
		Model(&types.Message{}).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) CountBySession(dbc dbctx.Context, sessionID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Message{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return n, err
}
