package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Session) ([]*types.Session, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Session, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Session, error)
	// CloseIfOpen sets ended_at only when it is still NULL.
	CloseIfOpen(dbc dbctx.Context, id uuid.UUID, endedAt time.Time) (bool, error)
	// ReserveSeq bumps next_seq on an open session and returns the reserved value.
	ReserveSeq(dbc dbctx.Context, id uuid.UUID) (int64, bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: log.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, rows []*types.Session) ([]*types.Session, error) {
	if len(rows) == 0 {
		return []*types.Session{}, nil
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

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	var out types.Session
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Session, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or id")
	}
	var out types.Session
	if err := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.Session
	if err := dbc.DB(r.db).
		Model(&types.Session{}).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) CloseIfOpen(dbc dbctx.Context, id uuid.UUID, endedAt time.Time) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing id")
	}
	res := dbc.DB(r.db).
		Model(&types.Session{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":   endedAt.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepo) ReserveSeq(dbc dbctx.Context, id uuid.UUID) (int64, bool, error) {
	if id == uuid.Nil {
		return 0, false, fmt.Errorf("missing id")
	}
	db := dbc.DB(r.db)
	res := db.Model(&types.Session{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"next_seq":   gorm.Expr("next_seq + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	var seq int64
	if err := db.Model(&types.Session{}).
		Where("id = ?", id).
		Select("next_seq").
		Scan(&seq).Error; err != nil {
		return 0, false, err
	}
	return seq, true, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}
