package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type ArtifactQuery struct {
	UserID     uuid.UUID
	Type       *types.ArtifactType
	SessionID  *uuid.UUID
	PinnedOnly bool
	Limit      int
}

type ArtifactRepo interface {
	Create(dbc dbctx.Context, row *types.Artifact) (*types.Artifact, error)
	// CreateIfAbsent inserts a session-scoped artifact unless (session_id, type) exists.
	CreateIfAbsent(dbc dbctx.Context, row *types.Artifact) (bool, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Artifact, error)
	GetBySessionType(dbc dbctx.Context, sessionID uuid.UUID, typ types.ArtifactType) (*types.Artifact, error)
	List(dbc dbctx.Context, q ArtifactQuery) ([]*types.Artifact, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type artifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtifactRepo(db *gorm.DB, log *logger.Logger) ArtifactRepo {
	return &artifactRepo{db: db, log: log.With("repo", "ArtifactRepo")}
}

func (r *artifactRepo) Create(dbc dbctx.Context, row *types.Artifact) (*types.Artifact, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing artifact user_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *artifactRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Artifact) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.SessionID == nil {
		return false, fmt.Errorf("missing artifact user_id or session_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "type"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *artifactRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Artifact, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or id")
	}
	var out types.Artifact
	if err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *artifactRepo) GetBySessionType(dbc dbctx.Context, sessionID uuid.UUID, typ types.ArtifactType) (*types.Artifact, error) {
	if sessionID == uuid.Nil || typ == "" {
		return nil, fmt.Errorf("missing session_id or type")
	}
	var out types.Artifact
	if err := dbc.DB(r.db).
		Where("session_id = ? AND type = ?", sessionID, typ).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns pinned artifacts first, newest first within each group.
func (r *artifactRepo) List(dbc dbctx.Context, q ArtifactQuery) ([]*types.Artifact, error) {
	if q.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := dbc.DB(r.db).Model(&types.Artifact{}).Where("user_id = ?", q.UserID)
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	if q.SessionID != nil {
		db = db.Where("session_id = ?", *q.SessionID)
	}
	if q.PinnedOnly {
		db = db.Where("is_pinned = ?", true)
	}
	var out []*types.Artifact
	if err := db.
		Order("is_pinned DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *artifactRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(r.db).
		Model(&types.Artifact{}).
		Where("id = ?", id).
		Updates(updates).Error
}
