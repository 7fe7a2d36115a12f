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

type GoalRepo interface {
	Create(dbc dbctx.Context, row *types.Goal) (*types.Goal, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Goal, error)
	// GetByPromotedFrom returns the goal promoted from artifactID.
	GetByPromotedFrom(dbc dbctx.Context, userID, artifactID uuid.UUID) (*types.Goal, error)
	// CreatePromotedIfAbsent inserts row unless a goal was already promoted from
	// row.PromotedFromArtifactID. false means another goal holds that artifact.
	CreatePromotedIfAbsent(dbc dbctx.Context, row *types.Goal) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, status *types.GoalStatus, limit int) ([]*types.Goal, error)
	// UpdateByVersion applies updates only when version still matches and bumps it.
	UpdateByVersion(dbc dbctx.Context, id uuid.UUID, version int, updates map[string]interface{}) (bool, error)
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, log *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: log.With("repo", "GoalRepo")}
}

func (r *goalRepo) Create(dbc dbctx.Context, row *types.Goal) (*types.Goal, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing goal user_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *goalRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Goal, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or id")
	}
	var out types.Goal
	if err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *goalRepo) GetByPromotedFrom(dbc dbctx.Context, userID, artifactID uuid.UUID) (*types.Goal, error) {
	var out types.Goal
	if err := dbc.DB(r.db).
		Where("user_id = ? AND promoted_from_artifact_id = ?", userID, artifactID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *goalRepo) CreatePromotedIfAbsent(dbc dbctx.Context, row *types.Goal) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.PromotedFromArtifactID == nil {
		return false, fmt.Errorf("missing goal user_id or promoted_from_artifact_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "promoted_from_artifact_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *goalRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, status *types.GoalStatus, limit int) ([]*types.Goal, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := dbc.DB(r.db).Model(&types.Goal{}).Where("user_id = ?", userID)
	if status != nil {
		db = db.Where("status = ?", *status)
	}
	var out []*types.Goal
	if err := db.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *goalRepo) UpdateByVersion(dbc dbctx.Context, id uuid.UUID, version int, updates map[string]interface{}) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).
		Model(&types.Goal{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
