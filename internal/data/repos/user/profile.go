package user

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

type ProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Profile, error)
	Upsert(dbc dbctx.Context, row *types.Profile) (*types.Profile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, log *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: log.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out types.Profile
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *profileRepo) Upsert(dbc dbctx.Context, row *types.Profile) (*types.Profile, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing profile user_id")
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	db := dbc.DB(r.db)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"role",
			"level",
			"company_type",
			"timezone",
			"onboarding_completed",
			"updated_at",
		}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, row.UserID)
}
