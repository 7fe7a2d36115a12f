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

type ThemeRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Theme, error)
	GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Theme, error)
	GetByNormalizedName(dbc dbctx.Context, userID uuid.UUID, normalized string) (*types.Theme, error)
	// CreateIfAbsent inserts row unless (user_id, normalized_name) already exists.
	CreateIfAbsent(dbc dbctx.Context, row *types.Theme) (bool, error)
	// IncrementOccurrence adds one to the counter and widens the seen window to include seenAt.
	IncrementOccurrence(dbc dbctx.Context, id uuid.UUID, seenAt time.Time) error
	SetDescriptionIfEmpty(dbc dbctx.Context, id uuid.UUID, description string) error
	// RecountFromOccurrences rewrites the counter and seen window from theme_occurrence
	// in one statement. Reconciliation only.
	RecountFromOccurrences(dbc dbctx.Context, id uuid.UUID) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Theme, error)
	ListAllByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Theme, error)
	ListUserIDs(dbc dbctx.Context) ([]uuid.UUID, error)
}

type themeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeRepo(db *gorm.DB, log *logger.Logger) ThemeRepo {
	return &themeRepo{db: db, log: log.With("repo", "ThemeRepo")}
}

func (r *themeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Theme, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	var out types.Theme
	if err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *themeRepo) GetForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Theme, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("missing user_id or id")
	}
	var out types.Theme
	if err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *themeRepo) GetByNormalizedName(dbc dbctx.Context, userID uuid.UUID, normalized string) (*types.Theme, error) {
	if userID == uuid.Nil || normalized == "" {
		return nil, fmt.Errorf("missing user_id or normalized_name")
	}
	var out types.Theme
	if err := dbc.DB(r.db).
		Where("user_id = ? AND normalized_name = ?", userID, normalized).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *themeRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Theme) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.NormalizedName == "" {
		return false, fmt.Errorf("missing theme user_id or normalized_name")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "normalized_name"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *themeRepo) IncrementOccurrence(dbc dbctx.Context, id uuid.UUID, seenAt time.Time) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	seenAt = seenAt.UTC()
	res := dbc.DB(r.db).
		Model(&types.Theme{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"occurrence_count": gorm.Expr("occurrence_count + 1"),
			"last_seen":        gorm.Expr("CASE WHEN last_seen < ? THEN ? ELSE last_seen END", seenAt, seenAt),
			"first_seen":       gorm.Expr("CASE WHEN first_seen > ? THEN ? ELSE first_seen END", seenAt, seenAt),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *themeRepo) SetDescriptionIfEmpty(dbc dbctx.Context, id uuid.UUID, description string) error {
	if id == uuid.Nil || description == "" {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Theme{}).
		Where("id = ? AND (description IS NULL OR description = '')", id).
		Updates(map[string]interface{}{
			"description": description,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *themeRepo) RecountFromOccurrences(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	const seen = "SELECT %s(s.ended_at) FROM theme_occurrence AS o JOIN session AS s ON s.id = o.session_id WHERE o.theme_id = theme.id AND s.ended_at IS NOT NULL"
	return dbc.DB(r.db).
		Model(&types.Theme{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"occurrence_count": gorm.Expr("(SELECT COUNT(*) FROM theme_occurrence AS o WHERE o.theme_id = theme.id)"),
			"first_seen":       gorm.Expr("COALESCE((" + fmt.Sprintf(seen, "MIN") + "), first_seen)"),
			"last_seen":        gorm.Expr("COALESCE((" + fmt.Sprintf(seen, "MAX") + "), last_seen)"),
			"updated_at":       time.Now().UTC(),
		}).Error
}

// ListByUser orders by recurrence, then recency.
func (r *themeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Theme, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.Theme
	if err := dbc.DB(r.db).
		Model(&types.Theme{}).
		Where("user_id = ?", userID).
		Order("occurrence_count DESC").
		Order("last_seen DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeRepo) ListAllByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Theme, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.Theme
	if err := dbc.DB(r.db).
		Model(&types.Theme{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeRepo) ListUserIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Theme{}).
		Distinct("user_id").
		Pluck("user_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
