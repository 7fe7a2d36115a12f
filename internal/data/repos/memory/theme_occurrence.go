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

// OccurrenceSighting is one occurrence joined with the end time of its session.
type OccurrenceSighting struct {
	ThemeID   uuid.UUID
	SessionID uuid.UUID
	EndedAt   *time.Time
}

type ThemeOccurrenceRepo interface {
	// InsertIfAbsent records (theme, session) once. false means it already existed.
	InsertIfAbsent(dbc dbctx.Context, row *types.ThemeOccurrence) (bool, error)
	ListSightingsByUser(dbc dbctx.Context, userID uuid.UUID) ([]OccurrenceSighting, error)
	ListSessionsForTheme(dbc dbctx.Context, themeID uuid.UUID, limit int) ([]*types.Session, error)
}

type themeOccurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeOccurrenceRepo(db *gorm.DB, log *logger.Logger) ThemeOccurrenceRepo {
	return &themeOccurrenceRepo{db: db, log: log.With("repo", "ThemeOccurrenceRepo")}
}

func (r *themeOccurrenceRepo) InsertIfAbsent(dbc dbctx.Context, row *types.ThemeOccurrence) (bool, error) {
	if row == nil || row.ThemeID == uuid.Nil || row.SessionID == uuid.Nil {
		return false, fmt.Errorf("missing theme_id or session_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "theme_id"}, {Name: "session_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *themeOccurrenceRepo) ListSightingsByUser(dbc dbctx.Context, userID uuid.UUID) ([]OccurrenceSighting, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []OccurrenceSighting
	if err := dbc.DB(r.db).
		Table("theme_occurrence AS o").
		Select("o.theme_id AS theme_id, o.session_id AS session_id, s.ended_at AS ended_at").
		Joins("JOIN theme AS t ON t.id = o.theme_id").
		Joins("LEFT JOIN session AS s ON s.id = o.session_id").
		Where("t.user_id = ?", userID).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeOccurrenceRepo) ListSessionsForTheme(dbc dbctx.Context, themeID uuid.UUID, limit int) ([]*types.Session, error) {
	if themeID == uuid.Nil {
		return nil, fmt.Errorf("missing theme_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.Session
	if err := dbc.DB(r.db).
		Model(&types.Session{}).
		Joins("JOIN theme_occurrence AS o ON o.session_id = session.id").
		Where("o.theme_id = ?", themeID).
		Order("session.ended_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
