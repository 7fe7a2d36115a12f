package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type ThemeService interface {
	ApplyThemes(ctx context.Context, userID, sessionID uuid.UUID, candidates []domainagg.ThemeCandidate) (domainagg.ApplyThemesResult, error)
	ListThemes(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Theme, error)
	// ListThemeSessions returns the sessions a theme was seen in, newest first.
	ListThemeSessions(ctx context.Context, userID, themeID uuid.UUID, limit int) ([]*types.Session, error)
}

type themeService struct {
	log         *logger.Logger
	agg         domainagg.ThemeAggregate
	themes      repos.ThemeRepo
	occurrences repos.ThemeOccurrenceRepo
	bus         events.Bus
}

func NewThemeService(log *logger.Logger, agg domainagg.ThemeAggregate, themes repos.ThemeRepo, occurrences repos.ThemeOccurrenceRepo, bus events.Bus) ThemeService {
	return &themeService{
		log:         log.With("service", "ThemeService"),
		agg:         agg,
		themes:      themes,
		occurrences: occurrences,
		bus:         bus,
	}
}

func (s *themeService) ApplyThemes(ctx context.Context, userID, sessionID uuid.UUID, candidates []domainagg.ThemeCandidate) (domainagg.ApplyThemesResult, error) {
	res, err := s.agg.ApplyThemes(ctx, domainagg.ApplyThemesInput{UserID: userID, SessionID: sessionID, Candidates: candidates})
	if err != nil {
		return res, err
	}
	data := events.ThemesAppliedData{SessionID: sessionID, ThemeIDs: []uuid.UUID{}}
	for _, o := range res.Outcomes {
		switch o.Status {
		case domainagg.ThemeCreated:
			data.Created++
		case domainagg.ThemeIncremented:
			data.Updated++
		default:
			continue
		}
		data.ThemeIDs = append(data.ThemeIDs, o.ThemeID)
	}
	if len(data.ThemeIDs) > 0 {
		publish(ctx, s.bus, s.log, events.ThemesApplied, userID, data)
	}
	return res, nil
}

func (s *themeService) ListThemes(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Theme, error) {
	const op = "Memory.Theme.List"
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	rows, err := s.themes.ListByUser(dbctx.From(ctx), userID, limit)
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}

func (s *themeService) ListThemeSessions(ctx context.Context, userID, themeID uuid.UUID, limit int) ([]*types.Session, error) {
	const op = "Memory.Theme.ListSessions"
	if userID == uuid.Nil || themeID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id or theme_id")
	}
	dbc := dbctx.From(ctx)
	if _, err := s.themes.GetForUser(dbc, userID, themeID); err != nil {
		return nil, readError(op, err)
	}
	rows, err := s.occurrences.ListSessionsForTheme(dbc, themeID, limit)
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}
