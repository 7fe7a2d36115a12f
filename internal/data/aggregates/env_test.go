package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	repotest "github.com/danfirsten/Standup/internal/data/repos/testutil"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

type testEnv struct {
	db    *gorm.DB
	hooks *spyHooks
	base  BaseDeps

	sessionRepo  repos.SessionRepo
	messageRepo  repos.MessageRepo
	themeRepo    repos.ThemeRepo
	occRepo      repos.ThemeOccurrenceRepo
	artifactRepo repos.ArtifactRepo
	goalRepo     repos.GoalRepo
	reconRepo    repos.ReconciliationRepo

	sessions    domainagg.SessionAggregate
	themes      domainagg.ThemeAggregate
	artifacts   domainagg.ArtifactAggregate
	goals       domainagg.GoalAggregate
	consistency domainagg.ConsistencyAggregate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	hooks := &spyHooks{}
	base := BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: hooks,
		Retry: RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}

	env := &testEnv{
		db:           db,
		hooks:        hooks,
		base:         base,
		sessionRepo:  repos.NewSessionRepo(db, log),
		messageRepo:  repos.NewMessageRepo(db, log),
		themeRepo:    repos.NewThemeRepo(db, log),
		occRepo:      repos.NewThemeOccurrenceRepo(db, log),
		artifactRepo: repos.NewArtifactRepo(db, log),
		goalRepo:     repos.NewGoalRepo(db, log),
		reconRepo:    repos.NewReconciliationRepo(db, log),
	}
	artifactRepo := env.artifactRepo

	env.sessions = NewSessionAggregate(SessionAggregateDeps{Base: base, Sessions: env.sessionRepo, Messages: env.messageRepo})
	env.themes = NewThemeAggregate(ThemeAggregateDeps{Base: base, Sessions: env.sessionRepo, Themes: env.themeRepo, Occurrences: env.occRepo})
	env.artifacts = NewArtifactAggregate(ArtifactAggregateDeps{Base: base, Sessions: env.sessionRepo, Artifacts: artifactRepo})
	env.goals = NewGoalAggregate(GoalAggregateDeps{Base: base, Goals: env.goalRepo, Artifacts: artifactRepo})
	env.consistency = NewConsistencyAggregate(ConsistencyAggregateDeps{Base: base, Themes: env.themeRepo, Occurrences: env.occRepo, Reconciliations: env.reconRepo})
	return env
}

func (e *testEnv) closedSession(t *testing.T, userID uuid.UUID, endedAt time.Time) *types.Session {
	t.Helper()
	return repotest.SeedSession(t, context.Background(), e.db, userID, &endedAt)
}

func (e *testEnv) openSession(t *testing.T, userID uuid.UUID) *types.Session {
	t.Helper()
	return repotest.SeedSession(t, context.Background(), e.db, userID, nil)
}

func (e *testEnv) userThemes(t *testing.T, userID uuid.UUID) []*types.Theme {
	t.Helper()
	rows, err := e.themeRepo.ListAllByUser(dbctx.From(context.Background()), userID)
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	return rows
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("want %s got=%v", code, err)
	}
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 10, 0, 0, 0, time.UTC)
}
