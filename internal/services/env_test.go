package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dataagg "github.com/danfirsten/Standup/internal/data/aggregates"
	"github.com/danfirsten/Standup/internal/data/repos"
	repotest "github.com/danfirsten/Standup/internal/data/repos/testutil"
	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/observability"
)

type fakePipeline struct {
	mu    sync.Mutex
	calls []Extraction
	err   error
}

func (p *fakePipeline) StartSessionProcessing(_ context.Context, _, sessionID uuid.UUID, ext Extraction) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.calls = append(p.calls, ext)
	return "memory-session-" + sessionID.String(), nil
}

type testServices struct {
	db      *gorm.DB
	bus     *events.MemoryBus
	metrics *observability.Metrics

	themeRepo repos.ThemeRepo

	profiles  ProfileService
	sessions  SessionService
	themes    ThemeService
	artifacts ArtifactService
	ingest    IngestService
	goals     GoalService
	audit     AuditService
}

func newTestServices(t *testing.T, pipeline SessionPipeline) *testServices {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	bus := events.NewMemoryBus()
	metrics := observability.New()
	base := dataagg.BaseDeps{DB: db, Log: log, Hooks: dataagg.NewObservabilityHooks(metrics)}

	sessionRepo := repos.NewSessionRepo(db, log)
	messageRepo := repos.NewMessageRepo(db, log)
	themeRepo := repos.NewThemeRepo(db, log)
	occRepo := repos.NewThemeOccurrenceRepo(db, log)
	artifactRepo := repos.NewArtifactRepo(db, log)
	goalRepo := repos.NewGoalRepo(db, log)
	reconRepo := repos.NewReconciliationRepo(db, log)

	s := &testServices{db: db, bus: bus, metrics: metrics, themeRepo: themeRepo}
	s.profiles = NewProfileService(db, log, repos.NewProfileRepo(db, log))
	s.themes = NewThemeService(log, dataagg.NewThemeAggregate(dataagg.ThemeAggregateDeps{
		Base: base, Sessions: sessionRepo, Themes: themeRepo, Occurrences: occRepo,
	}), themeRepo, occRepo, bus)
	s.artifacts = NewArtifactService(log, dataagg.NewArtifactAggregate(dataagg.ArtifactAggregateDeps{
		Base: base, Sessions: sessionRepo, Artifacts: artifactRepo,
	}), artifactRepo, bus)
	s.ingest = NewIngestService(log, s.themes, s.artifacts)
	s.sessions = NewSessionService(log, SessionServiceDeps{
		Aggregate: dataagg.NewSessionAggregate(dataagg.SessionAggregateDeps{Base: base, Sessions: sessionRepo, Messages: messageRepo}),
		Sessions:  sessionRepo,
		Messages:  messageRepo,
		Ingest:    s.ingest,
		Pipeline:  pipeline,
		Bus:       bus,
	})
	s.goals = NewGoalService(log, dataagg.NewGoalAggregate(dataagg.GoalAggregateDeps{
		Base: base, Goals: goalRepo, Artifacts: artifactRepo,
	}), goalRepo, bus)
	s.audit = NewAuditService(log, AuditServiceDeps{
		Aggregate: dataagg.NewConsistencyAggregate(dataagg.ConsistencyAggregateDeps{
			Base: base, Themes: themeRepo, Occurrences: occRepo, Reconciliations: reconRepo,
		}),
		Themes:      themeRepo,
		Bus:         bus,
		Metrics:     metrics,
		Concurrency: 2,
	})
	return s
}

func (s *testServices) closedSession(t *testing.T, userID uuid.UUID, endedAt time.Time) *types.Session {
	t.Helper()
	return repotest.SeedSession(t, context.Background(), s.db, userID, &endedAt)
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 10, 0, 0, 0, time.UTC)
}
