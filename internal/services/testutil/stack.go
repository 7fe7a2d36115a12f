// Package testutil wires the memory services over an in-memory SQLite database
// for tests in the transport packages.
package testutil

import (
	"testing"

	"gorm.io/gorm"

	dataagg "github.com/danfirsten/Standup/internal/data/aggregates"
	"github.com/danfirsten/Standup/internal/data/repos"
	repotest "github.com/danfirsten/Standup/internal/data/repos/testutil"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
)

type Stack struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Bus     *events.MemoryBus
	Metrics *observability.Metrics

	ThemeRepo repos.ThemeRepo

	Profiles  services.ProfileService
	Sessions  services.SessionService
	Themes    services.ThemeService
	Artifacts services.ArtifactService
	Ingest    services.IngestService
	Goals     services.GoalService
	Audit     services.AuditService
}

// NewStack builds every service. A nil pipeline makes extractions ingest inline.
func NewStack(tb testing.TB, pipeline services.SessionPipeline) *Stack {
	tb.Helper()
	db := repotest.DB(tb)
	log := repotest.Logger(tb)
	bus := events.NewMemoryBus()
	metrics := observability.New()
	base := dataagg.BaseDeps{DB: db, Log: log, Hooks: dataagg.NewObservabilityHooks(metrics)}

	sessionRepo := repos.NewSessionRepo(db, log)
	messageRepo := repos.NewMessageRepo(db, log)
	themeRepo := repos.NewThemeRepo(db, log)
	occRepo := repos.NewThemeOccurrenceRepo(db, log)
	artifactRepo := repos.NewArtifactRepo(db, log)
	goalRepo := repos.NewGoalRepo(db, log)

	s := &Stack{DB: db, Log: log, Bus: bus, Metrics: metrics, ThemeRepo: themeRepo}
	s.Profiles = services.NewProfileService(db, log, repos.NewProfileRepo(db, log))
	s.Themes = services.NewThemeService(log, dataagg.NewThemeAggregate(dataagg.ThemeAggregateDeps{
		Base: base, Sessions: sessionRepo, Themes: themeRepo, Occurrences: occRepo,
	}), themeRepo, occRepo, bus)
	s.Artifacts = services.NewArtifactService(log, dataagg.NewArtifactAggregate(dataagg.ArtifactAggregateDeps{
		Base: base, Sessions: sessionRepo, Artifacts: artifactRepo,
	}), artifactRepo, bus)
	s.Ingest = services.NewIngestService(log, s.Themes, s.Artifacts)
	s.Sessions = services.NewSessionService(log, services.SessionServiceDeps{
		Aggregate: dataagg.NewSessionAggregate(dataagg.SessionAggregateDeps{Base: base, Sessions: sessionRepo, Messages: messageRepo}),
		Sessions:  sessionRepo,
		Messages:  messageRepo,
		Ingest:    s.Ingest,
		Pipeline:  pipeline,
		Bus:       bus,
	})
	s.Goals = services.NewGoalService(log, dataagg.NewGoalAggregate(dataagg.GoalAggregateDeps{
		Base: base, Goals: goalRepo, Artifacts: artifactRepo,
	}), goalRepo, bus)
	s.Audit = services.NewAuditService(log, services.AuditServiceDeps{
		Aggregate: dataagg.NewConsistencyAggregate(dataagg.ConsistencyAggregateDeps{
			Base: base, Themes: themeRepo, Occurrences: occRepo, Reconciliations: repos.NewReconciliationRepo(db, log),
		}),
		Themes:  themeRepo,
		Bus:     bus,
		Metrics: metrics,
	})
	return s
}
