package app

import (
	"gorm.io/gorm"

	dataagg "github.com/danfirsten/Standup/internal/data/aggregates"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
	"github.com/danfirsten/Standup/internal/temporalx/memoryflow"
)

type Services struct {
	Profiles  services.ProfileService
	Sessions  services.SessionService
	Themes    services.ThemeService
	Artifacts services.ArtifactService
	Ingest    services.IngestService
	Goals     services.GoalService
	Audit     services.AuditService

	// Pipeline is nil when Temporal is disabled.
	Pipeline  *memoryflow.Pipeline
	Scheduler *services.AuditScheduler
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	base := dataagg.BaseDeps{DB: db, Log: log, Hooks: dataagg.NewObservabilityHooks(metrics)}

	var out Services
	var pipeline services.SessionPipeline
	if clients.Temporal != nil {
		out.Pipeline = memoryflow.NewPipeline(log, clients.Temporal, cfg.Temporal.TaskQueue, metrics)
		pipeline = out.Pipeline
	}

	out.Profiles = services.NewProfileService(db, log, repos.Profile)
	out.Themes = services.NewThemeService(log, dataagg.NewThemeAggregate(dataagg.ThemeAggregateDeps{
		Base:        base,
		Sessions:    repos.Session,
		Themes:      repos.Theme,
		Occurrences: repos.ThemeOccurrence,
	}), repos.Theme, repos.ThemeOccurrence, clients.Bus)
	out.Artifacts = services.NewArtifactService(log, dataagg.NewArtifactAggregate(dataagg.ArtifactAggregateDeps{
		Base:      base,
		Sessions:  repos.Session,
		Artifacts: repos.Artifact,
	}), repos.Artifact, clients.Bus)
	out.Ingest = services.NewIngestService(log, out.Themes, out.Artifacts)
	out.Sessions = services.NewSessionService(log, services.SessionServiceDeps{
		Aggregate: dataagg.NewSessionAggregate(dataagg.SessionAggregateDeps{
			Base:     base,
			Sessions: repos.Session,
			Messages: repos.Message,
		}),
		Sessions: repos.Session,
		Messages: repos.Message,
		Ingest:   out.Ingest,
		Pipeline: pipeline,
		Bus:      clients.Bus,
	})
	out.Goals = services.NewGoalService(log, dataagg.NewGoalAggregate(dataagg.GoalAggregateDeps{
		Base:      base,
		Goals:     repos.Goal,
		Artifacts: repos.Artifact,
	}), repos.Goal, clients.Bus)
	out.Audit = services.NewAuditService(log, services.AuditServiceDeps{
		Aggregate: dataagg.NewConsistencyAggregate(dataagg.ConsistencyAggregateDeps{
			Base:            base,
			Themes:          repos.Theme,
			Occurrences:     repos.ThemeOccurrence,
			Reconciliations: repos.Reconciliation,
		}),
		Themes:      repos.Theme,
		Bus:         clients.Bus,
		Metrics:     metrics,
		Concurrency: cfg.AuditConcurrency,
	})

	// Without a shared bus no themes.applied events arrive, so every tick sweeps.
	fullEvery := cfg.AuditFullEvery
	if clients.Redis == nil {
		fullEvery = 1
	}
	out.Scheduler = services.NewAuditScheduler(log, out.Audit, cfg.AuditInterval, fullEvery)
	return out
}
