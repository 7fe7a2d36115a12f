package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/ids"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type ReconciliationReport struct {
	RunID    string                      `json:"run_id"`
	Users    int                         `json:"users"`
	Checked  int                         `json:"checked"`
	Repaired int                         `json:"repaired"`
	Failed   []uuid.UUID                 `json:"failed,omitempty"`
	Entries  []types.ReconciliationEntry `json:"entries"`
}

type AuditService interface {
	AuditUser(ctx context.Context, userID uuid.UUID) (ReconciliationReport, error)
	// AuditAll audits every user with themes. A user that fails is listed in
	// Failed and does not stop the run.
	AuditAll(ctx context.Context) (ReconciliationReport, error)
	AuditUsers(ctx context.Context, userIDs []uuid.UUID) (ReconciliationReport, error)
}

type auditService struct {
	log         *logger.Logger
	agg         domainagg.ConsistencyAggregate
	themes      repos.ThemeRepo
	bus         events.Bus
	metrics     *observability.Metrics
	concurrency int
}

type AuditServiceDeps struct {
	Aggregate   domainagg.ConsistencyAggregate
	Themes      repos.ThemeRepo
	Bus         events.Bus
	Metrics     *observability.Metrics
	Concurrency int
}

func NewAuditService(log *logger.Logger, deps AuditServiceDeps) AuditService {
	if deps.Concurrency <= 0 {
		deps.Concurrency = 4
	}
	return &auditService{
		log:         log.With("service", "AuditService"),
		agg:         deps.Aggregate,
		themes:      deps.Themes,
		bus:         deps.Bus,
		metrics:     deps.Metrics,
		concurrency: deps.Concurrency,
	}
}

func (s *auditService) AuditUser(ctx context.Context, userID uuid.UUID) (ReconciliationReport, error) {
	runID := ids.New()
	res, err := s.auditOne(ctx, runID, userID)
	if err != nil {
		s.metrics.IncAuditRun("error")
		return ReconciliationReport{RunID: runID, Entries: []types.ReconciliationEntry{}}, err
	}
	s.metrics.IncAuditRun("ok")
	return ReconciliationReport{
		RunID:    runID,
		Users:    1,
		Checked:  res.Checked,
		Repaired: len(res.Entries),
		Entries:  res.Entries,
	}, nil
}

func (s *auditService) AuditAll(ctx context.Context) (ReconciliationReport, error) {
	userIDs, err := s.themes.ListUserIDs(dbctx.From(ctx))
	if err != nil {
		s.metrics.IncAuditRun("error")
		return ReconciliationReport{Entries: []types.ReconciliationEntry{}}, readError("Memory.Consistency.AuditAll", err)
	}
	return s.AuditUsers(ctx, userIDs)
}

func (s *auditService) AuditUsers(ctx context.Context, userIDs []uuid.UUID) (ReconciliationReport, error) {
	report := ReconciliationReport{RunID: ids.New(), Users: len(userIDs), Entries: []types.ReconciliationEntry{}}
	start := time.Now()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			res, err := s.auditOne(gctx, report.RunID, userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn("Audit failed for user", "run_id", report.RunID, "user_id", userID.String(), "error", err)
				report.Failed = append(report.Failed, userID)
				return nil
			}
			report.Checked += res.Checked
			report.Repaired += len(res.Entries)
			report.Entries = append(report.Entries, res.Entries...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.IncAuditRun("canceled")
		return report, err
	}

	status := "ok"
	if len(report.Failed) > 0 {
		status = "partial"
	}
	s.metrics.IncAuditRun(status)
	s.log.Info("Audit finished",
		"run_id", report.RunID,
		"users", report.Users,
		"checked", report.Checked,
		"repaired", report.Repaired,
		"failed", len(report.Failed),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (s *auditService) auditOne(ctx context.Context, runID string, userID uuid.UUID) (domainagg.ReconcileUserResult, error) {
	res, err := s.agg.ReconcileUser(ctx, domainagg.ReconcileUserInput{UserID: userID, RunID: runID})
	if err != nil {
		return res, err
	}
	for _, e := range res.Entries {
		publish(ctx, s.bus, s.log, events.ThemeReconciled, userID, events.ThemeReconciledData{
			RunID:       e.RunID,
			ThemeID:     e.ThemeID,
			StoredCount: e.StoredCount,
			ActualCount: e.ActualCount,
		})
	}
	return res, nil
}
