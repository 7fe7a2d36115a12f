package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// AuditScheduler audits users whose themes changed since the last tick and
// sweeps every user each FullEvery ticks.
type AuditScheduler struct {
	log       *logger.Logger
	audit     AuditService
	interval  time.Duration
	fullEvery int

	mu    sync.Mutex
	dirty map[uuid.UUID]struct{}
}

func NewAuditScheduler(log *logger.Logger, audit AuditService, interval time.Duration, fullEvery int) *AuditScheduler {
	if fullEvery <= 0 {
		fullEvery = 12
	}
	return &AuditScheduler{
		log:       log.With("service", "AuditScheduler"),
		audit:     audit,
		interval:  interval,
		fullEvery: fullEvery,
		dirty:     map[uuid.UUID]struct{}{},
	}
}

// HandleEvent marks the user of a themes.applied event for the next tick.
func (s *AuditScheduler) HandleEvent(ev events.Event) {
	if ev.Type != events.ThemesApplied || ev.UserID == uuid.Nil {
		return
	}
	s.mu.Lock()
	s.dirty[ev.UserID] = struct{}{}
	s.mu.Unlock()
}

func (s *AuditScheduler) drain() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.dirty))
	for id := range s.dirty {
		out = append(out, id)
	}
	s.dirty = map[uuid.UUID]struct{}{}
	return out
}

// Tick runs one scheduling step. full forces a sweep of every user.
func (s *AuditScheduler) Tick(ctx context.Context, full bool) {
	var err error
	if full {
		_, err = s.audit.AuditAll(ctx)
		s.drain()
	} else if users := s.drain(); len(users) > 0 {
		_, err = s.audit.AuditUsers(ctx, users)
	}
	if err != nil && ctx.Err() == nil {
		s.log.Warn("Scheduled audit failed", "full", full, "error", err)
	}
}

// Run blocks until ctx ends. A non-positive interval disables the scheduler.
func (s *AuditScheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx, n%s.fullEvery == 0)
		}
	}
}
