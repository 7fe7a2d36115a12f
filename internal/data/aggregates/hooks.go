package aggregates

import (
	"time"

	"github.com/danfirsten/Standup/internal/observability"
)

// Hooks receives one signal per aggregate write outcome.
type Hooks interface {
	ObserveOperation(op, status string, dur time.Duration)
	IncConflict(op string)
	IncRetry(op string)
	IncReconciled(op string, repaired int)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncReconciled(string, int)                      {}

type metricsHooks struct{ m *observability.Metrics }

// NewObservabilityHooks reports aggregate outcomes to metrics. A nil registry
// yields hooks that drop everything.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

func (h metricsHooks) ObserveOperation(op, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(op, status, dur)
}

func (h metricsHooks) IncConflict(op string) { h.m.IncAggregateConflict(op) }
func (h metricsHooks) IncRetry(op string)    { h.m.IncAggregateRetry(op) }

func (h metricsHooks) IncReconciled(op string, repaired int) {
	if repaired > 0 {
		h.m.AddThemeReconciled(op, repaired)
	}
}
