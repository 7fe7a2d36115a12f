package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/domain/memory"
)

var ConsistencyAggregateContract = Contract{
	Name:      "Memory.ConsistencyAggregate",
	Writes:    []string{"theme", "reconciliation_report"},
	Invariant: "Only writer that may overwrite theme.occurrence_count; theme_occurrence rows are the truth.",
}

// ConsistencyAggregate audits and repairs theme counters for one user.
type ConsistencyAggregate interface {
	Aggregate

	ReconcileUser(ctx context.Context, in ReconcileUserInput) (ReconcileUserResult, error)
}

type ReconcileUserInput struct {
	UserID uuid.UUID
	RunID  string
}

type ReconcileUserResult struct {
	UserID  uuid.UUID                    `json:"user_id"`
	Checked int                          `json:"checked"`
	Entries []memory.ReconciliationEntry `json:"entries"`
}
