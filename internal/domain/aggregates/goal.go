package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/domain/memory"
)

var GoalAggregateContract = Contract{
	Name:      "Memory.GoalAggregate",
	Writes:    []string{"goal"},
	Invariant: "Status moves only along the goal state machine, compare-and-set on (status, version).",
}

// GoalAggregate tracks user commitments.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvalidState, CodeInvalidTransition, CodeRetryable, CodeInternal.
type GoalAggregate interface {
	Aggregate

	CreateGoal(ctx context.Context, in CreateGoalInput) (*memory.Goal, error)

	// PromoteArtifact creates a goal from a goal artifact. Repeated calls return the same goal.
	PromoteArtifact(ctx context.Context, in PromoteArtifactInput) (PromoteArtifactResult, error)

	TransitionGoal(ctx context.Context, in TransitionGoalInput) (*memory.Goal, error)

	// UpdateGoalDetails edits a goal that has not reached a terminal status.
	UpdateGoalDetails(ctx context.Context, in UpdateGoalDetailsInput) (*memory.Goal, error)
}

type CreateGoalInput struct {
	UserID      uuid.UUID
	Description string
	TimeHorizon *string
	TargetDate  *time.Time
	ArtifactID  *uuid.UUID
}

type PromoteArtifactInput struct {
	UserID     uuid.UUID
	ArtifactID uuid.UUID
}

type PromoteArtifactResult struct {
	Goal    *memory.Goal
	Created bool
}

type TransitionGoalInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
	To     memory.GoalStatus
}

type UpdateGoalDetailsInput struct {
	UserID          uuid.UUID
	GoalID          uuid.UUID
	Description     *string
	TimeHorizon     *string
	TargetDate      *time.Time
	ClearTargetDate bool
}
