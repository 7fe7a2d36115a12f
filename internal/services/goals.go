package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type GoalService interface {
	Create(ctx context.Context, in domainagg.CreateGoalInput) (*types.Goal, error)
	Promote(ctx context.Context, userID, artifactID uuid.UUID) (domainagg.PromoteArtifactResult, error)
	Transition(ctx context.Context, userID, goalID uuid.UUID, to memory.GoalStatus) (*types.Goal, error)
	UpdateDetails(ctx context.Context, in domainagg.UpdateGoalDetailsInput) (*types.Goal, error)
	Get(ctx context.Context, userID, goalID uuid.UUID) (*types.Goal, error)
	List(ctx context.Context, userID uuid.UUID, status *memory.GoalStatus, limit int) ([]*types.Goal, error)
}

type goalService struct {
	log   *logger.Logger
	agg   domainagg.GoalAggregate
	goals repos.GoalRepo
	bus   events.Bus
}

func NewGoalService(log *logger.Logger, agg domainagg.GoalAggregate, goals repos.GoalRepo, bus events.Bus) GoalService {
	return &goalService{
		log:   log.With("service", "GoalService"),
		agg:   agg,
		goals: goals,
		bus:   bus,
	}
}

func (s *goalService) Create(ctx context.Context, in domainagg.CreateGoalInput) (*types.Goal, error) {
	return s.agg.CreateGoal(ctx, in)
}

func (s *goalService) Promote(ctx context.Context, userID, artifactID uuid.UUID) (domainagg.PromoteArtifactResult, error) {
	return s.agg.PromoteArtifact(ctx, domainagg.PromoteArtifactInput{UserID: userID, ArtifactID: artifactID})
}

func (s *goalService) Transition(ctx context.Context, userID, goalID uuid.UUID, to memory.GoalStatus) (*types.Goal, error) {
	to = memory.GoalStatus(strings.ToLower(strings.TrimSpace(string(to))))
	g, err := s.agg.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goalID, To: to})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.bus, s.log, events.GoalTransitioned, userID, events.GoalTransitionedData{
		GoalID:  g.ID,
		Status:  string(g.Status),
		Version: g.Version,
	})
	return g, nil
}

func (s *goalService) UpdateDetails(ctx context.Context, in domainagg.UpdateGoalDetailsInput) (*types.Goal, error) {
	return s.agg.UpdateGoalDetails(ctx, in)
}

func (s *goalService) Get(ctx context.Context, userID, goalID uuid.UUID) (*types.Goal, error) {
	const op = "Memory.Goal.Get"
	if userID == uuid.Nil || goalID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id or goal_id")
	}
	g, err := s.goals.GetForUser(dbctx.From(ctx), userID, goalID)
	if err != nil {
		return nil, readError(op, err)
	}
	return g, nil
}

func (s *goalService) List(ctx context.Context, userID uuid.UUID, status *memory.GoalStatus, limit int) ([]*types.Goal, error) {
	const op = "Memory.Goal.List"
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	if status != nil && !status.Valid() {
		return nil, invalidInput(op, "unknown goal status: "+string(*status))
	}
	rows, err := s.goals.ListByUser(dbctx.From(ctx), userID, status, limit)
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}
