package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/normalization"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

const maxGoalDescriptionRunes = 2000

type GoalAggregateDeps struct {
	Base BaseDeps

	Goals     repos.GoalRepo
	Artifacts repos.ArtifactRepo
}

type goalAggregate struct {
	deps GoalAggregateDeps
}

func NewGoalAggregate(deps GoalAggregateDeps) domainagg.GoalAggregate {
	deps.Base = deps.Base.withDefaults()
	return &goalAggregate{deps: deps}
}

func (a *goalAggregate) Contract() domainagg.Contract {
	return domainagg.GoalAggregateContract
}

func (a *goalAggregate) CreateGoal(ctx context.Context, in domainagg.CreateGoalInput) (*types.Goal, error) {
	const op = "Memory.Goal.Create"
	if in.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	desc, err := cleanGoalDescription(in.Description)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	row := &types.Goal{
		ID:          uuid.New(),
		UserID:      in.UserID,
		Description: desc,
		TimeHorizon: normalization.ParseInputStringPtr(in.TimeHorizon),
		Status:      memory.GoalNotStarted,
	}
	if in.TargetDate != nil {
		td := in.TargetDate.UTC()
		row.TargetDate = &td
	}
	if in.ArtifactID != nil && *in.ArtifactID != uuid.Nil {
		id := *in.ArtifactID
		row.ArtifactID = &id
	}
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if row.ArtifactID != nil {
			if _, err := a.deps.Artifacts.GetForUser(dbc, in.UserID, *row.ArtifactID); err != nil {
				return err
			}
		}
		_, err := a.deps.Goals.Create(dbc, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (a *goalAggregate) PromoteArtifact(ctx context.Context, in domainagg.PromoteArtifactInput) (domainagg.PromoteArtifactResult, error) {
	const op = "Memory.Goal.PromoteArtifact"
	var out domainagg.PromoteArtifactResult
	if in.UserID == uuid.Nil || in.ArtifactID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or artifact_id", nil)
	}
	err := executeWriteWithRetry(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		art, err := a.deps.Artifacts.GetForUser(dbc, in.UserID, in.ArtifactID)
		if err != nil {
			return err
		}
		if art.Type != memory.ArtifactGoal {
			return ValidationError(fmt.Sprintf("artifact of type %s cannot be promoted to a goal", art.Type))
		}
		existing, err := a.deps.Goals.GetByPromotedFrom(dbc, in.UserID, art.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			out = domainagg.PromoteArtifactResult{Goal: existing, Created: false}
			return nil
		}
		payload, err := art.Payload()
		if err != nil {
			return fmt.Errorf("stored goal artifact is unreadable: %w", err)
		}
		gc := payload.(memory.GoalContent)
		desc, err := cleanGoalDescription(gc.Description)
		if err != nil {
			return err
		}
		artifactID := art.ID
		row := &types.Goal{
			ID:                     uuid.New(),
			UserID:                 in.UserID,
			ArtifactID:             &artifactID,
			PromotedFromArtifactID: &artifactID,
			Description:            desc,
			TimeHorizon:            normalization.ParseInputStringPtr(gc.Horizon),
			Status:                 memory.GoalNotStarted,
		}
		created, err := a.deps.Goals.CreatePromotedIfAbsent(dbc, row)
		if err != nil {
			return err
		}
		if created {
			out = domainagg.PromoteArtifactResult{Goal: row, Created: true}
			return nil
		}
		// Another promotion of this artifact won the insert.
		winner, err := a.deps.Goals.GetByPromotedFrom(dbc, in.UserID, art.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConflictError("goal promoted concurrently is not visible yet")
		}
		if err != nil {
			return err
		}
		out = domainagg.PromoteArtifactResult{Goal: winner, Created: false}
		return nil
	})
	if err != nil {
		return domainagg.PromoteArtifactResult{}, err
	}
	return out, nil
}

// TransitionGoal validates the edge against the stored status, then writes with
// a status compare-and-set. Losing that race re-reads and re-validates, so a
// concurrent writer can only turn the call into InvalidTransition, never skip an edge.
func (a *goalAggregate) TransitionGoal(ctx context.Context, in domainagg.TransitionGoalInput) (*types.Goal, error) {
	const op = "Memory.Goal.Transition"
	if in.UserID == uuid.Nil || in.GoalID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or goal_id", nil)
	}
	if !in.To.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "unknown goal status: "+string(in.To), nil)
	}
	var out *types.Goal
	err := executeWriteWithRetry(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		g, err := a.deps.Goals.GetForUser(dbc, in.UserID, in.GoalID)
		if err != nil {
			return err
		}
		if !memory.CanTransition(g.Status, in.To) {
			return InvalidTransitionError(fmt.Sprintf("%s -> %s", g.Status, in.To))
		}
		ok, err := a.deps.Base.CASGuard.UpdateIfCurrent(dbc, types.Goal{}.TableName(), g.ID, g.Version, priorStatusNames(in.To), map[string]any{
			"status":     string(in.To),
			"updated_at": a.deps.Base.now(),
		})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "goal status changed concurrently"); err != nil {
			return err
		}
		out, err = a.deps.Goals.GetForUser(dbc, in.UserID, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *goalAggregate) UpdateGoalDetails(ctx context.Context, in domainagg.UpdateGoalDetailsInput) (*types.Goal, error) {
	const op = "Memory.Goal.UpdateDetails"
	if in.UserID == uuid.Nil || in.GoalID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or goal_id", nil)
	}
	updates := map[string]interface{}{}
	if in.Description != nil {
		desc, err := cleanGoalDescription(*in.Description)
		if err != nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
		updates["description"] = desc
	}
	if in.TimeHorizon != nil {
		updates["time_horizon"] = normalization.ParseInputStringPtr(in.TimeHorizon)
	}
	switch {
	case in.ClearTargetDate:
		updates["target_date"] = nil
	case in.TargetDate != nil:
		updates["target_date"] = in.TargetDate.UTC()
	}

	var out *types.Goal
	err := executeWriteWithRetry(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		g, err := a.deps.Goals.GetForUser(dbc, in.UserID, in.GoalID)
		if err != nil {
			return err
		}
		if err := RequireStatusAllowed(string(g.Status), string(memory.GoalNotStarted), string(memory.GoalInProgress)); err != nil {
			return err
		}
		if len(updates) == 0 {
			out = g
			return nil
		}
		batch := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			batch[k] = v
		}
		ok, err := a.deps.Goals.UpdateByVersion(dbc, g.ID, g.Version, batch)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "goal changed concurrently"); err != nil {
			return err
		}
		out, err = a.deps.Goals.GetForUser(dbc, in.UserID, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func priorStatusNames(to memory.GoalStatus) []string {
	prior := memory.PriorStatuses(to)
	out := make([]string, 0, len(prior))
	for _, s := range prior {
		out = append(out, string(s))
	}
	return out
}

func cleanGoalDescription(raw string) (string, error) {
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return "", ValidationError("goal description is required")
	}
	if len([]rune(desc)) > maxGoalDescriptionRunes {
		return "", ValidationError(fmt.Sprintf("goal description longer than %d characters", maxGoalDescriptionRunes))
	}
	return desc, nil
}
