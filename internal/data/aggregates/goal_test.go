package aggregates

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/pointers"
)

func TestGoalTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	goal, err := env.goals.CreateGoal(ctx, domainagg.CreateGoalInput{UserID: userID, Description: "Lead a project", TimeHorizon: pointers.String("Q3")})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if goal.Status != memory.GoalNotStarted {
		t.Fatalf("new goal should be not_started, got %s", goal.Status)
	}

	_, err = env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: memory.GoalDone})
	requireCode(t, err, domainagg.CodeInvalidTransition)
	stored, err := env.goalRepo.GetForUser(dbctx.From(ctx), userID, goal.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if stored.Status != memory.GoalNotStarted {
		t.Fatalf("rejected transition must not write, got %s", stored.Status)
	}

	started, err := env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: memory.GoalInProgress})
	if err != nil {
		t.Fatalf("TransitionGoal in_progress: %v", err)
	}
	if started.Status != memory.GoalInProgress || started.Version != goal.Version+1 {
		t.Fatalf("unexpected goal: status=%s version=%d", started.Status, started.Version)
	}
	done, err := env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: memory.GoalDone})
	if err != nil {
		t.Fatalf("TransitionGoal done: %v", err)
	}
	if done.Status != memory.GoalDone {
		t.Fatalf("want done got %s", done.Status)
	}

	for _, to := range []memory.GoalStatus{memory.GoalInProgress, memory.GoalDropped, memory.GoalNotStarted} {
		_, err = env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: to})
		requireCode(t, err, domainagg.CodeInvalidTransition)
	}

	_, err = env.goals.UpdateGoalDetails(ctx, domainagg.UpdateGoalDetailsInput{UserID: userID, GoalID: goal.ID, Description: pointers.String("new text")})
	requireCode(t, err, domainagg.CodeInvalidState)

	_, err = env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: "paused"})
	requireCode(t, err, domainagg.CodeValidation)

	_, err = env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: uuid.New(), GoalID: goal.ID, To: memory.GoalDropped})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestConcurrentGoalTransitionsApplyOneEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	goal, err := env.goals.CreateGoal(ctx, domainagg.CreateGoalInput{UserID: userID, Description: "Negotiate raise"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: memory.GoalInProgress}); err != nil {
		t.Fatalf("TransitionGoal: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, to := range []memory.GoalStatus{memory.GoalDone, memory.GoalDropped} {
		wg.Add(1)
		go func(i int, to memory.GoalStatus) {
			defer wg.Done()
			_, errs[i] = env.goals.TransitionGoal(ctx, domainagg.TransitionGoalInput{UserID: userID, GoalID: goal.ID, To: to})
		}(i, to)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domainagg.IsCode(err, domainagg.CodeInvalidTransition):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("exactly one terminal transition should win, got %d", ok)
	}
	stored, err := env.goalRepo.GetForUser(dbctx.From(ctx), userID, goal.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if !stored.Status.Terminal() || stored.Version != goal.Version+2 {
		t.Fatalf("unexpected final goal: status=%s version=%d", stored.Status, stored.Version)
	}
}

func TestUpdateGoalDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	target := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	goal, err := env.goals.CreateGoal(ctx, domainagg.CreateGoalInput{UserID: userID, Description: "Mentor a junior", TargetDate: &target})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	updated, err := env.goals.UpdateGoalDetails(ctx, domainagg.UpdateGoalDetailsInput{
		UserID: userID, GoalID: goal.ID, Description: pointers.String("Mentor two juniors"), TimeHorizon: pointers.String("this year"),
	})
	if err != nil {
		t.Fatalf("UpdateGoalDetails: %v", err)
	}
	if updated.Description != "Mentor two juniors" || updated.TimeHorizon == nil || *updated.TimeHorizon != "this year" {
		t.Fatalf("unexpected goal: %+v", updated)
	}
	if updated.TargetDate == nil || !updated.TargetDate.Equal(target) {
		t.Fatalf("target date should be untouched: %v", updated.TargetDate)
	}

	cleared, err := env.goals.UpdateGoalDetails(ctx, domainagg.UpdateGoalDetailsInput{UserID: userID, GoalID: goal.ID, ClearTargetDate: true})
	if err != nil {
		t.Fatalf("UpdateGoalDetails clear: %v", err)
	}
	if cleared.TargetDate != nil {
		t.Fatalf("target date should be cleared")
	}

	_, err = env.goals.UpdateGoalDetails(ctx, domainagg.UpdateGoalDetailsInput{UserID: userID, GoalID: goal.ID, Description: pointers.String("  ")})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestPromoteArtifactIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	sess := env.closedSession(t, userID, day(5))
	art, err := env.artifacts.GenerateArtifact(ctx, domainagg.GenerateArtifactInput{
		UserID: userID, SessionID: &sess.ID, Content: memory.GoalContent{Description: "Give a conference talk", Horizon: pointers.String("6 months")},
	})
	if err != nil {
		t.Fatalf("GenerateArtifact: %v", err)
	}

	first, err := env.goals.PromoteArtifact(ctx, domainagg.PromoteArtifactInput{UserID: userID, ArtifactID: art.Artifact.ID})
	if err != nil {
		t.Fatalf("PromoteArtifact: %v", err)
	}
	if !first.Created || first.Goal.Description != "Give a conference talk" || first.Goal.ArtifactID == nil || *first.Goal.ArtifactID != art.Artifact.ID {
		t.Fatalf("unexpected promoted goal: %+v", first.Goal)
	}
	second, err := env.goals.PromoteArtifact(ctx, domainagg.PromoteArtifactInput{UserID: userID, ArtifactID: art.Artifact.ID})
	if err != nil {
		t.Fatalf("PromoteArtifact again: %v", err)
	}
	if second.Created || second.Goal.ID != first.Goal.ID {
		t.Fatalf("promotion should be idempotent: %+v", second)
	}

	summary, err := env.artifacts.GenerateArtifact(ctx, domainagg.GenerateArtifactInput{UserID: userID, SessionID: &sess.ID, Content: memory.SummaryContent{Text: "recap"}})
	if err != nil {
		t.Fatalf("GenerateArtifact summary: %v", err)
	}
	_, err = env.goals.PromoteArtifact(ctx, domainagg.PromoteArtifactInput{UserID: userID, ArtifactID: summary.Artifact.ID})
	requireCode(t, err, domainagg.CodeValidation)

	_, err = env.goals.CreateGoal(ctx, domainagg.CreateGoalInput{UserID: uuid.New(), Description: "steal", ArtifactID: &art.Artifact.ID})
	requireCode(t, err, domainagg.CodeNotFound)
}
