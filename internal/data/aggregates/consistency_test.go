package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	repotest "github.com/danfirsten/Standup/internal/data/repos/testutil"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

func TestReconcileUserRepairsDriftedCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	s1 := env.closedSession(t, userID, day(5))
	s2 := env.closedSession(t, userID, day(9))

	drifted := repotest.SeedTheme(t, ctx, env.db, userID, "Visibility", "visibility", 7, day(1))
	repotest.SeedOccurrence(t, ctx, env.db, drifted.ID, s1.ID)
	repotest.SeedOccurrence(t, ctx, env.db, drifted.ID, s2.ID)

	healthy := repotest.SeedTheme(t, ctx, env.db, userID, "Burnout", "burnout", 1, day(5))
	repotest.SeedOccurrence(t, ctx, env.db, healthy.ID, s1.ID)

	res, err := env.consistency.ReconcileUser(ctx, domainagg.ReconcileUserInput{UserID: userID, RunID: "run-1"})
	if err != nil {
		t.Fatalf("ReconcileUser: %v", err)
	}
	if res.Checked != 2 || len(res.Entries) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	entry := res.Entries[0]
	if entry.ThemeID != drifted.ID || entry.StoredCount != 7 || entry.ActualCount != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	repaired, err := env.themeRepo.GetByID(dbctx.From(ctx), drifted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repaired.OccurrenceCount != 2 || !repaired.FirstSeen.Equal(day(5)) || !repaired.LastSeen.Equal(day(9)) {
		t.Fatalf("theme not repaired: %+v", repaired)
	}

	report, err := env.reconRepo.ListByRun(dbctx.From(ctx), "run-1")
	if err != nil {
		t.Fatalf("ListByRun: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("want one report row got %d", len(report))
	}
	if env.hooks.reconciled != 1 {
		t.Fatalf("want reconciled hook 1 got %d", env.hooks.reconciled)
	}

	again, err := env.consistency.ReconcileUser(ctx, domainagg.ReconcileUserInput{UserID: userID, RunID: "run-2"})
	if err != nil {
		t.Fatalf("ReconcileUser again: %v", err)
	}
	if len(again.Entries) != 0 {
		t.Fatalf("second pass should find nothing: %+v", again.Entries)
	}
}

func TestReconcileUserAfterApplyFindsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	for _, d := range []int{3, 4, 5} {
		s := env.closedSession(t, userID, day(d))
		if _, err := env.themes.ApplyThemes(ctx, domainagg.ApplyThemesInput{UserID: userID, SessionID: s.ID, Candidates: candidates("career growth")}); err != nil {
			t.Fatalf("ApplyThemes: %v", err)
		}
	}
	res, err := env.consistency.ReconcileUser(ctx, domainagg.ReconcileUserInput{UserID: userID})
	if err != nil {
		t.Fatalf("ReconcileUser: %v", err)
	}
	if res.Checked != 1 || len(res.Entries) != 0 {
		t.Fatalf("counter maintained by ApplyThemes should already agree: %+v", res)
	}
}
