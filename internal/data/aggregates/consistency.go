package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

type ConsistencyAggregateDeps struct {
	Base BaseDeps

	Themes          repos.ThemeRepo
	Occurrences     repos.ThemeOccurrenceRepo
	Reconciliations repos.ReconciliationRepo
}

type consistencyAggregate struct {
	deps ConsistencyAggregateDeps
}

func NewConsistencyAggregate(deps ConsistencyAggregateDeps) domainagg.ConsistencyAggregate {
	deps.Base = deps.Base.withDefaults()
	return &consistencyAggregate{deps: deps}
}

func (a *consistencyAggregate) Contract() domainagg.Contract {
	return domainagg.ConsistencyAggregateContract
}

type themeTruth struct {
	count int64
	first time.Time
	last  time.Time
}

func (a *consistencyAggregate) ReconcileUser(ctx context.Context, in domainagg.ReconcileUserInput) (domainagg.ReconcileUserResult, error) {
	const op = "Memory.Consistency.ReconcileUser"
	out := domainagg.ReconcileUserResult{UserID: in.UserID, Entries: []types.ReconciliationEntry{}}
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	runID := in.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var entries []*types.ReconciliationEntry
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		entries = nil
		themes, err := a.deps.Themes.ListAllByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		sightings, err := a.deps.Occurrences.ListSightingsByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		truth := tallySightings(sightings)
		out.Checked = len(themes)

		for _, th := range themes {
			want := truth[th.ID]
			if !needsRepair(th, want) {
				continue
			}
			if err := a.deps.Themes.RecountFromOccurrences(dbc, th.ID); err != nil {
				return err
			}
			repaired, err := a.deps.Themes.GetByID(dbc, th.ID)
			if err != nil {
				return err
			}
			entries = append(entries, &types.ReconciliationEntry{
				ID:          uuid.New(),
				RunID:       runID,
				ThemeID:     th.ID,
				UserID:      in.UserID,
				StoredCount: th.OccurrenceCount,
				ActualCount: repaired.OccurrenceCount,
			})
		}
		if len(entries) == 0 {
			return nil
		}
		_, err = a.deps.Reconciliations.Create(dbc, entries)
		return err
	})
	if err != nil {
		return out, err
	}

	for _, e := range entries {
		violation := domainagg.NewError(domainagg.CodeConsistencyViolation, op, "theme counter disagreed with occurrences", nil)
		a.deps.Base.Log.Warn("Repaired theme counter",
			"run_id", runID,
			"user_id", e.UserID.String(),
			"theme_id", e.ThemeID.String(),
			"stored_count", e.StoredCount,
			"actual_count", e.ActualCount,
			"error", violation.Error(),
		)
		out.Entries = append(out.Entries, *e)
	}
	if len(entries) > 0 {
		a.deps.Base.Hooks.IncReconciled(op, len(entries))
	}
	return out, nil
}

func tallySightings(sightings []repos.OccurrenceSighting) map[uuid.UUID]themeTruth {
	out := map[uuid.UUID]themeTruth{}
	for _, s := range sightings {
		t := out[s.ThemeID]
		t.count++
		if s.EndedAt != nil {
			at := s.EndedAt.UTC()
			if t.first.IsZero() || at.Before(t.first) {
				t.first = at
			}
			if t.last.IsZero() || at.After(t.last) {
				t.last = at
			}
		}
		out[s.ThemeID] = t
	}
	return out
}

func needsRepair(th *types.Theme, want themeTruth) bool {
	if th.OccurrenceCount != want.count {
		return true
	}
	if want.first.IsZero() {
		return false
	}
	return !th.FirstSeen.Equal(want.first) || !th.LastSeen.Equal(want.last)
}
