package aggregates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/normalization"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

const maxThemeLabelRunes = 120

type ThemeAggregateDeps struct {
	Base BaseDeps

	Sessions    repos.SessionRepo
	Themes      repos.ThemeRepo
	Occurrences repos.ThemeOccurrenceRepo
}

type themeAggregate struct {
	deps ThemeAggregateDeps
}

func NewThemeAggregate(deps ThemeAggregateDeps) domainagg.ThemeAggregate {
	deps.Base = deps.Base.withDefaults()
	return &themeAggregate{deps: deps}
}

func (a *themeAggregate) Contract() domainagg.Contract {
	return domainagg.ThemeAggregateContract
}

type themeCandidate struct {
	label       string
	key         string
	description string
}

func (a *themeAggregate) ApplyThemes(ctx context.Context, in domainagg.ApplyThemesInput) (domainagg.ApplyThemesResult, error) {
	const op = "Memory.Theme.Apply"
	out := domainagg.ApplyThemesResult{SessionID: in.SessionID, Outcomes: []domainagg.ThemeOutcome{}}
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	candidates, err := prepareThemeCandidates(in.Candidates)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}

	sess, err := a.deps.Sessions.GetForUser(dbctx.From(ctx), in.UserID, in.SessionID)
	if err != nil {
		return out, MapError(op, err)
	}
	if !sess.Closed() {
		return out, domainagg.NewError(domainagg.CodeInvalidState, op, "session is still open", nil)
	}
	seenAt := sess.EndedAt.UTC()

	for _, c := range candidates {
		outcome, err := a.applyOne(ctx, op, in.UserID, sess.ID, seenAt, c)
		if err != nil {
			return out, err
		}
		out.Outcomes = append(out.Outcomes, outcome)
	}
	a.deps.Base.Log.Debug("Applied themes",
		"user_id", in.UserID.String(),
		"session_id", in.SessionID.String(),
		"candidates", len(candidates),
	)
	return out, nil
}

// applyOne records one candidate in its own transaction. Losing the create race
// on (user_id, normalized_name) turns the attempt into an increment; a winner
// that is not visible yet makes the attempt conflict and start over.
func (a *themeAggregate) applyOne(ctx context.Context, op string, userID, sessionID uuid.UUID, seenAt time.Time, c themeCandidate) (domainagg.ThemeOutcome, error) {
	var outcome domainagg.ThemeOutcome
	err := executeWriteWithRetry(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		outcome = domainagg.ThemeOutcome{Label: c.label, NormalizedName: c.key}

		theme, err := a.deps.Themes.GetByNormalizedName(dbc, userID, c.key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if theme == nil {
			row := &types.Theme{
				ID:              uuid.New(),
				UserID:          userID,
				Name:            c.label,
				NormalizedName:  c.key,
				OccurrenceCount: 1,
				FirstSeen:       seenAt,
				LastSeen:        seenAt,
			}
			if c.description != "" {
				desc := c.description
				row.Description = &desc
			}
			created, err := a.deps.Themes.CreateIfAbsent(dbc, row)
			if err != nil {
				return err
			}
			if created {
				inserted, err := a.deps.Occurrences.InsertIfAbsent(dbc, &types.ThemeOccurrence{
					ID:        uuid.New(),
					ThemeID:   row.ID,
					SessionID: sessionID,
				})
				if err != nil {
					return err
				}
				if !inserted {
					return fmt.Errorf("occurrence already present for a theme created in this transaction")
				}
				outcome.ThemeID = row.ID
				outcome.Status = domainagg.ThemeCreated
				outcome.OccurrenceCount = 1
				return nil
			}
			theme, err = a.deps.Themes.GetByNormalizedName(dbc, userID, c.key)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ConflictError("theme created concurrently is not visible yet")
			}
			if err != nil {
				return err
			}
		}

		outcome.ThemeID = theme.ID
		inserted, err := a.deps.Occurrences.InsertIfAbsent(dbc, &types.ThemeOccurrence{
			ID:        uuid.New(),
			ThemeID:   theme.ID,
			SessionID: sessionID,
		})
		if err != nil {
			return err
		}
		if !inserted {
			outcome.Status = domainagg.ThemeUnchanged
			outcome.OccurrenceCount = theme.OccurrenceCount
			return nil
		}
		if err := a.deps.Themes.IncrementOccurrence(dbc, theme.ID, seenAt); err != nil {
			return err
		}
		if c.description != "" {
			if err := a.deps.Themes.SetDescriptionIfEmpty(dbc, theme.ID, c.description); err != nil {
				return err
			}
		}
		reloaded, err := a.deps.Themes.GetByID(dbc, theme.ID)
		if err != nil {
			return err
		}
		outcome.Status = domainagg.ThemeIncremented
		outcome.OccurrenceCount = reloaded.OccurrenceCount
		return nil
	})
	return outcome, err
}

// prepareThemeCandidates normalizes labels, drops blanks and collapses
// candidates that share a key. The first label seen wins for display.
func prepareThemeCandidates(in []domainagg.ThemeCandidate) ([]themeCandidate, error) {
	out := make([]themeCandidate, 0, len(in))
	index := map[string]int{}
	for _, raw := range in {
		label := normalization.DisplayLabel(raw.Label)
		key := normalization.ThemeKey(raw.Label)
		if key == "" {
			continue
		}
		if len([]rune(label)) > maxThemeLabelRunes {
			return nil, ValidationError(fmt.Sprintf("theme label longer than %d characters", maxThemeLabelRunes))
		}
		desc := ""
		if d := normalization.ParseInputStringPtr(raw.Description); d != nil {
			desc = *d
		}
		if i, ok := index[key]; ok {
			if out[i].description == "" {
				out[i].description = desc
			}
			continue
		}
		index[key] = len(out)
		out = append(out, themeCandidate{label: label, key: key, description: desc})
	}
	return out, nil
}
