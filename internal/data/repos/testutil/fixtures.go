package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/danfirsten/Standup/internal/domain"
)

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, endedAt *time.Time) *types.Session {
	tb.Helper()
	started := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	if endedAt != nil && endedAt.Before(started) {
		started = endedAt.Add(-time.Hour)
	}
	s := &types.Session{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: started,
	}
	if endedAt != nil {
		e := endedAt.UTC()
		s.EndedAt = &e
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedTheme(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name, normalized string, count int64, seen time.Time) *types.Theme {
	tb.Helper()
	th := &types.Theme{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		NormalizedName:  normalized,
		OccurrenceCount: count,
		FirstSeen:       seen.UTC(),
		LastSeen:        seen.UTC(),
	}
	if err := tx.WithContext(ctx).Create(th).Error; err != nil {
		tb.Fatalf("seed theme: %v", err)
	}
	return th
}

func SeedOccurrence(tb testing.TB, ctx context.Context, tx *gorm.DB, themeID, sessionID uuid.UUID) *types.ThemeOccurrence {
	tb.Helper()
	o := &types.ThemeOccurrence{ID: uuid.New(), ThemeID: themeID, SessionID: sessionID}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed occurrence: %v", err)
	}
	return o
}
