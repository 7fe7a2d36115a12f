package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
)

func TestIngestExtractionRejectsBadDraftBeforeWriting(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()
	userID := uuid.New()
	sess := svc.closedSession(t, userID, day(5))

	ext := Extraction{
		Themes: []domainagg.ThemeCandidate{{Label: "Burnout"}},
		Artifacts: []ArtifactDraft{
			{Type: memory.ArtifactActionPlan, Content: rawJSON(t, map[string]any{"steps": []any{}})},
		},
	}
	_, err := svc.ingest.IngestExtraction(ctx, userID, sess.ID, ext)
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "got %v", err)

	themes, err := svc.themes.ListThemes(ctx, userID, 0)
	require.NoError(t, err)
	require.Empty(t, themes)
}

func TestIngestExtractionRejectsRepeatedTypes(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()
	userID := uuid.New()
	sess := svc.closedSession(t, userID, day(5))

	summary := ArtifactDraft{Type: memory.ArtifactSummary, Content: rawJSON(t, map[string]any{"text": "a"})}
	_, err := svc.ingest.IngestExtraction(ctx, userID, sess.ID, Extraction{Artifacts: []ArtifactDraft{summary, summary}})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "got %v", err)
}

func TestIngestExtractionAcrossSessionsCountsThemes(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	for _, d := range []int{5, 12} {
		sess := svc.closedSession(t, userID, day(d))
		_, err := svc.ingest.IngestExtraction(ctx, userID, sess.ID, Extraction{
			Themes: []domainagg.ThemeCandidate{{Label: "imposter syndrome"}},
		})
		require.NoError(t, err)
	}
	themes, err := svc.themes.ListThemes(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	require.EqualValues(t, 2, themes[0].OccurrenceCount)

	sessions, err := svc.themes.ListThemeSessions(ctx, userID, themes[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.True(t, sessions[0].EndedAt.After(*sessions[1].EndedAt), "newest session first")

	_, err = svc.themes.ListThemeSessions(ctx, uuid.New(), themes[0].ID, 0)
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got %v", err)
}
