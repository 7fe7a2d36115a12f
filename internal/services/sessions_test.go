package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/chat"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/pointers"
)

func sampleExtraction(t *testing.T) Extraction {
	return Extraction{
		Themes: []domainagg.ThemeCandidate{{Label: "Imposter syndrome"}, {Label: "Visibility"}},
		Artifacts: []ArtifactDraft{
			{Type: memory.ArtifactSummary, Content: rawJSON(t, map[string]any{"text": "Talked about self-doubt."})},
			{Type: memory.ArtifactGoal, Content: rawJSON(t, map[string]any{"description": "Present at the team demo", "horizon": "this month"})},
		},
	}
}

func TestCloseSessionIngestsInlineWithoutPipeline(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	sess, err := svc.sessions.OpenSession(ctx, userID, pointers.String("Weekly"), false)
	require.NoError(t, err)
	_, err = svc.sessions.AppendMessage(ctx, userID, sess.ID, chat.RoleUser, "I feel like a fraud at work", nil)
	require.NoError(t, err)

	ext := sampleExtraction(t)
	res, err := svc.sessions.CloseSession(ctx, userID, sess.ID, nil, &ext)
	require.NoError(t, err)
	require.False(t, res.AlreadyClosed)
	require.NotNil(t, res.Processing)
	require.Equal(t, ProcessedInline, res.Processing.Mode)
	require.Len(t, res.Processing.Result.Themes.Outcomes, 2)
	require.Len(t, res.Processing.Result.Artifacts, 2)

	require.Len(t, svc.bus.Published(events.SessionClosed), 1)
	require.Len(t, svc.bus.Published(events.ThemesApplied), 1)
	require.Len(t, svc.bus.Published(events.ArtifactGenerated), 2)

	again, err := svc.sessions.CloseSession(ctx, userID, sess.ID, nil, &ext)
	require.NoError(t, err)
	require.True(t, again.AlreadyClosed)
	for _, o := range again.Processing.Result.Themes.Outcomes {
		require.Equal(t, domainagg.ThemeUnchanged, o.Status)
	}
	require.Len(t, svc.bus.Published(events.SessionClosed), 1, "second close must not announce again")
	require.Len(t, svc.bus.Published(events.ThemesApplied), 1, "replay changes no theme")

	arts, err := svc.artifacts.List(ctx, userID, ArtifactListOptions{SessionID: &sess.ID})
	require.NoError(t, err)
	require.Len(t, arts, 2)
}

func TestCloseSessionStartsPipeline(t *testing.T) {
	pipeline := &fakePipeline{}
	svc := newTestServices(t, pipeline)
	ctx := context.Background()
	userID := uuid.New()

	sess, err := svc.sessions.OpenSession(ctx, userID, nil, true)
	require.NoError(t, err)
	ext := sampleExtraction(t)
	res, err := svc.sessions.CloseSession(ctx, userID, sess.ID, nil, &ext)
	require.NoError(t, err)
	require.Equal(t, ProcessedWorkflow, res.Processing.Mode)
	require.Equal(t, "memory-session-"+sess.ID.String(), res.Processing.WorkflowID)
	require.Len(t, pipeline.calls, 1)

	themes, err := svc.themes.ListThemes(ctx, userID, 0)
	require.NoError(t, err)
	require.Empty(t, themes, "workflow mode leaves the writes to the pipeline")

	pipeline.err = errors.New("frontend unavailable")
	_, err = svc.sessions.ProcessExtraction(ctx, userID, sess.ID, ext)
	require.True(t, domainagg.IsCode(err, domainagg.CodeRetryable), "got %v", err)
}

func TestProcessExtractionRejectsOpenSessionAndBadDrafts(t *testing.T) {
	svc := newTestServices(t, &fakePipeline{})
	ctx := context.Background()
	userID := uuid.New()
	sess, err := svc.sessions.OpenSession(ctx, userID, nil, false)
	require.NoError(t, err)

	_, err = svc.sessions.ProcessExtraction(ctx, userID, sess.ID, sampleExtraction(t))
	require.True(t, domainagg.IsCode(err, domainagg.CodeInvalidState), "got %v", err)

	bad := Extraction{Artifacts: []ArtifactDraft{{Type: "poem", Content: rawJSON(t, map[string]any{"text": "x"})}}}
	_, err = svc.sessions.ProcessExtraction(ctx, userID, sess.ID, bad)
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "got %v", err)
}

func TestSessionReads(t *testing.T) {
	svc := newTestServices(t, nil)
	ctx := context.Background()
	userID := uuid.New()
	sess, err := svc.sessions.OpenSession(ctx, userID, nil, false)
	require.NoError(t, err)
	for _, content := range []string{"first", "second"} {
		_, err := svc.sessions.AppendMessage(ctx, userID, sess.ID, chat.RoleUser, content, map[string]any{"client": "web"})
		require.NoError(t, err)
	}

	msgs, err := svc.sessions.ListMessages(ctx, userID, sess.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "first", msgs[0].Content)

	_, err = svc.sessions.ListMessages(ctx, uuid.New(), sess.ID, 10)
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got %v", err)

	list, err := svc.sessions.ListSessions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	ended := time.Now().UTC().Add(time.Minute)
	closed, err := svc.sessions.CloseSession(ctx, userID, sess.ID, &ended, nil)
	require.NoError(t, err)
	require.Nil(t, closed.Processing)
	require.WithinDuration(t, ended, *closed.Session.EndedAt, time.Second)
}
