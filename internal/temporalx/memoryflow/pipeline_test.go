package memoryflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	repotest "github.com/danfirsten/Standup/internal/data/repos/testutil"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/services"
)

func TestPipelineStartsSessionWorkflow(t *testing.T) {
	sessionID := uuid.New()
	userID := uuid.New()
	wantID := "memory-session-" + sessionID.String()

	run := &mocks.WorkflowRun{}
	run.On("GetID").Return(wantID)
	run.On("GetRunID").Return("run-1")

	tc := &mocks.Client{}
	tc.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(o temporalsdkclient.StartWorkflowOptions) bool {
			return o.ID == wantID && o.TaskQueue == "q" && o.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE
		}),
		WorkflowProcessSession,
		mock.MatchedBy(func(in ProcessSessionInput) bool {
			return in.UserID == userID.String() && in.SessionID == sessionID.String() && len(in.Extraction.Themes) == 1
		}),
	).Return(run, nil).Once()

	metrics := observability.New()
	p := NewPipeline(repotest.Logger(t), tc, "q", metrics)
	id, err := p.StartSessionProcessing(context.Background(), userID, sessionID, services.Extraction{
		Themes: []domainagg.ThemeCandidate{{Label: "Visibility"}},
	})
	require.NoError(t, err)
	require.Equal(t, wantID, id)
	tc.AssertExpectations(t)

	var buf bytes.Buffer
	require.NoError(t, metrics.WritePrometheus(&buf))
	require.Contains(t, buf.String(), `standup_workflow_starts_total{workflow="memory_process_session",status="ok"} 1`)
}

func TestPipelineStartFailure(t *testing.T) {
	tc := &mocks.Client{}
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, WorkflowProcessSession, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	p := NewPipeline(repotest.Logger(t), tc, "q", nil)
	_, err := p.StartSessionProcessing(context.Background(), uuid.New(), uuid.New(), services.Extraction{})
	require.ErrorContains(t, err, "frontend unavailable")
}
