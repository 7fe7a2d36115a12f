package memoryflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
)

// Pipeline starts memory workflows. It satisfies services.SessionPipeline.
type Pipeline struct {
	log       *logger.Logger
	tc        temporalsdkclient.Client
	taskQueue string
	metrics   *observability.Metrics
}

func NewPipeline(log *logger.Logger, tc temporalsdkclient.Client, taskQueue string, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		log:       log.With("component", "MemoryPipeline"),
		tc:        tc,
		taskQueue: taskQueue,
		metrics:   metrics,
	}
}

func (p *Pipeline) StartSessionProcessing(ctx context.Context, userID, sessionID uuid.UUID, ext services.Extraction) (string, error) {
	id := SessionWorkflowID(sessionID.String())
	run, err := p.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                    id,
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, WorkflowProcessSession, ProcessSessionInput{
		UserID:     userID.String(),
		SessionID:  sessionID.String(),
		Extraction: ext,
	})
	if err != nil {
		p.metrics.IncWorkflowStart(WorkflowProcessSession, "error")
		return "", fmt.Errorf("start %s: %w", id, err)
	}
	p.metrics.IncWorkflowStart(WorkflowProcessSession, "ok")
	p.log.Info("Session processing started", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "session_id", sessionID.String())
	return run.GetID(), nil
}

// StartAudit runs the consistency audit as a workflow. A nil userID audits every user.
func (p *Pipeline) StartAudit(ctx context.Context, userID *uuid.UUID) (temporalsdkclient.WorkflowRun, error) {
	in := AuditInput{}
	id := "memory-audit-all"
	if userID != nil {
		in.UserID = userID.String()
		id = "memory-audit-" + in.UserID
	}
	run, err := p.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                    id,
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, WorkflowAuditThemes, in)
	if err != nil {
		p.metrics.IncWorkflowStart(WorkflowAuditThemes, "error")
		return nil, fmt.Errorf("start %s: %w", id, err)
	}
	p.metrics.IncWorkflowStart(WorkflowAuditThemes, "ok")
	return run, nil
}
