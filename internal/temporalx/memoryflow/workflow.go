package memoryflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
)

// Rejected codes; retrying them unchanged cannot succeed.
var nonRetryableCodes = []string{
	string(domainagg.CodeValidation),
	string(domainagg.CodeNotFound),
	string(domainagg.CodeInvalidState),
	string(domainagg.CodeInvalidTransition),
}

func activityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        10,
			NonRetryableErrorTypes: nonRetryableCodes,
		},
	}
}

// ProcessSessionWorkflow applies a closed session's themes, then its artifacts.
// Both activities are idempotent per session, so at-least-once delivery is safe.
func ProcessSessionWorkflow(ctx workflow.Context, in ProcessSessionInput) (ProcessSessionResult, error) {
	ctx = workflow.WithActivityOptions(ctx, activityOptions())
	log := workflow.GetLogger(ctx)
	out := ProcessSessionResult{ArtifactIDs: []string{}}

	if len(in.Extraction.Themes) > 0 {
		var themes domainagg.ApplyThemesResult
		if err := workflow.ExecuteActivity(ctx, ActivityApplyThemes, in).Get(ctx, &themes); err != nil {
			return out, err
		}
		for _, o := range themes.Outcomes {
			switch o.Status {
			case domainagg.ThemeCreated:
				out.ThemesCreated++
			case domainagg.ThemeIncremented:
				out.ThemesIncremented++
			}
		}
	}

	if len(in.Extraction.Artifacts) > 0 {
		if err := workflow.ExecuteActivity(ctx, ActivityGenerateArtifacts, in).Get(ctx, &out.ArtifactIDs); err != nil {
			return out, err
		}
	}

	log.Info("Session processed",
		"session_id", in.SessionID,
		"themes_created", out.ThemesCreated,
		"themes_incremented", out.ThemesIncremented,
		"artifacts", len(out.ArtifactIDs),
	)
	return out, nil
}

func AuditThemesWorkflow(ctx workflow.Context, in AuditInput) (AuditResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        5 * time.Second,
			BackoffCoefficient:     2,
			MaximumInterval:        5 * time.Minute,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: nonRetryableCodes,
		},
	})
	var out AuditResult
	err := workflow.ExecuteActivity(ctx, ActivityAuditThemes, in).Get(ctx, &out)
	return out, err
}
