package memoryflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/services"
)

type Activities struct {
	Log     *logger.Logger
	Themes  services.ThemeService
	Ingest  services.IngestService
	Audit   services.AuditService
	Metrics *observability.Metrics
}

func (a *Activities) ApplyThemes(ctx context.Context, in ProcessSessionInput) (domainagg.ApplyThemesResult, error) {
	start := time.Now()
	userID, sessionID, err := parseIDs(in)
	if err != nil {
		return domainagg.ApplyThemesResult{}, a.finish(ActivityApplyThemes, start, err)
	}
	res, err := a.Themes.ApplyThemes(ctx, userID, sessionID, in.Extraction.Themes)
	return res, a.finish(ActivityApplyThemes, start, err)
}

func (a *Activities) GenerateArtifacts(ctx context.Context, in ProcessSessionInput) ([]string, error) {
	start := time.Now()
	userID, sessionID, err := parseIDs(in)
	if err != nil {
		return nil, a.finish(ActivityGenerateArtifacts, start, err)
	}
	arts, err := a.Ingest.GenerateArtifacts(ctx, userID, sessionID, in.Extraction.Artifacts)
	if err != nil {
		return nil, a.finish(ActivityGenerateArtifacts, start, err)
	}
	out := make([]string, 0, len(arts))
	for _, art := range arts {
		out = append(out, art.ID.String())
	}
	return out, a.finish(ActivityGenerateArtifacts, start, nil)
}

func (a *Activities) AuditThemes(ctx context.Context, in AuditInput) (AuditResult, error) {
	start := time.Now()
	activity.RecordHeartbeat(ctx, "start")
	var (
		report services.ReconciliationReport
		err    error
	)
	if in.UserID == "" {
		report, err = a.Audit.AuditAll(ctx)
	} else {
		userID, perr := uuid.Parse(in.UserID)
		if perr != nil {
			return AuditResult{}, a.finish(ActivityAuditThemes, start, domainagg.NewError(domainagg.CodeValidation, "AuditThemes", "invalid user_id", perr))
		}
		report, err = a.Audit.AuditUser(ctx, userID)
	}
	if err != nil {
		return AuditResult{}, a.finish(ActivityAuditThemes, start, err)
	}
	return AuditResult{
		RunID:    report.RunID,
		Users:    report.Users,
		Checked:  report.Checked,
		Repaired: report.Repaired,
		Failed:   len(report.Failed),
	}, a.finish(ActivityAuditThemes, start, nil)
}

// finish records the activity outcome and converts domain errors into
// application errors typed by code so the retry policy can skip permanent ones.
func (a *Activities) finish(name string, start time.Time, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.Metrics.ObserveActivity(name, status, time.Since(start))
	if err == nil {
		return nil
	}
	if a.Log != nil {
		a.Log.Warn("Activity failed", "activity", name, "error", err)
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	if code.Rejected() {
		return temporal.NewNonRetryableApplicationError(err.Error(), string(code), err)
	}
	return temporal.NewApplicationErrorWithCause(err.Error(), string(code), err)
}

func parseIDs(in ProcessSessionInput) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domainagg.NewError(domainagg.CodeValidation, "ProcessSession", fmt.Sprintf("invalid user_id %q", in.UserID), err)
	}
	sessionID, err := uuid.Parse(in.SessionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domainagg.NewError(domainagg.CodeValidation, "ProcessSession", fmt.Sprintf("invalid session_id %q", in.SessionID), err)
	}
	return userID, sessionID, nil
}
