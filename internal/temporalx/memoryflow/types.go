package memoryflow

import (
	"github.com/danfirsten/Standup/internal/services"
)

const (
	WorkflowProcessSession = "memory_process_session"
	WorkflowAuditThemes    = "memory_audit_themes"

	ActivityApplyThemes       = "memory_apply_themes"
	ActivityGenerateArtifacts = "memory_generate_artifacts"
	ActivityAuditThemes       = "memory_reconcile_themes"
)

// SessionWorkflowID keys processing by session so a retry never runs two pipelines at once.
func SessionWorkflowID(sessionID string) string {
	return "memory-session-" + sessionID
}

type ProcessSessionInput struct {
	UserID     string              `json:"user_id"`
	SessionID  string              `json:"session_id"`
	Extraction services.Extraction `json:"extraction"`
}

type ProcessSessionResult struct {
	ThemesCreated     int      `json:"themes_created"`
	ThemesIncremented int      `json:"themes_incremented"`
	ArtifactIDs       []string `json:"artifact_ids"`
}

// AuditInput audits one user, or every user when UserID is empty.
type AuditInput struct {
	UserID string `json:"user_id,omitempty"`
}

type AuditResult struct {
	RunID    string `json:"run_id"`
	Users    int    `json:"users"`
	Checked  int    `json:"checked"`
	Repaired int    `json:"repaired"`
	Failed   int    `json:"failed"`
}
