package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danfirsten/Standup/internal/services"
	"github.com/danfirsten/Standup/internal/temporalx/memoryflow"
)

func newAuditCmd() *cobra.Command {
	var (
		userFlag    string
		useWorkflow bool
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Reconcile theme counts against their occurrences",
		Long: `Recounts every theme from its recorded occurrences and repairs drifted
counts and seen windows. Without --user every user is audited.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var userID *uuid.UUID
			if userFlag != "" {
				id, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("--user must be a UUID: %w", err)
				}
				userID = &id
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if useWorkflow {
				if a.Services.Pipeline == nil {
					return fmt.Errorf("--workflow needs TEMPORAL_ADDRESS")
				}
				run, err := a.Services.Pipeline.StartAudit(ctx, userID)
				if err != nil {
					return err
				}
				var res memoryflow.AuditResult
				if err := run.Get(ctx, &res); err != nil {
					return fmt.Errorf("audit workflow %s: %w", run.GetID(), err)
				}
				return printJSON(cmd.OutOrStdout(), res)
			}

			var report services.ReconciliationReport
			if userID != nil {
				report, err = a.Services.Audit.AuditUser(ctx, *userID)
			} else {
				report, err = a.Services.Audit.AuditAll(ctx)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Audit only this user")
	cmd.Flags().BoolVar(&useWorkflow, "workflow", false, "Run the audit as a Temporal workflow and wait for it")
	return cmd
}
