package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danfirsten/Standup/internal/services"
)

func newIngestCmd() *cobra.Command {
	var userFlag, sessionFlag, file string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record an extraction file against a closed session",
		Example: `  standup ingest --user 6f1c... --session 0b9e... --file extraction.yaml

  # extraction.yaml
  themes:
    - label: Imposter syndrome
  artifacts:
    - type: summary
      content:
        text: Talked through the promotion review.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			sessionID, err := uuid.Parse(sessionFlag)
			if err != nil {
				return fmt.Errorf("--session must be a UUID: %w", err)
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			ext, err := parseExtraction(raw)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Services.Sessions.ProcessExtraction(ctx, userID, sessionID, ext)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Owner of the session")
	cmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Closed session the extraction belongs to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Extraction file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseExtraction accepts YAML or JSON. Artifact content is free-form, so the
// document is decoded generically and re-encoded as JSON.
func parseExtraction(raw []byte) (services.Extraction, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return services.Extraction{}, err
	}
	if doc == nil {
		return services.Extraction{}, fmt.Errorf("empty extraction")
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return services.Extraction{}, err
	}
	var ext services.Extraction
	if err := json.Unmarshal(b, &ext); err != nil {
		return services.Extraction{}, err
	}
	return ext, nil
}
