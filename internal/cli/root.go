// Package cli implements the standup command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danfirsten/Standup/internal/app"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

var configFile string

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "standup",
		Short:         "Mentor memory backend",
		Long:          "Records mentoring sessions, tracks recurring themes, artifacts and goals, and keeps them consistent.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Optional config file (yaml, json or toml); environment variables take precedence")
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newAuditCmd(),
		newIngestCmd(),
		newMCPCmd(),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func loadConfig() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return app.Config{}, nil, err
	}
	return cfg, log, nil
}

func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
