package cli

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/danfirsten/Standup/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the memory tools to an agent over stdio",
		Example: `  # claude_desktop_config.json
  # {"mcpServers": {"standup": {"command": "standup", "args": ["mcp"]}}}`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			s := mcp.NewServer(a.Log, mcp.HandlerDeps{
				Themes:    a.Services.Themes,
				Goals:     a.Services.Goals,
				Artifacts: a.Services.Artifacts,
				Sessions:  a.Services.Sessions,
			})
			errCh := make(chan error, 1)
			go func() {
				errCh <- mcpserver.ServeStdio(s)
			}()
			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}
