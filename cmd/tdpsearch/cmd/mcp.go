package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emielsteerneman/tdpsearch/internal/mcp"
	"github.com/emielsteerneman/tdpsearch/pkg/version"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve search as an MCP tool over stdio",
		Long: `mcp starts an MCP server on stdio, exposing one tool, "search", for
AI assistants such as Claude Code to query the indexed corpus directly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			b, err := openBackends(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open backends: %w", err)
			}
			defer b.Close()

			facade, err := buildFacade(ctx, cfg, b)
			if err != nil {
				return fmt.Errorf("build search facade: %w", err)
			}

			srv, err := mcp.NewServer(facade, version.Version, b.Activity)
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			return srv.MCPServer().Run(ctx, &sdkmcp.StdioTransport{})
		},
	}

	return cmd
}
