package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emielsteerneman/tdpsearch/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search over HTTP (GET /search)",
		Long: `serve starts an HTTP server exposing the search facade as
GET /search?q=...&limit=...&mode=...&league_filter=...&year_filter=...&team_filter=...&lyti_filter=...`,
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

			router := httpapi.NewRouter(facade, b.Activity)
			fmt.Fprintln(cmd.OutOrStdout(), "listening on", addr)
			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")

	return cmd
}
