package main

import (
	"github.com/spf13/cobra"

	"github.com/Moushv26/Data-analysis-tool-page/internal/metrics"
	"github.com/Moushv26/Data-analysis-tool-page/internal/server"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load(cmd, cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			return server.New(cfg, logger, metrics.New()).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
