package main

import (
	"github.com/spf13/cobra"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/render"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
)

func newDescribeCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe <file.csv|->",
		Short: "Print the shape and the statistics of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd, cmd.ErrOrStderr(), "warn")
			if err != nil {
				return err
			}
			tbl, err := readTable(cmd, cfg, logger, args[0])
			if err != nil {
				return err
			}

			sum := stats.Describe(tbl)
			if asJSON {
				return render.WriteJSON(cmd.OutOrStdout(), sum)
			}

			return render.WriteSummary(cmd.OutOrStdout(), args[0], sum)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")

	return cmd
}
