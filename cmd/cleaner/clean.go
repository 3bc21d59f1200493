package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/drawer"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/measure"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/render"
)

type cleanOptions struct {
	dedupe      bool
	columns     []string
	policy      string
	format      string
	output      string
	graph       string
	ingestGraph string
	stats       bool
}

func newCleanCmd(g *globalOptions) *cobra.Command {
	o := &cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean <file.csv|->",
		Short: "Clean a table and write the result",
		Long: `Clean removes duplicates (when asked), handles missing values with the chosen
policy and trims the whitespace around text cells. Notices go to stderr, the cleaned
table to stdout or to the --output file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, g, o, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.dedupe, "dedupe", false, "Remove duplicate rows")
	f.StringSliceVar(&o.columns, "columns", nil, "Columns compared when removing duplicates (default all)")
	f.StringVar(&o.policy, "policy", "none", "Missing values: none, drop, mean or zero")
	f.StringVar(&o.format, "format", "csv", "Output format: csv, xlsx or json")
	f.StringVarP(&o.output, "output", "o", "", "Output file (default stdout)")
	f.StringVar(&o.graph, "graph", "", "Write a DOT graph of the cleaning steps to this file")
	f.StringVar(&o.ingestGraph, "ingest-graph", "", "Write a DOT graph of the ingestion pipeline to this file")
	f.BoolVar(&o.stats, "stats", false, "Print the statistics before and after cleaning to stderr")

	return cmd
}

// graphOptions returns the options drawing a run into path, none when path is empty.
func graphOptions(path string) []model.PipelineOption {
	if path == "" {
		return nil
	}
	msr := measure.NewDefaultMeasure()

	return []model.PipelineOption{
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(path), msr),
	}
}

func runClean(cmd *cobra.Command, g *globalOptions, o *cleanOptions, input string) error {
	stderr := cmd.ErrOrStderr()
	cfg, logger, err := g.load(cmd, stderr, "warn")
	if err != nil {
		return err
	}

	policy, err := cleaner.ParsePolicy(o.policy)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	tbl, err := readTable(cmd, cfg, logger, input, graphOptions(o.ingestGraph)...)
	if err != nil {
		return err
	}

	opts := cleaner.Options{RemoveDuplicates: o.dedupe, Subset: o.columns, Policy: policy}
	if !cmd.Flags().Changed("columns") {
		opts.Subset = tbl.ColumnNames()
	} else if opts.Subset == nil {
		opts.Subset = []string{}
	}

	c := cleaner.New(
		cleaner.WithLogger(logger),
		cleaner.WithPipelineOptions(graphOptions(o.graph)...),
	)
	res, err := c.Clean(cmd.Context(), tbl, opts)
	if err != nil {
		return err
	}

	for _, n := range res.Notices {
		fmt.Fprintf(stderr, "[%s] %s: %s\n", n.Level, n.Step, n.Message)
	}
	if o.stats {
		if err := render.WriteSummary(stderr, "before", res.Before); err != nil {
			return err
		}
		if err := render.WriteSummary(stderr, "after", res.After); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return errors.Wrap(err, "unable to create output")
		}
		defer f.Close()
		w = f
	}
	if err := render.Export(w, format, res.Table, res.After); err != nil {
		return err
	}

	logger.Info("clean done", slog.String("input", input), slog.Int("rows", res.After.Rows))

	return nil
}
