package main

import (
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Moushv26/Data-analysis-tool-page/internal/config"
	"github.com/Moushv26/Data-analysis-tool-page/internal/logging"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/ingest"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	delimiter  string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:          "cleaner",
		Short:        "Describe and clean delimited text tables",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file, overrides CLEANER_* variables")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.delimiter, "delimiter", "", "Field delimiter of the input (default from config, a comma)")

	root.AddCommand(
		newCleanCmd(g),
		newDescribeCmd(g),
		newServeCmd(g),
	)

	return root
}

// load reads the config and builds a logger writing to w. defaultLevel applies when no flag,
// config file or environment variable sets a level.
func (g *globalOptions) load(cmd *cobra.Command, w io.Writer, defaultLevel string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case g.logLevel != "":
		cfg.Log.Level = g.logLevel
	case defaultLevel != "" && g.configPath == "" && os.Getenv(config.EnvPrefix+"_LOG_LEVEL") == "":
		cfg.Log.Level = defaultLevel
	}
	if cmd.Flags().Changed("delimiter") {
		if utf8.RuneCountInString(g.delimiter) != 1 {
			return nil, nil, errors.Errorf("delimiter must be a single character, got %q", g.delimiter)
		}
		cfg.Ingest.Delimiter = g.delimiter
	}

	logger, err := logging.Init(w, cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

// readTable ingests the file at path, or stdin when path is "-".
func readTable(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, path string, pipeOpts ...model.PipelineOption) (*table.Table, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open input")
		}
		defer f.Close()
		r = f
	}

	opts := []ingest.Option{
		ingest.WithDelimiter(cfg.Ingest.DelimiterRune()),
		ingest.WithBuffer(cfg.Ingest.Buffer),
		ingest.WithLogger(logger),
		ingest.WithPipelineOptions(pipeOpts...),
	}
	if cfg.Ingest.Concurrency > 0 {
		opts = append(opts, ingest.WithConcurrency(cfg.Ingest.Concurrency))
	}

	tbl, err := ingest.Read(cmd.Context(), r, opts...)

	return tbl, errors.Wrapf(err, "unable to read %s", path)
}
