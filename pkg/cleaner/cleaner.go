package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// Names of the cleaning steps, as seen by pipeline options.
const (
	StepDropDuplicates = "drop duplicates"
	StepMissingValues  = "missing values"
	StepTrimWhitespace = "trim whitespace"
	StepCleanedTable   = "cleaned table"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Notice is a user facing message about a step. Err is set for warnings caused by an error.
type Notice struct {
	Step    string `json:"step"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// StepReport describes what a step did.
type StepReport struct {
	Step       string        `json:"step"`
	Skipped    bool          `json:"skipped"`
	RowsBefore int           `json:"rows_before"`
	RowsAfter  int           `json:"rows_after"`
	Changed    int           `json:"changed"`
	Duration   time.Duration `json:"duration"`
}

// Options are the choices of a single run.
type Options struct {
	// RemoveDuplicates enables duplicate removal over Subset.
	RemoveDuplicates bool
	Subset           []string
	Policy           Policy
}

// Result is the outcome of Clean.
type Result struct {
	Table   *table.Table
	Before  stats.Summary
	After   stats.Summary
	Notices []Notice
	Steps   []StepReport
}

// Warnings returns the notices of level warning.
func (r *Result) Warnings() []Notice {
	var warnings []Notice
	for _, n := range r.Notices {
		if n.Level == LevelWarning {
			warnings = append(warnings, n)
		}
	}

	return warnings
}

// Cleaner runs the cleaning steps.
type Cleaner struct {
	logger *slog.Logger
	opts   []model.PipelineOption
}

// Option configures a Cleaner.
type Option func(c *Cleaner)

// WithLogger sets the logger of every run, slog.Default by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cleaner) {
		c.logger = logger
	}
}

// WithPipelineOptions attaches options observing every run. Options are told about each step
// and receive a single output per step. Options holding per-run state, such as a drawer,
// must only be attached to a Cleaner used for one run.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(c *Cleaner) {
		c.opts = append(c.opts, opts...)
	}
}

// New returns a Cleaner. It holds no per-run state and may be shared between goroutines
// unless a stateful pipeline option is attached.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type outcome struct {
	changed int
	skipped bool
	notice  *Notice
}

type stepFunc func(t *table.Table) (outcome, error)

// Clean cleans a copy of t. A selection naming unknown columns is rejected before anything
// runs; an empty selection only skips duplicate removal and adds a warning.
func (c *Cleaner) Clean(ctx context.Context, t *table.Table, opts Options) (*Result, error) {
	if t == nil {
		return nil, ErrTableMustBeSet
	}
	if _, ok := policyNames[opts.Policy]; !ok {
		return nil, errors.Wrapf(ErrUnknownPolicy, "%d", int(opts.Policy))
	}
	if opts.RemoveDuplicates && len(opts.Subset) > 0 {
		if _, err := resolveSelection(t, opts.Subset); err != nil {
			return nil, err
		}
	}

	for _, opt := range c.opts {
		if err := opt.New(); err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	start := time.Now()
	res := &Result{
		Table:  t.Clone(),
		Before: stats.Describe(t),
	}

	steps := []struct {
		name string
		fn   stepFunc
	}{
		{name: StepDropDuplicates, fn: dropDuplicatesStep(opts)},
		{name: StepMissingValues, fn: missingValuesStep(opts.Policy)},
		{name: StepTrimWhitespace, fn: trimWhitespaceStep},
	}

	parent := model.StartStep.Details
	for _, step := range steps {
		info, err := c.runStep(ctx, res, parent, step.name, step.fn)
		if err != nil {
			return nil, err
		}
		parent = info
	}

	sink := &model.StepInfo{Type: model.SinkStepType, Name: StepCleanedTable, Concurrent: 1}
	for _, opt := range c.opts {
		if err := opt.PrepareSink(parent, sink); err != nil {
			return nil, errors.Wrap(err, "unable to run before sink function")
		}
	}
	res.After = stats.Describe(res.Table)
	for _, opt := range c.opts {
		if err := opt.AfterSink(sink, time.Since(start)); err != nil {
			return nil, errors.Wrap(err, "unable to run after sink function")
		}
	}
	for _, opt := range c.opts {
		if err := opt.Finish(); err != nil {
			return nil, errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	c.logger.InfoContext(ctx, "table cleaned",
		slog.Int("rows_before", res.Before.Rows),
		slog.Int("rows_after", res.After.Rows),
		slog.String("policy", opts.Policy.String()),
		slog.Int("warnings", len(res.Warnings())),
		slog.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

func (c *Cleaner) runStep(ctx context.Context, res *Result, parent *model.StepInfo, name string, fn stepFunc) (*model.StepInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, name)
	}

	info := &model.StepInfo{Type: model.NormalStepType, Name: name, Concurrent: 1}
	for _, opt := range c.opts {
		if err := opt.PrepareStep(parent, info); err != nil {
			return nil, errors.Wrap(err, "unable to run before step function")
		}
	}

	rowsBefore := res.Table.NumRows()
	start := time.Now()
	out, err := fn(res.Table)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	elapsed := time.Since(start)

	res.Steps = append(res.Steps, StepReport{
		Step:       name,
		Skipped:    out.skipped,
		RowsBefore: rowsBefore,
		RowsAfter:  res.Table.NumRows(),
		Changed:    out.changed,
		Duration:   elapsed,
	})
	if out.notice != nil {
		out.notice.Step = name
		res.Notices = append(res.Notices, *out.notice)
	}

	for _, opt := range c.opts {
		if err := opt.OnStepOutput(parent, info, elapsed, elapsed); err != nil {
			return nil, errors.Wrap(err, "unable to run on step output function")
		}
	}

	c.logger.DebugContext(ctx, "cleaning step done",
		slog.String("step", name),
		slog.Bool("skipped", out.skipped),
		slog.Int("changed", out.changed),
		slog.Int("rows", res.Table.NumRows()),
	)

	return info, nil
}

func dropDuplicatesStep(opts Options) stepFunc {
	return func(t *table.Table) (outcome, error) {
		if !opts.RemoveDuplicates {
			return outcome{skipped: true}, nil
		}

		removed, err := DropDuplicates(t, opts.Subset)
		if errors.Is(err, ErrEmptySelection) {
			return outcome{
				skipped: true,
				notice:  &Notice{Level: LevelWarning, Message: "Please select at least one column.", Err: err},
			}, nil
		}
		if err != nil {
			return outcome{}, err
		}

		return outcome{
			changed: removed,
			notice: &Notice{
				Level:   LevelSuccess,
				Message: fmt.Sprintf("Duplicates removed based on selected columns (%d rows removed).", removed),
			},
		}, nil
	}
}

func missingValuesStep(policy Policy) stepFunc {
	return func(t *table.Table) (outcome, error) {
		changed, err := ApplyPolicy(t, policy)
		if err != nil {
			return outcome{}, err
		}

		var message string
		switch policy {
		case PolicyDropRows:
			message = fmt.Sprintf("Rows with missing values dropped (%d rows removed).", changed)
		case PolicyFillMean:
			message = fmt.Sprintf("Missing numeric values filled with mean (%d cells filled).", changed)
		case PolicyFillZero:
			message = fmt.Sprintf("Missing values filled with zero (%d cells filled).", changed)
		default:
			return outcome{skipped: true}, nil
		}

		return outcome{changed: changed, notice: &Notice{Level: LevelSuccess, Message: message}}, nil
	}
}

func trimWhitespaceStep(t *table.Table) (outcome, error) {
	return outcome{changed: TrimWhitespace(t)}, nil
}
