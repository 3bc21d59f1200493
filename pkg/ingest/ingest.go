package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// Names of the ingestion steps, as seen by pipeline options.
const (
	StepReadRecords = "read records"
	StepParseCells  = "parse cells"
	StepCollectRows = "collect rows"
)

type reader struct {
	delimiter   rune
	concurrency int
	buffer      int
	pipeOpts    []model.PipelineOption
	logger      *slog.Logger
}

// Option configures Read.
type Option func(r *reader)

// WithDelimiter sets the field delimiter, a comma by default.
func WithDelimiter(delimiter rune) Option {
	return func(r *reader) {
		r.delimiter = delimiter
	}
}

// WithConcurrency sets the number of goroutines classifying cells.
func WithConcurrency(concurrency int) Option {
	return func(r *reader) {
		r.concurrency = concurrency
	}
}

// WithBuffer sets the capacity of the channels between the ingestion steps. Zero keeps them
// unbuffered.
func WithBuffer(size int) Option {
	return func(r *reader) {
		r.buffer = size
	}
}

// WithPipelineOptions attaches options observing the ingestion pipeline.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(r *reader) {
		r.pipeOpts = append(r.pipeOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *reader) {
		r.logger = logger
	}
}

type record struct {
	index  int
	line   int
	fields []string
}

type parsedRow struct {
	index int
	cells []cell
}

// Read parses delimited text with a header row. Malformed input is reported as an *Error.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*table.Table, error) {
	rd := &reader{
		delimiter:   ',',
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read records")
	}

	csvReader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	csvReader.Comma = rd.delimiter
	csvReader.FieldsPerRecord = -1
	// a stray quote inside an unquoted field is kept as text
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &Error{Err: ErrNoColumns}
	}
	if err != nil {
		return nil, parseError(err)
	}
	names := normaliseHeader(header)
	width := len(names)

	pipe, err := pipeline.New(ctx, rd.pipeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create ingestion pipeline")
	}

	records, err := pipeline.AddRootStep(pipe, StepReadRecords, func(ctx context.Context, rootChan chan<- record) error {
		for index := 0; ; index++ {
			fields, err := csvReader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return parseError(err)
			}
			line, _ := csvReader.FieldPos(0)
			if len(fields) > width {
				return &Error{
					Line: line,
					Err:  errors.Wrapf(ErrTooManyFields, "expected %d fields, saw %d", width, len(fields)),
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- record{index: index, line: line, fields: fields}:
			}
		}
	}, pipeline.StepBufferSize[record](rd.buffer))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add root step")
	}

	rows, err := pipeline.AddStepOneToOne(pipe, StepParseCells, records, func(_ context.Context, rec record) (parsedRow, error) {
		cells := make([]cell, width)
		for i := range cells {
			if i < len(rec.fields) {
				cells[i] = parseCell(rec.fields[i])
			} else {
				// short rows are padded
				cells[i] = cell{missing: true}
			}
		}

		return parsedRow{index: rec.index, cells: cells}, nil
	}, pipeline.StepConcurrency[parsedRow](rd.concurrency), pipeline.StepBufferSize[parsedRow](rd.buffer))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add parse step")
	}

	var collected [][]cell
	err = pipeline.AddSinkFromChan(pipe, StepCollectRows, rows, func(_ context.Context, input <-chan parsedRow) error {
		for row := range input {
			for row.index >= len(collected) {
				collected = append(collected, nil)
			}
			collected[row.index] = row.cells
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to add sink")
	}

	err = pipe.Run()
	if err != nil {
		var ingestErr *Error
		if errors.As(err, &ingestErr) {
			return nil, ingestErr
		}

		return nil, errors.Wrap(err, "unable to read records")
	}

	columns := make([]*table.Column, width)
	for c, name := range names {
		cells := make([]cell, len(collected))
		for r, row := range collected {
			cells[r] = row[c]
		}
		columns[c] = buildColumn(name, cells)
	}

	tbl, err := table.New(columns...)
	if err != nil {
		return nil, &Error{Err: err}
	}

	rd.logger.Debug("table ingested",
		slog.Int("rows", tbl.NumRows()),
		slog.Int("columns", tbl.NumCols()),
	)

	return tbl, nil
}

func parseError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &Error{Line: parseErr.Line, Err: parseErr.Err}
	}

	return &Error{Err: err}
}
