package pipeline_test

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/drawer"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/measure"
)

func TestAddRootStepNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddRootStep(nil, "root step", emitRange(10))
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepOneToOneNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	_, err = pipeline.AddStepOneToOne(pipe, "step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)

	_, err = pipeline.AddStepOneToOne[int, int](nil, "step", nil, nil)
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddSinkFromChanNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	err = pipeline.AddSinkFromChan[int](pipe, "sink", nil, nil)
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":   {concurrent: 1},
		"concurrent 4": {concurrent: 4},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New(context.Background())
			require.NoError(t, err)

			root, err := pipeline.AddRootStep(pipe, "root step", emitRange(10))
			require.NoError(t, err)

			squared, err := pipeline.AddStepOneToOne(pipe, "square", root, func(ctx context.Context, input int) (int, error) {
				return input * input, nil
			}, pipeline.StepConcurrency[int](tc.concurrent))
			require.NoError(t, err)

			var got []int
			err = pipeline.AddSinkFromChan(pipe, "sink", squared, collectInto(t, &got))
			require.NoError(t, err)

			require.NoError(t, pipe.Run())
			assert.ElementsMatch(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, got)
		})
	}
}

func TestPipelineRunRootError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			if i == 5 {
				return assert.AnError
			}
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	var got []int
	err = pipeline.AddSinkFromChan(pipe, "sink", root, collectInto(t, &got))
	require.NoError(t, err)

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "root step")
}

func TestPipelineRunStepError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", emitRange(100))
	require.NoError(t, err)

	converted, err := pipeline.AddStepOneToOne(pipe, "convert", root, func(ctx context.Context, input int) (string, error) {
		if input == 42 {
			return "", assert.AnError
		}

		return strconv.Itoa(input), nil
	}, pipeline.StepConcurrency[string](3))
	require.NoError(t, err)

	err = pipeline.AddSinkFromChan(pipe, "sink", converted, func(ctx context.Context, input <-chan string) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-input:
				if !ok {
					return nil
				}
			}
		}
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "convert")
}

func TestPipelineRunCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	pipe, err := pipeline.New(ctx)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		cancel()
		<-ctx.Done()

		return ctx.Err()
	})
	require.NoError(t, err)

	var got []int
	err = pipeline.AddSinkFromChan(pipe, "sink", root, collectInto(t, &got))
	require.NoError(t, err)

	assert.ErrorIs(t, pipe.Run(), context.Canceled)
	assert.Empty(t, got)
}

func TestPipelineMeasureAndDrawer(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	buf := &bytes.Buffer{}

	pipe, err := pipeline.New(context.Background(),
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(buf), msr),
	)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "read", emitRange(5))
	require.NoError(t, err)

	doubled, err := pipeline.AddStepOneToOne(pipe, "double", root, func(ctx context.Context, input int) (int, error) {
		return input * 2, nil
	})
	require.NoError(t, err)

	var got []int
	err = pipeline.AddSinkFromChan(pipe, "collect", doubled, collectInto(t, &got))
	require.NoError(t, err)

	require.NoError(t, pipe.Run())
	assert.Len(t, got, 5)

	timings := msr.Timings()
	require.Len(t, timings, 1)
	assert.Equal(t, "double", timings[0].Step)
	assert.Equal(t, int64(5), timings[0].Count)
	assert.Positive(t, msr.GetMetric("collect").GetTotalDuration())

	out := buf.String()
	assert.Contains(t, out, "strict digraph")
	assert.Contains(t, out, `rankdir="LR";`)
	assert.Contains(t, out, `"start" -> "read"`)
	assert.Contains(t, out, `"read" -> "double"`)
	assert.Contains(t, out, `"double" -> "collect"`)
	assert.Contains(t, out, `"collect" -> "end"`)
}
