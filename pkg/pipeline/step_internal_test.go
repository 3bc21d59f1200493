package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
)

var concurrencyCases = map[string]struct {
	concurrent int
}{
	"sequential":     {concurrent: 1},
	"sequential v2":  {concurrent: 0},
	"concurrent 2":   {concurrent: 2},
	"concurrent 100": {concurrent: 100},
}

func TestRunOneToOne(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			input := &model.Step[int]{Output: createInputChan(t, 10)}
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			var hooked atomic.Int64
			go func() {
				defer close(output.Output)
				err := runOneToOne(t.Context(), input, output, func(ctx context.Context, i int) (int, error) {
					return i * 2, nil
				}, func(_, _ time.Duration) error {
					hooked.Add(1)

					return nil
				})
				assert.NoError(t, err)
			}()

			assert.ElementsMatch(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, <-got)
			assert.Equal(t, int64(10), hooked.Load())
		})
	}
}

func TestRunOneToOneError(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &model.Step[int]{Output: createInputChanWithCancel(t, ctx, 10, 10, cancel)}
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			errC := make(chan error, 1)
			go func() {
				defer close(output.Output)
				errC <- runOneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
					if i == 5 {
						return 0, assert.AnError
					}

					return i, nil
				}, nil)
				cancel()
			}()

			<-got
			assert.ErrorIs(t, <-errC, assert.AnError)
		})
	}
}

func TestRunOneToOneCancelInput(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &model.Step[int]{Output: createInputChanWithCancel(t, ctx, 10, 5, cancel)}
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			errC := make(chan error, 1)
			go func() {
				defer close(output.Output)
				errC <- runOneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
					return i, nil
				}, nil)
			}()

			assert.LessOrEqual(t, len(<-got), 5)
			err := <-errC
			if err != nil {
				assert.ErrorIs(t, err, context.Canceled)
			}
		})
	}
}

func TestRunOneToOneHookError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	input := &model.Step[int]{Output: createInputChanWithCancel(t, ctx, 10, 10, cancel)}
	output := &model.Step[int]{Output: make(chan int, 10), Details: &model.StepInfo{Concurrent: 1}}

	err := runOneToOne(ctx, input, output, func(ctx context.Context, i int) (int, error) {
		return i, nil
	}, func(_, _ time.Duration) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
