package pipeline_test

import (
	"context"
	"testing"
)

func emitRange(total int) func(ctx context.Context, rootChan chan<- int) error {
	return func(ctx context.Context, rootChan chan<- int) error {
		for i := range total {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- i:
			}
		}

		return nil
	}
}

func collectInto(t *testing.T, got *[]int) func(ctx context.Context, input <-chan int) error {
	t.Helper()

	return func(ctx context.Context, input <-chan int) error {
		for i := range input {
			*got = append(*got, i)
		}

		return nil
	}
}
