package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
)

// AddSinkFromChan adds the final step. stepFn owns the input channel and must drain it or
// return an error.
func AddSinkFromChan[I any](pipe *Pipeline, name string, input *model.Step[I], stepFn func(ctx context.Context, input <-chan I) error) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}

	details := &model.StepInfo{
		Type:       model.SinkStepType,
		Name:       name,
		Concurrent: 1,
	}
	for _, opt := range pipe.opts {
		err := opt.PrepareSink(input.Details, details)
		if err != nil {
			return errors.Wrap(err, "unable to run before sink function")
		}
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)
	go func() {
		defer close(errC)

		err := stepFn(pipe.ctx, input.Output)
		if err != nil {
			errC <- err

			return
		}
		for _, opt := range pipe.opts {
			err := opt.AfterSink(details, time.Since(pipe.startTime))
			if err != nil {
				errC <- errors.Wrap(err, "unable to run after sink function")

				return
			}
		}
	}()
	pipe.errcList.add(decoratedError)

	return nil
}
