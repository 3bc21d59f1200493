package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
)

// outputHook is called after every element pushed to the output of a step.
type outputHook func(iterationDuration, computationDuration time.Duration) error

func sequentialOneToOne[I any, O any](ctx context.Context, goIdx int, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
	for {
		startIter := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}
			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}
			endFn := time.Since(startFn)

			// the context is checked again so that running goroutines stop feeding
			// the next step once the pipeline is cancelled
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output.Output <- out:
			}
			if onOutput != nil {
				err = onOutput(time.Since(startIter), endFn)
				if err != nil {
					return errors.Wrap(err, "unable to run on step output function")
				}
			}
		}
	}
}

func concurrentOneToOne[I any, O any](ctx context.Context, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	// each consumer stops as soon as one of them fails
	for goIdx := 0; goIdx < output.Details.Concurrent; goIdx++ {
		errGrp.Go(func() error {
			return sequentialOneToOne(dCtx, goIdx, input, output, oneToOneFn, onOutput)
		})
	}

	return errGrp.Wait()
}

func runOneToOne[I any, O any](ctx context.Context, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error), onOutput outputHook) error {
	if output.Details.Concurrent < 2 {
		return sequentialOneToOne(ctx, 0, input, output, oneToOneFn, onOutput)
	}

	return concurrentOneToOne(ctx, input, output, oneToOneFn, onOutput)
}

func prepareStep[I, O any](pipe *Pipeline, name string, input *model.Step[I], opts ...StepOption[O]) (*model.Step[O], error) {
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareStep(input.Details, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run before step function")
		}
	}

	return step, nil
}

func (p *Pipeline) stepHook(parent, step *model.StepInfo) outputHook {
	if len(p.opts) == 0 {
		return nil
	}

	return func(iterationDuration, computationDuration time.Duration) error {
		for _, opt := range p.opts {
			err := opt.OnStepOutput(parent, step, iterationDuration, computationDuration)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// AddStepOneToOne adds a step calling oneToOneFn for every element of input. The output order
// only matches the input order when the step runs sequentially.
func AddStepOneToOne[I any, O any](p *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}

	step, err := prepareStep(p, name, input, opts...)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)
	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := runOneToOne(p.ctx, input, step, oneToOneFn, p.stepHook(input.Details, step.Details))
		if err != nil {
			errC <- err
		}
	}()
	p.errcList.add(decoratedError)

	return step, nil
}
