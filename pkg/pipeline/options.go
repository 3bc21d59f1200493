package pipeline

import "github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"

type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets the number of goroutines consuming the input of a step.
// Values lower than 2 run the step sequentially.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}

// StepBufferSize sets the capacity of the step output channel.
func StepBufferSize[O any](size int) StepOption[O] {
	return func(s *model.Step[O]) {
		if size > 0 {
			s.Output = make(chan O, size)
		}
	}
}
