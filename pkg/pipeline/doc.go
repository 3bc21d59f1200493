// Package pipeline provides a streaming step engine for processing rows.
//
// A pipeline is a chain of steps linked by channels: a root step produces elements, intermediate
// steps transform them one by one, possibly with several goroutines, and a sink consumes them.
// Every step runs in its own goroutine as soon as it is added, and Run waits for all of them.
//
// The pipeline stops on the first error returned by any step. The error is prefixed with the
// name of the failing step and the shared context is cancelled so that the remaining steps
// return quickly.
//
// Options implementing model.PipelineOption observe the run: they are told about every step
// before it starts and about every element pushed to a step output.
package pipeline
