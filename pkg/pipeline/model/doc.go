// Package model provides the data structures shared by the pipeline engine and its options.
// It defines the steps flowing through a pipeline, the information describing each step,
// and the hooks an option implements to observe a run.
package model
