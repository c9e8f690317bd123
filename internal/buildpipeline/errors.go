package buildpipeline

import "fmt"

// ErrorKind различает, на каком шаге автомата упала сборка.
type ErrorKind string

const (
	ErrKindProfilingBuild ErrorKind = "profiling-build-failure"
	ErrKindProfilingRun   ErrorKind = "profiling-run-failure"
	ErrKindFinalBuild     ErrorKind = "final-build-failure"
)

// BuildError tags a toolchain failure with the step it came from.
type BuildError struct {
	Kind ErrorKind
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func newBuildError(kind ErrorKind, err error) *BuildError {
	return &BuildError{Kind: kind, Err: err}
}
