package framework

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RunnerError is the failure of a named Runnable.
type RunnerError struct {
	Name string
	Err  error
}

// Error implements error.
func (e *RunnerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns the failure.
func (e *RunnerError) Unwrap() error {
	return e.Err
}

// AggregatedError collects the failures of the Runnables of a Runner.
type AggregatedError struct {
	Errors []error
}

// Error implements error. A single failure reads as itself.
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msg := make([]string, 0, len(e.Errors)+1)
	msg = append(msg, fmt.Sprintf("%d runners failed:", len(e.Errors)))
	for _, err := range e.Errors {
		msg = append(msg, "  "+err.Error())
	}
	return strings.Join(msg, "\n")
}

// Is reports whether any collected failure matches target.
func (e *AggregatedError) Is(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Failed returns the names of the failed Runnables.
func (e *AggregatedError) Failed() []string {
	var names []string
	for _, err := range e.Errors {
		var re *RunnerError
		if errors.As(err, &re) {
			names = append(names, re.Name)
		}
	}
	return names
}

// Add adds errors. nil and cancellation are skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns nil if nothing failed.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
