package usecase

import (
	"context"
	"errors"
	"fmt"

	"easy-apply/internal/answers"
)

// SetupError is a configuration or knowledge-base problem. It aborts the run.
type SetupError struct{ Err error }

func (e *SetupError) Error() string { return "setup: " + e.Err.Error() }
func (e *SetupError) Unwrap() error { return e.Err }

// NavigationError reports an expected page or element that is absent.
type NavigationError struct {
	What string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navigation: %s: %v", e.What, e.Err)
	}
	return "navigation: " + e.What
}
func (e *NavigationError) Unwrap() error { return e.Err }

// StepFillError is a failure inside one field grouping. It is logged and the
// remaining groupings are still attempted.
type StepFillError struct {
	Stage string
	Err   error
}

func (e *StepFillError) Error() string { return fmt.Sprintf("fill %s: %v", e.Stage, e.Err) }
func (e *StepFillError) Unwrap() error { return e.Err }

// StuckStepError ends the current application attempt.
type StuckStepError struct{ Reason string }

func (e *StuckStepError) Error() string { return e.Reason }

// LoginError ends the run.
type LoginError struct{ Reason string }

func (e *LoginError) Error() string { return "login failed: " + e.Reason }

// asSetup converts knowledge-base key errors into SetupError.
func asSetup(err error) error {
	if err != nil && errors.Is(err, answers.ErrMissingKey) {
		var se *SetupError
		if errors.As(err, &se) {
			return err
		}
		return &SetupError{Err: err}
	}
	return err
}

// isFatal reports errors that must escape field-level isolation: setup
// problems and the end of the run context.
func isFatal(ctx context.Context, err error) bool {
	var se *SetupError
	return errors.As(err, &se) || ctx.Err() != nil
}
