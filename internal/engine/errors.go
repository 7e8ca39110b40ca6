package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a recognized command with unusable arguments.
	ErrValidation = errors.New("validation failed")
	// ErrInvariant marks a state the model should never reach.
	ErrInvariant = errors.New("invariant violated")
)

// CommandError is a failed command. Its message is what the player sees.
type CommandError struct {
	Kind    error
	Message string
}

func (e *CommandError) Error() string { return e.Message }

func (e *CommandError) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &CommandError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func invariantf(format string, args ...any) error {
	return &CommandError{Kind: ErrInvariant, Message: fmt.Sprintf(format, args...)}
}
