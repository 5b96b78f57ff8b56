package prompt

import "errors"

var (
	// ErrAborted indicates the user interrupted the prompt flow.
	ErrAborted = errors.New("prompt: aborted by user")
	// ErrTooManyAttempts is returned when a field keeps failing validation.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
	// ErrNoDriver is returned when Run is called without a driver.
	ErrNoDriver = errors.New("prompt: driver is required")
)
