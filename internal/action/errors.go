package action

import "errors"

var (
	// ErrCommandTimeout is returned when a command outlives its timeout
	ErrCommandTimeout = errors.New("command timed out")

	// ErrCommandFailed is returned when a command exits non-zero
	ErrCommandFailed = errors.New("command execution failed")

	// ErrNoEmitter is returned for key actions when no virtual keyboard exists
	ErrNoEmitter = errors.New("no key emitter available")

	// ErrInvalidAction is returned for actions of unknown kind
	ErrInvalidAction = errors.New("invalid action")
)
