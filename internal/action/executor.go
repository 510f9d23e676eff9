package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"absmap/internal/input"
	"absmap/internal/keys"
)

// DefaultCommandTimeout bounds command actions when no timeout is configured
const DefaultCommandTimeout = time.Second

// Executor is the Sink used by the daemon: keys go to a virtual keyboard,
// commands run through sh with a hard timeout.
type Executor struct {
	emitter input.KeyEmitter
	timeout time.Duration
	sleep   func(time.Duration)
}

// NewExecutor creates an executor. emitter may be nil when no action uses
// keys.
func NewExecutor(emitter input.KeyEmitter, commandTimeout time.Duration) *Executor {
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}
	return &Executor{
		emitter: emitter,
		timeout: commandTimeout,
		sleep:   time.Sleep,
	}
}

// Dispatch runs the action and reports what went wrong, if anything.
func (e *Executor) Dispatch(a Action, keyDelay time.Duration) error {
	switch a.Kind {
	case KindKeys:
		if err := e.emitKeys(a.Keys, keyDelay); err != nil {
			return fmt.Errorf("key emit error: %w", err)
		}
		return nil
	case KindCommand:
		if err := e.runCommand(a.Command); err != nil {
			return fmt.Errorf("command error: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidAction, a.Kind)
	}
}

// emitKeys presses every key in order, holds them for delay, then releases
// them in the same order. Keys that were pressed are always released.
func (e *Executor) emitKeys(codes []keys.Code, delay time.Duration) error {
	if e.emitter == nil {
		return ErrNoEmitter
	}

	var errs []error
	pressed := make([]keys.Code, 0, len(codes))
	for _, c := range codes {
		if err := e.emitter.Press(uint16(c)); err != nil {
			errs = append(errs, fmt.Errorf("press %s: %w", c, err))
			break
		}
		pressed = append(pressed, c)
	}
	if err := e.emitter.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}

	e.sleep(delay)

	for _, c := range pressed {
		if err := e.emitter.Release(uint16(c)); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", c, err))
		}
	}
	if err := e.emitter.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}

	return errors.Join(errs...)
}

func (e *Executor) runCommand(command string) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	configureProcessGroup(cmd)

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v: %s", ErrCommandTimeout, e.timeout, command)
	}
	if err != nil {
		if output := strings.TrimSpace(out.String()); output != "" {
			log.Printf("Action: %q output: %s", command, output)
		}
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, command, err)
	}
	return nil
}
