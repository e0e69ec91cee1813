// Package polling provides the cancellable, time-bounded retry loop used to
// confirm that a submitted transaction has been executed.
//
// A Controller governs one confirmation attempt. Poll drives a probe until it
// reports completion, the controller deadline passes, or the controller is
// cancelled. DefaultFor picks controller settings suited to a chain.
package polling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robbyt/go-fsm"
)

// Controller states. A controller starts active and makes exactly one
// transition into a terminal state.
const (
	StateActive    = "active"
	StateCancelled = "cancelled"
	StateTimedOut  = "timed_out"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// controllerTransitions allows a single move out of StateActive.
var controllerTransitions = map[string][]string{
	StateActive:    {StateCancelled, StateTimedOut, StateCompleted, StateFailed},
	StateCancelled: {},
	StateTimedOut:  {},
	StateCompleted: {},
	StateFailed:    {},
}

// Defaults used when a controller is created without explicit settings.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultInterval = 1500 * time.Millisecond
)

// Polling outcome errors.
var (
	ErrAborted   = errors.New("polling aborted")
	ErrTimedOut  = errors.New("polling timed out")
	ErrCompleted = errors.New("polling controller already completed")
	ErrFailed    = errors.New("polling controller stopped by a probe error")
)

// Controller is a cancellable, time-bounded handle shared across one
// confirmation attempt. The deadline clock starts when the controller is
// created. Context returns the cancellation signal that probes bind their
// network calls to.
type Controller struct {
	id       string
	timeout  time.Duration
	interval time.Duration
	logger   *slog.Logger

	machine *fsm.Machine
	ctx     context.Context
	cancel  context.CancelCauseFunc
	timer   *time.Timer
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithTimeout sets the overall deadline. Non-positive values keep the default.
func WithTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInterval sets the wait between probes. Non-positive values keep the default.
func WithInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates an active controller and starts its deadline.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		id:       uuid.Must(uuid.NewV7()).String(),
		timeout:  DefaultTimeout,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	machine, err := fsm.New(c.logger.Handler(), StateActive, controllerTransitions)
	if err != nil {
		// The transition table is static; failure here is a programming error.
		panic(fmt.Sprintf("polling: build controller state machine: %v", err))
	}
	c.machine = machine
	c.ctx, c.cancel = context.WithCancelCause(context.Background())
	c.timer = time.AfterFunc(c.timeout, c.expire)
	return c
}

// ID returns the controller identifier used in log records.
func (c *Controller) ID() string { return c.id }

// Timeout returns the overall deadline measured from creation.
func (c *Controller) Timeout() time.Duration { return c.timeout }

// Interval returns the wait between probes.
func (c *Controller) Interval() time.Duration { return c.interval }

// Context returns the cancellation signal. It is cancelled when the controller
// is cancelled or its deadline passes; context.Cause reports which.
func (c *Controller) Context() context.Context { return c.ctx }

// Done is shorthand for Context().Done().
func (c *Controller) Done() <-chan struct{} { return c.ctx.Done() }

// State returns the current controller state.
func (c *Controller) State() string { return c.machine.GetState() }

// Err returns ErrAborted or ErrTimedOut once the controller has been cancelled
// or has expired, ErrFailed once a probe error ended polling, and nil
// otherwise.
func (c *Controller) Err() error {
	switch c.State() {
	case StateCancelled:
		return ErrAborted
	case StateTimedOut:
		return ErrTimedOut
	case StateFailed:
		return ErrFailed
	default:
		return nil
	}
}

// Cancel aborts the attempt. In-flight probes observe the cancellation through
// Context. Calling Cancel after a terminal state is a no-op.
func (c *Controller) Cancel() {
	if err := c.machine.TransitionIfCurrentState(StateActive, StateCancelled); err != nil {
		return
	}
	c.timer.Stop()
	c.logger.Debug("Polling cancelled", "controller", c.id)
	c.cancel(ErrAborted)
}

func (c *Controller) expire() {
	if err := c.machine.TransitionIfCurrentState(StateActive, StateTimedOut); err != nil {
		return
	}
	c.logger.Debug("Polling deadline reached", "controller", c.id, "timeout", c.timeout)
	c.cancel(ErrTimedOut)
}

// complete marks the attempt successful. It reports false when another
// terminal transition won the race.
func (c *Controller) complete() bool {
	if err := c.machine.TransitionIfCurrentState(StateActive, StateCompleted); err != nil {
		return false
	}
	c.timer.Stop()
	return true
}

// fail ends the attempt after a probe error, releasing the deadline timer and
// the cancellation signal. It reports false when another terminal transition
// won the race.
func (c *Controller) fail(cause error) bool {
	if err := c.machine.TransitionIfCurrentState(StateActive, StateFailed); err != nil {
		return false
	}
	c.timer.Stop()
	c.logger.Debug("Polling stopped by probe error", "controller", c.id, "error", cause)
	c.cancel(cause)
	return true
}
