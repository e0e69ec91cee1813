package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Result is what a probe reports after one attempt. Data is only read when
// Done is true.
type Result[T any] struct {
	Done bool
	Data T
}

// Probe performs one idempotent check. ctx is the controller's cancellation
// signal and must be passed to any network call the probe makes.
type Probe[T any] func(ctx context.Context) (Result[T], error)

// errPending marks an attempt that should be retried after the interval.
var errPending = errors.New("condition not met")

// Poll invokes probe immediately and then once per controller interval until
// the probe reports Done, the probe fails, or the controller stops.
//
// A probe error ends polling at once, moves the controller to StateFailed and
// is returned unchanged. The controller deadline yields ErrTimedOut. Cancel,
// or cancellation of ctx, yields ErrAborted. A nil controller is replaced by
// NewController().
func Poll[T any](ctx context.Context, ctrl *Controller, probe Probe[T]) (T, error) {
	var zero T
	if ctrl == nil {
		ctrl = NewController()
	}
	if err := ctrl.Err(); err != nil {
		return zero, err
	}
	if ctrl.State() == StateCompleted {
		return zero, ErrCompleted
	}

	stop := context.AfterFunc(ctx, ctrl.Cancel)
	defer stop()

	var (
		data     T
		attempts int
		probeErr error
	)
	operation := func() error {
		attempts++
		res, err := probe(ctrl.Context())
		if err != nil {
			if cerr := ctrl.Err(); cerr != nil {
				return backoff.Permanent(cerr)
			}
			probeErr = err
			return backoff.Permanent(err)
		}
		if !res.Done {
			return errPending
		}
		data = res.Data
		return nil
	}
	notify := func(err error, next time.Duration) {
		ctrl.logger.Debug("Condition not met, polling again",
			"controller", ctrl.id, "attempt", attempts, "next", next)
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(ctrl.Interval()), ctrl.Context())
	err := backoff.RetryNotify(operation, b, notify)
	switch {
	case probeErr != nil:
		ctrl.fail(probeErr)
		return zero, probeErr
	case err != nil:
		if cerr := ctrl.Err(); cerr != nil {
			return zero, fmt.Errorf("%w after %d attempts", cerr, attempts)
		}
		return zero, err
	}

	if !ctrl.complete() {
		// The deadline or a cancel landed while the final probe was running.
		return zero, fmt.Errorf("%w after %d attempts", ctrl.Err(), attempts)
	}
	return data, nil
}
