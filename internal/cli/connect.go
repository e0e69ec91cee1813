package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableland/internal/connection"
	"github.com/mesh-intelligence/tableland/pkg/polling"
)

// connect builds a connection from the loaded configuration and waits for it.
// The caller must Close the connection.
func (a *app) connect(ctx context.Context) (*connection.Connection, error) {
	cfg, err := connectionConfig(a.v)
	if err != nil {
		return nil, err
	}
	conn := connection.New(cfg, connection.WithLogger(a.logger))
	if err := conn.Ready(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// waitFlags are shared by commands that wait for receipts.
type waitFlags struct {
	wait     bool
	timeout  time.Duration
	interval time.Duration
}

func (f *waitFlags) register(cmd *cobra.Command, waitDefault bool) {
	cmd.Flags().BoolVar(&f.wait, "wait", waitDefault, "wait for the receipt")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "receipt wait timeout (default: the chain's)")
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "receipt polling interval (default: the chain's)")
}

// controller returns the polling controller for chainID. Flags override the
// chain policy.
func (f *waitFlags) controller(a *app, chainID int64) *polling.Controller {
	ctrl := polling.DefaultFor(chainID,
		polling.WithTimeout(f.timeout),
		polling.WithInterval(f.interval),
		polling.WithLogger(a.logger),
	)
	a.logger.Debug("Waiting for receipt", "controller", ctrl.ID(),
		"timeout", ctrl.Timeout(), "interval", ctrl.Interval())
	return ctrl
}

func chainIDOf(conn *connection.Connection) (int64, error) {
	n, err := conn.Network()
	if err != nil {
		return 0, fmt.Errorf("a chain is required: %w", err)
	}
	return n.ChainID, nil
}
