package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/tableland/pkg/polling"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// ReceiptFetcher performs one receipt lookup. It must return an error
// wrapping types.ErrReceiptNotFound while the receipt is pending.
type ReceiptFetcher interface {
	GetReceipt(ctx context.Context, chainID int64, txHash string) (*types.Receipt, error)
}

// Waiter resolves a transaction hash into its receipt by polling a fetcher.
// Only the not-found answer is retried; any other error ends the wait.
type Waiter struct {
	fetcher ReceiptFetcher
	logger  *slog.Logger
}

// NewWaiter creates a waiter over fetcher.
func NewWaiter(fetcher ReceiptFetcher, logger *slog.Logger) *Waiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Waiter{fetcher: fetcher, logger: logger}
}

// Wait polls until the receipt for txHash on chainID is available. A nil
// controller is replaced by polling.DefaultFor(chainID).
func (w *Waiter) Wait(ctx context.Context, chainID int64, txHash string, ctrl *polling.Controller) (*types.Receipt, error) {
	if ctrl == nil {
		ctrl = polling.DefaultFor(chainID, polling.WithLogger(w.logger))
	}

	probe := func(ctx context.Context) (polling.Result[*types.Receipt], error) {
		r, err := w.fetcher.GetReceipt(ctx, chainID, txHash)
		if errors.Is(err, types.ErrReceiptNotFound) {
			w.logger.Debug("Receipt pending", "tx", txHash, "chain_id", chainID, "controller", ctrl.ID())
			return polling.Result[*types.Receipt]{}, nil
		}
		if err != nil {
			return polling.Result[*types.Receipt]{}, err
		}
		return polling.Result[*types.Receipt]{Done: true, Data: r}, nil
	}

	r, err := polling.Poll(ctx, ctrl, probe)
	if err != nil {
		return nil, fmt.Errorf("wait for receipt %s on chain %d: %w", txHash, chainID, err)
	}
	return r, nil
}
