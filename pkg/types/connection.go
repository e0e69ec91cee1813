package types

import (
	"context"

	"github.com/mesh-intelligence/tableland/pkg/polling"
)

// Connection is the readiness-gated aggregate of clients built from a Config.
// Callers wait on Ready, then use the accessors. Accessors called before
// Ready has succeeded return ErrNotReady; resources that the configuration
// could not provide return a *ConfigError.
type Connection interface {
	// Ready blocks until preparation finishes or ctx ends. It returns the
	// error that stopped preparation, if any. Ready succeeds even when some
	// resources are absent.
	Ready(ctx context.Context) error

	Signer() (Signer, error)
	Registry() (Registry, error)
	Validator() (Validator, error)
	Database() (Database, error)
	Network() (NetworkInfo, error)
}

// Signer authorizes mutating operations.
type Signer interface {
	Address() string
	ChainID() int64
}

// Registry submits mutations to the on-chain registry.
type Registry interface {
	// Create submits a CREATE TABLE statement owned by the signer.
	Create(ctx context.Context, statement string) (*Transaction, error)

	// Mutate submits a write statement against tableID (decimal).
	Mutate(ctx context.Context, tableID string, statement string) (*Transaction, error)
}

// Validator queries the off-chain read API.
type Validator interface {
	BaseURL() string
	Health(ctx context.Context) error

	// GetReceipt fetches the receipt once. It returns ErrReceiptNotFound while
	// the transaction has not been processed.
	GetReceipt(ctx context.Context, chainID int64, txHash string) (*Receipt, error)

	// WaitForReceipt polls until the receipt appears. A nil controller uses
	// the chain's default polling policy.
	WaitForReceipt(ctx context.Context, chainID int64, txHash string, ctrl *polling.Controller) (*Receipt, error)

	// Query runs a read statement and returns rows as objects.
	Query(ctx context.Context, statement string) ([]map[string]any, error)
}

// Database issues statements, combining the registry, the validator and
// table aliases. Without a signer it is read-only.
type Database interface {
	Exec(ctx context.Context, statement string) (*ExecResult, error)
	Query(ctx context.Context, statement string) ([]map[string]any, error)
	ReadOnly() bool
}

// AliasStore maps table aliases to full table names.
type AliasStore interface {
	Read(ctx context.Context) (map[string]string, error)
	Write(ctx context.Context, aliases map[string]string) error
}
