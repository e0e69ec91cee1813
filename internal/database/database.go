// Package database implements the statement facade over the registry, the
// read API and table aliases.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/tableland/pkg/polling"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// Config wires a Database. Registry and Validator may be nil; the matching
// Err field then explains why and is returned by operations that need them.
// ValidatorSource, when set, replaces Validator and ValidatorErr and is
// consulted on every read.
type Config struct {
	Registry        types.Registry
	RegistryErr     error
	Validator       types.Validator
	ValidatorErr    error
	ValidatorSource func() (types.Validator, error)
	Aliases         types.AliasStore
	ChainID         int64
	AutoWait        bool
	Logger          *slog.Logger
}

// Database issues statements. Without a registry it only reads.
type Database struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Database from cfg.
func New(cfg Config) *Database {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Registry == nil && cfg.RegistryErr == nil {
		cfg.RegistryErr = &types.ConfigError{Resource: "signer", Reason: "a private key is required to submit statements"}
	}
	if cfg.ValidatorSource == nil {
		v, verr := cfg.Validator, cfg.ValidatorErr
		if v == nil && verr == nil {
			verr = &types.ConfigError{Resource: "validator", Reason: "a base url or network is required to read"}
		}
		cfg.ValidatorSource = func() (types.Validator, error) {
			if v == nil {
				return nil, verr
			}
			return v, nil
		}
	}
	return &Database{cfg: cfg, logger: logger}
}

// ReadOnly reports whether the database lacks a registry.
func (d *Database) ReadOnly() bool { return d.cfg.Registry == nil }

// ChainID returns the chain statements are submitted to.
func (d *Database) ChainID() int64 { return d.cfg.ChainID }

// Exec submits a mutating statement. With AutoWait it waits for the receipt
// under the chain's default polling policy.
func (d *Database) Exec(ctx context.Context, statement string) (*types.ExecResult, error) {
	return d.ExecWith(ctx, statement, nil)
}

// ExecWith is Exec with an explicit polling controller for the wait. ctrl is
// ignored when AutoWait is off.
func (d *Database) ExecWith(ctx context.Context, statement string, ctrl *polling.Controller) (*types.ExecResult, error) {
	if d.cfg.Registry == nil {
		return nil, d.cfg.RegistryErr
	}

	aliases, err := d.readAliases(ctx)
	if err != nil {
		return nil, err
	}
	stmt := substitute(statement, aliases)

	var (
		tx     *types.Transaction
		prefix string
	)
	if isCreate(stmt) {
		prefix, stmt = createPrefix(stmt, d.cfg.ChainID)
		tx, err = d.cfg.Registry.Create(ctx, stmt)
	} else {
		var id string
		id, err = tableID(stmt, d.cfg.ChainID)
		if err != nil {
			return nil, err
		}
		tx, err = d.cfg.Registry.Mutate(ctx, id, stmt)
	}
	if err != nil {
		return nil, err
	}

	res := &types.ExecResult{Transaction: *tx}
	if !d.cfg.AutoWait {
		return res, nil
	}
	v, err := d.cfg.ValidatorSource()
	if err != nil {
		return res, err
	}

	receipt, err := v.WaitForReceipt(ctx, tx.ChainID, tx.Hash, ctrl)
	if err != nil {
		return res, err
	}
	res.Receipt = receipt
	if receipt.Failed() {
		return res, fmt.Errorf("%w: %s", types.ErrStatementFailed, receipt.Error)
	}

	if prefix != "" && receipt.TableID != "" && d.cfg.Aliases != nil {
		name := fullName(prefix, tx.ChainID, receipt.TableID)
		if err := d.cfg.Aliases.Write(ctx, map[string]string{prefix: name}); err != nil {
			return res, fmt.Errorf("record alias %s: %w", prefix, err)
		}
		d.logger.Debug("Recorded table alias", "alias", prefix, "table", name)
	}
	return res, nil
}

// Query runs a read statement through the read API.
func (d *Database) Query(ctx context.Context, statement string) ([]map[string]any, error) {
	v, err := d.cfg.ValidatorSource()
	if err != nil {
		return nil, err
	}
	aliases, err := d.readAliases(ctx)
	if err != nil {
		return nil, err
	}
	return v.Query(ctx, substitute(statement, aliases))
}

func (d *Database) readAliases(ctx context.Context) (map[string]string, error) {
	if d.cfg.Aliases == nil {
		return nil, nil
	}
	aliases, err := d.cfg.Aliases.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	return aliases, nil
}
