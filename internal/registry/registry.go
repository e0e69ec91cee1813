// Package registry submits statements to the on-chain registry contract.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mesh-intelligence/tableland/internal/signer"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// registryABI covers the two calls the client makes.
const registryABI = `[
  {"type":"function","name":"create","stateMutability":"payable",
   "inputs":[{"name":"owner","type":"address"},{"name":"statement","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"mutate","stateMutability":"payable",
   "inputs":[{"name":"caller","type":"address"},{"name":"tableId","type":"uint256"},{"name":"statement","type":"string"}],
   "outputs":[]}
]`

// Method names in registryABI.
const (
	MethodCreate = "create"
	MethodMutate = "mutate"
)

// Registry errors.
var (
	ErrInvalidAddress = errors.New("invalid registry contract address")
	ErrInvalidTableID = errors.New("table id must be a non-negative decimal integer")
)

// ABI returns the parsed registry ABI.
func ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		panic(fmt.Sprintf("registry: parse abi: %v", err))
	}
	return parsed
}

// Client sends registry transactions signed by one signer.
type Client struct {
	signer   *signer.Signer
	address  common.Address
	contract *bind.BoundContract
	gasLimit uint64
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithGasLimit fixes the gas limit and skips estimation. Zero estimates.
func WithGasLimit(limit uint64) Option {
	return func(c *Client) { c.gasLimit = limit }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New binds the registry at address to s's provider.
func New(s *signer.Signer, address string, opts ...Option) (*Client, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	addr := common.HexToAddress(address)
	backend := s.Backend()

	c := &Client{
		signer:   s,
		address:  addr,
		contract: bind.NewBoundContract(addr, ABI(), backend, backend, backend),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the registry contract address.
func (c *Client) Address() string { return c.address.Hex() }

// Create submits a CREATE TABLE statement owned by the signer.
func (c *Client) Create(ctx context.Context, statement string) (*types.Transaction, error) {
	return c.transact(ctx, MethodCreate, c.signer.Account(), statement)
}

// Mutate submits a write statement against tableID.
func (c *Client) Mutate(ctx context.Context, tableID string, statement string) (*types.Transaction, error) {
	id, ok := new(big.Int).SetString(tableID, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableID, tableID)
	}
	return c.transact(ctx, MethodMutate, c.signer.Account(), id, statement)
}

func (c *Client) transact(ctx context.Context, method string, params ...any) (*types.Transaction, error) {
	opts, err := c.signer.Transactor(ctx)
	if err != nil {
		return nil, err
	}
	opts.GasLimit = c.gasLimit

	tx, err := c.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", method, err)
	}
	c.logger.Info("Submitted registry transaction",
		"method", method, "tx", tx.Hash().Hex(), "chain_id", c.signer.ChainID())
	return &types.Transaction{Hash: tx.Hash().Hex(), ChainID: c.signer.ChainID()}, nil
}
