// Package signer turns a hex private key into an account bound to an EVM
// provider. The signer authorizes registry transactions.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

// Backend is the provider connection a signer transacts through.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a Backend for a provider URL.
type Dialer func(ctx context.Context, providerURL string) (Backend, error)

// DialEthclient is the default Dialer. It connects with ethclient.
func DialEthclient(ctx context.Context, providerURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, providerURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Signer is a private key bound to a provider on one chain.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	backend Backend
}

// ParseKey decodes a hex private key with or without 0x prefix.
func ParseKey(privateKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidPrivateKey, err)
	}
	return key, nil
}

// New parses privateKey, dials providerURL and checks that the provider
// serves chainID. A nil dial uses DialEthclient. The dialed backend is closed
// when the check fails.
func New(ctx context.Context, privateKey, providerURL string, chainID int64, dial Dialer) (*Signer, error) {
	key, err := ParseKey(privateKey)
	if err != nil {
		return nil, err
	}
	if dial == nil {
		dial = DialEthclient
	}

	backend, err := dial(ctx, providerURL)
	if err != nil {
		return nil, fmt.Errorf("dial provider %s: %w", providerURL, err)
	}
	s, err := Bind(ctx, key, backend, chainID)
	if err != nil {
		if c, ok := backend.(interface{ Close() }); ok {
			c.Close()
		}
		return nil, err
	}
	return s, nil
}

// Bind attaches key to an open backend. It fails with types.ErrChainMismatch
// when the backend serves a chain other than chainID.
func Bind(ctx context.Context, key *ecdsa.PrivateKey, backend Backend, chainID int64) (*Signer, error) {
	got, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("read provider chain id: %w", err)
	}
	if !got.IsInt64() || got.Int64() != chainID {
		return nil, fmt.Errorf("%w: provider serves %s, network is %d", types.ErrChainMismatch, got, chainID)
	}

	s := &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: got,
		backend: backend,
	}
	return s, nil
}

// Address returns the checksummed account address.
func (s *Signer) Address() string { return s.address.Hex() }

// Account returns the account address.
func (s *Signer) Account() common.Address { return s.address }

// ChainID returns the chain the signer is bound to.
func (s *Signer) ChainID() int64 { return s.chainID.Int64() }

// Backend returns the provider connection.
func (s *Signer) Backend() Backend { return s.backend }

// Transactor returns options that sign transactions with the signer's key.
// ctx bounds the calls made while the transaction is built and sent.
func (s *Signer) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
