package signer

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tltypes "github.com/mesh-intelligence/tableland/pkg/types"
)

// simulatedChainID is the chain id of the simulated backend.
const simulatedChainID = 1337

func newBackend(t *testing.T, key *ecdsa.PrivateKey) *simulated.Backend {
	t.Helper()
	if testing.Short() {
		t.Skip("starts a simulated chain")
	}
	funds, _ := new(big.Int).SetString("1000000000000000000000", 10)
	backend := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
	})
	t.Cleanup(func() { backend.Close() })
	return backend
}

func staticDialer(b Backend) Dialer {
	return func(ctx context.Context, providerURL string) (Backend, error) {
		return b, nil
	}
}

func TestNew(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	backend := newBackend(t, key)
	hexKey := "0x" + hex.EncodeToString(crypto.FromECDSA(key))

	s, err := New(context.Background(), hexKey, "sim://", simulatedChainID, staticDialer(backend.Client()))
	require.NoError(t, err)

	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), s.Address())
	assert.Equal(t, int64(simulatedChainID), s.ChainID())

	opts, err := s.Transactor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.Account(), opts.From)
}

func TestNew_Errors(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	backend := newBackend(t, key)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))
	dialErr := errors.New("connection refused")

	tests := []struct {
		name    string
		key     string
		chainID int64
		dial    Dialer
		wantErr error
	}{
		{name: "not hex", key: "zz", chainID: simulatedChainID, dial: staticDialer(backend.Client()), wantErr: tltypes.ErrInvalidPrivateKey},
		{name: "short key", key: "0xabcd", chainID: simulatedChainID, dial: staticDialer(backend.Client()), wantErr: tltypes.ErrInvalidPrivateKey},
		{name: "other chain", key: hexKey, chainID: 31337, dial: staticDialer(backend.Client()), wantErr: tltypes.ErrChainMismatch},
		{
			name:    "dial failure",
			key:     hexKey,
			chainID: simulatedChainID,
			dial: func(ctx context.Context, providerURL string) (Backend, error) {
				return nil, dialErr
			},
			wantErr: dialErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.key, "sim://", tt.chainID, tt.dial)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	raw := hex.EncodeToString(crypto.FromECDSA(key))

	for _, in := range []string{raw, "0x" + raw, " " + raw + "\n"} {
		got, err := ParseKey(in)
		require.NoError(t, err)
		assert.Equal(t, key.D, got.D)
	}
}

// closingBackend serves a fixed chain id and records Close. Only ChainID is
// called before the signer is bound.
type closingBackend struct {
	Backend
	chainID *big.Int
	err     error
	closed  int
}

func (b *closingBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.chainID, b.err
}

func (b *closingBackend) Close() { b.closed++ }

func TestNew_ClosesBackendWhenBindFails(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))

	tests := []struct {
		name    string
		backend *closingBackend
		wantErr error
	}{
		{name: "chain mismatch", backend: &closingBackend{chainID: big.NewInt(1)}, wantErr: tltypes.ErrChainMismatch},
		{name: "chain id unavailable", backend: &closingBackend{err: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(context.Background(), hexKey, "stub://provider", simulatedChainID, staticDialer(tt.backend))
			require.Error(t, err)
			assert.Nil(t, s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 1, tt.backend.closed)
		})
	}
}

func TestNew_KeepsBackendOpenWhenBound(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	b := &closingBackend{chainID: big.NewInt(simulatedChainID)}

	s, err := New(context.Background(), hex.EncodeToString(crypto.FromECDSA(key)), "stub://provider", simulatedChainID, staticDialer(b))
	require.NoError(t, err)
	assert.Equal(t, int64(simulatedChainID), s.ChainID())
	assert.Zero(t, b.closed)
}
