package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkCatalog_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		wantID   int64
		wantURL  string
	}{
		{name: "by name", selector: "sepolia", wantID: 11155111, wantURL: TestnetBaseURL},
		{name: "by name ignores case and space", selector: "  Arbitrum ", wantID: 42161, wantURL: MainnetBaseURL},
		{name: "by chain id", selector: "31337", wantID: 31337, wantURL: LocalBaseURL},
		{name: "mainnet by chain id", selector: "1", wantID: 1, wantURL: MainnetBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Networks.Resolve(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, n.ChainID)
			assert.Equal(t, tt.wantURL, n.BaseURL)
			assert.NotEmpty(t, n.RegistryAddress)
			assert.NotEmpty(t, n.ProviderURL)
		})
	}
}

func TestNetworkCatalog_ResolveUnsupported(t *testing.T) {
	for _, sel := range []string{"", "chain-that-does-not-exist", "424242"} {
		t.Run(sel, func(t *testing.T) {
			_, err := Networks.Resolve(sel)
			assert.ErrorIs(t, err, ErrUnsupportedNetwork)
		})
	}
}

func TestNetworkCatalog_CustomCatalog(t *testing.T) {
	catalog := NetworkCatalog{{ChainID: 1337, Name: "chain-a", BaseURL: "http://127.0.0.1:9/api/v1"}}

	n, err := catalog.Resolve("chain-A")
	require.NoError(t, err)
	assert.Equal(t, int64(1337), n.ChainID)

	_, err = catalog.Resolve("sepolia")
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)
	assert.Equal(t, []string{"chain-a"}, catalog.Names())
}

func TestNetworks_UniqueIDsAndNames(t *testing.T) {
	ids := map[int64]bool{}
	names := map[string]bool{}
	for _, n := range Networks {
		assert.False(t, ids[n.ChainID], "duplicate chain id %d", n.ChainID)
		assert.False(t, names[n.Name], "duplicate name %s", n.Name)
		ids[n.ChainID] = true
		names[n.Name] = true
	}
}
