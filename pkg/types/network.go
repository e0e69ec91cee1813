package types

import (
	"fmt"
	"strconv"
	"strings"
)

// NetworkInfo describes a supported network. Values are immutable once
// resolved.
type NetworkInfo struct {
	ChainID         int64  `json:"chain_id"`
	Name            string `json:"name"`
	BaseURL         string `json:"base_url"`
	ProviderURL     string `json:"provider_url"`
	RegistryAddress string `json:"registry_address"`
}

// Read API base URLs.
const (
	MainnetBaseURL = "https://tableland.network/api/v1"
	TestnetBaseURL = "https://testnets.tableland.network/api/v1"
	LocalBaseURL   = "http://localhost:8080/api/v1"
)

// NetworkCatalog is a set of networks that selectors resolve against.
type NetworkCatalog []NetworkInfo

// Networks is the built-in catalogue.
var Networks = NetworkCatalog{
	{ChainID: 1, Name: "ethereum", BaseURL: MainnetBaseURL, ProviderURL: "https://ethereum-rpc.publicnode.com", RegistryAddress: "0x012969f7e3439a9B04025b5a049EB9BAD82A8C12"},
	{ChainID: 10, Name: "optimism", BaseURL: MainnetBaseURL, ProviderURL: "https://mainnet.optimism.io", RegistryAddress: "0xfad44BF5B843dE943a09D4f3E84949A11d3aa3e6"},
	{ChainID: 42161, Name: "arbitrum", BaseURL: MainnetBaseURL, ProviderURL: "https://arb1.arbitrum.io/rpc", RegistryAddress: "0x9aBd75E8640871A5a20d3B4eE6330a04c962aFfd"},
	{ChainID: 42170, Name: "arbitrum-nova", BaseURL: MainnetBaseURL, ProviderURL: "https://nova.arbitrum.io/rpc", RegistryAddress: "0x1A22854c5b1642760a827f20137a67930AE108d2"},
	{ChainID: 137, Name: "matic", BaseURL: MainnetBaseURL, ProviderURL: "https://polygon-rpc.com", RegistryAddress: "0x5c4e6A9e5C1e1BF445A062006faF19EA6c49aFeA"},
	{ChainID: 314, Name: "filecoin", BaseURL: MainnetBaseURL, ProviderURL: "https://api.node.glif.io/rpc/v1", RegistryAddress: "0x59EF8Bf2d6c102B4c42AEf9189e1a9F0ABfD652d"},
	{ChainID: 8453, Name: "base", BaseURL: MainnetBaseURL, ProviderURL: "https://mainnet.base.org", RegistryAddress: "0x8268F7Aba0E152B3A853e8CB4Ab9795Ec66c2b6B"},
	{ChainID: 11155111, Name: "sepolia", BaseURL: TestnetBaseURL, ProviderURL: "https://ethereum-sepolia-rpc.publicnode.com", RegistryAddress: "0xc50C62498448ACc8dBdE43DA77f8D5D2E2c7597D"},
	{ChainID: 11155420, Name: "optimism-sepolia", BaseURL: TestnetBaseURL, ProviderURL: "https://sepolia.optimism.io", RegistryAddress: "0x68A2f4423ad3bf5139Db563CF3bC80aBb4F2E7D1"},
	{ChainID: 421614, Name: "arbitrum-sepolia", BaseURL: TestnetBaseURL, ProviderURL: "https://sepolia-rollup.arbitrum.io/rpc", RegistryAddress: "0x223A74B8323914afDC3ff1e5005564dC17231d6e"},
	{ChainID: 80002, Name: "maticamoy", BaseURL: TestnetBaseURL, ProviderURL: "https://rpc-amoy.polygon.technology", RegistryAddress: "0x170fb206132b693e38adFc8727dCfa303546Cec1"},
	{ChainID: 314159, Name: "filecoin-calibration", BaseURL: TestnetBaseURL, ProviderURL: "https://api.calibration.node.glif.io/rpc/v1", RegistryAddress: "0x030BCf3D50cad04c2e57391B12740982A9308621"},
	{ChainID: 84532, Name: "base-sepolia", BaseURL: TestnetBaseURL, ProviderURL: "https://sepolia.base.org", RegistryAddress: "0xA85aAE9f0Aec5F5638E5F13840797303Ab29c9f9"},
	{ChainID: 31337, Name: "local-tableland", BaseURL: LocalBaseURL, ProviderURL: "http://127.0.0.1:8545", RegistryAddress: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"},
}

// Resolve looks a network up by canonical name or decimal chain id. Names are
// matched case-insensitively. It returns an error wrapping
// ErrUnsupportedNetwork when nothing matches.
func (c NetworkCatalog) Resolve(selector string) (NetworkInfo, error) {
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return NetworkInfo{}, fmt.Errorf("%w: empty network selector", ErrUnsupportedNetwork)
	}

	if id, err := strconv.ParseInt(sel, 10, 64); err == nil {
		for _, n := range c {
			if n.ChainID == id {
				return n, nil
			}
		}
		return NetworkInfo{}, fmt.Errorf("%w: chain id %d", ErrUnsupportedNetwork, id)
	}

	for _, n := range c {
		if n.Name == sel {
			return n, nil
		}
	}
	return NetworkInfo{}, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, selector)
}

// Names returns the canonical names in catalogue order.
func (c NetworkCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, n := range c {
		names = append(names, n.Name)
	}
	return names
}
