package connection

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/mesh-intelligence/tableland/internal/signer"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// Option configures a Connection.
type Option func(*Connection)

// WithLogger sets the logger used by the connection and the clients it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNetworks replaces the network catalogue selectors resolve against.
func WithNetworks(networks types.NetworkCatalog) Option {
	return func(c *Connection) {
		if networks != nil {
			c.networks = networks
		}
	}
}

// WithDialer replaces the provider dialer used to build the signer.
func WithDialer(dial signer.Dialer) Option {
	return func(c *Connection) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithHTTPClient sets the HTTP client of the read API client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Connection) { c.httpClient = hc }
}

// WithRateLimit throttles read API requests.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Connection) {
		c.rateLimit = limit
		c.rateBurst = burst
	}
}

// WithGasLimit fixes the gas limit of registry transactions.
func WithGasLimit(limit uint64) Option {
	return func(c *Connection) { c.gasLimit = limit }
}
