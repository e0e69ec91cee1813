// Package tableland is the entry point for library users. Connect builds a
// readiness-gated connection from a partial configuration:
//
//	conn := tableland.Connect(types.Config{Chain: "base-sepolia", PrivateKey: key})
//	defer conn.Close()
//	if err := conn.Ready(ctx); err != nil {
//		return err
//	}
//	db, err := conn.Database()
package tableland

import (
	"github.com/mesh-intelligence/tableland/internal/connection"
	"github.com/mesh-intelligence/tableland/internal/database"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// Version is the library version.
const Version = "0.1.0"

// Conn is a connection that owns its provider link until Close.
type Conn interface {
	types.Connection
	Close()
}

// Option configures Connect.
type Option = connection.Option

// Connect options.
var (
	WithLogger     = connection.WithLogger
	WithNetworks   = connection.WithNetworks
	WithDialer     = connection.WithDialer
	WithHTTPClient = connection.WithHTTPClient
	WithRateLimit  = connection.WithRateLimit
	WithGasLimit   = connection.WithGasLimit
)

// NewMemoryAliases returns an in-process store for types.Config.Aliases.
var NewMemoryAliases = database.NewMemoryAliases

// Connect starts preparing a connection for cfg and returns immediately.
func Connect(cfg types.Config, opts ...Option) Conn {
	return connection.New(cfg, opts...)
}
