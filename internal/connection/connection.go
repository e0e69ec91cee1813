// Package connection assembles the clients a configuration allows and gates
// access to them behind a one-shot readiness signal.
package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/mesh-intelligence/tableland/internal/database"
	"github.com/mesh-intelligence/tableland/internal/registry"
	"github.com/mesh-intelligence/tableland/internal/signer"
	"github.com/mesh-intelligence/tableland/internal/validator"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

// prepareTimeout bounds the provider calls made while preparing.
const prepareTimeout = 30 * time.Second

var _ types.Connection = (*Connection)(nil)

// Connection is the readiness-gated aggregate built from a types.Config.
type Connection struct {
	cfg        types.Config
	networks   types.NetworkCatalog
	dial       signer.Dialer
	httpClient *http.Client
	rateLimit  rate.Limit
	rateBurst  int
	gasLimit   uint64
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	once  sync.Once
	done  chan struct{}
	ready atomic.Bool
	err   error

	signer    slot[*signer.Signer]
	registry  slot[*registry.Client]
	validator slot[*validator.Client]
	database  slot[*database.Database]
	network   slot[types.NetworkInfo]
}

// New copies cfg and starts preparing in the background. Call Ready before
// using any accessor.
func New(cfg types.Config, opts ...Option) *Connection {
	c := &Connection{
		cfg:      cfg,
		networks: types.Networks,
		dial:     signer.DialEthclient,
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.start()
	return c
}

func (c *Connection) start() {
	c.once.Do(func() {
		go c.run()
	})
}

func (c *Connection) run() {
	defer close(c.done)
	if err := c.prepare(); err != nil {
		c.err = err
		c.logger.Error("Connection preparation failed", "error", err)
		return
	}
	c.ready.Store(true)
}

// Ready blocks until preparation has finished or ctx ends. It returns the
// hard configuration error that stopped preparation, if any. Absent
// resources do not fail Ready.
func (c *Connection) Ready(ctx context.Context) error {
	c.start()
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops a preparation still in progress and releases the provider
// connection.
func (c *Connection) Close() {
	c.cancel()
	<-c.done
	if s, err := c.signer.get(); err == nil {
		if closer, ok := s.Backend().(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

// prepare builds every resource the configuration allows. Only a failure to
// build a requested signer is returned; other gaps are recorded in their
// slots.
func (c *Connection) prepare() error {
	ctx, cancel := context.WithTimeout(c.ctx, prepareTimeout)
	defer cancel()
	cfg := c.cfg

	// 1. signer
	switch {
	case cfg.PrivateKey != "" && cfg.Chain != "":
		network, err := c.networks.Resolve(cfg.Chain)
		if err != nil {
			return fmt.Errorf("build signer: %w", err)
		}
		providerURL := cfg.ProviderURL
		if providerURL == "" {
			providerURL = network.ProviderURL
		}
		if providerURL == "" {
			return fmt.Errorf("build signer: %w: no provider url for network %s", types.ErrMissingConfig, network.Name)
		}
		s, err := signer.New(ctx, cfg.PrivateKey, providerURL, network.ChainID, c.dial)
		if err != nil {
			return fmt.Errorf("build signer: %w", err)
		}
		c.signer.set(s)
		c.logger.Info("Signer ready", "address", s.Address(), "chain_id", s.ChainID())
	case cfg.PrivateKey == "":
		c.signer.absent("signer", "no private key was supplied", nil)
	default:
		c.signer.absent("signer", "a private key was supplied without a chain", nil)
	}

	// 2. network
	var network types.NetworkInfo
	if cfg.Chain == "" {
		c.network.absent("network", "no chain was supplied", nil)
	} else if n, err := c.networks.Resolve(cfg.Chain); err != nil {
		c.logger.Warn("Network not resolved", "chain", cfg.Chain, "error", err)
		c.network.absent("network", fmt.Sprintf("chain %q could not be resolved", cfg.Chain), err)
	} else {
		network = n
		c.network.set(n)
	}

	// 3. registry
	if s, err := c.signer.get(); err != nil {
		c.registry.absent("registry", "no signer is available", err)
	} else if r, err := registry.New(s, network.RegistryAddress,
		registry.WithGasLimit(c.gasLimit), registry.WithLogger(c.logger)); err != nil {
		c.registry.absent("registry", fmt.Sprintf("network %s has no usable registry address", network.Name), err)
	} else {
		c.registry.set(r)
	}

	// 4. database; it reads the validator slot when it is used
	dbCfg := database.Config{
		Aliases:         cfg.Aliases,
		ChainID:         network.ChainID,
		AutoWait:        cfg.AutoWait,
		Logger:          c.logger,
		ValidatorSource: c.databaseValidator,
	}
	if r, err := c.registry.get(); err != nil {
		dbCfg.RegistryErr = err
	} else {
		dbCfg.Registry = r
	}
	if s, err := c.signer.get(); err == nil {
		dbCfg.ChainID = s.ChainID()
	}
	c.database.set(database.New(dbCfg))

	// 5. validator
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = network.BaseURL
	}
	if baseURL == "" {
		_, netErr := c.network.get()
		c.validator.absent("validator", "no base url was supplied and no network was resolved", netErr)
	} else if v, err := validator.New(baseURL, c.validatorOptions()...); err != nil {
		c.validator.absent("validator", fmt.Sprintf("base url %q is invalid", baseURL), err)
	} else {
		c.validator.set(v)
	}

	c.logger.Debug("Connection prepared",
		"signer", c.signer.present, "registry", c.registry.present,
		"validator", c.validator.present, "network", c.network.present)
	return nil
}

// databaseValidator hands the database the validator slot's contents.
func (c *Connection) databaseValidator() (types.Validator, error) {
	v, err := c.validator.get()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Connection) validatorOptions() []validator.Option {
	opts := []validator.Option{validator.WithLogger(c.logger)}
	if c.httpClient != nil {
		opts = append(opts, validator.WithHTTPClient(c.httpClient))
	}
	if c.rateLimit > 0 {
		opts = append(opts, validator.WithRateLimit(c.rateLimit, c.rateBurst))
	}
	return opts
}

// access returns the slot value once the connection is ready.
func access[T any](c *Connection, s *slot[T]) (T, error) {
	if !c.ready.Load() {
		var zero T
		return zero, types.ErrNotReady
	}
	return s.get()
}

// Signer returns the signer.
func (c *Connection) Signer() (types.Signer, error) {
	s, err := access(c, &c.signer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Registry returns the registry client.
func (c *Connection) Registry() (types.Registry, error) {
	r, err := access(c, &c.registry)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Validator returns the read API client.
func (c *Connection) Validator() (types.Validator, error) {
	v, err := access(c, &c.validator)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Database returns the database facade. It is present whenever the
// connection is ready.
func (c *Connection) Database() (types.Database, error) {
	d, err := access(c, &c.database)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Network returns the resolved network.
func (c *Connection) Network() (types.NetworkInfo, error) {
	return access(c, &c.network)
}

// ValidatorClient returns the concrete read API client.
func (c *Connection) ValidatorClient() (*validator.Client, error) {
	return access(c, &c.validator)
}

// DatabaseFacade returns the concrete database facade.
func (c *Connection) DatabaseFacade() (*database.Database, error) {
	return access(c, &c.database)
}
