package types

import (
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

// Config holds the optional inputs used to prepare a Connection. Every field
// may be empty; missing values leave the dependent resources absent instead of
// failing the connection. A Connection copies Config and never mutates it.
type Config struct {
	// PrivateKey is a hex encoded secp256k1 key, with or without 0x prefix.
	PrivateKey string `json:"-" yaml:"-" mapstructure:"private_key"`
	// Chain selects the network by canonical name or decimal chain id.
	Chain string `json:"chain" yaml:"chain" mapstructure:"chain"`
	// ProviderURL overrides the network's default EVM provider endpoint.
	ProviderURL string `json:"provider_url" yaml:"provider_url" mapstructure:"provider_url"`
	// BaseURL is the read API base, e.g. https://testnets.tableland.network/api/v1.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	// AutoWait makes Database.Exec wait for the transaction receipt.
	AutoWait bool `json:"auto_wait" yaml:"auto_wait" mapstructure:"auto_wait"`

	// Aliases maps table aliases to full table names. Optional.
	Aliases AliasStore `json:"-" yaml:"-" mapstructure:"-"`
}

// Config validation errors.
var (
	ErrInvalidPrivateKey  = errors.New("private key must be 32 hex encoded bytes")
	ErrInvalidBaseURL     = errors.New("base url must be an absolute http or https url")
	ErrInvalidProviderURL = errors.New("provider url must be an absolute url")
)

// Validate checks the values that are present. Absent values are never an
// error. It returns a sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.PrivateKey != "" {
		key := strings.TrimPrefix(c.PrivateKey, "0x")
		if len(key) != 64 {
			return ErrInvalidPrivateKey
		}
		if _, err := hex.DecodeString(key); err != nil {
			return ErrInvalidPrivateKey
		}
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidBaseURL
		}
	}
	if c.ProviderURL != "" {
		u, err := url.Parse(c.ProviderURL)
		if err != nil || u.Scheme == "" {
			return ErrInvalidProviderURL
		}
	}
	return nil
}

// HasCredential reports whether a private key was supplied.
func (c Config) HasCredential() bool {
	return c.PrivateKey != ""
}
