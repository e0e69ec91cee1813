package types

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by Connection accessors called before Ready has
// succeeded. It indicates a caller bug.
var ErrNotReady = errors.New("connection is not ready: call Ready before using its resources")

// Configuration errors.
var (
	ErrMissingConfig      = errors.New("missing configuration")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrChainMismatch      = errors.New("provider chain id does not match network")
)

// Read API errors.
var (
	ErrReceiptNotFound   = errors.New("receipt not found")
	ErrFetch             = errors.New("read api request failed")
	ErrMalformedResponse = errors.New("malformed read api response")
)

// Statement errors.
var (
	ErrStatementFailed = errors.New("statement execution failed")
	ErrNoTableID       = errors.New("statement does not reference a table on this chain")
)

// ConfigError reports a resource that could not be prepared, naming the
// configuration that would make it available. errors.Is matches
// ErrMissingConfig and, when set, Cause.
type ConfigError struct {
	Resource string // signer, registry, validator, database or network
	Reason   string // human readable, names the missing configuration
	Cause    error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.Resource, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Resource, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMissingConfig, e.Cause}
	}
	return []error{ErrMissingConfig}
}
