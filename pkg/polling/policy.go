package polling

import "time"

// Policy holds the controller settings used for a chain when the caller does
// not supply a controller.
type Policy struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultPolicy applies to chains without a dedicated entry.
var DefaultPolicy = Policy{Timeout: DefaultTimeout, Interval: DefaultInterval}

var (
	l1Policy       = Policy{Timeout: 120 * time.Second, Interval: 3 * time.Second}
	l2Policy       = Policy{Timeout: 60 * time.Second, Interval: 1500 * time.Millisecond}
	filecoinPolicy = Policy{Timeout: 10 * time.Minute, Interval: 10 * time.Second}
	localPolicy    = Policy{Timeout: 15 * time.Second, Interval: 200 * time.Millisecond}
)

// chainPolicies is keyed by EVM chain id. Slower block times get longer
// deadlines and wider intervals.
var chainPolicies = map[int64]Policy{
	1:        l1Policy,       // ethereum
	11155111: l1Policy,       // sepolia
	10:       l2Policy,       // optimism
	11155420: l2Policy,       // optimism-sepolia
	42161:    l2Policy,       // arbitrum
	42170:    l2Policy,       // arbitrum-nova
	421614:   l2Policy,       // arbitrum-sepolia
	137:      l2Policy,       // matic
	80002:    l2Policy,       // maticamoy
	8453:     l2Policy,       // base
	84532:    l2Policy,       // base-sepolia
	314:      filecoinPolicy, // filecoin
	314159:   filecoinPolicy, // filecoin-calibration
	31337:    localPolicy,    // local-tableland
}

// PolicyFor returns the polling policy for chainID, falling back to
// DefaultPolicy for unknown chains.
func PolicyFor(chainID int64) Policy {
	if p, ok := chainPolicies[chainID]; ok {
		return p
	}
	return DefaultPolicy
}

// DefaultFor returns a new controller configured for chainID. Extra options
// are applied after the chain policy.
func DefaultFor(chainID int64, opts ...ControllerOption) *Controller {
	p := PolicyFor(chainID)
	all := append([]ControllerOption{WithTimeout(p.Timeout), WithInterval(p.Interval)}, opts...)
	return NewController(all...)
}
