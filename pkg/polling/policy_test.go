package polling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name    string
		chainID int64
		want    Policy
	}{
		{name: "ethereum uses the slow L1 policy", chainID: 1, want: l1Policy},
		{name: "filecoin waits longest", chainID: 314, want: filecoinPolicy},
		{name: "arbitrum uses the L2 policy", chainID: 42161, want: l2Policy},
		{name: "local chain polls fast", chainID: 31337, want: localPolicy},
		{name: "unknown chain falls back", chainID: 999999, want: DefaultPolicy},
		{name: "zero chain falls back", chainID: 0, want: DefaultPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFor(tt.chainID))
		})
	}
}

func TestPolicies_SlowerChainsWaitLonger(t *testing.T) {
	assert.Greater(t, filecoinPolicy.Timeout, l1Policy.Timeout)
	assert.Greater(t, l1Policy.Timeout, l2Policy.Timeout)
	assert.Greater(t, filecoinPolicy.Interval, l1Policy.Interval)
	assert.Greater(t, l1Policy.Interval, l2Policy.Interval)
}

func TestDefaultFor(t *testing.T) {
	c := DefaultFor(314159)
	defer c.Cancel()

	assert.Equal(t, filecoinPolicy.Timeout, c.Timeout())
	assert.Equal(t, filecoinPolicy.Interval, c.Interval())
	assert.Equal(t, StateActive, c.State())

	overridden := DefaultFor(1, WithInterval(time.Millisecond))
	defer overridden.Cancel()
	assert.Equal(t, l1Policy.Timeout, overridden.Timeout())
	assert.Equal(t, time.Millisecond, overridden.Interval())
}
