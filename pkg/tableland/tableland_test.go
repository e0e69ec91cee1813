package tableland

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

func TestConnect_ReadOnly(t *testing.T) {
	aliases := NewMemoryAliases(map[string]string{"users": "users_80002_1"})
	conn := Connect(types.Config{Chain: "maticamoy", Aliases: aliases})
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Ready(ctx))

	n, err := conn.Network()
	require.NoError(t, err)
	assert.Equal(t, int64(80002), n.ChainID)

	db, err := conn.Database()
	require.NoError(t, err)
	assert.True(t, db.ReadOnly())

	_, err = conn.Signer()
	assert.ErrorIs(t, err, types.ErrMissingConfig)
}
