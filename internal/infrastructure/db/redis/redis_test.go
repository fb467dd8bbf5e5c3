package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/pkg/config"
)

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Addr: "cache:6379", Password: "s3cret", DB: 2})

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "orderdesk", opts.ClientName)
	assert.Equal(t, poolSize, opts.PoolSize)
	assert.Equal(t, dialTimeout, opts.DialTimeout)
}

func TestOpen(t *testing.T) {
	srv, _ := newTestClient(t)
	ctx := context.Background()

	client, err := Open(ctx, config.RedisConfig{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ready := Ready(client)
	assert.NoError(t, ready(ctx))

	srv.Close()
	assert.Error(t, ready(ctx))
}

func TestOpen_Unreachable(t *testing.T) {
	srv, _ := newTestClient(t)
	addr := srv.Addr()
	srv.Close()

	client, err := Open(context.Background(), config.RedisConfig{Addr: addr})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, addr)
}
