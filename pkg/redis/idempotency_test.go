package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyGuardCheckAndMark(t *testing.T) {
	server := miniredis.RunT(t)
	client := NewFromAddr(server.Addr())
	guard, err := NewIdempotencyGuard(client, "webhooks", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = guard.CheckAndMark(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIdempotencyGuardDeleteReopens(t *testing.T) {
	server := miniredis.RunT(t)
	client := NewFromAddr(server.Addr())
	guard, err := NewIdempotencyGuard(client, "webhooks", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)
	require.NoError(t, guard.Delete(ctx, "evt-1"))

	seen, err := guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIdempotencyGuardTTLExpiry(t *testing.T) {
	server := miniredis.RunT(t)
	client := NewFromAddr(server.Addr())
	guard, err := NewIdempotencyGuard(client, "webhooks", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)

	server.FastForward(2 * time.Minute)

	seen, err := guard.CheckAndMark(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestNewIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, "webhooks", time.Hour)
	assert.Error(t, err)

	server := miniredis.RunT(t)
	_, err = NewIdempotencyGuard(NewFromAddr(server.Addr()), "", time.Hour)
	assert.Error(t, err)
}
