package redis

import (
	"context"
	"errors"
	"time"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyGuard deduplicates externally-supplied event ids within a TTL
// window. CheckAndMark is a single SETNX, so concurrent deliveries of the
// same id race safely.
type IdempotencyGuard struct {
	client *Client
	scope  string
	ttl    time.Duration
}

// NewIdempotencyGuard builds a guard namespaced under the given scope.
func NewIdempotencyGuard(client *Client, scope string, ttl time.Duration) (*IdempotencyGuard, error) {
	if client == nil {
		return nil, errors.New("redis client required for idempotency guard")
	}
	if scope == "" {
		return nil, errors.New("idempotency scope is required")
	}
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyGuard{client: client, scope: scope, ttl: ttl}, nil
}

// CheckAndMark returns true when the id was already seen inside the TTL
// window, marking it otherwise.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, id string) (bool, error) {
	if g == nil || g.client == nil {
		return false, errors.New("idempotency guard not initialized")
	}
	fresh, err := g.client.SetNX(ctx, g.client.IdempotencyKey(g.scope, id), "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// Delete unmarks an id so a failed handler can be retried by the sender.
func (g *IdempotencyGuard) Delete(ctx context.Context, id string) error {
	if g == nil || g.client == nil {
		return errors.New("idempotency guard not initialized")
	}
	return g.client.Del(ctx, g.client.IdempotencyKey(g.scope, id))
}
