package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return NewFromAddr(srv.Addr())
}

func TestSetGetDel(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v" {
		t.Fatalf("unexpected value %q", got)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Fatal("expected miss after delete")
	}
}

func TestSetNXOnlyFirstWins(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "guard", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = client.SetNX(ctx, "guard", "b", time.Minute)
	if err != nil {
		t.Fatalf("second SetNX failed: %v", err)
	}
	if ok {
		t.Fatal("second SetNX should not win")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := newTestClient(t)
	if got := client.IdempotencyKey("webhook", "evt-1"); got != "mirsal:idempotency:webhook:evt-1" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := client.ShipmentStatusKey("ship-1"); got != "mirsal:shipment_status:ship-1" {
		t.Fatalf("unexpected status key %q", got)
	}
	if got := client.LockKey("cron"); got != "mirsal:lock:cron" {
		t.Fatalf("unexpected lock key %q", got)
	}
}
