package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewConnectsAndPings(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := New(context.Background(), srv.Addr())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.Get(context.Background(), "k").Result()
	if err != nil || got != "v" {
		t.Fatalf("get: %v %q", err, got)
	}
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	if _, err := New(context.Background(), "127.0.0.1:0"); err == nil {
		t.Fatal("expected connection error")
	}
}
