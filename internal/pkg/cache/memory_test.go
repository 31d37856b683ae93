package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if _, ok, _ := c.Get(ctx, "site_name"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	if err := c.Set(ctx, "site_name", []byte("SMA Negeri 1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := c.Get(ctx, "site_name")
	if err != nil || !ok || string(v) != "SMA Negeri 1" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	_ = c.Set(ctx, "other", []byte("x"), 0)
	if err := c.Invalidate(ctx, "site_name"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "site_name"); ok {
		t.Fatalf("invalidated key still cached")
	}
	if _, ok, _ := c.Get(ctx, "other"); !ok {
		t.Fatalf("unrelated key was dropped")
	}

	_ = c.InvalidateAll(ctx)
	if _, ok, _ := c.Get(ctx, "other"); ok {
		t.Fatalf("InvalidateAll left entries behind")
	}
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatalf("fresh entry missing")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expired entry still served")
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'
	v, _, _ := c.Get(ctx, "k")
	if string(v) != "abc" {
		t.Fatalf("cache aliased caller buffer: %q", v)
	}
}
