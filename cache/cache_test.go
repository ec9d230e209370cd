package cache

import (
	"testing"
	"time"
)

func TestCacheSetGetRoundTrip(t *testing.T) {
	t.Parallel()
	c := New()
	c.Set("example.com:1:1", "payload", time.Hour)
	v, ok := c.Get("example.com:1:1")
	if !ok {
		t.Fatal("expected hit")
	}
	if v.(string) != "payload" {
		t.Fatalf("got=%v want=payload", v)
	}
}

func TestCacheExpiredEntryIsMiss(t *testing.T) {
	t.Parallel()
	c := New()
	c.Set("example.com:1:1", "payload", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("example.com:1:1"); ok {
		t.Fatal("expected miss for expired entry")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("expected expired entry to be evicted on Get, len=%d", n)
	}
}

func TestCachePutReplacesEntry(t *testing.T) {
	t.Parallel()
	c := New()
	c.Set("k", "first", time.Hour)
	c.Set("k", "second", time.Hour)
	v, ok := c.Get("k")
	if !ok || v.(string) != "second" {
		t.Fatalf("got=%v ok=%v want=second", v, ok)
	}
}

func TestCacheHitRatio(t *testing.T) {
	t.Parallel()
	c := New()
	c.Set("k", "v", time.Hour)
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	if ratio := c.HitRatio(); ratio < 60 || ratio > 70 {
		t.Fatalf("unexpected hit ratio %v", ratio)
	}
}

func TestCacheCleanEvictsExpiredOnly(t *testing.T) {
	t.Parallel()
	c := New()
	c.Set("stale", "v", time.Millisecond)
	c.Set("fresh", "v", time.Hour)
	time.Sleep(5 * time.Millisecond)
	c.Clean()
	if n := c.Len(); n != 1 {
		t.Fatalf("expected 1 entry after Clean, got %d", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("expected fresh entry to survive Clean")
	}
}
