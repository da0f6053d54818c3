package cache

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProjectionCache_TTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(10, time.Minute, clock.now)

	c.Set(Key("ds1", "graph"), "layout")

	if v, ok := c.Get(Key("ds1", "graph")); !ok || v != "layout" {
		t.Fatalf("Get() = %v, %v; want layout, true", v, ok)
	}

	clock.advance(59 * time.Second)
	if _, ok := c.Get(Key("ds1", "graph")); !ok {
		t.Error("entry expired before TTL")
	}

	clock.advance(2 * time.Second)
	if _, ok := c.Get(Key("ds1", "graph")); ok {
		t.Error("entry survived past TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestProjectionCache_SetRefreshesTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(10, time.Minute, clock.now)

	c.Set("k:1", 1)
	clock.advance(50 * time.Second)
	c.Set("k:1", 2)
	clock.advance(30 * time.Second)

	v, ok := c.Get("k:1")
	if !ok || v != 2 {
		t.Errorf("Get() = %v, %v; want 2 after refresh", v, ok)
	}
}

func TestProjectionCache_LRUEviction(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := New(3, time.Hour, clock.now)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k:%d", i), i)
	}
	// Touch k:0 so k:1 is the oldest.
	c.Get("k:0")
	c.Set("k:3", 3)

	if _, ok := c.Get("k:1"); ok {
		t.Error("oldest entry not evicted")
	}
	for _, key := range []string{"k:0", "k:2", "k:3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %s evicted unexpectedly", key)
		}
	}
}

func TestProjectionCache_InvalidateDataset(t *testing.T) {
	c := New(10, time.Hour, nil)
	c.Set(Key("ds1", "graph", "a"), 1)
	c.Set(Key("ds1", "timeline"), 2)
	c.Set(Key("ds2", "graph"), 3)

	c.InvalidateDataset("ds1")

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get(Key("ds2", "graph")); !ok {
		t.Error("other dataset entry removed")
	}
}
