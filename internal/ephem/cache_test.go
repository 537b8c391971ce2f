package ephem

import (
	"testing"
	"time"
)

// countingProvider counts Place calls on top of Analytic.
type countingProvider struct {
	Analytic
	calls int
}

func (c *countingProvider) Place(b Body, t time.Time) (Place, error) {
	c.calls++
	return c.Analytic.Place(b, t)
}

func TestCachedProvider_Path(t *testing.T) {
	inner := &countingProvider{}
	c := NewCachedProvider(inner, time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	start := now
	end := start.Add(2 * time.Hour)

	first, err := c.Path(Sun, start, end, time.Hour)
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if len(first) != 3 || inner.calls != 3 {
		t.Fatalf("first Path: %d points, %d calls; want 3, 3", len(first), inner.calls)
	}

	if _, err := c.Path(Sun, start, end, time.Hour); err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("cached Path made %d calls, want 3", inner.calls)
	}

	// A different span is a different entry
	if _, err := c.Path(Sun, start, end, 30*time.Minute); err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if inner.calls != 8 || c.Len() != 2 {
		t.Errorf("calls = %d, len = %d; want 8, 2", inner.calls, c.Len())
	}

	// Expiry
	now = now.Add(2 * time.Minute)
	if _, err := c.Path(Sun, start, end, time.Hour); err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if inner.calls != 11 {
		t.Errorf("expired Path made %d calls total, want 11", inner.calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len after eviction = %d, want 1", c.Len())
	}
}

func TestCachedProvider_PerBodyKeys(t *testing.T) {
	c := NewCachedProvider(Analytic{}, 0)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range []Body{Sun, Moon, Sun} {
		if _, err := c.Path(b, start, start.Add(time.Hour), time.Hour); err != nil {
			t.Fatalf("Path(%v) error: %v", b, err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len after Sun, Moon, Sun = %d, want 2", c.Len())
	}
	if c.ttl != PathCacheTTL {
		t.Errorf("default ttl = %v, want %v", c.ttl, PathCacheTTL)
	}
	if c.Name() != "analytic+cache" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestCachedProvider_PassThrough(t *testing.T) {
	var p Provider = NewCachedProvider(Analytic{}, 0)
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := p.Place(Moon, ts)
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	want, _ := Analytic{}.Place(Moon, ts)
	if got.RAdeg != want.RAdeg || got.DecDeg != want.DecDeg {
		t.Errorf("Place = %.4f/%.4f, want %.4f/%.4f", got.RAdeg, got.DecDeg, want.RAdeg, want.DecDeg)
	}
}
