package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGetOrRefresh_WithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	fetches := 0
	c := New(time.Minute, clock.now, func(ctx context.Context) (*Snapshot, error) {
		fetches++
		return &Snapshot{Users: []domain.User{{ID: "u-1"}}}, nil
	})

	for i := 0; i < 3; i++ {
		snap, err := c.GetOrRefresh(context.Background())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if snap.UserByID("u-1") == nil {
			t.Fatal("user missing from snapshot")
		}
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}
}

func TestGetOrRefresh_ExpiresWithClock(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	fetches := 0
	c := New(time.Minute, clock.now, func(ctx context.Context) (*Snapshot, error) {
		fetches++
		return &Snapshot{}, nil
	})

	c.GetOrRefresh(context.Background())
	clock.advance(59 * time.Second)
	c.GetOrRefresh(context.Background())
	if fetches != 1 {
		t.Fatalf("fetches = %d before expiry, want 1", fetches)
	}

	clock.advance(2 * time.Second)
	c.GetOrRefresh(context.Background())
	if fetches != 2 {
		t.Errorf("fetches = %d after expiry, want 2", fetches)
	}
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	fetches := 0
	c := New(time.Hour, clock.now, func(ctx context.Context) (*Snapshot, error) {
		fetches++
		return &Snapshot{}, nil
	})

	c.GetOrRefresh(context.Background())
	c.Invalidate()
	c.GetOrRefresh(context.Background())

	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestGetOrRefresh_FetchErrorNotCached(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	fail := true
	c := New(time.Hour, clock.now, func(ctx context.Context) (*Snapshot, error) {
		if fail {
			return nil, errors.New("store down")
		}
		return &Snapshot{}, nil
	})

	if _, err := c.GetOrRefresh(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	fail = false
	if _, err := c.GetOrRefresh(context.Background()); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}

func TestUserByID_Missing(t *testing.T) {
	s := &Snapshot{Users: []domain.User{{ID: "a"}}}
	if s.UserByID("b") != nil {
		t.Error("expected nil for unknown user")
	}
}
