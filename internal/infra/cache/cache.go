// Package cache provides the time-boxed snapshot of backing-store reads.
// Reads within the freshness window reuse the snapshot; any write must call
// Invalidate so the next read refetches. The clock is injected so freshness
// behavior is testable without real time passing.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shiftdesk/shiftdesk/internal/domain"
	"github.com/shiftdesk/shiftdesk/internal/infra/observability"
)

// Snapshot holds one consistent read of the four read-mostly tables.
// History is append-only and never read through the cache.
type Snapshot struct {
	Users  []domain.User
	Groups []domain.TaskGroup
	Tasks  []domain.Task
}

// FetchFunc loads a fresh snapshot from the backing store.
type FetchFunc func(ctx context.Context) (*Snapshot, error)

// SnapshotCache memoizes one Snapshot for a bounded freshness window.
type SnapshotCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	fetch     FetchFunc
	snap      *Snapshot
	fetchedAt time.Time
}

// New creates a cache. A nil now defaults to time.Now.
func New(ttl time.Duration, now func() time.Time, fetch FetchFunc) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{ttl: ttl, now: now, fetch: fetch}
}

// GetOrRefresh returns the cached snapshot, refetching when it is absent or
// older than the freshness window. A failed refetch does not fall back to the
// stale snapshot; the caller sees the store error.
func (c *SnapshotCache) GetOrRefresh(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		observability.CacheHits.Inc()
		return c.snap, nil
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	observability.CacheRefreshes.Inc()
	c.snap = snap
	c.fetchedAt = c.now()
	return snap, nil
}

// Invalidate discards the snapshot. Every successful write goes through here
// so the next read reflects it.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap != nil {
		observability.CacheInvalidations.Inc()
	}
	c.snap = nil
}

// FetchFromStore builds the standard snapshot fetcher over a domain.Store.
func FetchFromStore(store domain.Store) FetchFunc {
	return func(ctx context.Context) (*Snapshot, error) {
		users, err := store.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		groups, err := store.ListTaskGroups(ctx)
		if err != nil {
			return nil, err
		}
		tasks, err := store.ListTasks(ctx)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Users: users, Groups: groups, Tasks: tasks}, nil
	}
}

// UserByID finds a user in the snapshot, or nil.
func (s *Snapshot) UserByID(id string) *domain.User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}
