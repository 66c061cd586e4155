package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Store abstracts the durable backing store holding the five logical tables.
type Store interface {
	// GetUser returns the user by id, or ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]User, error)

	// ListTaskGroups returns all budget rows ordered by Order.
	ListTaskGroups(ctx context.Context) ([]TaskGroup, error)

	// ListTasks returns the task catalog in catalog order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetPayscale returns the entry matching rank exactly, or ErrPayscaleNotFound.
	GetPayscale(ctx context.Context, rank int) (*PayscaleEntry, error)

	// ApplyAcknowledgment writes the user's new cumulative commission/spent
	// and appends the history record in ONE transaction. Returns
	// ErrUserNotFound if the user row vanished between read and write.
	ApplyAcknowledgment(ctx context.Context, userID string, commission, spent decimal.Decimal, rec HistoryRecord) error

	// FindAcknowledgment returns the history record previously committed
	// under the given request id, or nil if none exists.
	FindAcknowledgment(ctx context.Context, requestID string) (*HistoryRecord, error)

	// UpdateProfile rewrites the user's display name and PIN.
	// Empty arguments leave the corresponding field unchanged.
	UpdateProfile(ctx context.Context, userID, name, pin string) error
}
