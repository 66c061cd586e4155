// Package ledger implements the acknowledgment transaction: resolve the
// task's charged category, look up the user's commission rate, apply the
// cost/commission deltas to the user's cumulative state, and append the
// audit record — atomically, serialized per user.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/app/finance"
	"github.com/shiftdesk/shiftdesk/internal/app/groups"
	"github.com/shiftdesk/shiftdesk/internal/domain"
	"github.com/shiftdesk/shiftdesk/internal/infra/cache"
	"github.com/shiftdesk/shiftdesk/internal/infra/observability"
)

// Request is one task acknowledgment.
type Request struct {
	UserID string
	TaskID string
	// Period selects which category sub-record is charged (1–4).
	// Anything else falls back to the first category.
	Period int
	// Quantity is recorded on the audit row when supplied; the charged cost
	// is always the resolved category's price × quantity (billing policy
	// below), never a caller-controlled multiplier.
	Quantity int
	// RequestID is an optional client-supplied idempotency key. Replaying a
	// committed RequestID returns the current summary without re-applying
	// the delta. Without one, acknowledgment is deliberately NOT idempotent:
	// acknowledging twice charges twice.
	RequestID string
}

// Engine runs acknowledgment transactions against the backing store.
//
// Billing policy: cost = resolved category price × category quantity;
// commission = the payscale rate for the user's rank, flat per
// acknowledgment, independent of cost. This is the single canonical policy;
// quantity-multiplied commission is intentionally not supported.
type Engine struct {
	store     domain.Store
	snapshots *cache.SnapshotCache
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Engine. snapshots may be nil when no read cache is in play
// (tests); now defaults to time.Now.
func New(store domain.Store, snapshots *cache.SnapshotCache, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:     store,
		snapshots: snapshots,
		now:       now,
		newID:     uuid.NewString,
		locks:     make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing acknowledgments for one user.
// Locks are never reclaimed; the user population is bounded by the sheet.
func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// Acknowledge runs the full acknowledgment transaction and returns the
// refreshed financial summary. No state is mutated unless every lookup
// succeeded; the financial update and the history append commit together.
func (e *Engine) Acknowledge(ctx context.Context, req Request) (*domain.FinancialSummary, error) {
	timer := time.Now()
	defer func() {
		observability.AcknowledgeDuration.Observe(time.Since(timer).Seconds())
	}()

	if req.UserID == "" || req.TaskID == "" {
		return nil, fmt.Errorf("userId and taskId are required: %w", domain.ErrValidation)
	}

	// Serialize the whole read-compute-write sequence per user. Two racing
	// acknowledgments must compound, never overwrite.
	lock := e.userLock(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	if req.RequestID != "" {
		prev, err := e.store.FindAcknowledgment(ctx, req.RequestID)
		if err != nil {
			observability.Acknowledgments.WithLabelValues("store_error").Inc()
			return nil, err
		}
		if prev != nil {
			observability.Acknowledgments.WithLabelValues("replayed").Inc()
			return e.Summary(ctx, req.UserID)
		}
	}

	user, err := e.store.GetUser(ctx, req.UserID)
	if err != nil {
		observability.Acknowledgments.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	task, err := e.resolveTask(ctx, req.TaskID)
	if err != nil {
		observability.Acknowledgments.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	scale, err := e.store.GetPayscale(ctx, user.Rank)
	if err != nil {
		observability.Acknowledgments.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	category := task.CategoryForPeriod(req.Period)
	cost := category.Price.Mul(decimal.NewFromInt(int64(category.Quantity)))
	commission := scale.Rate

	newCommission := user.Commission.Add(commission)
	newSpent := user.Spent.Add(cost)

	quantity := category.Quantity
	if req.Quantity > 0 {
		quantity = req.Quantity
	}
	periodLabel := ""
	if req.Period > 0 {
		periodLabel = strconv.Itoa(req.Period)
	}

	rec := domain.HistoryRecord{
		ID:              e.newID(),
		RequestID:       req.RequestID,
		Timestamp:       e.now().UTC(),
		UserID:          user.ID,
		Board:           task.Board,
		Category:        category.Name,
		Type:            category.Type,
		Quantity:        quantity,
		Period:          periodLabel,
		Cost:            cost,
		CommissionTotal: newCommission,
	}

	if err := e.store.ApplyAcknowledgment(ctx, user.ID, newCommission, newSpent, rec); err != nil {
		observability.Acknowledgments.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	// The write committed; the next read must not see the stale snapshot.
	if e.snapshots != nil {
		e.snapshots.Invalidate()
	}

	observability.Acknowledgments.WithLabelValues("committed").Inc()
	observability.CommissionCredited.Add(commission.InexactFloat64())
	observability.SpendDebited.Add(cost.InexactFloat64())

	updated := *user
	updated.Commission = newCommission
	updated.Spent = newSpent
	return e.summarizeUser(ctx, updated)
}

// Summary recomputes the user's financial summary from current store state.
func (e *Engine) Summary(ctx context.Context, userID string) (*domain.FinancialSummary, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.summarizeUser(ctx, *user)
}

func (e *Engine) summarizeUser(ctx context.Context, user domain.User) (*domain.FinancialSummary, error) {
	all, err := e.store.ListTaskGroups(ctx)
	if err != nil {
		return nil, err
	}
	summary := finance.Summarize(user, groups.Active(user, all))
	return &summary, nil
}

// resolveTask finds the task by its stable id, falling back to the catalog
// index for legacy numeric task ids.
func (e *Engine) resolveTask(ctx context.Context, taskID string) (*domain.Task, error) {
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	if idx, err := strconv.Atoi(taskID); err == nil && idx >= 0 && idx < len(tasks) {
		return &tasks[idx], nil
	}
	return nil, fmt.Errorf("task %q: %w", taskID, domain.ErrTaskNotFound)
}

// outcome maps an error to its metric label.
func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "task_not_found"
	case errors.Is(err, domain.ErrPayscaleNotFound):
		return "payscale_not_found"
	default:
		return "store_error"
	}
}
