package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

// ─── Read Queries ───────────────────────────────────────────────────────────

// GetUser returns the user by id.
func (db *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, name, pin, rank, commission, spent, flags
		FROM users WHERE id = ?
	`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, name, pin, rank, commission, spent, flags
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ListTaskGroups returns all budget rows ordered by their group order.
func (db *DB) ListTaskGroups(ctx context.Context) ([]domain.TaskGroup, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT ord, label, available_tasks, ticket_cost, daily_allocation,
		       monthly_allocation, period1, period2, period3, period4
		FROM task_groups ORDER BY ord
	`)
	if err != nil {
		return nil, fmt.Errorf("list task groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.TaskGroup
	for rows.Next() {
		var g domain.TaskGroup
		var cost, daily, monthly string
		var p1, p2, p3, p4 string
		if err := rows.Scan(&g.Order, &g.Label, &g.AvailableTasks,
			&cost, &daily, &monthly, &p1, &p2, &p3, &p4); err != nil {
			return nil, fmt.Errorf("scan task group: %w", err)
		}
		g.TicketCost = parseMoney(cost)
		g.DailyAllocation = parseMoney(daily)
		g.MonthlyAllocation = parseMoney(monthly)
		g.Periods = []string{p1, p2, p3, p4}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListTasks returns the task catalog with category sub-records attached,
// in catalog order.
func (db *DB) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, board FROM tasks ORDER BY ord
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	index := make(map[string]int)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Board); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Categories = make(map[domain.CategoryKey]domain.TaskCategory)
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := db.db.QueryContext(ctx, `
		SELECT task_id, key, name, type, price, quantity, extra, cost
		FROM task_categories
	`)
	if err != nil {
		return nil, fmt.Errorf("list task categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var taskID, key, price, cost string
		var c domain.TaskCategory
		if err := catRows.Scan(&taskID, &key, &c.Name, &c.Type, &price,
			&c.Quantity, &c.Extra, &cost); err != nil {
			return nil, fmt.Errorf("scan task category: %w", err)
		}
		c.Price = parseMoney(price)
		c.Cost = parseMoney(cost)
		if i, ok := index[taskID]; ok {
			tasks[i].Categories[domain.CategoryKey(key)] = c
		}
	}
	return tasks, catRows.Err()
}

// GetPayscale returns the entry matching rank exactly. There is no
// nearest-rank fallback.
func (db *DB) GetPayscale(ctx context.Context, rank int) (*domain.PayscaleEntry, error) {
	var rate string
	err := db.db.QueryRowContext(ctx, `
		SELECT rate FROM payscale WHERE rank = ?
	`, rank).Scan(&rate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rank %d: %w", rank, domain.ErrPayscaleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payscale: %w", err)
	}
	return &domain.PayscaleEntry{Rank: rank, Rate: parseMoney(rate)}, nil
}

// ─── Ledger Writes ──────────────────────────────────────────────────────────

// ApplyAcknowledgment persists the user's new cumulative commission and spend
// and appends the history record in one transaction. Both commit or neither.
func (db *DB) ApplyAcknowledgment(ctx context.Context, userID string, commission, spent decimal.Decimal, rec domain.HistoryRecord) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin acknowledgment: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET commission = ?, spent = ? WHERE id = ?
	`, commission.String(), spent.String(), userID)
	if err != nil {
		return fmt.Errorf("update user ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user ledger: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, request_id, ts, user_id, board, category, type,
		                     quantity, period, cost, commission_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RequestID, rec.Timestamp.Format(time.RFC3339), rec.UserID,
		rec.Board, rec.Category, rec.Type, rec.Quantity, rec.Period,
		rec.Cost.String(), rec.CommissionTotal.String())
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	return tx.Commit()
}

// FindAcknowledgment returns the history record committed under requestID,
// or nil when no such acknowledgment exists.
func (db *DB) FindAcknowledgment(ctx context.Context, requestID string) (*domain.HistoryRecord, error) {
	var rec domain.HistoryRecord
	var ts, cost, total string
	err := db.db.QueryRowContext(ctx, `
		SELECT id, request_id, ts, user_id, board, category, type,
		       quantity, period, cost, commission_total
		FROM history WHERE request_id = ?
	`, requestID).Scan(&rec.ID, &rec.RequestID, &ts, &rec.UserID, &rec.Board,
		&rec.Category, &rec.Type, &rec.Quantity, &rec.Period, &cost, &total)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find acknowledgment: %w", err)
	}
	rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
	rec.Cost = parseMoney(cost)
	rec.CommissionTotal = parseMoney(total)
	return &rec, nil
}

// HistoryForUser returns the user's audit rows ordered by commit time.
func (db *DB) HistoryForUser(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, request_id, ts, user_id, board, category, type,
		       quantity, period, cost, commission_total
		FROM history WHERE user_id = ? ORDER BY ts, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("history for user: %w", err)
	}
	defer rows.Close()

	var recs []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, cost, total string
		if err := rows.Scan(&rec.ID, &rec.RequestID, &ts, &rec.UserID, &rec.Board,
			&rec.Category, &rec.Type, &rec.Quantity, &rec.Period, &cost, &total); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		rec.Cost = parseMoney(cost)
		rec.CommissionTotal = parseMoney(total)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpdateProfile rewrites the user's display name and PIN. Empty arguments
// leave the corresponding field unchanged.
func (db *DB) UpdateProfile(ctx context.Context, userID, name, pin string) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE users SET
			name = CASE WHEN ? != '' THEN ? ELSE name END,
			pin  = CASE WHEN ? != '' THEN ? ELSE pin END
		WHERE id = ?
	`, name, name, pin, pin, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}
	return nil
}

// ─── Row Helpers ────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var commission, spent, flags string
	if err := row.Scan(&u.ID, &u.Name, &u.PIN, &u.Rank, &commission, &spent, &flags); err != nil {
		return nil, err
	}
	u.Commission = parseMoney(commission)
	u.Spent = parseMoney(spent)
	u.Flags = parseFlags(flags)
	return &u, nil
}

// parseMoney parses a decimal column; blank or corrupt cells degrade to zero
// rather than failing the whole read.
func parseMoney(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseFlags decodes the 10-character '0'/'1' flag column.
func parseFlags(s string) [domain.MaxTaskGroups]bool {
	var flags [domain.MaxTaskGroups]bool
	for i := 0; i < len(s) && i < domain.MaxTaskGroups; i++ {
		flags[i] = s[i] == '1'
	}
	return flags
}

// formatFlags encodes the flag array back to its column form.
func formatFlags(flags [domain.MaxTaskGroups]bool) string {
	b := make([]byte, domain.MaxTaskGroups)
	for i, set := range flags {
		if set {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}
