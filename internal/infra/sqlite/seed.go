package sqlite

import (
	"context"
	"fmt"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

// ─── Bulk Seeding ───────────────────────────────────────────────────────────
// Used by `shiftdesk import` to replace a whole logical table with rows
// normalized from the published spreadsheet. Each replace is transactional:
// the old table contents survive if any row fails.

// ReplaceUsers replaces the users table.
func (db *DB) ReplaceUsers(ctx context.Context, users []domain.User) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range users {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, name, pin, rank, commission, spent, flags)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, u.ID, u.Name, u.PIN, u.Rank, u.Commission.String(), u.Spent.String(),
			formatFlags(u.Flags))
		if err != nil {
			return fmt.Errorf("insert user %q: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceTaskGroups replaces the task_groups table.
func (db *DB) ReplaceTaskGroups(ctx context.Context, groups []domain.TaskGroup) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace task groups: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_groups`); err != nil {
		return fmt.Errorf("clear task groups: %w", err)
	}
	for _, g := range groups {
		periods := make([]string, 4)
		copy(periods, g.Periods)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_groups (ord, label, available_tasks, ticket_cost,
			                         daily_allocation, monthly_allocation,
			                         period1, period2, period3, period4)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, g.Order, g.Label, g.AvailableTasks, g.TicketCost.String(),
			g.DailyAllocation.String(), g.MonthlyAllocation.String(),
			periods[0], periods[1], periods[2], periods[3])
		if err != nil {
			return fmt.Errorf("insert task group %d: %w", g.Order, err)
		}
	}
	return tx.Commit()
}

// ReplaceTasks replaces the task catalog and its category sub-records.
func (db *DB) ReplaceTasks(ctx context.Context, tasks []domain.Task) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_categories`); err != nil {
		return fmt.Errorf("clear task categories: %w", err)
	}
	for ord, t := range tasks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, ord, board) VALUES (?, ?, ?)
		`, t.ID, ord, t.Board); err != nil {
			return fmt.Errorf("insert task %q: %w", t.ID, err)
		}
		for key, c := range t.Categories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO task_categories (task_id, key, name, type, price,
				                             quantity, extra, cost)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, t.ID, string(key), c.Name, c.Type, c.Price.String(),
				c.Quantity, c.Extra, c.Cost.String())
			if err != nil {
				return fmt.Errorf("insert task %q category %s: %w", t.ID, key, err)
			}
		}
	}
	return tx.Commit()
}

// ReplacePayscale replaces the payscale table.
func (db *DB) ReplacePayscale(ctx context.Context, entries []domain.PayscaleEntry) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace payscale: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payscale`); err != nil {
		return fmt.Errorf("clear payscale: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payscale (rank, rate) VALUES (?, ?)
		`, e.Rank, e.Rate.String()); err != nil {
			return fmt.Errorf("insert payscale rank %d: %w", e.Rank, err)
		}
	}
	return tx.Commit()
}
