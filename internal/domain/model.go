// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application — it depends on nothing
// except the decimal money type.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTaskGroups is the number of activation flag slots on a user record.
const MaxTaskGroups = 10

// ─── User ───────────────────────────────────────────────────────────────────

// User is an operator account. Commission and Spent are the only fields this
// system ever mutates; everything else is maintained upstream in the sheet.
type User struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	PIN        string              `json:"-"`
	Rank       int                 `json:"rank"`
	Commission decimal.Decimal     `json:"commission"`
	Spent      decimal.Decimal     `json:"spent"`
	Flags      [MaxTaskGroups]bool `json:"flags"`
}

// InGroup reports whether the user's activation flag for group order i is set.
// Out-of-range orders are never active.
func (u User) InGroup(order int) bool {
	if order < 0 || order >= MaxTaskGroups {
		return false
	}
	return u.Flags[order]
}

// ─── Task Groups ────────────────────────────────────────────────────────────

// TaskGroup is one budget row. Order is its stable identifier and matches the
// user flag slot of the same index.
type TaskGroup struct {
	Order             int             `json:"order"`
	Label             string          `json:"label"`
	AvailableTasks    int             `json:"available_tasks"`
	TicketCost        decimal.Decimal `json:"ticket_cost"`
	DailyAllocation   decimal.Decimal `json:"daily_allocation"`
	MonthlyAllocation decimal.Decimal `json:"monthly_allocation"`
	Periods           []string        `json:"periods"` // "HH:MM" boundary strings, may contain blanks
}

// ActiveGroup is a TaskGroup the user belongs to, with blank period entries
// already dropped. This is what the summary endpoint returns.
type ActiveGroup struct {
	Order             int             `json:"order"`
	Label             string          `json:"label"`
	AvailableTasks    int             `json:"available_tasks"`
	TicketCost        decimal.Decimal `json:"ticket_cost"`
	DailyAllocation   decimal.Decimal `json:"daily_allocation"`
	MonthlyAllocation decimal.Decimal `json:"monthly_allocation"`
	Periods           []string        `json:"periods"`
}

// ─── Task Catalog ───────────────────────────────────────────────────────────

// CategoryKey names one of the four task category sub-records.
type CategoryKey string

const (
	CategoryStock   CategoryKey = "stock"
	CategoryAirline CategoryKey = "airline"
	CategoryHouse   CategoryKey = "house"
	CategoryCars    CategoryKey = "cars"
)

// categoryByPeriod maps a 1-based period number to the category charged in
// that period. Anything outside 1..4 falls back to CategoryStock.
var categoryByPeriod = map[int]CategoryKey{
	1: CategoryStock,
	2: CategoryAirline,
	3: CategoryHouse,
	4: CategoryCars,
}

// CategoryForPeriod returns the category key charged for the given period.
func CategoryForPeriod(period int) CategoryKey {
	if key, ok := categoryByPeriod[period]; ok {
		return key
	}
	return CategoryStock
}

// TaskCategory is one priced sub-record of a catalog task.
type TaskCategory struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Extra    string          `json:"extra"`
	Cost     decimal.Decimal `json:"cost"`
}

// Task is one catalog row. Flat legacy rows import as a single entry under
// CategoryStock; category-structured rows carry all four sub-records.
type Task struct {
	ID         string                       `json:"id"`
	Board      string                       `json:"board"`
	Categories map[CategoryKey]TaskCategory `json:"categories"`
}

// CategoryForPeriod resolves the sub-record charged for the given period,
// falling back to CategoryStock when the period is unrecognized or the
// mapped category is missing on this task.
func (t Task) CategoryForPeriod(period int) TaskCategory {
	if c, ok := t.Categories[CategoryForPeriod(period)]; ok {
		return c
	}
	return t.Categories[CategoryStock]
}

// ─── Payscale ───────────────────────────────────────────────────────────────

// PayscaleEntry maps a rank to its flat per-acknowledgment commission rate.
type PayscaleEntry struct {
	Rank int             `json:"rank"`
	Rate decimal.Decimal `json:"rate"`
}

// ─── History ────────────────────────────────────────────────────────────────

// HistoryRecord is one append-only audit row written per acknowledgment.
// CommissionTotal is the user's cumulative commission after the acknowledgment.
type HistoryRecord struct {
	ID              string          `json:"id"`
	RequestID       string          `json:"request_id,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	UserID          string          `json:"user_id"`
	Board           string          `json:"board"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	Quantity        int             `json:"quantity"`
	Period          string          `json:"period"`
	Cost            decimal.Decimal `json:"cost"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
}

// ─── Derived Views ──────────────────────────────────────────────────────────

// PeriodInfo describes which time-boxed period is active right now.
// Number is a 1-based string; "0" means no periods are configured.
type PeriodInfo struct {
	RangeLabel       string `json:"range_label"`
	Number           string `json:"number"`
	SecondsRemaining int    `json:"seconds_remaining"`
	TotalPeriods     int    `json:"total_periods"`
}

// FinancialSummary is the allowance view returned to the dashboard.
// Remaining may be negative; over-budget is a signal, not an error.
type FinancialSummary struct {
	Allowance  decimal.Decimal `json:"allowance"`
	Commission decimal.Decimal `json:"commission"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}
