// Package finance aggregates a user's financial position from their active
// task group allocations and cumulative ledger state.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

// Summarize computes the allowance summary for the dashboard.
// Allowance is the sum of monthly allocations across active groups.
// Remaining is allowance minus spend and is deliberately not clamped:
// a negative value is the over-budget signal the UI surfaces.
func Summarize(u domain.User, active []domain.ActiveGroup) domain.FinancialSummary {
	allowance := decimal.Zero
	for _, g := range active {
		allowance = allowance.Add(g.MonthlyAllocation)
	}
	return domain.FinancialSummary{
		Allowance:  allowance,
		Commission: u.Commission,
		Spent:      u.Spent,
		Remaining:  allowance.Sub(u.Spent),
	}
}
