// Package groups resolves which budget task groups are active for a user
// from the user's activation flags.
package groups

import (
	"strings"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

// Active returns the groups the user belongs to, in flag order. Group i is
// active iff the user's flag i is set AND a budget row with Order i exists;
// a set flag with no matching row is silently skipped — that is a data
// consistency requirement on the sheet, not validated here.
func Active(u domain.User, all []domain.TaskGroup) []domain.ActiveGroup {
	byOrder := make(map[int]domain.TaskGroup, len(all))
	for _, g := range all {
		byOrder[g.Order] = g
	}

	var active []domain.ActiveGroup
	for i := 0; i < domain.MaxTaskGroups; i++ {
		if !u.InGroup(i) {
			continue
		}
		g, ok := byOrder[i]
		if !ok {
			continue
		}
		active = append(active, domain.ActiveGroup{
			Order:             g.Order,
			Label:             g.Label,
			AvailableTasks:    g.AvailableTasks,
			TicketCost:        g.TicketCost,
			DailyAllocation:   g.DailyAllocation,
			MonthlyAllocation: g.MonthlyAllocation,
			Periods:           nonBlank(g.Periods),
		})
	}
	return active
}

// nonBlank drops empty period cells; a budget row with fewer than four
// boundaries configured leaves the remaining cells blank.
func nonBlank(periods []string) []string {
	var out []string
	for _, p := range periods {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
