// Package period computes which time-boxed period is active for a given
// wall-clock moment, from an ordered list of "HH:MM" boundary strings.
//
// The boundary list is scanned in list order; the active period is the first
// boundary strictly after "now". Past the last boundary the calculation wraps
// to tomorrow's first boundary. The range label for the wrapped first period
// starts at the LAST configured boundary — the day is treated as a continuous
// cycle, never padded with a synthetic "00:00" start.
package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// Compute derives the active period for now from the given boundary list.
// An empty list yields period "0" with zero seconds remaining — periods are
// absent, not defaulted.
func Compute(boundaries []string, now time.Time) domain.PeriodInfo {
	if len(boundaries) == 0 {
		return domain.PeriodInfo{Number: "0"}
	}

	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()

	active := -1
	for i, b := range boundaries {
		if parseClock(b)*60 > nowSec {
			active = i
			break
		}
	}
	wrapped := active == -1
	if wrapped {
		active = 0
	}

	remaining := parseClock(boundaries[active])*60 - nowSec
	if wrapped {
		remaining += secondsPerDay
	}
	// At the exact boundary second the countdown reads 0, not a full day.
	remaining %= secondsPerDay

	start := boundaries[len(boundaries)-1]
	if active > 0 {
		start = boundaries[active-1]
	}

	return domain.PeriodInfo{
		RangeLabel:       fmt.Sprintf("%s - %s", start, boundaries[active]),
		Number:           strconv.Itoa(active + 1),
		SecondsRemaining: remaining,
		TotalPeriods:     len(boundaries),
	}
}

// Resolve picks the boundary list to use: the user's own list when non-empty,
// otherwise the system-wide fallback. Both empty reports the zero-periods
// state rather than fabricating a period.
func Resolve(userBoundaries, fallback []string, now time.Time) domain.PeriodInfo {
	if len(userBoundaries) > 0 {
		return Compute(userBoundaries, now)
	}
	return Compute(fallback, now)
}

// parseClock converts "HH:MM" to minutes since midnight. Malformed input
// degrades to 00:00 — a bad sheet cell must not take the dashboard down.
func parseClock(s string) int {
	h, m := 0, 0
	if i := strings.IndexByte(s, ':'); i >= 0 {
		h, _ = strconv.Atoi(strings.TrimSpace(s[:i]))
		m, _ = strconv.Atoi(strings.TrimSpace(s[i+1:]))
	}
	return h*60 + m
}

// SortedBoundaries returns the distinct non-blank boundary strings across the
// given groups, sorted ascending. This is the raw list the periods endpoint
// exposes for countdown rendering.
func SortedBoundaries(groups []domain.ActiveGroup) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range groups {
		for _, p := range g.Periods {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return parseClock(out[i]) < parseClock(out[j])
	})
	return out
}
