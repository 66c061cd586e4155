package period

import (
	"testing"
	"time"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 3, 14, hour, min, sec, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	boundaries := []string{"06:00", "12:00", "18:00"}

	tests := []struct {
		name          string
		now           time.Time
		wantNumber    string
		wantLabel     string
		wantRemaining int
	}{
		{"before first boundary", at(4, 0, 0), "1", "18:00 - 06:00", 2 * 3600},
		{"mid second period", at(9, 30, 0), "2", "06:00 - 12:00", 2*3600 + 30*60},
		{"just before third", at(17, 59, 30), "3", "12:00 - 18:00", 30},
		{"past all boundaries wraps", at(22, 0, 0), "1", "18:00 - 06:00", 8 * 3600},
		{"exactly on boundary", at(12, 0, 0), "3", "12:00 - 18:00", 6 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(boundaries, tt.now)
			if got.Number != tt.wantNumber {
				t.Errorf("Number = %q, want %q", got.Number, tt.wantNumber)
			}
			if got.RangeLabel != tt.wantLabel {
				t.Errorf("RangeLabel = %q, want %q", got.RangeLabel, tt.wantLabel)
			}
			if got.SecondsRemaining != tt.wantRemaining {
				t.Errorf("SecondsRemaining = %d, want %d", got.SecondsRemaining, tt.wantRemaining)
			}
			if got.TotalPeriods != 3 {
				t.Errorf("TotalPeriods = %d, want 3", got.TotalPeriods)
			}
		})
	}
}

func TestCompute_EmptyList(t *testing.T) {
	got := Compute(nil, at(9, 0, 0))

	if got.Number != "0" {
		t.Errorf("Number = %q, want %q", got.Number, "0")
	}
	if got.SecondsRemaining != 0 {
		t.Errorf("SecondsRemaining = %d, want 0", got.SecondsRemaining)
	}
	if got.TotalPeriods != 0 {
		t.Errorf("TotalPeriods = %d, want 0", got.TotalPeriods)
	}
	if got.RangeLabel != "" {
		t.Errorf("RangeLabel = %q, want empty", got.RangeLabel)
	}
}

func TestCompute_SingleBoundary(t *testing.T) {
	// One boundary means one period covering the whole day.
	got := Compute([]string{"12:00"}, at(14, 0, 0))
	if got.Number != "1" {
		t.Errorf("Number = %q, want %q", got.Number, "1")
	}
	if got.RangeLabel != "12:00 - 12:00" {
		t.Errorf("RangeLabel = %q", got.RangeLabel)
	}
	if got.SecondsRemaining != 22*3600 {
		t.Errorf("SecondsRemaining = %d, want %d", got.SecondsRemaining, 22*3600)
	}
}

func TestCompute_ExactBoundarySecond(t *testing.T) {
	// At the precise boundary instant the countdown must read 0, never 86400.
	got := Compute([]string{"12:00"}, at(12, 0, 0))
	if got.SecondsRemaining != 0 {
		t.Errorf("SecondsRemaining = %d, want 0", got.SecondsRemaining)
	}
}

func TestCompute_Invariants(t *testing.T) {
	lists := [][]string{
		{"09:00"},
		{"00:30", "23:30"},
		{"06:00", "12:00", "18:00", "22:00"},
		{"08:15", "10:45", "13:00"},
	}
	for _, boundaries := range lists {
		for hour := 0; hour < 24; hour++ {
			for _, min := range []int{0, 17, 59} {
				got := Compute(boundaries, at(hour, min, 42))

				n := 0
				for i := 1; i <= len(boundaries); i++ {
					if got.Number == itoa(i) {
						n = i
					}
				}
				if n == 0 {
					t.Fatalf("boundaries=%v now=%02d:%02d: Number %q out of [1,%d]",
						boundaries, hour, min, got.Number, len(boundaries))
				}
				if got.SecondsRemaining < 0 || got.SecondsRemaining >= 86400 {
					t.Fatalf("boundaries=%v now=%02d:%02d: SecondsRemaining %d out of [0,86400)",
						boundaries, hour, min, got.SecondsRemaining)
				}
			}
		}
	}
}

func itoa(i int) string { return string(rune('0' + i)) }

func TestCompute_MalformedBoundary(t *testing.T) {
	// A cell missing the colon degrades to 00:00 instead of failing.
	got := Compute([]string{"garbage", "12:00"}, at(6, 0, 0))
	if got.Number != "2" {
		t.Errorf("Number = %q, want %q", got.Number, "2")
	}
	if got.RangeLabel != "garbage - 12:00" {
		t.Errorf("RangeLabel = %q", got.RangeLabel)
	}
}

func TestResolve(t *testing.T) {
	now := at(9, 0, 0)
	user := []string{"08:00", "16:00"}
	fallback := []string{"12:00"}

	if got := Resolve(user, fallback, now); got.TotalPeriods != 2 {
		t.Errorf("user list: TotalPeriods = %d, want 2", got.TotalPeriods)
	}
	if got := Resolve(nil, fallback, now); got.TotalPeriods != 1 {
		t.Errorf("fallback: TotalPeriods = %d, want 1", got.TotalPeriods)
	}
	if got := Resolve(nil, nil, now); got.Number != "0" {
		t.Errorf("both empty: Number = %q, want %q", got.Number, "0")
	}
}

func TestSortedBoundaries(t *testing.T) {
	groups := []domain.ActiveGroup{
		{Periods: []string{"18:00", "06:00"}},
		{Periods: []string{"12:00", "", "06:00"}},
	}
	got := SortedBoundaries(groups)
	want := []string{"06:00", "12:00", "18:00"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
