package groups

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

func group(order int, label string) domain.TaskGroup {
	return domain.TaskGroup{
		Order:             order,
		Label:             label,
		MonthlyAllocation: decimal.NewFromInt(100),
	}
}

func TestActive_FlagOrder(t *testing.T) {
	var u domain.User
	u.Flags[0] = true
	u.Flags[3] = true
	u.Flags[7] = true

	all := []domain.TaskGroup{
		group(0, "alpha"),
		group(3, "delta"),
		group(7, "golf"),
	}

	got := Active(u, all)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"alpha", "delta", "golf"} {
		if got[i].Label != want {
			t.Errorf("got[%d].Label = %q, want %q", i, got[i].Label, want)
		}
	}
}

func TestActive_UnsetFlagsExcluded(t *testing.T) {
	var u domain.User
	u.Flags[1] = true

	all := []domain.TaskGroup{group(0, "alpha"), group(1, "bravo"), group(2, "charlie")}

	got := Active(u, all)
	if len(got) != 1 || got[0].Label != "bravo" {
		t.Fatalf("got %+v, want only bravo", got)
	}
}

func TestActive_FlagWithoutRowSkipped(t *testing.T) {
	var u domain.User
	u.Flags[0] = true
	u.Flags[5] = true // no budget row with Order 5

	got := Active(u, []domain.TaskGroup{group(0, "alpha")})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Order != 0 {
		t.Errorf("Order = %d, want 0", got[0].Order)
	}
}

func TestActive_NoFlags(t *testing.T) {
	got := Active(domain.User{}, []domain.TaskGroup{group(0, "alpha")})
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestActive_BlankPeriodsDropped(t *testing.T) {
	var u domain.User
	u.Flags[0] = true

	g := group(0, "alpha")
	g.Periods = []string{"06:00", "", "18:00", " "}

	got := Active(u, []domain.TaskGroup{g})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if len(got[0].Periods) != 2 {
		t.Fatalf("Periods = %v, want 2 entries", got[0].Periods)
	}
	if got[0].Periods[0] != "06:00" || got[0].Periods[1] != "18:00" {
		t.Errorf("Periods = %v", got[0].Periods)
	}
}
