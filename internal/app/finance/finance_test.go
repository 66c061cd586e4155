package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/domain"
)

func TestSummarize(t *testing.T) {
	u := domain.User{
		Commission: decimal.NewFromInt(110),
		Spent:      decimal.NewFromInt(165),
	}
	active := []domain.ActiveGroup{
		{MonthlyAllocation: decimal.NewFromInt(200)},
		{MonthlyAllocation: decimal.NewFromInt(150)},
	}

	got := Summarize(u, active)

	if !got.Allowance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Allowance = %s, want 350", got.Allowance)
	}
	if !got.Commission.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Commission = %s, want 110", got.Commission)
	}
	if !got.Spent.Equal(decimal.NewFromInt(165)) {
		t.Errorf("Spent = %s, want 165", got.Spent)
	}
	if !got.Remaining.Equal(decimal.NewFromInt(185)) {
		t.Errorf("Remaining = %s, want 185", got.Remaining)
	}
}

func TestSummarize_NegativeRemainingNotClamped(t *testing.T) {
	u := domain.User{Spent: decimal.NewFromInt(500)}
	active := []domain.ActiveGroup{{MonthlyAllocation: decimal.NewFromInt(300)}}

	got := Summarize(u, active)
	if !got.Remaining.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Remaining = %s, want -200", got.Remaining)
	}
}

func TestSummarize_NoActiveGroups(t *testing.T) {
	u := domain.User{Spent: decimal.NewFromInt(10)}

	got := Summarize(u, nil)
	if !got.Allowance.Equal(decimal.Zero) {
		t.Errorf("Allowance = %s, want 0", got.Allowance)
	}
	if !got.Remaining.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("Remaining = %s, want -10", got.Remaining)
	}
}
