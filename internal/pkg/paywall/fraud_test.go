package paywall

import (
	"testing"

	"github.com/FelixBrandt/PressPass/internal/pkg/plans"
)

func TestCheckAmount(t *testing.T) {
	plan := &plans.Plan{ID: "starter", Price: 9800}

	tests := []struct {
		name    string
		claimed int64
		want    bool
	}{
		{"exact", 9800, true},
		{"one under", 9799, true},
		{"one over", 9801, true},
		{"two under", 9798, false},
		{"two over", 9802, false},
		{"zero", 0, false},
		{"negative", -9800, false},
	}

	for _, tt := range tests {
		if got := CheckAmount(plan, tt.claimed); got != tt.want {
			t.Fatalf("%s: CheckAmount(%d) = %v, want %v", tt.name, tt.claimed, got, tt.want)
		}
	}
}

func TestCheckAmountNilPlanFailsClosed(t *testing.T) {
	if CheckAmount(nil, 9800) {
		t.Fatalf("expected nil plan to fail the amount check")
	}
}
