package models

import "testing"

func TestPaymentAttemptCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{from: PaymentStatusPending, to: PaymentStatusCompleted, want: true},
		{from: PaymentStatusPending, to: PaymentStatusFailed, want: true},
		{from: PaymentStatusPending, to: PaymentStatusRefunded, want: false},
		{from: PaymentStatusCompleted, to: PaymentStatusRefunded, want: true},
		{from: PaymentStatusCompleted, to: PaymentStatusFailed, want: false},
		{from: PaymentStatusCompleted, to: PaymentStatusPending, want: false},
		{from: PaymentStatusFailed, to: PaymentStatusCompleted, want: false},
		{from: PaymentStatusFailed, to: PaymentStatusRefunded, want: false},
		{from: PaymentStatusRefunded, to: PaymentStatusCompleted, want: false},
		{from: PaymentStatusPending, to: PaymentStatusPending, want: false},
		{from: PaymentStatusCompleted, to: PaymentStatusCompleted, want: false},
	}

	for _, tt := range tests {
		attempt := &PaymentAttempt{Status: tt.from}
		if got := attempt.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPaymentAttemptIsTerminal(t *testing.T) {
	for _, status := range []string{PaymentStatusFailed, PaymentStatusRefunded} {
		attempt := &PaymentAttempt{Status: status}
		if !attempt.IsTerminal() {
			t.Fatalf("expected status %q to be terminal", status)
		}
	}
	for _, status := range []string{PaymentStatusPending, PaymentStatusCompleted} {
		attempt := &PaymentAttempt{Status: status}
		if attempt.IsTerminal() {
			t.Fatalf("expected status %q to be non-terminal", status)
		}
	}
}
