package paywall

import "testing"

func TestParseEventStatus(t *testing.T) {
	tests := []struct {
		in   string
		want EventStatus
	}{
		{in: "success", want: EventStatusSuccess},
		{in: "completed", want: EventStatusSuccess},
		{in: "paid", want: EventStatusSuccess},
		{in: " SUCCESS ", want: EventStatusSuccess},
		{in: "failed", want: EventStatusFailed},
		{in: "error", want: EventStatusFailed},
		{in: "declined", want: EventStatusFailed},
		{in: "refund", want: EventStatusRefund},
		{in: "refunded", want: EventStatusRefund},
		{in: "chargeback", want: EventStatusRefund},
		{in: "pending", want: EventStatusUnknown},
		{in: "", want: EventStatusUnknown},
		{in: "succeeded-ish", want: EventStatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseEventStatus(tt.in); got != tt.want {
			t.Fatalf("ParseEventStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAmountMinor(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "98.00", want: 9800},
		{in: "98", want: 9800},
		{in: "98.0", want: 9800},
		{in: "98.005", want: 9800},
		{in: "1.00", want: 100},
		{in: "0.99", want: 99},
		{in: "0.01", want: 1},
		{in: "898.00", want: 89800},
		{in: "-5.00", want: -500},
		{in: ".50", want: 50},
		{in: " 98.00 ", want: 9800},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "9x.00", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAmountMinor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseAmountMinor(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmountMinor(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseAmountMinor(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseNotification(t *testing.T) {
	raw := []byte(`{"status":"success","token":"tok-abc","user_id":7,"plan_id":"starter","amount":"98.00"}`)
	n, err := ParseNotification(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != EventStatusSuccess {
		t.Fatalf("status = %v, want success", n.Status)
	}
	if n.Token != "tok-abc" || n.UserID != 7 || n.PlanID != "starter" {
		t.Fatalf("unexpected notification fields: %+v", n)
	}
	if n.AmountMinor != 9800 {
		t.Fatalf("amount = %d, want 9800", n.AmountMinor)
	}
}

func TestParseNotificationMissingToken(t *testing.T) {
	if _, err := ParseNotification([]byte(`{"status":"success","amount":"98.00"}`)); err == nil {
		t.Fatalf("expected error for missing token")
	}
}

func TestParseNotificationMalformedJSON(t *testing.T) {
	if _, err := ParseNotification([]byte(`{"status":`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestParseNotificationUnknownStatusIsNotAnError(t *testing.T) {
	n, err := ParseNotification([]byte(`{"status":"pending","token":"tok-1","amount":"1.00"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != EventStatusUnknown {
		t.Fatalf("status = %v, want unknown", n.Status)
	}
}
