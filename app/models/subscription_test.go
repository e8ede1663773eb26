package models

import (
	"testing"
	"time"
)

func TestSubscriptionIsActiveAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		status string
		expiry time.Time
		want   bool
	}{
		{"active unexpired", SubscriptionStatusActive, now.Add(time.Hour), true},
		{"active expired", SubscriptionStatusActive, now.Add(-time.Minute), false},
		{"active expiring exactly now", SubscriptionStatusActive, now, false},
		{"canceled unexpired", SubscriptionStatusCanceled, now.Add(time.Hour), false},
		{"superseded unexpired", SubscriptionStatusSuperseded, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		sub := &Subscription{Status: tt.status, ExpiresAt: tt.expiry}
		if got := sub.IsActiveAt(now); got != tt.want {
			t.Fatalf("%s: IsActiveAt = %v, want %v", tt.name, got, tt.want)
		}
	}
}
