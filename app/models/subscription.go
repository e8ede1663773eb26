package models

import "time"

const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusSuperseded = "superseded"
)

// Subscription is a membership grant created exclusively by the paywall
// ledger when a payment attempt completes. Expiry is lazy: a row whose
// ExpiresAt has passed simply stops being returned by the active lookup,
// no background sweeper rewrites its status.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	PlanID       string    `gorm:"type:varchar(50);not null" json:"plan_id"`
	PaymentToken string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_subscriptions_payment_token" json:"payment_token"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActiveAt reports whether the subscription entitles access at the given time.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.ExpiresAt)
}
