package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// PaymentAttempt tracks the lifecycle of a single checkout with the payment
// processor. The processor token is globally unique so duplicate webhook
// deliveries map back to the same row.
type PaymentAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PlanID    string    `gorm:"type:varchar(50);not null;index" json:"plan_id"`
	Token     string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_attempts_token" json:"token"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the attempt reached a state no verified
// notification may move it out of (except completed -> refunded).
func (p *PaymentAttempt) IsTerminal() bool {
	return p.Status == PaymentStatusFailed || p.Status == PaymentStatusRefunded
}

// CanTransitionTo validates the payment state machine:
// pending -> completed | failed, completed -> refunded.
func (p *PaymentAttempt) CanTransitionTo(next string) bool {
	if p.Status == next {
		return false
	}
	switch p.Status {
	case PaymentStatusPending:
		return next == PaymentStatusCompleted || next == PaymentStatusFailed
	case PaymentStatusCompleted:
		return next == PaymentStatusRefunded
	default:
		return false
	}
}
