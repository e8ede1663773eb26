package models

import "time"

// Audit actions recorded by the paywall. The list is not closed, but these
// are the tags tests and monitoring rely on.
const (
	AuditPaymentInitiated     = "payment_initiated"
	AuditPaymentCompleted     = "payment_completed"
	AuditPaymentFailed        = "payment_failed"
	AuditFraudDetected        = "fraud_detected"
	AuditAnomalousTransition  = "anomalous_transition"
	AuditSubscriptionCanceled = "subscription_canceled"
	AuditResourceAccessed     = "resource_accessed"
)

// AuditEntry is an append-only record of a security-relevant event. Rows are
// never updated or deleted; there is deliberately no code path that does so.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	SourceIP  string    `gorm:"type:varchar(45)" json:"source_ip"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
