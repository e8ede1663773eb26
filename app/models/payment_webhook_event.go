package models

import "time"

// PaymentWebhookEvent stores processor webhook payloads with deduplication
// metadata for idempotent processing. The raw body is kept verbatim so the
// signature can be re-checked after the fact.
type PaymentWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EventID         string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_webhook_events_event" json:"event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false;index" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsProcessed reports whether a processing attempt for this delivery ran to
// completion. A redelivery of an unprocessed event is handled again instead
// of being absorbed as a duplicate.
func (e *PaymentWebhookEvent) IsProcessed() bool {
	return e.ProcessedAt != nil
}
