package paywall

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EventStatus is the typed dispatch key for processor notifications. An
// unrecognized wire value maps to EventStatusUnknown and is handled as an
// explicit branch, never silently dropped.
type EventStatus int

const (
	EventStatusUnknown EventStatus = iota
	EventStatusSuccess
	EventStatusFailed
	EventStatusRefund
)

func (s EventStatus) String() string {
	switch s {
	case EventStatusSuccess:
		return "success"
	case EventStatusFailed:
		return "failed"
	case EventStatusRefund:
		return "refund"
	default:
		return "unknown"
	}
}

// ParseEventStatus maps the processor's status string to the typed enum.
func ParseEventStatus(raw string) EventStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "completed", "paid":
		return EventStatusSuccess
	case "failed", "error", "declined":
		return EventStatusFailed
	case "refund", "refunded", "chargeback":
		return EventStatusRefund
	default:
		return EventStatusUnknown
	}
}

// Notification is the decoded logical content of a processor webhook. The
// raw bytes stay with the HTTP handler for signature checking; only the
// parsed fields travel further.
type Notification struct {
	Status      EventStatus
	Token       string
	UserID      uint
	PlanID      string
	AmountMinor int64
}

type wireNotification struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
	PlanID string `json:"plan_id"`
	Amount string `json:"amount"`
}

// ParseNotification decodes a verified webhook body. Malformed JSON, a
// missing token or an unparseable amount are validation errors; an unknown
// status is not, it parses to EventStatusUnknown for the dispatcher to log.
func ParseNotification(raw []byte) (Notification, error) {
	var w wireNotification
	if err := json.Unmarshal(raw, &w); err != nil {
		return Notification{}, fmt.Errorf("malformed notification payload: %w", err)
	}
	if strings.TrimSpace(w.Token) == "" {
		return Notification{}, fmt.Errorf("notification missing token")
	}

	amount, err := ParseAmountMinor(w.Amount)
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		Status:      ParseEventStatus(w.Status),
		Token:       strings.TrimSpace(w.Token),
		UserID:      w.UserID,
		PlanID:      strings.TrimSpace(w.PlanID),
		AmountMinor: amount,
	}, nil
}

// ParseAmountMinor converts the processor's decimal string ("98.00") into
// integer minor currency units. At most two fraction digits are honored;
// the fraud tolerance absorbs the processor's own rounding.
func ParseAmountMinor(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("notification missing amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}

	minor := w*100 + f
	if neg {
		minor = -minor
	}
	return minor, nil
}
