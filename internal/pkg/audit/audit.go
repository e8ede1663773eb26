package audit

import (
	"encoding/json"
	"log"

	"github.com/FelixBrandt/PressPass/app/models"
)

// Repository persists audit entries. Append-only: the interface deliberately
// has no update or delete operations.
type Repository interface {
	Create(entry *models.AuditEntry) error
}

// Logger writes security-relevant events synchronously. A failing write must
// never block or roll back the operation that produced the event, so errors
// are escalated to the process log instead of being returned.
type Logger struct {
	repo Repository
}

// NewLogger creates an audit logger from an injected repository.
func NewLogger(repo Repository) *Logger {
	return &Logger{repo: repo}
}

// Log records an event. Details are marshalled to JSON; a nil map is stored
// as an empty object.
func (l *Logger) Log(userID uint, action string, details map[string]interface{}, sourceIP string) {
	payload := "{}"
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			payload = string(b)
		} else {
			log.Printf("audit: failed to marshal details for action %s: %v", action, err)
		}
	}

	entry := &models.AuditEntry{
		UserID:   userID,
		Action:   action,
		Details:  payload,
		SourceIP: sourceIP,
	}
	if err := l.repo.Create(entry); err != nil {
		// Best effort: surface to monitoring via the process log, do not fail
		// the calling operation.
		log.Printf("audit: failed to record %s for user %d: %v", action, userID, err)
	}
}
