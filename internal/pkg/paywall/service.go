package paywall

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FelixBrandt/PressPass/app/models"
	"github.com/FelixBrandt/PressPass/internal/pkg/audit"
	"github.com/FelixBrandt/PressPass/internal/pkg/plans"
)

// Outcome classifies what a notification did. Every outcome except a
// signature failure is acknowledged to the processor with 200 so its retry
// machinery only fires on true authentication or delivery failures.
type Outcome int

const (
	OutcomeGranted Outcome = iota
	OutcomeDuplicate
	OutcomeMarkedFailed
	OutcomeCanceled
	OutcomeFraud
	OutcomeAnomaly
	OutcomeIgnored
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeMarkedFailed:
		return "marked_failed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeFraud:
		return "fraud"
	case OutcomeAnomaly:
		return "anomaly"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "error"
	}
}

// Service is the subscription ledger: the only code path that turns verified
// payment notifications into grants, failures and cancellations.
type Service struct {
	repo    Repository
	audit   *audit.Logger
	catalog *plans.Catalog
	now     func() time.Time
}

// NewService creates a paywall service from injected collaborators.
func NewService(repo Repository, auditLog *audit.Logger, catalog *plans.Catalog) *Service {
	return &Service{
		repo:    repo,
		audit:   auditLog,
		catalog: catalog,
		now:     time.Now,
	}
}

// NewServiceFromDB creates a paywall service from a GORM DB handle using the
// global plan catalog.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), audit.NewLogger(audit.NewRepository(db)), plans.GetCatalog())
}

// InitiateCheckout creates a pending payment attempt for a catalog plan. The
// amount is taken from the catalog, never from the caller.
func (s *Service) InitiateCheckout(userID uint, planID, sourceIP string) (*models.PaymentAttempt, plans.Plan, error) {
	plan, ok := s.catalog.GetPlan(strings.TrimSpace(planID))
	if !ok {
		return nil, plans.Plan{}, ErrUnknownPlan
	}

	attempt := &models.PaymentAttempt{
		UserID: userID,
		PlanID: plan.ID,
		Token:  uuid.NewString(),
		Amount: plan.Price,
		Status: models.PaymentStatusPending,
	}
	if err := s.repo.CreateAttempt(attempt); err != nil {
		return nil, plans.Plan{}, err
	}

	s.audit.Log(userID, models.AuditPaymentInitiated, map[string]interface{}{
		"token":   attempt.Token,
		"plan_id": plan.ID,
		"amount":  plan.Price,
	}, sourceIP)

	return attempt, plan, nil
}

// HandleNotification applies a signature-verified notification to the
// ledger. Dispatch is exhaustive over the typed event status; the unknown
// branch is an explicit, logged no-op.
func (s *Service) HandleNotification(n Notification, sourceIP string) (Outcome, error) {
	switch n.Status {
	case EventStatusSuccess:
		return s.handleSuccess(n, sourceIP)
	case EventStatusFailed:
		return s.handleFailure(n, sourceIP)
	case EventStatusRefund:
		return s.handleRefund(n, sourceIP)
	case EventStatusUnknown:
		log.Printf("paywall: ignoring notification with unknown status for token %s", n.Token)
		return OutcomeIgnored, nil
	default:
		log.Printf("paywall: ignoring notification with unknown status for token %s", n.Token)
		return OutcomeIgnored, nil
	}
}

func (s *Service) handleSuccess(n Notification, sourceIP string) (Outcome, error) {
	attempt, err := s.repo.GetAttemptByToken(n.Token)
	if err != nil {
		return s.classifyLedgerError(n, sourceIP, "completed", err)
	}

	// The checkout's plan is authoritative for pricing and duration. A
	// notification naming a different plan is recorded and never granted.
	if n.PlanID != "" && n.PlanID != attempt.PlanID {
		s.audit.Log(attempt.UserID, models.AuditAnomalousTransition, map[string]interface{}{
			"token":         n.Token,
			"wanted":        "completed",
			"reason":        "plan mismatch",
			"checkout_plan": attempt.PlanID,
			"claimed_plan":  n.PlanID,
		}, sourceIP)
		return OutcomeAnomaly, nil
	}

	var planPtr *plans.Plan
	plan, ok := s.catalog.GetPlan(attempt.PlanID)
	if ok {
		planPtr = &plan
	}

	if !CheckAmount(planPtr, n.AmountMinor) {
		details := map[string]interface{}{
			"token":   n.Token,
			"plan_id": attempt.PlanID,
			"claimed": n.AmountMinor,
		}
		if planPtr != nil {
			details["expected"] = planPtr.Price
		} else {
			details["unknown_plan"] = true
		}
		s.audit.Log(attempt.UserID, models.AuditFraudDetected, details, sourceIP)
		return OutcomeFraud, nil
	}

	expiresAt := s.now().Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
	sub, created, err := s.repo.Grant(n.Token, expiresAt)
	if err != nil {
		return s.classifyLedgerError(n, sourceIP, "completed", err)
	}
	if !created {
		// Duplicate delivery: no additional writes, not even an audit entry.
		return OutcomeDuplicate, nil
	}

	s.audit.Log(sub.UserID, models.AuditPaymentCompleted, map[string]interface{}{
		"token":           n.Token,
		"plan_id":         sub.PlanID,
		"amount":          n.AmountMinor,
		"subscription_id": sub.ID,
		"expires_at":      sub.ExpiresAt.UTC().Format(time.RFC3339),
	}, sourceIP)
	return OutcomeGranted, nil
}

func (s *Service) handleFailure(n Notification, sourceIP string) (Outcome, error) {
	attempt, changed, err := s.repo.MarkAttemptFailed(n.Token)
	if err != nil {
		return s.classifyLedgerError(n, sourceIP, "failed", err)
	}
	if !changed {
		return OutcomeDuplicate, nil
	}

	s.audit.Log(attempt.UserID, models.AuditPaymentFailed, map[string]interface{}{
		"token":   n.Token,
		"plan_id": attempt.PlanID,
	}, sourceIP)
	return OutcomeMarkedFailed, nil
}

func (s *Service) handleRefund(n Notification, sourceIP string) (Outcome, error) {
	sub, err := s.repo.CancelByToken(n.Token)
	if err != nil {
		// A refund for a payment that never granted access is either a benign
		// race or an anomaly worth recording; it is never an error to the
		// processor.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrAnomalousTransition
		}
		return s.classifyLedgerError(n, sourceIP, "refunded", err)
	}

	s.audit.Log(sub.UserID, models.AuditSubscriptionCanceled, map[string]interface{}{
		"token":           n.Token,
		"subscription_id": sub.ID,
	}, sourceIP)
	return OutcomeCanceled, nil
}

func (s *Service) classifyLedgerError(n Notification, sourceIP, wanted string, err error) (Outcome, error) {
	if errors.Is(err, ErrUnknownToken) || errors.Is(err, ErrAnomalousTransition) {
		s.audit.Log(n.UserID, models.AuditAnomalousTransition, map[string]interface{}{
			"token":  n.Token,
			"wanted": wanted,
			"reason": err.Error(),
		}, sourceIP)
		return OutcomeAnomaly, nil
	}
	return OutcomeError, err
}

// FindActive returns the user's current entitling subscription, or nil. Lazy
// expiry: an expired row is simply not returned, nothing is written.
func (s *Service) FindActive(userID uint) (*models.Subscription, error) {
	return s.repo.FindActiveSubscription(userID, s.now())
}

// PaymentStatus returns an attempt only to its owner. Unknown tokens are
// indistinguishable from foreign ones so callers cannot probe for existence.
func (s *Service) PaymentStatus(userID uint, token string) (*models.PaymentAttempt, error) {
	attempt, err := s.repo.GetAttemptByToken(strings.TrimSpace(token))
	if errors.Is(err, ErrUnknownToken) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrNotOwned
	}
	return attempt, nil
}

// SubscriptionByToken returns the subscription a payment token granted, or
// nil when none exists.
func (s *Service) SubscriptionByToken(token string) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscriptionByToken(strings.TrimSpace(token))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// RecordWebhookEvent persists a webhook delivery idempotently. When the
// processor sends no delivery id the raw body hash stands in for one, which
// also deduplicates byte-identical redeliveries.
func (s *Service) RecordWebhookEvent(eventID, eventType string, rawBody []byte, signatureValid bool) (bool, *models.PaymentWebhookEvent, error) {
	id := strings.TrimSpace(eventID)
	if id == "" {
		sum := sha256.Sum256(rawBody)
		id = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.PaymentWebhookEvent{
		EventID:        id,
		EventType:      strings.TrimSpace(eventType),
		PayloadJSON:    string(rawBody),
		SignatureValid: signatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(webhookEventID uint, processingErr error) error {
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
