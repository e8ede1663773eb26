package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/env"
	"github.com/FelixBrandt/PressPass/internal/pkg/jobqueue"
	"github.com/FelixBrandt/PressPass/internal/pkg/paywall"
)

// HandlePaymentWebhook receives processor notifications. The raw body bytes
// are kept verbatim for signature verification; nothing is re-serialized
// before checking. 401 is reserved for signature failure; every other
// outcome, including fraud and anomalies, is acknowledged with 200 so the
// processor's retry machinery never fires on business outcomes.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Payment-Signature"))
	eventID := strings.TrimSpace(c.Get("X-Payment-Event-ID"))
	eventType := strings.TrimSpace(c.Get("X-Payment-Event"))
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	// An unauthenticated notification must cause zero state mutations, so
	// verification happens before anything is persisted.
	if !paywall.VerifyWebhookSignature(rawBody, signature, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	svc := paywall.NewServiceFromDB(database.GetDB())

	created, stored, err := svc.RecordWebhookEvent(eventID, eventType, rawBody, true)
	if err != nil {
		// Internal failure: still acknowledge, the event was authentic.
		log.Printf("webhook: failed to persist event: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
	if !created && stored.IsProcessed() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	// A redelivery whose earlier processing never finished falls through and
	// is handled again; the ledger is idempotent per token.

	notification, parseErr := paywall.ParseNotification(rawBody)
	if parseErr != nil {
		// Malformed but authentic: absorb, record, acknowledge. The bytes are
		// identical on redelivery, so retrying cannot help.
		_ = svc.MarkWebhookProcessed(stored.ID, parseErr)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}

	outcome, procErr := svc.HandleNotification(notification, GetClientIP(c))
	if procErr != nil {
		// Transient failure: leave the event unprocessed so the processor's
		// redelivery gets another attempt.
		log.Printf("webhook: processing error for token %s: %v", notification.Token, procErr)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
	_ = svc.MarkWebhookProcessed(stored.ID, nil)

	if outcome == paywall.OutcomeGranted {
		// Non-essential side effects stay off the webhook path.
		if sub, err := svc.SubscriptionByToken(notification.Token); err == nil && sub != nil {
			jobqueue.EnqueuePurchaseReceipt(jobqueue.PurchaseReceiptJobPayload{
				UserID:         sub.UserID,
				PlanID:         sub.PlanID,
				Token:          sub.PaymentToken,
				SubscriptionID: sub.ID,
			})
		}
	}

	// Business outcomes are never surfaced to the processor.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
