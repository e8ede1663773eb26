package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/PressPass/internal/pkg/cache"
	"github.com/FelixBrandt/PressPass/internal/pkg/metrics/counter"
)

const planPurchasesKey = "plan:counters:purchases"

// processPurchaseReceiptJob runs the deferred side effects of a completed
// payment: purchase analytics and receipt dispatch. None of this may run on
// the webhook path itself.
func (q *Queue) processPurchaseReceiptJob(job *Job) error {
	payload, err := PurchaseReceiptJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid purchase receipt payload: %w", err)
	}

	ctx := context.Background()
	if err := cache.GetClient().HIncrBy(ctx, planPurchasesKey, payload.PlanID, 1).Err(); err != nil {
		return fmt.Errorf("failed to count purchase for plan %s: %w", payload.PlanID, err)
	}

	// Receipt mail goes through the external notification system; here we
	// only record that the purchase left the critical path.
	log.Infof("[JobQueue] Purchase receipt queued for user %d (plan %s, subscription %d)",
		payload.UserID, payload.PlanID, payload.SubscriptionID)
	return nil
}

// processStatsFlushJob drains the buffered delivery counters into MySQL.
func (q *Queue) processStatsFlushJob() error {
	return counter.FlushAll()
}
