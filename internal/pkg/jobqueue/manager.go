package jobqueue

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var (
	globalQueue *Queue
	managerOnce sync.Once
	flushStop   chan struct{}
)

// StartManager starts the global queue and the periodic stats flush ticker.
func StartManager(workers int, flushInterval time.Duration) {
	managerOnce.Do(func() {
		globalQueue = NewQueue(workers)
		globalQueue.Start()

		if flushInterval <= 0 {
			flushInterval = time.Minute
		}
		flushStop = make(chan struct{})
		go func() {
			ticker := time.NewTicker(flushInterval)
			defer ticker.Stop()
			for {
				select {
				case <-flushStop:
					return
				case <-ticker.C:
					if _, err := globalQueue.EnqueueJob(JobTypeStatsFlush, nil); err != nil {
						log.Errorf("[JobQueue] Failed to enqueue stats flush: %v", err)
					}
				}
			}
		}()
	})
}

// StopManager stops the global queue and the flush ticker.
func StopManager() {
	if flushStop != nil {
		close(flushStop)
	}
	if globalQueue != nil {
		globalQueue.Stop()
	}
}

// GetQueue returns the global queue instance; StartManager must run first.
func GetQueue() *Queue {
	return globalQueue
}

// EnqueuePurchaseReceipt defers post-payment side effects to the workers.
func EnqueuePurchaseReceipt(payload PurchaseReceiptJobPayload) {
	if globalQueue == nil {
		log.Warn("[JobQueue] Queue not started, dropping purchase receipt job")
		return
	}
	if _, err := globalQueue.EnqueueJob(JobTypePurchaseReceipt, payload.ToMap()); err != nil {
		log.Errorf("[JobQueue] Failed to enqueue purchase receipt: %v", err)
	}
}
