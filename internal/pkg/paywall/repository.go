package paywall

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/FelixBrandt/PressPass/app/models"
)

// Repository provides DB operations used by the paywall service. The grant
// and refund paths are transactional per token: they lock the payment
// attempt row so concurrent webhook redeliveries serialize on the entity,
// never on a global lock.
type Repository interface {
	CreateAttempt(attempt *models.PaymentAttempt) error
	GetAttemptByToken(token string) (*models.PaymentAttempt, error)
	MarkAttemptFailed(token string) (*models.PaymentAttempt, bool, error)
	Grant(token string, expiresAt time.Time) (*models.Subscription, bool, error)
	CancelByToken(token string) (*models.Subscription, error)
	GetSubscriptionByToken(token string) (*models.Subscription, error)
	FindActiveSubscription(userID uint, now time.Time) (*models.Subscription, error)
	CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a paywall repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateAttempt(attempt *models.PaymentAttempt) error {
	if attempt.Status == "" {
		attempt.Status = models.PaymentStatusPending
	}
	return r.db.Create(attempt).Error
}

func (r *gormRepository) GetAttemptByToken(token string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := r.db.Where("token = ?", token).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownToken
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// MarkAttemptFailed moves a pending attempt to failed. Already-failed
// attempts are a no-op (second return false); any other state rejects the
// transition as anomalous.
func (r *gormRepository) MarkAttemptFailed(token string) (*models.PaymentAttempt, bool, error) {
	var attempt models.PaymentAttempt
	changed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockAttempt(tx, token, &attempt); err != nil {
			return err
		}
		if attempt.Status == models.PaymentStatusFailed {
			return nil
		}
		if !attempt.CanTransitionTo(models.PaymentStatusFailed) {
			return fmt.Errorf("%w: %s -> failed for token %s", ErrAnomalousTransition, attempt.Status, token)
		}
		attempt.Status = models.PaymentStatusFailed
		changed = true
		return tx.Save(&attempt).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &attempt, changed, nil
}

// Grant is the single synchronization point for turning a confirmed payment
// into a subscription. Idempotent per token: a token whose attempt is
// already completed returns the existing subscription unchanged. Otherwise,
// in one transaction, the attempt is completed, any prior active
// subscription of the user is superseded and the new subscription inserted.
// The unique index on payment_token backs the conditional insert.
func (r *gormRepository) Grant(token string, expiresAt time.Time) (*models.Subscription, bool, error) {
	var sub models.Subscription
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var attempt models.PaymentAttempt
		if err := lockAttempt(tx, token, &attempt); err != nil {
			return err
		}

		if attempt.Status == models.PaymentStatusCompleted {
			// Duplicate delivery: hand back the existing grant, write nothing.
			return tx.Where("payment_token = ?", token).First(&sub).Error
		}
		if !attempt.CanTransitionTo(models.PaymentStatusCompleted) {
			return fmt.Errorf("%w: %s -> completed for token %s", ErrAnomalousTransition, attempt.Status, token)
		}

		attempt.Status = models.PaymentStatusCompleted
		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}

		// Replacement policy: a new completed payment supersedes the user's
		// previous active subscription.
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND status = ?", attempt.UserID, models.SubscriptionStatusActive).
			Update("status", models.SubscriptionStatusSuperseded).Error; err != nil {
			return err
		}

		sub = models.Subscription{
			UserID:       attempt.UserID,
			PlanID:       attempt.PlanID,
			PaymentToken: attempt.Token,
			Status:       models.SubscriptionStatusActive,
			ExpiresAt:    expiresAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_token"}},
			DoNothing: true,
		}).Create(&sub).Error; err != nil {
			return err
		}

		created = true
		// Ensure ID is populated after the conditional insert.
		return tx.Where("payment_token = ?", token).First(&sub).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &sub, created, nil
}

// CancelByToken handles a verified refund. Only a completed attempt cancels
// its subscription; everything else is anomalous and left to the caller to
// log as a no-op.
func (r *gormRepository) CancelByToken(token string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var attempt models.PaymentAttempt
		if err := lockAttempt(tx, token, &attempt); err != nil {
			return err
		}
		if !attempt.CanTransitionTo(models.PaymentStatusRefunded) {
			return fmt.Errorf("%w: %s -> refunded for token %s", ErrAnomalousTransition, attempt.Status, token)
		}

		attempt.Status = models.PaymentStatusRefunded
		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}

		if err := tx.Where("payment_token = ?", token).First(&sub).Error; err != nil {
			return err
		}
		sub.Status = models.SubscriptionStatusCanceled
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetSubscriptionByToken(token string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("payment_token = ?", token).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveSubscription returns the user's current subscription only when
// it is active and unexpired. Expiry is lazy: no status write happens here.
func (r *gormRepository) FindActiveSubscription(userID uint, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.SubscriptionStatusActive, now).
		Order("expires_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentWebhookEvent
	if err := r.db.Where("event_id = ?", event.EventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func lockAttempt(tx *gorm.DB, token string, attempt *models.PaymentAttempt) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", token).
		First(attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknownToken
	}
	return err
}
