package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"gorm.io/gorm"
)

// ReprocessOutbox requeues every unprocessed outbox row of a quote for
// publishing. It clears stale locks and resets FAILED/DEAD rows so the
// dispatcher picks them up on its next pass; Pub/Sub redelivery then drives
// the consumer side again.
func ReprocessOutbox(ctx context.Context, quoteId int) (*OutboxStatus, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	now := time.Now().UTC()
	db := config.GetDB()

	res := db.WithContext(ctx).
		Model(&QuoteEvent{}).
		Where("business_id = ? AND quote_id = ? AND is_processed = 0", businessId, quoteId).
		Updates(map[string]interface{}{
			"locked_at":          nil,
			"locked_by":          nil,
			"publish_status":     OutboxPublishStatusPending,
			"publish_attempts":   0,
			"next_attempt_at":    &now,
			"last_process_error": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return GetOutboxStatus(ctx, quoteId)
}
