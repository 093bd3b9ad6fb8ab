package models

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
)

func GetOutboxStatus(ctx context.Context, quoteId int) (*OutboxStatus, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var rec QuoteEvent
	if err := db.WithContext(ctx).
		Where("business_id = ? AND quote_id = ?", businessId, quoteId).
		Order("id DESC").
		First(&rec).Error; err != nil {
		return nil, err
	}

	// The row carries publish state; consumer state is derived from the
	// processed flag and the last process error left by the push handler.
	var processing OutboxPostingStatus
	switch {
	case rec.IsProcessed:
		processing = OutboxPostingStatusSucceeded
	case rec.PublishStatus == OutboxPublishStatusDead:
		processing = OutboxPostingStatusDead
	case rec.LastProcessError != nil && *rec.LastProcessError != "":
		processing = OutboxPostingStatusFailed
	case rec.PublishStatus == OutboxPublishStatusSent:
		// published, waiting on the push consumer
		processing = OutboxPostingStatusProcessing
	default:
		processing = OutboxPostingStatusPending
	}

	return &OutboxStatus{
		RecordId:         rec.ID,
		QuoteId:          rec.QuoteId,
		QuoteNumber:      rec.QuoteNumber,
		EventType:        rec.EventType,
		PublishStatus:    rec.PublishStatus,
		ProcessingStatus: processing,
		IsProcessed:      rec.IsProcessed,
		PublishAttempts:  rec.PublishAttempts,
		NextAttemptAt:    rec.NextAttemptAt,
		LastPublishError: rec.LastPublishError,
		LastProcessError: rec.LastProcessError,
		CreatedAt:        rec.CreatedAt,
		PublishedAt:      rec.PublishedAt,
		ProcessedAt:      rec.ProcessedAt,
	}, nil
}
