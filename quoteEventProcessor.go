package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"bitbucket.org/mmdatafocus/quotes_backend/workflow"
	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	businessMutexMap = make(map[string]*sync.Mutex)
	globalMutex      = &sync.Mutex{}
)

// RunQuoteEventWorkflow starts the pull consumer for quote lifecycle
// events. Submitted quotes and status changes create follow-up tasks for
// the contractor's board; every other event type acks without work.
func RunQuoteEventWorkflow() error {
	logger := config.GetLogger()
	ctx := context.Background()
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}
	topic, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_TOPIC"))
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, os.Getenv("PUBSUB_SUBSCRIPTION"), topic)
	if err != nil {
		return err
	}
	sub.ReceiveSettings.MaxOutstandingMessages = 10

	callback := func(ctx context.Context, msg *pubsub.Message) {
		m := config.QuoteEventMessage{}
		err := json.Unmarshal(msg.Data, &m)
		if err != nil {
			config.LogError(logger, "quoteEventProcessor.go", "RunQuoteEventWorkflow", "Unmarshaling pubsub message", msg.Data, err)
			// poison message, never parseable
			msg.Ack()
			return
		}

		// Get or create the mutex for the current BusinessId
		globalMutex.Lock()
		mutex, exists := businessMutexMap[m.BusinessId]
		if !exists {
			mutex = &sync.Mutex{}
			businessMutexMap[m.BusinessId] = mutex
		}
		globalMutex.Unlock()

		mutex.Lock()
		defer mutex.Unlock()

		ctx = utils.SetBusinessIdInContext(ctx, m.BusinessId)
		ctx = utils.SetUsernameInContext(ctx, "System")
		ctx = utils.SetCorrelationIdInContext(ctx, m.CorrelationId)
		if err := ProcessQuoteEventMessage(ctx, logger, m); err != nil {
			logger.WithFields(logrus.Fields{
				"field":       "QuoteEventWorkflow",
				"business_id": m.BusinessId,
				"event_type":  m.EventType,
				"quote_id":    m.QuoteId,
				"message_id":  msg.ID,
			}).Error("pubsub processing failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	go func() {
		err := sub.Receive(ctx, callback)
		if err != nil {
			config.LogError(logger, "quoteEventProcessor.go", "RunQuoteEventWorkflow", "Failed to receive messages", nil, err)
		}
	}()

	return nil
}

// ProcessQuoteEventMessage runs one event through its workflow inside a
// single transaction. The DB-backed idempotency key makes redelivery a
// no-op; the per-business advisory lock keeps event order stable across
// instances.
func ProcessQuoteEventMessage(ctx context.Context, logger *logrus.Logger, m config.QuoteEventMessage) error {
	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := workflow.AcquireBusinessEventLock(tx.WithContext(ctx), m.BusinessId); err != nil {
			return err
		}
		defer workflow.ReleaseBusinessEventLock(tx.WithContext(ctx), m.BusinessId)

		handlerName := m.EventType
		messageId := strconv.Itoa(m.ID)

		skip, err := workflow.BeginIdempotency(tx.WithContext(ctx), m.BusinessId, handlerName, messageId)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		if err := processQuoteEvent(tx.WithContext(ctx), logger, m); err != nil {
			_ = workflow.MarkIdempotencyFailed(tx.WithContext(ctx), m.BusinessId, handlerName, messageId, err)
			return err
		}
		if err := workflow.MarkIdempotencySucceeded(tx.WithContext(ctx), m.BusinessId, handlerName, messageId); err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.WithContext(ctx).Model(&models.QuoteEvent{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"is_processed":       true,
				"processed_at":       &now,
				"last_process_error": nil,
			}).Error
	})
	if err != nil {
		recordQuoteEventError(ctx, m.ID, err)
	}
	return err
}

func processQuoteEvent(tx *gorm.DB, logger *logrus.Logger, m config.QuoteEventMessage) error {
	switch models.QuoteEventType(m.EventType) {
	case models.QuoteEventTypeQuoteSubmitted:
		return workflow.ProcessQuoteSubmittedWorkflow(tx, logger, m)
	case models.QuoteEventTypeQuoteStatusChanged:
		return workflow.ProcessQuoteStatusChangedWorkflow(tx, logger, m)
	}
	// created/updated/deleted events carry no consumer-side work
	return nil
}

// recordQuoteEventError writes the failure onto the outbox row outside the
// rolled-back transaction so the status endpoint can surface it.
func recordQuoteEventError(ctx context.Context, eventId int, processErr error) {
	db := config.GetDB()
	message := processErr.Error()
	_ = db.WithContext(ctx).Model(&models.QuoteEvent{}).
		Where("id = ?", eventId).
		Update("last_process_error", &message).Error
}
