package models

import (
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
)

// QuoteEvent is the transactional outbox row for quote lifecycle events.
// Rows are written in the same transaction as the quote change; the
// dispatcher loop publishes them to Pub/Sub after commit and the push
// consumer marks them processed. Publishing state and processing state are
// tracked separately: a row can be SENT but not yet processed.
type QuoteEvent struct {
	ID            int              `gorm:"primary_key;index:idx_outbox_dispatch,priority:3;index:idx_outbox_reconcile,priority:3" json:"id"`
	BusinessId    string           `gorm:"size:64;not null;index;index:idx_outbox_reconcile,priority:1" json:"business_id"`
	EventDateTime time.Time        `gorm:"index;not null" json:"event_date_time"`
	QuoteId       int              `gorm:"index" json:"quote_id"`
	QuoteNumber   string           `gorm:"size:30" json:"quote_number"`
	EventType     QuoteEventType   `gorm:"type:enum('QuoteCreated','QuoteUpdated','QuoteDeleted','QuoteSubmitted','QuoteStatusChanged')" json:"event_type"`
	Action        QuoteEventAction `gorm:"type:enum('C','U','D')" json:"action"`
	OldObj        []byte           `gorm:"type:blob" json:"old_obj"`
	NewObj        []byte           `gorm:"type:blob" json:"new_obj"`
	IsProcessed   bool             `gorm:"index;not null;index:idx_outbox_reconcile,priority:2" json:"is_processed"`
	// publish metadata (publish happens after commit via the dispatcher)
	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	// processing metadata (consumer side)
	LastProcessError *string    `gorm:"type:text" json:"last_process_error"`
	ProcessedAt      *time.Time `gorm:"index" json:"processed_at"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ConvertToQuoteEventMessage maps an outbox row onto the wire payload. The
// message carries one payload object: the new state, or the last known state
// for deletes.
func ConvertToQuoteEventMessage(record QuoteEvent) config.QuoteEventMessage {
	payload := record.NewObj
	if record.Action == QuoteEventActionDelete {
		payload = record.OldObj
	}
	return config.QuoteEventMessage{
		ID:            record.ID,
		BusinessId:    record.BusinessId,
		EventDateTime: record.EventDateTime,
		QuoteId:       record.QuoteId,
		QuoteNumber:   record.QuoteNumber,
		EventType:     string(record.EventType),
		Payload:       payload,
		CorrelationId: record.CorrelationId,
	}
}
