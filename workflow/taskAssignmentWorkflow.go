package workflow

import (
	"encoding/json"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessQuoteSubmittedWorkflow puts a freshly submitted quote on the
// contractor's board as a pending review task.
func ProcessQuoteSubmittedWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.QuoteEventMessage) error {
	quote, err := loadEventQuote(tx, msg)
	if err != nil {
		config.LogError(logger, "TaskAssignmentWorkflow.go", "ProcessQuoteSubmittedWorkflow", "loadEventQuote", msg.QuoteId, err)
		return err
	}
	if quote == nil {
		// Quote was deleted between submit and delivery; nothing to review.
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"field":       "TaskAssignmentWorkflow",
				"business_id": msg.BusinessId,
				"quote_id":    msg.QuoteId,
			}).Warn("submitted quote no longer exists; skipping task creation")
		}
		return nil
	}

	customerName := lookupCustomerName(tx, msg.BusinessId, quote.CustomerId)
	title := fmt.Sprintf("Review quote request %s", quote.QuoteNumber)
	description := fmt.Sprintf("%s submitted a quote request for %s %s through the widget.",
		customerName, quote.CurrencySymbol, quote.Total.StringFixed(2))
	if quote.ProjectAddress != "" {
		description += fmt.Sprintf(" Project address: %s.", quote.ProjectAddress)
	}
	if quote.CustomerMessage != "" {
		description += fmt.Sprintf(" Customer note: %s", quote.CustomerMessage)
	}

	_, err = models.CreateFollowUpTask(tx, tx.Statement.Context, quote, title, description)
	if err != nil {
		config.LogError(logger, "TaskAssignmentWorkflow.go", "ProcessQuoteSubmittedWorkflow", "CreateFollowUpTask", quote.ID, err)
		return err
	}
	return nil
}

// ProcessQuoteStatusChangedWorkflow reacts to dashboard status transitions.
// Only acceptance creates work: a jobsite visit task to measure and confirm
// before the job is scheduled. Declines and expiries are terminal.
func ProcessQuoteStatusChangedWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.QuoteEventMessage) error {
	var payload models.Quote
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		config.LogError(logger, "TaskAssignmentWorkflow.go", "ProcessQuoteStatusChangedWorkflow", "Unmarshal msg.Payload", string(msg.Payload), err)
		return err
	}
	if payload.CurrentStatus != models.QuoteStatusAccepted {
		return nil
	}

	quote, err := loadEventQuote(tx, msg)
	if err != nil {
		config.LogError(logger, "TaskAssignmentWorkflow.go", "ProcessQuoteStatusChangedWorkflow", "loadEventQuote", msg.QuoteId, err)
		return err
	}
	if quote == nil {
		return nil
	}

	customerName := lookupCustomerName(tx, msg.BusinessId, quote.CustomerId)
	title := fmt.Sprintf("Schedule jobsite visit for %s", quote.QuoteNumber)
	description := fmt.Sprintf("Quote %s for %s was accepted. Schedule the jobsite visit to verify measurements.",
		quote.QuoteNumber, customerName)
	if quote.ProjectAddress != "" {
		description += fmt.Sprintf(" Project address: %s.", quote.ProjectAddress)
	}

	_, err = models.CreateFollowUpTask(tx, tx.Statement.Context, quote, title, description)
	if err != nil {
		config.LogError(logger, "TaskAssignmentWorkflow.go", "ProcessQuoteStatusChangedWorkflow", "CreateFollowUpTask", quote.ID, err)
		return err
	}
	return nil
}

// loadEventQuote re-reads the quote inside the consumer transaction; the
// event payload may be stale by the time the push delivery lands. A nil
// quote with nil error means the row is gone.
func loadEventQuote(tx *gorm.DB, msg config.QuoteEventMessage) (*models.Quote, error) {
	var quote models.Quote
	err := tx.Where("business_id = ? AND id = ?", msg.BusinessId, msg.QuoteId).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func lookupCustomerName(tx *gorm.DB, businessId string, customerId int) string {
	var customer models.Customer
	err := tx.Where("business_id = ? AND id = ?", businessId, customerId).First(&customer).Error
	if err != nil || customer.Name == "" {
		return "A customer"
	}
	return customer.Name
}
