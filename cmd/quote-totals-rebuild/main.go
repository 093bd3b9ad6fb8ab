// quote-totals-rebuild recomputes the cached money columns on quotes from
// their stored line items and the per-quote settings snapshot. Stored totals
// can drift after manual SQL fixes or partial migrations; this tool re-derives
// subtotal/markup/tax/total and reports (or repairs with --apply) every quote
// whose stored values disagree with the recomputation.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... go run ./cmd/quote-totals-rebuild --business-id <uuid> [--quote-id N] [--apply]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	businessID := flag.String("business-id", "", "Required: business id (uuid)")
	quoteID := flag.Int("quote-id", 0, "Optional: limit to a single quote")
	apply := flag.Bool("apply", false, "Write corrected totals back (default: report only)")
	continueOnError := flag.Bool("continue-on-error", false, "Skip failing quotes and continue")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" {
		fmt.Fprintln(os.Stderr, "--business-id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetBusinessIdInContext(ctx, *businessID)
	ctx = utils.SetUsernameInContext(ctx, "System")

	query := db.WithContext(ctx).
		Where("business_id = ?", *businessID).
		Preload("Items").
		Order("id")
	if *quoteID > 0 {
		query = query.Where("id = ?", *quoteID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load quotes: %v\n", err)
		os.Exit(1)
	}
	if len(quotes) == 0 {
		fmt.Println("no quotes found")
		return
	}

	var checked, mismatched, fixed, failed int
	for _, q := range quotes {
		checked++

		lineTotals := make([]decimal.Decimal, 0, len(q.Items))
		for _, item := range q.Items {
			lineTotals = append(lineTotals, item.LineTotal)
		}
		// Recompute with the settings frozen onto the quote, not the live
		// business settings: rebuilding must not reprice history.
		totals := pricing.CalculateQuoteTotals(lineTotals, pricing.Settings{
			TaxRate:          q.TaxRate,
			MarkupPercentage: q.MarkupPercentage,
		})

		if q.Subtotal.Equal(totals.Subtotal) &&
			q.MarkupAmount.Equal(totals.MarkupAmount) &&
			q.TaxAmount.Equal(totals.TaxAmount) &&
			q.Total.Equal(totals.Total) {
			continue
		}
		mismatched++
		fmt.Printf("quote %d (%s): stored total %s, recomputed %s (subtotal %s -> %s)\n",
			q.ID, q.QuoteNumber, q.Total, totals.Total, q.Subtotal, totals.Subtotal)

		if !*apply {
			continue
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Model(&models.Quote{}).
				Where("id = ? AND business_id = ?", q.ID, *businessID).
				Updates(map[string]interface{}{
					"subtotal":      totals.Subtotal,
					"markup_amount": totals.MarkupAmount,
					"tax_amount":    totals.TaxAmount,
					"total":         totals.Total,
				}).Error
		})
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "quote %d: update failed: %v\n", q.ID, err)
			if !*continueOnError {
				os.Exit(1)
			}
			continue
		}
		fixed++
	}

	fmt.Printf("checked=%d mismatched=%d fixed=%d failed=%d\n", checked, mismatched, fixed, failed)
	if !*apply && mismatched > 0 {
		fmt.Println("run again with --apply to write corrections")
	}
}
