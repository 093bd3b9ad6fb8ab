// tier-overlap-audit scans every product's tier table for gaps, overlaps and
// misplaced unbounded bands. Tier tables written before strict validation was
// enabled (STRICT_TIER_VALIDATION) can carry layouts the widget silently
// mis-prices; this tool lists them per product so they can be fixed in the
// tier editor.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... go run ./cmd/tier-overlap-audit [--business-id <uuid>] [--include-inactive]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
)

func main() {
	businessID := flag.String("business-id", "", "Optional: limit to one business (uuid); default all")
	includeInactive := flag.Bool("include-inactive", false, "Also audit inactive products")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	ctx := context.Background()
	query := db.WithContext(ctx).
		Preload("PricingTiers").
		Order("business_id, id")
	if strings.TrimSpace(*businessID) != "" {
		query = query.Where("business_id = ?", *businessID)
	}
	if !*includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load products: %v\n", err)
		os.Exit(1)
	}

	var audited, flagged int
	for _, p := range products {
		if len(p.PricingTiers) == 0 {
			continue
		}
		audited++
		issues := models.ValidateTierLayout(p.PricingTiers)
		if len(issues) == 0 {
			continue
		}
		flagged++
		fmt.Printf("product %d (%s) business %s:\n", p.ID, p.Name, p.BusinessId)
		for _, issue := range issues {
			fmt.Printf("  - %s\n", issue.Detail)
		}
	}

	fmt.Printf("audited=%d flagged=%d\n", audited, flagged)
	if flagged > 0 {
		os.Exit(2)
	}
}
