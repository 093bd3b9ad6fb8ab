// seed-demo provisions a demo business with the default landscaping catalog
// (tiered sod, fence variations with optioned add-ons, depth-priced mulch)
// and a couple of customers. It prints the widget key at the end so the embed
// flow can be exercised immediately against a fresh database.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... go run ./cmd/seed-demo [--name "Demo Landscaping Co"] [--email demo@example.com]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	name := flag.String("name", "Demo Landscaping Co", "Business name")
	email := flag.String("email", "demo@quotes.example.com", "Business email")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUsernameInContext(ctx, "System")

	// Idempotent: rerunning against a seeded database is a no-op.
	var existing models.Business
	err := db.WithContext(ctx).Where("name = ?", strings.TrimSpace(*name)).First(&existing).Error
	if err == nil {
		fmt.Printf("business %q already exists (id %s, widget key %s); nothing to do\n",
			existing.Name, existing.ID, existing.WidgetKey)
		return
	}
	if err != gorm.ErrRecordNotFound {
		fmt.Fprintf(os.Stderr, "failed to check existing business: %v\n", err)
		os.Exit(1)
	}

	business, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:        strings.TrimSpace(*name),
		ContactName: "Dana Rivera",
		Email:       strings.TrimSpace(*email),
		Phone:       "555-0134",
		Website:     "https://demo-landscaping.example.com",
		About:       "Full-service landscaping and hardscaping.",
		Address:     "12 Garden Way",
		Country:     "USA",
		City:        "Austin",
		Timezone:    "America/Chicago",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create business: %v\n", err)
		os.Exit(1)
	}
	businessID := business.ID.String()
	ctx = utils.SetBusinessIdInContext(ctx, businessID)
	fmt.Printf("created business %s (%s)\n", business.Name, businessID)

	_, err = models.UpdateQuoteSettings(ctx, &models.NewQuoteSettings{
		CurrencySymbol:          "$",
		DecimalPrecision:        2,
		TaxRate:                 decimal.NewFromFloat(8.25),
		MarkupPercentage:        decimal.NewFromInt(10),
		PriceRangeEnabled:       utils.NewTrue(),
		PriceRangeLowerBound:    decimal.NewFromInt(5),
		PriceRangeUpperBound:    decimal.NewFromInt(10),
		PriceRangeDisplayFormat: models.RangeDisplayFormatDollarAmounts,
		QuoteValidityDays:       30,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update quote settings: %v\n", err)
		os.Exit(1)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := models.SeedDemoCatalog(tx, ctx, businessID)
		if err != nil {
			return err
		}
		customers, err := models.SeedDemoCustomers(tx, ctx, businessID)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d products, %d customers\n", len(products), len(customers))
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed demo data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("done. widget key: %s\n", business.WidgetKey)
}
