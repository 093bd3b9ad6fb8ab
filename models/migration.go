package models

import (
	"log"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{},
		&Customer{},
		&Product{}, &PricingTier{}, &Variation{}, &Addon{}, &AddonOption{},
		&Quote{}, &QuoteItem{},
		&Task{},
		&QuoteEvent{}, &QuoteNumberSeries{}, &IdempotencyKey{},
		&Document{}, &Image{},
		&History{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
