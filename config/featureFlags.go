package config

import (
	"os"
	"strings"
)

// StrictTierValidation rejects pricing tier configurations whose active
// [min,max] ranges overlap, instead of tolerating them and letting the
// resolver pick the first match at quote time.
//
// Set via env:
// - STRICT_TIER_VALIDATION=true
func StrictTierValidation() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_TIER_VALIDATION")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// QuoteEventsEnabled turns on outbox publishing of quote lifecycle events
// (quote.submitted, quote.accepted, quote.declined) to Pub/Sub.
//
// Set via env:
// - QUOTE_EVENTS_ENABLED=true
func QuoteEventsEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("QUOTE_EVENTS_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// WidgetCatalogCacheFor enables redis caching of the widget catalog payload
// for the listed businesses, or for all when set to "*".
//
// Set via env:
// - WIDGET_CATALOG_CACHE="*" or a comma-separated list of business ids
func WidgetCatalogCacheFor(businessId string) bool {
	businessId = strings.TrimSpace(businessId)
	if businessId == "" {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("WIDGET_CATALOG_CACHE"))
	if raw == "" {
		return false
	}
	if raw == "*" {
		return true
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == businessId {
			return true
		}
	}
	return false
}
