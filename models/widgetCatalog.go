package models

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// WidgetCatalog is everything the embedded widget needs to render the
// product picker and configuration steps: the public slice of the business
// settings plus the active catalog with children preloaded.
type WidgetCatalog struct {
	Business WidgetBusiness `json:"business"`
	Products []*Product     `json:"products"`
}

// WidgetBusiness exposes only what an anonymous visitor may see. No tax
// rate, no markup: those stay server side and surface through computed
// prices only.
type WidgetBusiness struct {
	Name                    string             `json:"name"`
	LogoUrl                 string             `json:"logo_url"`
	CurrencySymbol          string             `json:"currency_symbol"`
	DecimalPrecision        int                `json:"decimal_precision"`
	PriceRangeEnabled       bool               `json:"price_range_enabled"`
	PriceRangeDisplayFormat RangeDisplayFormat `json:"price_range_display_format"`
}

func widgetCatalogRedisKey(businessId string) string {
	return "widgetCatalog:" + businessId
}

// GetWidgetCatalog builds (or serves from cache) the catalog payload for a
// business. Catalog mutations invalidate the key, so a hit is always
// current.
func GetWidgetCatalog(ctx context.Context, businessId string) (*WidgetCatalog, error) {
	cacheable := config.WidgetCatalogCacheFor(businessId)

	if cacheable {
		var cached WidgetCatalog
		found, err := config.GetRedisObject(widgetCatalogRedisKey(businessId), &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return nil, err
	}
	if business.IsActive != nil && !*business.IsActive {
		return nil, errors.New("business is inactive")
	}

	products, err := GetWidgetProducts(ctx, businessId)
	if err != nil {
		return nil, err
	}

	catalog := WidgetCatalog{
		Business: WidgetBusiness{
			Name:                    business.Name,
			LogoUrl:                 business.LogoUrl,
			CurrencySymbol:          business.CurrencySymbol,
			DecimalPrecision:        business.DecimalPrecision,
			PriceRangeEnabled:       business.PriceRangeEnabled != nil && *business.PriceRangeEnabled,
			PriceRangeDisplayFormat: business.PriceRangeDisplayFormat,
		},
		Products: products,
	}

	if cacheable {
		// caching
		if err := config.SetRedisObject(widgetCatalogRedisKey(businessId), &catalog, utils.GetCacheLifespan()); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "models", "GetWidgetCatalog", "failed to cache widget catalog", businessId, err)
		}
	}

	return &catalog, nil
}

func removeWidgetCatalogCache(businessId string) error {
	return config.RemoveRedisKey(widgetCatalogRedisKey(businessId))
}

// WidgetLineInput is one line as the widget configures it: product,
// optional variation, selected add-ons and the raw measurement.
type WidgetLineInput struct {
	ProductId   int                  `json:"product_id" binding:"required"`
	VariationId int                  `json:"variation_id"`
	Addons      []*NewQuoteItemAddon `json:"addons"`
	Measurement NewMeasurement       `json:"measurement"`
}

// WidgetPricePreview is the full computed state for the configure step. The
// widget recalculates on every input change, so this endpoint is pure: no
// writes, no side effects, the same input always prices the same.
type WidgetPricePreview struct {
	Guards            []pricing.Guard           `json:"guards"`
	Blocked           bool                      `json:"blocked"`
	MeasuredQuantity  decimal.Decimal           `json:"measured_quantity"`
	Increment         pricing.IncrementRounding `json:"increment"`
	BillableQuantity  decimal.Decimal           `json:"billable_quantity"`
	BaseUnitPrice     decimal.Decimal           `json:"base_unit_price"`
	AdjustedUnitPrice decimal.Decimal           `json:"adjusted_unit_price"`
	VariationCost     decimal.Decimal           `json:"variation_cost"`
	Addons            []pricing.AddonBreakdown  `json:"addons"`
	AddonTotal        decimal.Decimal           `json:"addon_total"`
	BaseAmount        decimal.Decimal           `json:"base_amount"`
	LineTotal         decimal.Decimal           `json:"line_total"`
	Range             *pricing.PriceRange       `json:"range,omitempty"`
	DisplayPrice      string                    `json:"display_price"`
}

// PreviewWidgetPrice prices one draft line. Guard conditions come back in
// the response instead of failing the call: the widget disables the
// add-to-quote button on blocking guards but keeps showing live numbers.
func PreviewWidgetPrice(ctx context.Context, businessId string, input *WidgetLineInput) (*WidgetPricePreview, error) {
	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return nil, err
	}
	settings := business.PricingSettings()

	detail := &NewQuoteItem{
		ProductId:   input.ProductId,
		VariationId: input.VariationId,
		Addons:      input.Addons,
		Measurement: input.Measurement,
	}
	lines, err := resolveQuoteLineContexts(ctx, businessId, []*NewQuoteItem{detail})
	if err != nil {
		return nil, err
	}
	line := lines[0]

	productInput := line.product.PricingInput()
	tiers := TierPricingInputs(line.product.PricingTiers)

	var variation *pricing.VariationInput
	if line.variation != nil {
		v := line.variation.PricingInput()
		variation = &v
	}

	var addonInputs []pricing.AddonInput
	for _, a := range line.addons {
		addonInputs = append(addonInputs, a.addon.PricingInput(a.quantity, a.optionId))
	}

	draft := pricing.LineItemDraft{
		Product:     productInput,
		Tiers:       tiers,
		Variation:   variation,
		Addons:      addonInputs,
		Measurement: line.measurement,
	}
	guards := pricing.ValidateDraft(draft)

	measured := pricing.ResolveQuantity(line.measurement, productInput, variation)
	rounding := pricing.ResolveIncrementRounding(measured, productInput)
	billable := rounding.RoundedQuantity

	basePrice := pricing.ResolveUnitPrice(billable, tiers, productInput)
	adjustedPrice := pricing.ApplyVariationAdjustment(basePrice, variation)
	addonRows, addonTotal := pricing.CalculateAddons(addonInputs, billable, basePrice, variation, productInput)

	baseAmount := adjustedPrice.Mul(billable)
	variationCost := adjustedPrice.Sub(basePrice).Mul(billable)
	lineTotal := baseAmount.Add(addonTotal)

	preview := WidgetPricePreview{
		Guards:            guards,
		Blocked:           pricing.HasBlockingGuard(guards),
		MeasuredQuantity:  measured,
		Increment:         rounding,
		BillableQuantity:  billable,
		BaseUnitPrice:     basePrice,
		AdjustedUnitPrice: adjustedPrice,
		VariationCost:     variationCost,
		Addons:            addonRows,
		AddonTotal:        addonTotal,
		BaseAmount:        baseAmount,
		LineTotal:         lineTotal,
	}

	preview.Range = pricing.ResolveRange(lineTotal, settings)
	if preview.Range != nil {
		preview.DisplayPrice = pricing.FormatRange(*preview.Range, settings.CurrencySymbol, settings.DecimalPrecision)
	} else {
		preview.DisplayPrice = pricing.FormatExactPrice(lineTotal, settings.CurrencySymbol, settings.DecimalPrecision)
	}

	return &preview, nil
}

// WidgetIncrementInput asks for the rounding proposal on a measurement.
// The variation matters: one that affects the area calculation changes the
// measured quantity the increment rule rounds.
type WidgetIncrementInput struct {
	ProductId   int            `json:"product_id" binding:"required"`
	VariationId int            `json:"variation_id"`
	Measurement NewMeasurement `json:"measurement"`
}

// CheckWidgetIncrement returns the increment proposal the widget shows for
// confirmation before a rounded quantity goes on the quote.
func CheckWidgetIncrement(ctx context.Context, businessId string, input *WidgetIncrementInput) (*pricing.IncrementRounding, error) {
	product, err := utils.FetchModel[Product](ctx, businessId, input.ProductId, "Variations")
	if err != nil {
		return nil, fmt.Errorf("product %d not found", input.ProductId)
	}

	productInput := product.PricingInput()

	var variation *pricing.VariationInput
	if input.VariationId > 0 {
		for i := range product.Variations {
			if product.Variations[i].ID == input.VariationId {
				v := product.Variations[i].PricingInput()
				variation = &v
				break
			}
		}
		if variation == nil {
			return nil, fmt.Errorf("variation %d does not belong to product %s", input.VariationId, product.Name)
		}
	}

	measurement := pricing.Measurement{
		Type:  pricing.MeasurementType(input.Measurement.Type),
		Value: input.Measurement.Value,
		Depth: input.Measurement.Depth,
	}

	measured := pricing.ResolveQuantity(measurement, productInput, variation)
	rounding := pricing.ResolveIncrementRounding(measured, productInput)
	return &rounding, nil
}
