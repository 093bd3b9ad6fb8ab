package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote is the persisted output of the pricing pipeline. Every money column
// is a cache of engine output: stored totals can always be rebuilt by
// re-running the items through the engine with the snapshot settings below.
type Quote struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index;not null" json:"business_id" binding:"required"`
	SequenceNo  int64     `gorm:"not null" json:"-"`
	QuoteNumber string    `gorm:"size:30;not null;index" json:"quote_number"`
	CustomerId  int       `gorm:"index;not null" json:"customer_id"`
	QuoteDate   time.Time `gorm:"not null" json:"quote_date"`
	// ExpiryDate nil means the quote never expires (dashboard drafts).
	ExpiryDate      *time.Time  `json:"expiry_date"`
	CurrentStatus   QuoteStatus `gorm:"type:enum('Draft','Submitted','Accepted','Declined','Expired','Cancelled');not null;default:'Draft'" json:"current_status"`
	Source          QuoteSource `gorm:"type:enum('widget','dashboard');not null;default:'dashboard'" json:"source"`
	ProjectAddress  string      `gorm:"type:text" json:"project_address"`
	CustomerMessage string      `gorm:"type:text" json:"customer_message"`
	Notes           string      `gorm:"type:text" json:"notes"`
	DeclineReason   string      `gorm:"type:text" json:"decline_reason"`

	// settings snapshot at last computation
	CurrencySymbol   string          `gorm:"size:10" json:"currency_symbol"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_rate"`
	MarkupPercentage decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"markup_percentage"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	MarkupAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"markup_amount"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`

	// what the customer actually saw at submission: the widened pair when
	// range display was on, the exact total otherwise
	PriceLow   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price_low"`
	PriceHigh  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price_high"`
	RangeShown *bool           `gorm:"not null;default:false" json:"range_shown"`

	Items     []QuoteItem `gorm:"foreignKey:QuoteId" json:"items"`
	Documents []*Document `gorm:"polymorphic:Reference" json:"documents"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// QuoteItem snapshots one configured line: the measurement as entered, the
// quantities before and after increment rounding, the resolved prices and
// the add-on breakdown. Product/variation names are copied in so the quote
// stays readable after the catalog changes.
type QuoteItem struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id"`
	QuoteId    int    `gorm:"index;not null" json:"quote_id"`
	ProductId  int    `gorm:"not null" json:"product_id"`

	ProductName string `gorm:"size:100;not null" json:"product_name"`
	UnitLabel   string `gorm:"size:30" json:"unit_label"`

	MeasurementType  MeasurementType `gorm:"type:enum('area','line','point');not null" json:"measurement_type"`
	MeasurementValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"measurement_value"`
	MeasurementDepth decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"measurement_depth"`
	// MeasurementDetail carries the serialized map geometry untouched; the
	// backend never interprets it.
	MeasurementDetail string `gorm:"type:text" json:"measurement_detail"`

	MeasuredQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"measured_quantity"`
	BillableQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"billable_quantity"`
	IncrementApplied *bool           `gorm:"not null;default:false" json:"increment_applied"`

	BaseUnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"base_unit_price"`
	AdjustedUnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"adjusted_unit_price"`

	VariationId   int             `gorm:"default:0" json:"variation_id"`
	VariationName string          `gorm:"size:100" json:"variation_name"`
	VariationCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"variation_cost"`

	// AddonDetail is the JSON breakdown rows, one per selected add-on
	AddonDetail string          `gorm:"type:text" json:"addon_detail"`
	AddonTotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"addon_total"`

	BaseAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"base_amount"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_total"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type QuotesEdge Edge[Quote]
type QuotesConnection struct {
	Edges    []*QuotesEdge `json:"edges"`
	PageInfo *PageInfo     `json:"pageInfo"`
}

func (q Quote) GetCursor() string {
	return q.CreatedAt.String()
}

func (q Quote) GetId() int {
	return q.ID
}

// CheckEditLock rejects changes to accepted quotes. An accepted quote is the
// figure the job was won on; corrections go on a fresh quote.
func (q Quote) CheckEditLock(ctx context.Context) error {
	if q.CurrentStatus == QuoteStatusAccepted {
		return errors.New("accepted quotes are locked; create a new quote to make changes")
	}
	return nil
}

type NewMeasurement struct {
	Type  MeasurementType  `json:"type" binding:"required"`
	Value decimal.Decimal  `json:"value" binding:"required"`
	Depth *decimal.Decimal `json:"depth"`
	// Detail is the serialized drawing payload from the widget map step
	Detail string `json:"detail"`
}

type NewQuoteItemAddon struct {
	AddonId  int `json:"addon_id" binding:"required"`
	OptionId int `json:"option_id"`
	Quantity int `json:"quantity"`
}

type NewQuoteItem struct {
	ItemId        int                  `json:"item_id"`
	ProductId     int                  `json:"product_id" binding:"required"`
	VariationId   int                  `json:"variation_id"`
	Addons        []*NewQuoteItemAddon `json:"addons"`
	Measurement   NewMeasurement       `json:"measurement"`
	IsDeletedItem *bool                `json:"is_deleted_item"`
}

type NewQuote struct {
	CustomerId     int             `json:"customer_id" binding:"required"`
	QuoteDate      time.Time       `json:"quote_date" binding:"required"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	ProjectAddress string          `json:"project_address"`
	Notes          string          `json:"notes"`
	Details        []*NewQuoteItem `json:"details" binding:"required,dive"`
	Documents      []*NewDocument  `json:"documents"`
}

// WidgetQuoteInput is the submission body from the embedded widget. The
// customer block is matched against existing records by email before a new
// customer row is created.
type WidgetQuoteInput struct {
	IdempotencyKey  string          `json:"idempotency_key"`
	Customer        *NewCustomer    `json:"customer" binding:"required"`
	ProjectAddress  string          `json:"project_address"`
	CustomerMessage string          `json:"customer_message"`
	Details         []*NewQuoteItem `json:"details" binding:"required,dive"`
}

func (input *NewQuote) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Quote](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if len(input.Details) == 0 {
		return errors.New("quote must have at least one item")
	}
	if input.ExpiryDate != nil && input.ExpiryDate.Before(input.QuoteDate) {
		return errors.New("expiry date cannot be before the quote date")
	}
	return nil
}

// quoteLineContext is one line's catalog records plus the raw measurement,
// resolved from the database and ready for the engine.
type quoteLineContext struct {
	itemId      int
	product     *Product
	variation   *Variation
	addons      []quoteLineAddon
	measurement pricing.Measurement
	detail      string
}

type quoteLineAddon struct {
	addon    Addon
	optionId int
	quantity int
}

// resolveQuoteLineContexts loads each line's product with tiers, variations
// and add-ons and validates the selections against the catalog. Deleted
// input rows are skipped; they only matter to the update diff.
func resolveQuoteLineContexts(ctx context.Context, businessId string, details []*NewQuoteItem) ([]quoteLineContext, error) {
	var lines []quoteLineContext

	for _, detail := range details {
		if detail.IsDeletedItem != nil && *detail.IsDeletedItem {
			continue
		}

		product, err := utils.FetchModel[Product](ctx, businessId, detail.ProductId,
			"PricingTiers", "Variations", "Addons", "Addons.Options")
		if err != nil {
			return nil, fmt.Errorf("product %d not found", detail.ProductId)
		}
		if product.IsActive != nil && !*product.IsActive {
			return nil, fmt.Errorf("product %s is inactive", product.Name)
		}

		line := quoteLineContext{
			itemId:  detail.ItemId,
			product: product,
			measurement: pricing.Measurement{
				Type:  pricing.MeasurementType(detail.Measurement.Type),
				Value: detail.Measurement.Value,
				Depth: detail.Measurement.Depth,
			},
			detail: detail.Measurement.Detail,
		}

		if detail.VariationId > 0 {
			for i := range product.Variations {
				if product.Variations[i].ID == detail.VariationId {
					line.variation = &product.Variations[i]
					break
				}
			}
			if line.variation == nil {
				return nil, fmt.Errorf("variation %d does not belong to product %s", detail.VariationId, product.Name)
			}
			if line.variation.IsActive != nil && !*line.variation.IsActive {
				return nil, fmt.Errorf("variation %s is inactive", line.variation.Name)
			}
		}

		for _, selected := range detail.Addons {
			if selected == nil || selected.Quantity <= 0 {
				continue
			}
			var addon *Addon
			for i := range product.Addons {
				if product.Addons[i].ID == selected.AddonId {
					addon = &product.Addons[i]
					break
				}
			}
			if addon == nil {
				return nil, fmt.Errorf("addon %d does not belong to product %s", selected.AddonId, product.Name)
			}
			if addon.IsActive != nil && !*addon.IsActive {
				return nil, fmt.Errorf("addon %s is inactive", addon.Name)
			}
			if addon.MaxQuantity > 0 && selected.Quantity > addon.MaxQuantity {
				return nil, fmt.Errorf("addon %s allows at most %d", addon.Name, addon.MaxQuantity)
			}
			if selected.OptionId > 0 {
				found := false
				for i := range addon.Options {
					if addon.Options[i].ID == selected.OptionId {
						found = true
						break
					}
				}
				if !found {
					return nil, fmt.Errorf("option %d does not belong to addon %s", selected.OptionId, addon.Name)
				}
			}
			line.addons = append(line.addons, quoteLineAddon{
				addon:    *addon,
				optionId: selected.OptionId,
				quantity: selected.Quantity,
			})
		}

		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, errors.New("quote must have at least one item")
	}
	return lines, nil
}

// computeQuoteLines prices every line and aggregates the quote totals. The
// pipeline per line: resolve quantity, apply the increment rule, look up the
// tier price on the billable quantity, layer the variation adjustment, then
// add-ons. Blocking validation guards fail the whole computation; a warning
// guard (below minimum) goes through, that call is the contractor's.
func computeQuoteLines(lines []quoteLineContext, s pricing.Settings) ([]QuoteItem, pricing.QuoteTotals, error) {
	var items []QuoteItem
	var lineTotals []decimal.Decimal

	for _, line := range lines {
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
		for _, guard := range pricing.ValidateDraft(draft) {
			if guard.Blocking {
				return nil, pricing.QuoteTotals{}, fmt.Errorf("%s: %s", line.product.Name, guard.Message)
			}
		}

		measured := pricing.ResolveQuantity(line.measurement, productInput, variation)
		rounding := pricing.ResolveIncrementRounding(measured, productInput)
		billable := rounding.RoundedQuantity

		basePrice := pricing.ResolveUnitPrice(billable, tiers, productInput)
		adjustedPrice := pricing.ApplyVariationAdjustment(basePrice, variation)
		addonRows, addonTotal := pricing.CalculateAddons(addonInputs, billable, basePrice, variation, productInput)

		baseAmount := adjustedPrice.Mul(billable)
		variationCost := adjustedPrice.Sub(basePrice).Mul(billable)
		lineTotal := baseAmount.Add(addonTotal)

		addonDetail := ""
		if len(addonRows) > 0 {
			b, err := json.Marshal(addonRows)
			if err != nil {
				return nil, pricing.QuoteTotals{}, err
			}
			addonDetail = string(b)
		}

		item := QuoteItem{
			ID:                line.itemId,
			ProductId:         line.product.ID,
			ProductName:       line.product.Name,
			UnitLabel:         line.product.UnitLabel,
			MeasurementType:   MeasurementType(line.measurement.Type),
			MeasurementValue:  line.measurement.Value,
			MeasurementDetail: line.detail,
			MeasuredQuantity:  measured,
			BillableQuantity:  billable,
			IncrementApplied:  &rounding.WasRounded,
			BaseUnitPrice:     basePrice,
			AdjustedUnitPrice: adjustedPrice,
			VariationCost:     variationCost,
			AddonDetail:       addonDetail,
			AddonTotal:        addonTotal,
			BaseAmount:        baseAmount,
			LineTotal:         lineTotal,
		}
		if line.measurement.Depth != nil {
			item.MeasurementDepth = *line.measurement.Depth
		}
		if line.variation != nil {
			item.VariationId = line.variation.ID
			item.VariationName = line.variation.Name
		}

		items = append(items, item)
		lineTotals = append(lineTotals, lineTotal)
	}

	totals := pricing.CalculateQuoteTotals(lineTotals, s)
	return items, totals, nil
}

func CreateQuote(ctx context.Context, input *NewQuote) (*Quote, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	business, err := GetBusiness(ctx)
	if err != nil {
		return nil, err
	}
	settings := business.PricingSettings()

	lines, err := resolveQuoteLineContexts(ctx, businessId, input.Details)
	if err != nil {
		return nil, err
	}
	items, totals, err := computeQuoteLines(lines, settings)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].BusinessId = businessId
	}

	documents, err := mapNewDocuments(input.Documents, "quotes", 0)
	if err != nil {
		return nil, err
	}

	expiryDate := input.ExpiryDate
	if expiryDate == nil && business.QuoteValidityDays > 0 {
		d := input.QuoteDate.AddDate(0, 0, business.QuoteValidityDays)
		expiryDate = &d
	}

	quote := Quote{
		BusinessId:       businessId,
		CustomerId:       input.CustomerId,
		QuoteDate:        input.QuoteDate,
		ExpiryDate:       expiryDate,
		CurrentStatus:    QuoteStatusDraft,
		Source:           QuoteSourceDashboard,
		ProjectAddress:   input.ProjectAddress,
		Notes:            input.Notes,
		CurrencySymbol:   business.CurrencySymbol,
		TaxRate:          business.TaxRate,
		MarkupPercentage: business.MarkupPercentage,
		Subtotal:         totals.Subtotal,
		MarkupAmount:     totals.MarkupAmount,
		TaxAmount:        totals.TaxAmount,
		Total:            totals.Total,
		RangeShown:       utils.NewFalse(),
		Items:            items,
		Documents:        documents,
	}

	tx := db.Begin()

	quoteNumber, seqNo, err := NextQuoteNumber(ctx, businessId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	quote.SequenceNo = seqNo
	quote.QuoteNumber = quoteNumber

	// db action
	if err := tx.WithContext(ctx).Create(&quote).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := enqueueQuoteEvent(ctx, tx, businessId, QuoteEventTypeQuoteCreated, QuoteEventActionCreate, quote.ID, &quote, nil); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &quote, nil
}

func UpdateQuote(ctx context.Context, quoteId int, input *NewQuote) (*Quote, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, quoteId); err != nil {
		return nil, err
	}

	existingQuote, err := utils.FetchModelForChange[Quote](ctx, businessId, quoteId, "Items", "Documents")
	if err != nil {
		return nil, err
	}
	if existingQuote.CurrentStatus != QuoteStatusDraft {
		return nil, fmt.Errorf("only draft quotes can be edited; this quote is %s", existingQuote.CurrentStatus)
	}

	oldQuote := *existingQuote

	business, err := GetBusiness(ctx)
	if err != nil {
		return nil, err
	}
	settings := business.PricingSettings()

	lines, err := resolveQuoteLineContexts(ctx, businessId, input.Details)
	if err != nil {
		return nil, err
	}
	items, totals, err := computeQuoteLines(lines, settings)
	if err != nil {
		return nil, err
	}

	existingByID := make(map[int]*QuoteItem)
	for i := range existingQuote.Items {
		existingByID[existingQuote.Items[i].ID] = &existingQuote.Items[i]
	}

	tx := db.Begin()

	// remove lines flagged for deletion
	for _, detail := range input.Details {
		if detail.IsDeletedItem == nil || !*detail.IsDeletedItem {
			continue
		}
		if detail.ItemId <= 0 {
			continue
		}
		if _, found := existingByID[detail.ItemId]; !found {
			tx.Rollback()
			return nil, fmt.Errorf("quote item %d not found", detail.ItemId)
		}
		if err := tx.WithContext(ctx).
			Where("id = ? AND quote_id = ?", detail.ItemId, quoteId).
			Delete(&QuoteItem{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// insert new lines, rewrite surviving ones with recomputed figures
	for i := range items {
		item := &items[i]
		item.BusinessId = businessId
		item.QuoteId = quoteId

		if item.ID <= 0 {
			item.ID = 0
			if err := tx.WithContext(ctx).Create(item).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			continue
		}

		existingItem, found := existingByID[item.ID]
		if !found {
			tx.Rollback()
			return nil, fmt.Errorf("quote item %d not found", item.ID)
		}
		existingItem.ProductId = item.ProductId
		existingItem.ProductName = item.ProductName
		existingItem.UnitLabel = item.UnitLabel
		existingItem.MeasurementType = item.MeasurementType
		existingItem.MeasurementValue = item.MeasurementValue
		existingItem.MeasurementDepth = item.MeasurementDepth
		existingItem.MeasurementDetail = item.MeasurementDetail
		existingItem.MeasuredQuantity = item.MeasuredQuantity
		existingItem.BillableQuantity = item.BillableQuantity
		existingItem.IncrementApplied = item.IncrementApplied
		existingItem.BaseUnitPrice = item.BaseUnitPrice
		existingItem.AdjustedUnitPrice = item.AdjustedUnitPrice
		existingItem.VariationId = item.VariationId
		existingItem.VariationName = item.VariationName
		existingItem.VariationCost = item.VariationCost
		existingItem.AddonDetail = item.AddonDetail
		existingItem.AddonTotal = item.AddonTotal
		existingItem.BaseAmount = item.BaseAmount
		existingItem.LineTotal = item.LineTotal
		if err := tx.WithContext(ctx).Save(existingItem).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	existingQuote.CustomerId = input.CustomerId
	existingQuote.QuoteDate = input.QuoteDate
	if input.ExpiryDate != nil {
		existingQuote.ExpiryDate = input.ExpiryDate
	}
	existingQuote.ProjectAddress = input.ProjectAddress
	existingQuote.Notes = input.Notes
	existingQuote.CurrencySymbol = business.CurrencySymbol
	existingQuote.TaxRate = business.TaxRate
	existingQuote.MarkupPercentage = business.MarkupPercentage
	existingQuote.Subtotal = totals.Subtotal
	existingQuote.MarkupAmount = totals.MarkupAmount
	existingQuote.TaxAmount = totals.TaxAmount
	existingQuote.Total = totals.Total

	// db action
	if err := tx.WithContext(ctx).Omit("Items", "Documents").Save(existingQuote).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	documents, err := upsertDocuments(ctx, tx, input.Documents, "quotes", quoteId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	existingQuote.Documents = documents

	var refreshed Quote
	if err := tx.WithContext(ctx).
		Preload("Items").Preload("Documents").
		First(&refreshed, quoteId).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := enqueueQuoteEvent(ctx, tx, businessId, QuoteEventTypeQuoteUpdated, QuoteEventActionUpdate, quoteId, &refreshed, &oldQuote); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &refreshed, nil
}

func DeleteQuote(ctx context.Context, quoteId int) (*Quote, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	quote, err := utils.FetchModelForChange[Quote](ctx, businessId, quoteId, "Items", "Documents")
	if err != nil {
		return nil, err
	}

	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(quote).Association("Items").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}

	// db action
	if err := tx.WithContext(ctx).Delete(quote).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := deleteDocuments(ctx, tx, quote.Documents); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := enqueueQuoteEvent(ctx, tx, businessId, QuoteEventTypeQuoteDeleted, QuoteEventActionDelete, quoteId, nil, quote); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return quote, nil
}

// allowedQuoteTransitions is the status machine. Accepted and Cancelled are
// terminal; Declined and Expired quotes can be resubmitted after a revision.
var allowedQuoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:     {QuoteStatusSubmitted, QuoteStatusCancelled},
	QuoteStatusSubmitted: {QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired, QuoteStatusCancelled},
	QuoteStatusDeclined:  {QuoteStatusSubmitted, QuoteStatusCancelled},
	QuoteStatusExpired:   {QuoteStatusSubmitted, QuoteStatusCancelled},
}

func canTransitionQuote(from QuoteStatus, to QuoteStatus) bool {
	for _, allowed := range allowedQuoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func UpdateQuoteStatus(ctx context.Context, quoteId int, status QuoteStatus, declineReason *string) (*Quote, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	quote, err := utils.FetchModelForChange[Quote](ctx, businessId, quoteId, "Items")
	if err != nil {
		return nil, err
	}

	oldStatus := quote.CurrentStatus
	if oldStatus == status {
		return quote, nil
	}
	if !canTransitionQuote(oldStatus, status) {
		return nil, fmt.Errorf("cannot change quote status from %s to %s", oldStatus, status)
	}

	oldQuote := *quote

	updates := map[string]interface{}{
		"CurrentStatus": status,
	}
	if status == QuoteStatusDeclined && declineReason != nil {
		updates["DeclineReason"] = *declineReason
	}
	if status == QuoteStatusSubmitted {
		// resubmission restarts the validity clock
		business, err := GetBusiness(ctx)
		if err != nil {
			return nil, err
		}
		if business.QuoteValidityDays > 0 {
			expiry := time.Now().UTC().AddDate(0, 0, business.QuoteValidityDays)
			if quote.ExpiryDate == nil || quote.ExpiryDate.Before(time.Now().UTC()) {
				updates["ExpiryDate"] = expiry
			}
		}
	}

	tx := db.Begin()

	// db action
	if err := tx.WithContext(ctx).Model(quote).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	description := fmt.Sprintf("Quote %s marked %s.", quote.QuoteNumber, status)
	if err := createHistory(tx.WithContext(ctx), "update", quoteId, "quotes", oldQuote, quote, description); err != nil {
		tx.Rollback()
		return nil, err
	}

	eventType := QuoteEventTypeQuoteStatusChanged
	if status == QuoteStatusSubmitted {
		eventType = QuoteEventTypeQuoteSubmitted
	}
	if err := enqueueQuoteEvent(ctx, tx, businessId, eventType, QuoteEventActionUpdate, quoteId, quote, &oldQuote); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return quote, nil
}

// MarkExpiredQuotes flips submitted quotes past their expiry date to
// Expired. Runs from the background sweeper across all businesses, one
// transaction per quote so a single bad row cannot stall the sweep.
func MarkExpiredQuotes(ctx context.Context) (int, error) {
	db := config.GetDB()

	var due []Quote
	if err := db.WithContext(ctx).
		Where("current_status = ? AND expiry_date IS NOT NULL AND expiry_date < ?",
			QuoteStatusSubmitted, time.Now().UTC()).
		Find(&due).Error; err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		quote := &due[i]
		oldQuote := *quote

		tx := db.Begin()
		if err := tx.WithContext(ctx).Model(quote).
			Update("CurrentStatus", QuoteStatusExpired).Error; err != nil {
			tx.Rollback()
			return expired, err
		}
		quote.CurrentStatus = QuoteStatusExpired

		if err := enqueueQuoteEvent(ctx, tx, quote.BusinessId, QuoteEventTypeQuoteStatusChanged, QuoteEventActionUpdate, quote.ID, quote, &oldQuote); err != nil {
			tx.Rollback()
			return expired, err
		}
		if err := tx.Commit().Error; err != nil {
			return expired, err
		}
		expired++
	}

	return expired, nil
}

const widgetSubmitHandler = "widget_quote_submit"

// SubmitWidgetQuote turns a widget submission into a submitted quote. Items
// are re-priced server side; whatever totals the widget showed are treated
// as display only. The idempotency key makes retries (double taps, network
// replays) return the originally created quote instead of a duplicate.
func SubmitWidgetQuote(ctx context.Context, businessId string, input *WidgetQuoteInput) (*Quote, error) {
	db := config.GetDB()

	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return nil, err
	}
	if business.IsActive != nil && !*business.IsActive {
		return nil, errors.New("business is inactive")
	}
	settings := business.PricingSettings()

	if input.Customer == nil {
		return nil, errors.New("customer details are required")
	}

	// replay check before any work
	if input.IdempotencyKey != "" {
		var existing IdempotencyKey
		err := db.WithContext(ctx).
			Where("business_id = ? AND handler_name = ? AND message_id = ?",
				businessId, widgetSubmitHandler, input.IdempotencyKey).
			First(&existing).Error
		if err == nil {
			switch existing.Status {
			case IdempotencyStatusSucceeded:
				if existing.ResultId > 0 {
					return GetQuoteForBusiness(ctx, businessId, existing.ResultId)
				}
				return nil, errors.New("submission already processed")
			case IdempotencyStatusStarted:
				return nil, errors.New("a submission with this key is already in progress")
			}
			// FAILED falls through and retries under the same key
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// serialize widget submissions per business until the commit below
	releaseLock, err := utils.BusinessLock(ctx, businessId, "widget-quote-submit", "models", "SubmitWidgetQuote")
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	lines, err := resolveQuoteLineContexts(ctx, businessId, input.Details)
	if err != nil {
		return nil, err
	}
	items, totals, err := computeQuoteLines(lines, settings)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].BusinessId = businessId
	}

	tx := db.Begin()

	if input.IdempotencyKey != "" {
		key := IdempotencyKey{
			BusinessId:  businessId,
			HandlerName: widgetSubmitHandler,
			MessageId:   input.IdempotencyKey,
			Status:      IdempotencyStatusStarted,
		}
		if err := tx.WithContext(ctx).
			Where("business_id = ? AND handler_name = ? AND message_id = ?",
				businessId, widgetSubmitHandler, input.IdempotencyKey).
			Assign(map[string]interface{}{"status": IdempotencyStatusStarted, "last_error": nil}).
			FirstOrCreate(&key).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	customer, err := GetOrCreateWidgetCustomer(ctx, tx, businessId, input.Customer)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	quoteNumber, seqNo, err := NextQuoteNumber(ctx, businessId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()
	var expiryDate *time.Time
	if business.QuoteValidityDays > 0 {
		d := now.AddDate(0, 0, business.QuoteValidityDays)
		expiryDate = &d
	}

	quote := Quote{
		BusinessId:       businessId,
		SequenceNo:       seqNo,
		QuoteNumber:      quoteNumber,
		CustomerId:       customer.ID,
		QuoteDate:        now,
		ExpiryDate:       expiryDate,
		CurrentStatus:    QuoteStatusSubmitted,
		Source:           QuoteSourceWidget,
		ProjectAddress:   input.ProjectAddress,
		CustomerMessage:  input.CustomerMessage,
		CurrencySymbol:   business.CurrencySymbol,
		TaxRate:          business.TaxRate,
		MarkupPercentage: business.MarkupPercentage,
		Subtotal:         totals.Subtotal,
		MarkupAmount:     totals.MarkupAmount,
		TaxAmount:        totals.TaxAmount,
		Total:            totals.Total,
		RangeShown:       utils.NewFalse(),
		Items:            items,
	}

	// snapshot what the customer saw
	if priceRange := pricing.ResolveRange(totals.Total, settings); priceRange != nil {
		quote.PriceLow = priceRange.Low
		quote.PriceHigh = priceRange.High
		quote.RangeShown = utils.NewTrue()
	}

	// db action
	if err := tx.WithContext(ctx).Create(&quote).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if err := tx.WithContext(ctx).Model(&IdempotencyKey{}).
			Where("business_id = ? AND handler_name = ? AND message_id = ?",
				businessId, widgetSubmitHandler, input.IdempotencyKey).
			Updates(map[string]interface{}{
				"status":    IdempotencyStatusSucceeded,
				"result_id": quote.ID,
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := enqueueQuoteEvent(ctx, tx, businessId, QuoteEventTypeQuoteSubmitted, QuoteEventActionCreate, quote.ID, &quote, nil); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &quote, nil
}

func GetQuote(ctx context.Context, id int) (*Quote, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Quote](ctx, businessId, id, "Items", "Documents")
}

// GetQuoteForBusiness is the widget-side fetch: business id comes from the
// widget key, not the dashboard header.
func GetQuoteForBusiness(ctx context.Context, businessId string, id int) (*Quote, error) {
	return utils.FetchModel[Quote](ctx, businessId, id, "Items")
}

func GetQuotes(ctx context.Context, customerId *int, status *QuoteStatus) ([]*Quote, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Quote
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if customerId != nil && *customerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", *customerId)
	}
	if status != nil {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func PaginateQuote(ctx context.Context, limit *int, after *string,
	quoteNumber *string,
	customerId *int,
	status *QuoteStatus,
	source *QuoteSource,
	startQuoteDate *MyDateString,
	endQuoteDate *MyDateString) (*QuotesConnection, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	business, err := GetBusiness(ctx)
	if err != nil {
		return nil, errors.New("business id is required")
	}
	if err := startQuoteDate.StartOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}
	if err := endQuoteDate.EndOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	if quoteNumber != nil && *quoteNumber != "" {
		dbCtx.Where("quote_number LIKE ?", "%"+*quoteNumber+"%")
	}
	if customerId != nil && *customerId > 0 {
		dbCtx.Where("customer_id = ?", *customerId)
	}
	if status != nil {
		dbCtx.Where("current_status = ?", *status)
	}
	if source != nil {
		dbCtx.Where("source = ?", *source)
	}
	if startQuoteDate != nil && endQuoteDate != nil {
		dbCtx.Where("quote_date BETWEEN ? AND ?", startQuoteDate, endQuoteDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Quote](dbCtx, *limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var quotesConnection QuotesConnection
	quotesConnection.PageInfo = pageInfo
	for _, edge := range edges {
		quotesEdge := QuotesEdge(edge)
		quotesConnection.Edges = append(quotesConnection.Edges, &quotesEdge)
	}

	return &quotesConnection, err
}
