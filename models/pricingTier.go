package models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// PricingTier is one quantity band of a product's tiered price table.
// MaxQuantity of zero means the band is unbounded above.
type PricingTier struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	ProductId    int             `gorm:"index;not null" json:"product_id"`
	MinQuantity  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"min_quantity"`
	MaxQuantity  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"max_quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	DisplayOrder int             `gorm:"default:0" json:"display_order"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPricingTier struct {
	HasId
	MinQuantity  decimal.Decimal  `json:"min_quantity"`
	MaxQuantity  *decimal.Decimal `json:"max_quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price" binding:"required"`
	DisplayOrder int              `json:"display_order"`
	IsActive     *bool            `json:"is_active"`
}

// PricingInput converts a tier row into the engine's band type.
func (t PricingTier) PricingInput() pricing.Tier {
	tier := pricing.Tier{
		MinQuantity: t.MinQuantity,
		UnitPrice:   t.UnitPrice,
	}
	if t.MaxQuantity.IsPositive() {
		maxQty := t.MaxQuantity
		tier.MaxQuantity = &maxQty
	}
	return tier
}

// TierPricingInputs converts a tier table into engine bands. Inactive tiers
// are dropped and the rest are sorted by display order, so first-match
// resolution sees exactly what the tier editor shows. Legacy tables with no
// display order fall back to MinQuantity order.
func TierPricingInputs(tiers []PricingTier) []pricing.Tier {
	active := make([]PricingTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.IsActive != nil && !*tier.IsActive {
			continue
		}
		active = append(active, tier)
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].DisplayOrder != active[j].DisplayOrder {
			return active[i].DisplayOrder < active[j].DisplayOrder
		}
		return active[i].MinQuantity.LessThan(active[j].MinQuantity)
	})

	inputs := make([]pricing.Tier, 0, len(active))
	for _, tier := range active {
		inputs = append(inputs, tier.PricingInput())
	}
	return inputs
}

func (input *NewPricingTier) validate() error {
	if input.MinQuantity.IsNegative() {
		return errors.New("tier min quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return errors.New("tier unit price cannot be negative")
	}
	if input.MaxQuantity != nil && !input.MaxQuantity.GreaterThan(input.MinQuantity) {
		return errors.New("tier max quantity must be greater than min quantity")
	}
	return nil
}

// TierLayoutIssue describes one defect in a product's tier table.
type TierLayoutIssue struct {
	ProductId int    `json:"product_id"`
	Detail    string `json:"detail"`
}

// ValidateTierLayout checks a product's active tiers for gaps and overlaps.
// Inactive tiers never match at quote time, so they are skipped here too.
// Zero max quantity reads as unbounded, so only the last band may carry it.
// Returns all issues found rather than stopping at the first.
func ValidateTierLayout(tiers []PricingTier) []TierLayoutIssue {
	sorted := make([]PricingTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.IsActive != nil && !*tier.IsActive {
			continue
		}
		sorted = append(sorted, tier)
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity.LessThan(sorted[j].MinQuantity)
	})

	var issues []TierLayoutIssue
	productId := sorted[0].ProductId

	for i, tier := range sorted {
		unbounded := !tier.MaxQuantity.IsPositive()
		if !unbounded && !tier.MaxQuantity.GreaterThan(tier.MinQuantity) {
			issues = append(issues, TierLayoutIssue{
				ProductId: productId,
				Detail:    fmt.Sprintf("tier %s has max quantity %s not greater than min quantity", tier.MinQuantity, tier.MaxQuantity),
			})
		}
		if unbounded && i < len(sorted)-1 {
			issues = append(issues, TierLayoutIssue{
				ProductId: productId,
				Detail:    fmt.Sprintf("tier starting at %s is unbounded but is not the last tier", tier.MinQuantity),
			})
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if !prev.MaxQuantity.IsPositive() {
			continue
		}
		if tier.MinQuantity.LessThan(prev.MaxQuantity) {
			issues = append(issues, TierLayoutIssue{
				ProductId: productId,
				Detail:    fmt.Sprintf("tier starting at %s overlaps previous tier ending at %s", tier.MinQuantity, prev.MaxQuantity),
			})
		}
		if tier.MinQuantity.GreaterThan(prev.MaxQuantity) {
			issues = append(issues, TierLayoutIssue{
				ProductId: productId,
				Detail:    fmt.Sprintf("gap between tier ending at %s and tier starting at %s", prev.MaxQuantity, tier.MinQuantity),
			})
		}
	}
	return issues
}

// implements Replacer for bulk tier replacement
func (t PricingTier) GetId() int {
	return t.ID
}

func (t PricingTier) fillable() map[string]interface{} {
	return map[string]interface{}{
		"MinQuantity":  t.MinQuantity,
		"MaxQuantity":  t.MaxQuantity,
		"UnitPrice":    t.UnitPrice,
		"DisplayOrder": t.DisplayOrder,
		"IsActive":     t.IsActive,
	}
}

// ReplaceProductTiers swaps the product's whole tier table in one call. The
// tier editor saves the table as a unit, so per-row endpoints would leave
// windows where the table is inconsistent.
func ReplaceProductTiers(ctx context.Context, productId int, inputs []*NewPricingTier) ([]*PricingTier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Product](ctx, businessId, productId); err != nil {
		return nil, err
	}

	tiers := make([]PricingTier, 0, len(inputs))
	for i, input := range inputs {
		if err := input.validate(); err != nil {
			return nil, err
		}
		tier := PricingTier{
			BusinessId:   businessId,
			ProductId:    productId,
			MinQuantity:  input.MinQuantity,
			UnitPrice:    input.UnitPrice,
			DisplayOrder: input.DisplayOrder,
			IsActive:     input.IsActive,
		}
		if input.MaxQuantity != nil {
			tier.MaxQuantity = *input.MaxQuantity
		}
		// the tier editor submits rows in display order
		if tier.DisplayOrder == 0 {
			tier.DisplayOrder = i + 1
		}
		if tier.IsActive == nil {
			tier.IsActive = utils.NewTrue()
		}
		tier.ID = input.GetId()
		tiers = append(tiers, tier)
	}

	// Overlap and gap defects only reject the save when strict validation
	// is on. Legacy tier tables with overlaps keep working: resolution is
	// first-match in display order.
	if issues := ValidateTierLayout(tiers); len(issues) > 0 && config.StrictTierValidation() {
		return nil, fmt.Errorf("invalid tier layout: %s", issues[0].Detail)
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := ReplaceAssociation(ctx, tx, tiers, "product_id = ? AND business_id = ?", productId, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := utils.RemoveRedisItem[Product](productId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := removeWidgetCatalogCache(businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetPricingTiers(ctx, productId)
}

func GetPricingTiers(ctx context.Context, productId int) ([]*PricingTier, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*PricingTier
	err := db.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessId, productId).
		Order("display_order ASC, min_quantity ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteProductTiers(ctx context.Context, productId int) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Product](ctx, businessId, productId); err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessId, productId).
		Delete(&PricingTier{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	// caching
	if err := utils.RemoveRedisItem[Product](productId); err != nil {
		tx.Rollback()
		return err
	}
	if err := removeWidgetCatalogCache(businessId); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
