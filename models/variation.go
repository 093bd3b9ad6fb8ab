package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// Variation is one mutually-exclusive style choice of a product, such as a
// fence height or a paver pattern. At most one variation applies per line.
type Variation struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	ProductId      int             `gorm:"index;not null" json:"product_id"`
	Name           string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description    string          `gorm:"type:text" json:"description"`
	PhotoUrl       string          `gorm:"size:255" json:"photo_url"`
	Adjustment     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"adjustment"`
	AdjustmentType AdjustmentType  `gorm:"type:enum('fixed','percentage');not null;default:'fixed'" json:"adjustment_type"`
	// Height of zero means the variation does not override the product height.
	Height                 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"height"`
	AffectsAreaCalculation *bool           `gorm:"not null;default:false" json:"affects_area_calculation"`
	DisplayOrder           int             `gorm:"not null;default:0" json:"display_order"`
	IsActive               *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVariation struct {
	Name                   string          `json:"name" binding:"required"`
	Description            string          `json:"description"`
	PhotoUrl               string          `json:"photo_url"`
	Adjustment             decimal.Decimal `json:"adjustment"`
	AdjustmentType         AdjustmentType  `json:"adjustment_type" binding:"required"`
	Height                 decimal.Decimal `json:"height"`
	AffectsAreaCalculation *bool           `json:"affects_area_calculation"`
	DisplayOrder           int             `json:"display_order"`
}

// PricingInput converts the stored variation into the engine's view.
func (v Variation) PricingInput() pricing.VariationInput {
	input := pricing.VariationInput{
		Name:                   v.Name,
		Adjustment:             v.Adjustment,
		AdjustmentType:         pricing.AdjustmentType(v.AdjustmentType),
		AffectsAreaCalculation: v.AffectsAreaCalculation != nil && *v.AffectsAreaCalculation,
	}
	if v.Height.IsPositive() {
		height := v.Height
		input.Height = &height
	}
	return input
}

func (input *NewVariation) validate(ctx context.Context, businessId string, productId int, id int) error {
	if err := utils.ValidateResourceId[Product](ctx, businessId, productId); err != nil {
		return err
	}
	if id > 0 {
		if err := utils.ValidateResourceId[Variation](ctx, businessId, id); err != nil {
			return err
		}
	}
	if input.Height.IsNegative() {
		return errors.New("variation height cannot be negative")
	}
	if input.AffectsAreaCalculation != nil && *input.AffectsAreaCalculation && !input.Height.IsPositive() {
		return errors.New("height is required when variation affects area calculation")
	}
	// a percentage discount below -100 would price the line negative
	if input.AdjustmentType == AdjustmentTypePercentage && input.Adjustment.LessThan(decimal.NewFromInt(-100)) {
		return errors.New("percentage adjustment cannot be below -100")
	}
	if input.PhotoUrl != "" {
		if err := utils.CheckImageExistInGCS(input.PhotoUrl); err != nil {
			return errors.New("photo does not exist")
		}
	}
	return nil
}

func CreateVariation(ctx context.Context, productId int, input *NewVariation) (*Variation, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, productId, 0); err != nil {
		return nil, err
	}

	affectsArea := utils.NewFalse()
	if input.AffectsAreaCalculation != nil {
		affectsArea = input.AffectsAreaCalculation
	}

	variation := Variation{
		BusinessId:             businessId,
		ProductId:              productId,
		Name:                   input.Name,
		Description:            input.Description,
		PhotoUrl:               input.PhotoUrl,
		Adjustment:             input.Adjustment,
		AdjustmentType:         input.AdjustmentType,
		Height:                 input.Height,
		AffectsAreaCalculation: affectsArea,
		DisplayOrder:           input.DisplayOrder,
		IsActive:               utils.NewTrue(),
	}

	tx := db.Begin()
	err := tx.WithContext(ctx).Create(&variation).Error
	if err != nil {
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

	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	return &variation, nil
}

func UpdateVariation(ctx context.Context, id int, input *NewVariation) (*Variation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	variation, err := utils.FetchModel[Variation](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, variation.ProductId, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&variation).Updates(map[string]interface{}{
		"Name":                   input.Name,
		"Description":            input.Description,
		"PhotoUrl":               input.PhotoUrl,
		"Adjustment":             input.Adjustment,
		"AdjustmentType":         input.AdjustmentType,
		"Height":                 input.Height,
		"AffectsAreaCalculation": input.AffectsAreaCalculation,
		"DisplayOrder":           input.DisplayOrder,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := utils.RemoveRedisItem[Product](variation.ProductId); err != nil {
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
	return variation, nil
}

func DeleteVariation(ctx context.Context, id int) (*Variation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[Variation](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Delete(&result).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := utils.RemoveRedisItem[Product](result.ProductId); err != nil {
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
	return result, nil
}

func ToggleActiveVariation(ctx context.Context, id int, isActive bool) (*Variation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return ToggleActiveModel[Variation](ctx, businessId, id, isActive)
}

func GetVariation(ctx context.Context, id int) (*Variation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Variation](ctx, businessId, id)
}

func GetVariations(ctx context.Context, productId int) ([]*Variation, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Variation
	err := db.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessId, productId).
		Order("display_order ASC, name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
