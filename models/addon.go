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

// Addon is an optional extra on a product. Unlike variations, any number of
// add-ons can be selected at once, each with its own quantity.
type Addon struct {
	ID              int                  `gorm:"primary_key" json:"id"`
	BusinessId      string               `gorm:"index;not null" json:"business_id"`
	ProductId       int                  `gorm:"index;not null" json:"product_id"`
	Name            string               `gorm:"size:100;not null" json:"name" binding:"required"`
	Description     string               `gorm:"type:text" json:"description"`
	PriceValue      decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"price_value"`
	PriceType       AdjustmentType       `gorm:"type:enum('fixed','percentage');not null;default:'fixed'" json:"price_type"`
	CalculationType AddonCalculationType `gorm:"type:enum('total','per_unit','area_calculation');not null;default:'total'" json:"calculation_type"`
	// MaxQuantity of zero means the widget quantity stepper is uncapped.
	MaxQuantity  int           `gorm:"not null;default:0" json:"max_quantity"`
	DisplayOrder int           `gorm:"not null;default:0" json:"display_order"`
	IsActive     *bool         `gorm:"not null;default:true" json:"is_active"`
	Options      []AddonOption `gorm:"foreignKey:AddonId" json:"options"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddonOption is a dropdown choice within an add-on that shifts its
// effective price, such as a gate style on a "gate" add-on.
type AddonOption struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	AddonId        int             `gorm:"index;not null" json:"addon_id"`
	Name           string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Adjustment     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"adjustment"`
	AdjustmentType AdjustmentType  `gorm:"type:enum('fixed','percentage');not null;default:'fixed'" json:"adjustment_type"`
	DisplayOrder   int             `gorm:"not null;default:0" json:"display_order"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAddon struct {
	Name            string               `json:"name" binding:"required"`
	Description     string               `json:"description"`
	PriceValue      decimal.Decimal      `json:"price_value"`
	PriceType       AdjustmentType       `json:"price_type" binding:"required"`
	CalculationType AddonCalculationType `json:"calculation_type" binding:"required"`
	MaxQuantity     int                  `json:"max_quantity"`
	DisplayOrder    int                  `json:"display_order"`
	Options         []*NewAddonOption    `json:"options"`
}

type NewAddonOption struct {
	HasId
	Name           string          `json:"name" binding:"required"`
	Adjustment     decimal.Decimal `json:"adjustment"`
	AdjustmentType AdjustmentType  `json:"adjustment_type" binding:"required"`
	DisplayOrder   int             `json:"display_order"`
}

// implements Replacer for nested option replacement
func (o AddonOption) GetId() int {
	return o.ID
}

func (o AddonOption) fillable() map[string]interface{} {
	return map[string]interface{}{
		"Name":           o.Name,
		"Adjustment":     o.Adjustment,
		"AdjustmentType": o.AdjustmentType,
		"DisplayOrder":   o.DisplayOrder,
	}
}

// PricingInput converts the add-on with the user's selection into the
// engine's view. optionId of zero means no option was chosen.
func (a Addon) PricingInput(quantity int, optionId int) pricing.AddonInput {
	input := pricing.AddonInput{
		Name:            a.Name,
		PriceValue:      a.PriceValue,
		PriceType:       pricing.AdjustmentType(a.PriceType),
		CalculationType: pricing.CalculationType(a.CalculationType),
		Quantity:        quantity,
	}
	if optionId > 0 {
		for _, option := range a.Options {
			if option.ID == optionId {
				input.SelectedOption = &pricing.AddonOptionInput{
					Name:           option.Name,
					Adjustment:     option.Adjustment,
					AdjustmentType: pricing.AdjustmentType(option.AdjustmentType),
				}
				break
			}
		}
	}
	return input
}

func (input *NewAddon) validate(ctx context.Context, businessId string, productId int, id int) error {
	if err := utils.ValidateResourceId[Product](ctx, businessId, productId); err != nil {
		return err
	}
	if id > 0 {
		if err := utils.ValidateResourceId[Addon](ctx, businessId, id); err != nil {
			return err
		}
	}
	if input.PriceValue.IsNegative() {
		return errors.New("add-on price cannot be negative")
	}
	if input.MaxQuantity < 0 {
		return errors.New("add-on max quantity cannot be negative")
	}
	for _, option := range input.Options {
		if option.Name == "" {
			return errors.New("add-on option name is required")
		}
		if option.AdjustmentType == AdjustmentTypePercentage && option.Adjustment.LessThan(decimal.NewFromInt(-100)) {
			return errors.New("option percentage adjustment cannot be below -100")
		}
	}
	return nil
}

func mapNewAddonOptions(businessId string, addonId int, inputs []*NewAddonOption) []AddonOption {
	options := make([]AddonOption, 0, len(inputs))
	for _, input := range inputs {
		option := AddonOption{
			BusinessId:     businessId,
			AddonId:        addonId,
			Name:           input.Name,
			Adjustment:     input.Adjustment,
			AdjustmentType: input.AdjustmentType,
			DisplayOrder:   input.DisplayOrder,
		}
		option.ID = input.GetId()
		options = append(options, option)
	}
	return options
}

func CreateAddon(ctx context.Context, productId int, input *NewAddon) (*Addon, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, productId, 0); err != nil {
		return nil, err
	}

	addon := Addon{
		BusinessId:      businessId,
		ProductId:       productId,
		Name:            input.Name,
		Description:     input.Description,
		PriceValue:      input.PriceValue,
		PriceType:       input.PriceType,
		CalculationType: input.CalculationType,
		MaxQuantity:     input.MaxQuantity,
		DisplayOrder:    input.DisplayOrder,
		IsActive:        utils.NewTrue(),
	}

	tx := db.Begin()
	err := tx.WithContext(ctx).Create(&addon).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(input.Options) > 0 {
		options := mapNewAddonOptions(businessId, addon.ID, input.Options)
		if err := tx.WithContext(ctx).Create(&options).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		addon.Options = options
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

	return &addon, nil
}

func UpdateAddon(ctx context.Context, id int, input *NewAddon) (*Addon, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	addon, err := utils.FetchModel[Addon](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, addon.ProductId, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&addon).Updates(map[string]interface{}{
		"Name":            input.Name,
		"Description":     input.Description,
		"PriceValue":      input.PriceValue,
		"PriceType":       input.PriceType,
		"CalculationType": input.CalculationType,
		"MaxQuantity":     input.MaxQuantity,
		"DisplayOrder":    input.DisplayOrder,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// replace the option list: insert new, update existing, drop removed
	options := mapNewAddonOptions(businessId, id, input.Options)
	if err := ReplaceAssociation(ctx, tx, options, "addon_id = ? AND business_id = ?", id, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := utils.RemoveRedisItem[Product](addon.ProductId); err != nil {
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

	return utils.FetchModel[Addon](ctx, businessId, id, "Options")
}

func DeleteAddon(ctx context.Context, id int) (*Addon, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[Addon](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("addon_id = ?", id).Delete(&AddonOption{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
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

func ToggleActiveAddon(ctx context.Context, id int, isActive bool) (*Addon, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return ToggleActiveModel[Addon](ctx, businessId, id, isActive)
}

func GetAddon(ctx context.Context, id int) (*Addon, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Addon](ctx, businessId, id, "Options")
}

func GetAddons(ctx context.Context, productId int) ([]*Addon, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Addon
	err := db.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessId, productId).
		Preload("Options").
		Order("display_order ASC, name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
