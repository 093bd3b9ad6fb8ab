package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Business struct {
	ID          uuid.UUID `gorm:"primary_key" json:"id"`
	LogoUrl     string    `json:"logo_url"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName string    `gorm:"size:100" json:"contact_name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Mobile      string    `gorm:"size:20" json:"mobile"`
	Website     string    `gorm:"size:255" json:"website"`
	About       string    `gorm:"type:text" json:"about"`
	Address     string    `gorm:"type:text" json:"address"`
	Country     string    `gorm:"size:100" json:"country"`
	City        string    `gorm:"size:100" json:"city"`
	Timezone    string    `gorm:"size:50" json:"timezone"`
	// WidgetKey identifies the business on unauthenticated widget routes.
	WidgetKey string `gorm:"size:64;uniqueIndex" json:"widget_key"`

	// Quote settings consumed read-only by the pricing engine.
	CurrencySymbol          string             `gorm:"size:10;not null;default:'$'" json:"currency_symbol"`
	DecimalPrecision        int                `gorm:"not null;default:2" json:"decimal_precision"`
	TaxRate                 decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"tax_rate"`
	MarkupPercentage        decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"markup_percentage"`
	PriceRangeEnabled       *bool              `gorm:"not null;default:false" json:"price_range_enabled"`
	PriceRangeLowerBound    decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"price_range_lower_bound"`
	PriceRangeUpperBound    decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"price_range_upper_bound"`
	PriceRangePercentage    decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"price_range_percentage"`
	PriceRangeDisplayFormat RangeDisplayFormat `gorm:"type:enum('percentage','dollar_amounts');default:'dollar_amounts'" json:"price_range_display_format"`
	QuoteValidityDays       int                `gorm:"not null;default:30" json:"quote_validity_days"`

	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	LogoUrl     string `json:"logo_url"`
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	Mobile      string `json:"mobile"`
	Website     string `json:"website"`
	About       string `json:"about"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
}

type NewQuoteSettings struct {
	CurrencySymbol          string             `json:"currency_symbol" binding:"required"`
	DecimalPrecision        int                `json:"decimal_precision" binding:"min=0,max=4"`
	TaxRate                 decimal.Decimal    `json:"tax_rate"`
	MarkupPercentage        decimal.Decimal    `json:"markup_percentage"`
	PriceRangeEnabled       *bool              `json:"price_range_enabled" binding:"required"`
	PriceRangeLowerBound    decimal.Decimal    `json:"price_range_lower_bound"`
	PriceRangeUpperBound    decimal.Decimal    `json:"price_range_upper_bound"`
	PriceRangePercentage    decimal.Decimal    `json:"price_range_percentage"`
	PriceRangeDisplayFormat RangeDisplayFormat `json:"price_range_display_format"`
	QuoteValidityDays       int                `json:"quote_validity_days" binding:"min=1,max=365"`
}

func (business *Business) StoreRedis() error {
	return config.SetRedisObject("Business:"+fmt.Sprint(business.ID), business, 0)
}

func (business *Business) RemoveRedis() error {
	if err := config.RemoveRedisKey("Business:" + fmt.Sprint(business.ID)); err != nil {
		return err
	}
	return config.RemoveRedisKey("BusinessWidgetKey:" + business.WidgetKey)
}

// PricingSettings converts the stored configuration into engine settings.
func (b Business) PricingSettings() pricing.Settings {
	return pricing.Settings{
		CurrencySymbol:   b.CurrencySymbol,
		DecimalPrecision: int32(b.DecimalPrecision),
		TaxRate:          b.TaxRate,
		MarkupPercentage: b.MarkupPercentage,
		RangeEnabled:     b.PriceRangeEnabled != nil && *b.PriceRangeEnabled,
		RangeLowerBound:  b.PriceRangeLowerBound,
		RangeUpperBound:  b.PriceRangeUpperBound,
		RangePercentage:  b.PriceRangePercentage,
		RangeFormat:      pricing.RangeFormat(b.PriceRangeDisplayFormat),
	}
}

func (input *NewBusiness) validate(ctx context.Context, id string) error {
	// name
	if err := utils.ValidateUnique[Business](ctx, "", "name", input.Name, id); err != nil {
		return err
	}
	// email
	if err := utils.ValidateUnique[Business](ctx, "", "email", input.Email, id); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	// phone
	if input.Phone != "" {
		if err := utils.ValidateUnique[Business](ctx, "", "phone", input.Phone, id); err != nil {
			return err
		}
	}
	// website
	if input.Website != "" {
		if err := utils.ValidateUnique[Business](ctx, "", "website", input.Website, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	// When creating a business,
	// - generate the widget key for embed routes.
	// - create the default quote number series.
	if err := input.validate(ctx, ""); err != nil {
		return nil, err
	}
	db := config.GetDB()

	tx := db.Begin()

	BID := uuid.New()
	timezone := "America/New_York"
	if input.Timezone != "" {
		timezone = input.Timezone
	}

	business := Business{
		ID:                      BID,
		LogoUrl:                 input.LogoUrl,
		Name:                    input.Name,
		ContactName:             input.ContactName,
		Email:                   input.Email,
		Phone:                   input.Phone,
		Mobile:                  input.Mobile,
		Website:                 input.Website,
		About:                   input.About,
		Address:                 input.Address,
		Country:                 input.Country,
		City:                    input.City,
		Timezone:                timezone,
		WidgetKey:               uuid.NewString(),
		CurrencySymbol:          "$",
		DecimalPrecision:        2,
		PriceRangeEnabled:       utils.NewFalse(),
		PriceRangeDisplayFormat: RangeDisplayFormatDollarAmounts,
		QuoteValidityDays:       30,
		IsActive:                utils.NewTrue(),
	}

	// create business
	err := tx.WithContext(ctx).Create(&business).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	businessId := business.ID.String()
	ctx = utils.SetBusinessIdInContext(ctx, businessId)

	// Create default quote number series
	seriesInput := GetQuoteNumberSeriesDefault()
	if _, err := CreateDefaultQuoteNumberSeries(tx, ctx, seriesInput, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	return &business, nil
}

func UpdateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	tx := db.Begin()
	var business Business
	if err := db.WithContext(ctx).Where("id = ?", businessId).First(&business).Error; err != nil {
		return nil, err
	}

	err := tx.WithContext(ctx).Model(&business).Updates(map[string]interface{}{
		"LogoUrl":     input.LogoUrl,
		"Name":        input.Name,
		"ContactName": input.ContactName,
		"Email":       input.Email,
		"Phone":       input.Phone,
		"Mobile":      input.Mobile,
		"Website":     input.Website,
		"About":       input.About,
		"Address":     input.Address,
		"Country":     input.Country,
		"City":        input.City,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := business.RemoveRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &business, tx.Commit().Error
}

func UpdateQuoteSettings(ctx context.Context, input *NewQuoteSettings) (*Business, error) {

	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	// check exists
	var business Business
	if err := db.WithContext(ctx).Where("id = ?", businessId).First(&business).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if input.PriceRangeLowerBound.IsNegative() || input.PriceRangeUpperBound.IsNegative() {
		return nil, errors.New("price range bounds cannot be negative")
	}
	if input.PriceRangeLowerBound.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, errors.New("price range lower bound must be under 100")
	}
	if input.TaxRate.IsNegative() || input.MarkupPercentage.IsNegative() {
		return nil, errors.New("tax rate and markup percentage cannot be negative")
	}

	displayFormat := input.PriceRangeDisplayFormat
	if displayFormat == "" {
		displayFormat = RangeDisplayFormatDollarAmounts
	}

	// db action
	tx := db.Begin()
	err := tx.WithContext(ctx).Model(&business).Updates(map[string]interface{}{
		"CurrencySymbol":          input.CurrencySymbol,
		"DecimalPrecision":        input.DecimalPrecision,
		"TaxRate":                 input.TaxRate,
		"MarkupPercentage":        input.MarkupPercentage,
		"PriceRangeEnabled":       input.PriceRangeEnabled,
		"PriceRangeLowerBound":    input.PriceRangeLowerBound,
		"PriceRangeUpperBound":    input.PriceRangeUpperBound,
		"PriceRangePercentage":    input.PriceRangePercentage,
		"PriceRangeDisplayFormat": displayFormat,
		"QuoteValidityDays":       input.QuoteValidityDays,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	// caching
	if err := business.RemoveRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &business, tx.Commit().Error
}

func ToggleActiveBusiness(ctx context.Context, id uuid.UUID, isActive bool) (*Business, error) {

	db := config.GetDB()
	var result Business

	// check exists
	err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	// db action
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&result).Updates(map[string]interface{}{
		"IsActive": isActive,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := result.RemoveRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &result, tx.Commit().Error
}

func GetBusinessById(ctx context.Context, id string) (*Business, error) {

	var result Business

	exists, err := config.GetRedisObject("Business:"+id, &result)
	if err != nil {
		return nil, err
	}

	if !exists {
		db := config.GetDB()
		// db query
		err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
		if err != nil {
			return nil, utils.ErrorRecordNotFound
		}
		// caching
		if err := result.StoreRedis(); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return GetBusinessById(ctx, businessId)
}

// GetBusinessByWidgetKey resolves the business behind an embedded widget.
// Widget routes carry no session; the key is the only identifier.
func GetBusinessByWidgetKey(ctx context.Context, widgetKey string) (*Business, error) {
	if widgetKey == "" {
		return nil, errors.New("widget key is required")
	}

	var businessId string
	exists, err := config.GetRedisObject("BusinessWidgetKey:"+widgetKey, &businessId)
	if err != nil {
		return nil, err
	}
	if exists {
		return GetBusinessById(ctx, businessId)
	}

	db := config.GetDB()
	var result Business
	if err := db.WithContext(ctx).Where("widget_key = ?", widgetKey).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if result.IsActive != nil && !*result.IsActive {
		return nil, errors.New("business is inactive")
	}

	businessId = result.ID.String()
	if err := config.SetRedisObject("BusinessWidgetKey:"+widgetKey, &businessId, 0); err != nil {
		return nil, err
	}
	if err := result.StoreRedis(); err != nil {
		return nil, err
	}
	return &result, nil
}

func GetBusinesses(ctx context.Context, name *string) ([]*Business, error) {

	db := config.GetDB()
	var results []*Business

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
