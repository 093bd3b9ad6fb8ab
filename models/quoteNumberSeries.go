package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"gorm.io/gorm"
)

// QuoteNumberSeries holds the prefix used when generating quote numbers.
// Each business keeps exactly one default series; the sequence itself comes
// from the redis-backed counter seeded from the quotes table.
type QuoteNumberSeries struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Prefix     string    `gorm:"size:20;not null" json:"prefix"`
	IsDefault  *bool     `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewQuoteNumberSeries struct {
	Name      string `json:"name" binding:"required"`
	Prefix    string `json:"prefix" binding:"required"`
	IsDefault *bool  `json:"is_default"`
}

func GetQuoteNumberSeriesDefault() *NewQuoteNumberSeries {
	return &NewQuoteNumberSeries{
		Name:      "Default",
		Prefix:    "QT-",
		IsDefault: utils.NewTrue(),
	}
}

func quotePrefixRedisKey(businessId string) string {
	return "quotePrefix:" + businessId
}

func removeQuotePrefixCache(businessId string) error {
	return config.RemoveRedisKey(quotePrefixRedisKey(businessId))
}

func (input *NewQuoteNumberSeries) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[QuoteNumberSeries](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[QuoteNumberSeries](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if len(input.Prefix) > 20 {
		return errors.New("prefix cannot exceed 20 characters")
	}
	return nil
}

// CreateDefaultQuoteNumberSeries runs inside the business-creation
// transaction, so it takes the caller's tx instead of opening its own.
func CreateDefaultQuoteNumberSeries(tx *gorm.DB, ctx context.Context, input *NewQuoteNumberSeries, businessId string) (*QuoteNumberSeries, error) {
	series := QuoteNumberSeries{
		BusinessId: businessId,
		Name:       input.Name,
		Prefix:     input.Prefix,
		IsDefault:  utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

func CreateQuoteNumberSeries(ctx context.Context, input *NewQuoteNumberSeries) (*QuoteNumberSeries, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	isDefault := utils.NewFalse()
	if input.IsDefault != nil {
		isDefault = input.IsDefault
	}

	series := QuoteNumberSeries{
		BusinessId: businessId,
		Name:       input.Name,
		Prefix:     input.Prefix,
		IsDefault:  isDefault,
	}

	tx := db.Begin()
	if isDefault != nil && *isDefault {
		if err := tx.WithContext(ctx).Model(&QuoteNumberSeries{}).
			Where("business_id = ?", businessId).
			Update("IsDefault", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Create(&series).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := removeQuotePrefixCache(businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &series, nil
}

func UpdateQuoteNumberSeries(ctx context.Context, id int, input *NewQuoteNumberSeries) (*QuoteNumberSeries, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	series, err := utils.FetchModel[QuoteNumberSeries](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if input.IsDefault != nil && *input.IsDefault {
		if err := tx.WithContext(ctx).Model(&QuoteNumberSeries{}).
			Where("business_id = ? AND id != ?", businessId, id).
			Update("IsDefault", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	err = tx.WithContext(ctx).Model(&series).Updates(map[string]interface{}{
		"Name":      input.Name,
		"Prefix":    input.Prefix,
		"IsDefault": input.IsDefault,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := removeQuotePrefixCache(businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return series, nil
}

func DeleteQuoteNumberSeries(ctx context.Context, id int) (*QuoteNumberSeries, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[QuoteNumberSeries](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if result.IsDefault != nil && *result.IsDefault {
		return nil, errors.New("default quote number series cannot be deleted")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := removeQuotePrefixCache(businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetQuoteNumberSeriesList(ctx context.Context) ([]*QuoteNumberSeries, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchAllModels[QuoteNumberSeries](ctx, businessId)
}

// get quote number prefix for the business, redis or db
func getQuotePrefix(ctx context.Context, businessId string) (string, error) {
	var prefix string
	redisKey := quotePrefixRedisKey(businessId)
	exists, err := config.GetRedisObject(redisKey, &prefix)
	if err != nil {
		return "", err
	}
	if !exists {
		db := config.GetDB()
		var series QuoteNumberSeries
		err := db.WithContext(ctx).
			Where("business_id = ? AND is_default = ?", businessId, true).
			First(&series).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// older businesses may predate the series table
				return "QT-", nil
			}
			return "", err
		}
		prefix = series.Prefix
		if err := config.SetRedisObject(redisKey, &prefix, 0); err != nil {
			return "", err
		}
	}
	return prefix, nil
}

// NextQuoteNumber issues the next unique quote number for the business:
// default-series prefix plus a zero-padded per-business sequence.
func NextQuoteNumber(ctx context.Context, businessId string) (string, int64, error) {
	prefix, err := getQuotePrefix(ctx, businessId)
	if err != nil {
		return "", 0, err
	}
	sequenceNo, err := utils.GetSequence[Quote](ctx, businessId)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%s%06d", prefix, sequenceNo), sequenceNo, nil
}
