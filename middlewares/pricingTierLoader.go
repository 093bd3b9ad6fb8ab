package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type pricingTierReader struct {
	db *gorm.DB
}

func (r *pricingTierReader) getPricingTiers(ctx context.Context, productIds []int) []*dataloader.Result[[]*models.PricingTier] {
	var results []models.PricingTier
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIds).Order("display_order, min_quantity").Find(&results).Error
	if err != nil {
		return handleError[[]*models.PricingTier](len(productIds), err)
	}

	return generateLoaderArrayResults(results, productIds)
}

func GetPricingTiers(ctx context.Context, productId int) ([]*models.PricingTier, error) {
	loaders := For(ctx)
	return loaders.pricingTierLoader.Load(ctx, productId)()
}
