package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type variationReader struct {
	db *gorm.DB
}

func (r *variationReader) getVariations(ctx context.Context, productIds []int) []*dataloader.Result[[]*models.Variation] {
	var results []models.Variation
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIds).Order("display_order, id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.Variation](len(productIds), err)
	}

	return generateLoaderArrayResults(results, productIds)
}

func GetVariations(ctx context.Context, productId int) ([]*models.Variation, error) {
	loaders := For(ctx)
	return loaders.variationLoader.Load(ctx, productId)()
}
