package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type addonReader struct {
	db *gorm.DB
}

func (r *addonReader) getAddons(ctx context.Context, productIds []int) []*dataloader.Result[[]*models.Addon] {
	var results []models.Addon
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIds).Order("display_order, id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.Addon](len(productIds), err)
	}

	return generateLoaderArrayResults(results, productIds)
}

func GetAddons(ctx context.Context, productId int) ([]*models.Addon, error) {
	loaders := For(ctx)
	return loaders.addonLoader.Load(ctx, productId)()
}

type addonOptionReader struct {
	db *gorm.DB
}

func (r *addonOptionReader) getAddonOptions(ctx context.Context, addonIds []int) []*dataloader.Result[[]*models.AddonOption] {
	var results []models.AddonOption
	err := r.db.WithContext(ctx).Where("addon_id IN ?", addonIds).Order("display_order, id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.AddonOption](len(addonIds), err)
	}

	return generateLoaderArrayResults(results, addonIds)
}

func GetAddonOptions(ctx context.Context, addonId int) ([]*models.AddonOption, error) {
	loaders := For(ctx)
	return loaders.addonOptionLoader.Load(ctx, addonId)()
}
