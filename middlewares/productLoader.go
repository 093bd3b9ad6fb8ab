package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type productReader struct {
	db *gorm.DB
}

func (r *productReader) getProducts(ctx context.Context, ids []int) []*dataloader.Result[*models.Product] {
	var results []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Product](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetProduct(ctx context.Context, id int) (*models.Product, error) {
	loaders := For(ctx)
	return loaders.productLoader.Load(ctx, id)()
}

func GetProducts(ctx context.Context, ids []int) ([]*models.Product, []error) {
	loaders := For(ctx)
	return loaders.productLoader.LoadMany(ctx, ids)()
}

type allProductReader struct {
	db *gorm.DB
}

func (r *allProductReader) getAllProducts(ctx context.Context, ids []int) []*dataloader.Result[*models.AllProduct] {
	resultMap, err := models.MapAllProduct(ctx)
	if err != nil {
		return handleError[*models.AllProduct](len(ids), err)
	}
	var loaderResults = make([]*dataloader.Result[*models.AllProduct], 0, len(ids))
	for _, id := range ids {
		result, ok := resultMap[id]
		if !ok {
			var v models.AllProduct
			v.ID = id
			result = &v
		}
		loaderResults = append(loaderResults, &dataloader.Result[*models.AllProduct]{Data: result})
	}
	return loaderResults
}

func GetAllProduct(ctx context.Context, id int) (*models.AllProduct, error) {
	loaders := For(ctx)
	return loaders.allProductLoader.Load(ctx, id)()
}

func GetAllProducts(ctx context.Context, ids []int) ([]*models.AllProduct, []error) {
	loaders := For(ctx)
	return loaders.allProductLoader.LoadMany(ctx, ids)()
}
