package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type customerReader struct {
	db *gorm.DB
}

func (r *customerReader) getCustomers(ctx context.Context, ids []int) []*dataloader.Result[*models.Customer] {
	var results []models.Customer
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Customer](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	loaders := For(ctx)
	return loaders.customerLoader.Load(ctx, id)()
}

func GetCustomers(ctx context.Context, ids []int) ([]*models.Customer, []error) {
	loaders := For(ctx)
	return loaders.customerLoader.LoadMany(ctx, ids)()
}

type allCustomerReader struct {
	db *gorm.DB
}

func (r *allCustomerReader) getAllCustomers(ctx context.Context, ids []int) []*dataloader.Result[*models.AllCustomer] {
	resultMap, err := models.MapAllCustomer(ctx)
	if err != nil {
		return handleError[*models.AllCustomer](len(ids), err)
	}
	var loaderResults = make([]*dataloader.Result[*models.AllCustomer], 0, len(ids))
	for _, id := range ids {
		result, ok := resultMap[id]
		if !ok {
			var v models.AllCustomer
			v.ID = id
			result = &v
		}
		loaderResults = append(loaderResults, &dataloader.Result[*models.AllCustomer]{Data: result})
	}
	return loaderResults
}

func GetAllCustomer(ctx context.Context, id int) (*models.AllCustomer, error) {
	loaders := For(ctx)
	return loaders.allCustomerLoader.Load(ctx, id)()
}

func GetAllCustomers(ctx context.Context, ids []int) ([]*models.AllCustomer, []error) {
	loaders := For(ctx)
	return loaders.allCustomerLoader.LoadMany(ctx, ids)()
}
