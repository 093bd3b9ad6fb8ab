package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type quoteReader struct {
	db *gorm.DB
}

func (r *quoteReader) getQuotes(ctx context.Context, ids []int) []*dataloader.Result[*models.Quote] {
	var results []models.Quote
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Quote](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetQuote(ctx context.Context, id int) (*models.Quote, error) {
	loaders := For(ctx)
	return loaders.quoteLoader.Load(ctx, id)()
}

func GetQuotes(ctx context.Context, ids []int) ([]*models.Quote, []error) {
	loaders := For(ctx)
	return loaders.quoteLoader.LoadMany(ctx, ids)()
}

type quoteItemReader struct {
	db *gorm.DB
}

func (r *quoteItemReader) getQuoteItems(ctx context.Context, quoteIds []int) []*dataloader.Result[[]*models.QuoteItem] {
	var results []models.QuoteItem
	err := r.db.WithContext(ctx).Where("quote_id IN ?", quoteIds).Order("id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.QuoteItem](len(quoteIds), err)
	}

	return generateLoaderArrayResults(results, quoteIds)
}

func GetQuoteItems(ctx context.Context, quoteId int) ([]*models.QuoteItem, error) {
	loaders := For(ctx)
	return loaders.quoteItemLoader.Load(ctx, quoteId)()
}
