package middlewares

import (
	"context"
	"reflect"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	customerLoader         *dataloader.Loader[int, *models.Customer]
	allCustomerLoader      *dataloader.Loader[int, *models.AllCustomer]
	customerDocumentLoader *dataloader.Loader[int, []*models.Document]

	productLoader     *dataloader.Loader[int, *models.Product]
	allProductLoader  *dataloader.Loader[int, *models.AllProduct]
	pricingTierLoader *dataloader.Loader[int, []*models.PricingTier]
	variationLoader   *dataloader.Loader[int, []*models.Variation]
	addonLoader       *dataloader.Loader[int, []*models.Addon]
	addonOptionLoader *dataloader.Loader[int, []*models.AddonOption]

	quoteLoader         *dataloader.Loader[int, *models.Quote]
	quoteItemLoader     *dataloader.Loader[int, []*models.QuoteItem]
	quoteDocumentLoader *dataloader.Loader[int, []*models.Document]

	productImageLoader *dataloader.Loader[int, []*models.Image]
	taskImageLoader    *dataloader.Loader[int, []*models.Image]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	// define the data loader
	customerReader := &customerReader{db: conn}
	allCustomerReader := &allCustomerReader{db: conn}
	productReader := &productReader{db: conn}
	allProductReader := &allProductReader{db: conn}
	pricingTierReader := &pricingTierReader{db: conn}
	variationReader := &variationReader{db: conn}
	addonReader := &addonReader{db: conn}
	addonOptionReader := &addonOptionReader{db: conn}
	quoteReader := &quoteReader{db: conn}
	quoteItemReader := &quoteItemReader{db: conn}

	customerDocumentReader := &documentReader{db: conn, referenceType: "customers"}
	quoteDocumentReader := &documentReader{db: conn, referenceType: "quotes"}

	productImageReader := &imageReader{db: conn, referenceType: "products"}
	taskImageReader := &imageReader{db: conn, referenceType: "tasks"}

	return &Loaders{
		customerLoader:         dataloader.NewBatchedLoader(customerReader.getCustomers, dataloader.WithWait[int, *models.Customer](time.Millisecond)),
		allCustomerLoader:      dataloader.NewBatchedLoader(allCustomerReader.getAllCustomers, dataloader.WithWait[int, *models.AllCustomer](time.Millisecond)),
		customerDocumentLoader: dataloader.NewBatchedLoader(customerDocumentReader.GetDocuments, dataloader.WithWait[int, []*models.Document](time.Millisecond)),

		productLoader:     dataloader.NewBatchedLoader(productReader.getProducts, dataloader.WithWait[int, *models.Product](time.Millisecond)),
		allProductLoader:  dataloader.NewBatchedLoader(allProductReader.getAllProducts, dataloader.WithWait[int, *models.AllProduct](time.Millisecond)),
		pricingTierLoader: dataloader.NewBatchedLoader(pricingTierReader.getPricingTiers, dataloader.WithWait[int, []*models.PricingTier](time.Millisecond)),
		variationLoader:   dataloader.NewBatchedLoader(variationReader.getVariations, dataloader.WithWait[int, []*models.Variation](time.Millisecond)),
		addonLoader:       dataloader.NewBatchedLoader(addonReader.getAddons, dataloader.WithWait[int, []*models.Addon](time.Millisecond)),
		addonOptionLoader: dataloader.NewBatchedLoader(addonOptionReader.getAddonOptions, dataloader.WithWait[int, []*models.AddonOption](time.Millisecond)),

		quoteLoader:         dataloader.NewBatchedLoader(quoteReader.getQuotes, dataloader.WithWait[int, *models.Quote](time.Millisecond)),
		quoteItemLoader:     dataloader.NewBatchedLoader(quoteItemReader.getQuoteItems, dataloader.WithWait[int, []*models.QuoteItem](time.Millisecond)),
		quoteDocumentLoader: dataloader.NewBatchedLoader(quoteDocumentReader.GetDocuments, dataloader.WithWait[int, []*models.Document](time.Millisecond)),

		// image loaders
		productImageLoader: dataloader.NewBatchedLoader(productImageReader.GetImages, dataloader.WithWait[int, []*models.Image](time.Millisecond)),
		taskImageLoader:    dataloader.NewBatchedLoader(taskImageReader.GetImages, dataloader.WithWait[int, []*models.Image](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	// generate resultMap from results
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// T must be struct
// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []int) (loaderResults []*dataloader.Result[[]*T]) {
	resultMap := make(map[int][]*T)
	for _, result := range results {
		// creating a new variable every turn, to avoid pointing to the adddress of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
