package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type Product struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	Category     string          `gorm:"size:100;index" json:"category"`
	PhotoUrl     string          `gorm:"size:255" json:"photo_url"`
	ThumbnailUrl string          `gorm:"size:255" json:"thumbnail_url"`
	UnitType     UnitType        `gorm:"type:enum('area','length','count','time','volume','weight');not null;default:'area'" json:"unit_type"`
	UnitLabel    string          `gorm:"size:20" json:"unit_label"`
	// MeasurementType controls which measure step the widget shows for this
	// product (map area, map line or a manual quantity).
	MeasurementType      MeasurementType `gorm:"type:enum('area','line','point');not null;default:'area'" json:"measurement_type"`
	ListPrice            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"list_price"`
	MinimumOrderQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_order_quantity"`
	TierPricingEnabled   *bool           `gorm:"not null;default:false" json:"tier_pricing_enabled"`
	// SoldInIncrementsOf of zero means the product has no increment rule.
	SoldInIncrementsOf     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sold_in_increments_of"`
	AllowPartialIncrements *bool           `gorm:"not null;default:false" json:"allow_partial_increments"`
	IncrementLabel         string          `gorm:"size:50" json:"increment_label"`
	// BaseHeight of zero means the product has no configured height.
	BaseHeight             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"base_height"`
	UseHeightInCalculation *bool           `gorm:"not null;default:false" json:"use_height_in_calculation"`
	VariationRequired      *bool           `gorm:"not null;default:false" json:"variation_required"`
	DisplayInWidget        *bool           `gorm:"not null;default:true" json:"display_in_widget"`
	DisplayOrder           int             `gorm:"not null;default:0" json:"display_order"`
	IsActive               *bool           `gorm:"not null;default:true" json:"is_active"`
	PricingTiers           []PricingTier   `gorm:"foreignKey:ProductId" json:"pricing_tiers"`
	Variations             []Variation     `gorm:"foreignKey:ProductId" json:"variations"`
	Addons                 []Addon         `gorm:"foreignKey:ProductId" json:"addons"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name                   string          `json:"name" binding:"required"`
	Description            string          `json:"description"`
	Category               string          `json:"category"`
	PhotoUrl               string          `json:"photo_url"`
	ThumbnailUrl           string          `json:"thumbnail_url"`
	UnitType               UnitType        `json:"unit_type" binding:"required"`
	UnitLabel              string          `json:"unit_label"`
	MeasurementType        MeasurementType `json:"measurement_type" binding:"required"`
	ListPrice              decimal.Decimal `json:"list_price"`
	MinimumOrderQuantity   decimal.Decimal `json:"minimum_order_quantity"`
	TierPricingEnabled     *bool           `json:"tier_pricing_enabled"`
	SoldInIncrementsOf     decimal.Decimal `json:"sold_in_increments_of"`
	AllowPartialIncrements *bool           `json:"allow_partial_increments"`
	IncrementLabel         string          `json:"increment_label"`
	BaseHeight             decimal.Decimal `json:"base_height"`
	UseHeightInCalculation *bool           `json:"use_height_in_calculation"`
	VariationRequired      *bool           `json:"variation_required"`
	DisplayInWidget        *bool           `json:"display_in_widget"`
	DisplayOrder           int             `json:"display_order"`
}

type ProductsEdge Edge[Product]
type ProductsConnection struct {
	Edges    []*ProductsEdge `json:"edges"`
	PageInfo *PageInfo       `json:"pageInfo"`
}

// returns decoded curosr string
func (p Product) GetCursor() string {
	return p.CreatedAt.String()
}

// PricingInput converts the stored record into the engine's read-only view.
// Zero-valued increment and height columns become nil, which the engine
// treats as "rule not configured".
func (p Product) PricingInput() pricing.ProductInput {
	input := pricing.ProductInput{
		ListPrice:              p.ListPrice,
		MinimumOrderQuantity:   p.MinimumOrderQuantity,
		TierPricingEnabled:     p.TierPricingEnabled != nil && *p.TierPricingEnabled,
		IsVolumeUnit:           p.UnitType == UnitTypeVolume,
		AllowPartialIncrements: p.AllowPartialIncrements != nil && *p.AllowPartialIncrements,
		IncrementLabel:         p.IncrementLabel,
		UseHeightInCalculation: p.UseHeightInCalculation != nil && *p.UseHeightInCalculation,
		HasRequiredVariation:   p.VariationRequired != nil && *p.VariationRequired,
	}
	if p.SoldInIncrementsOf.IsPositive() {
		increment := p.SoldInIncrementsOf
		input.SoldInIncrementsOf = &increment
	}
	if p.BaseHeight.IsPositive() {
		height := p.BaseHeight
		input.BaseHeight = &height
	}
	return input
}

func (input *NewProduct) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Product](ctx, businessId, id); err != nil {
			return err
		}
	}
	// validate unique name
	if err := utils.ValidateUnique[Product](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.ListPrice.IsNegative() {
		return errors.New("list price cannot be negative")
	}
	if input.MinimumOrderQuantity.IsNegative() {
		return errors.New("minimum order quantity cannot be negative")
	}
	if input.SoldInIncrementsOf.IsNegative() {
		return errors.New("sold in increments of cannot be negative")
	}
	if input.BaseHeight.IsNegative() {
		return errors.New("base height cannot be negative")
	}
	if input.UseHeightInCalculation != nil && *input.UseHeightInCalculation && !input.BaseHeight.IsPositive() {
		return errors.New("base height is required when height is used in calculation")
	}
	// photo must already be uploaded
	if input.PhotoUrl != "" {
		if err := utils.CheckImageExistInGCS(input.PhotoUrl); err != nil {
			return errors.New("photo does not exist")
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	product := mapNewProduct(businessId, input)

	tx := db.Begin()
	err := tx.WithContext(ctx).Create(&product).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := removeWidgetCatalogCache(businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func mapNewProduct(businessId string, input *NewProduct) Product {
	tierPricingEnabled := utils.NewFalse()
	if input.TierPricingEnabled != nil {
		tierPricingEnabled = input.TierPricingEnabled
	}
	allowPartial := utils.NewFalse()
	if input.AllowPartialIncrements != nil {
		allowPartial = input.AllowPartialIncrements
	}
	useHeight := utils.NewFalse()
	if input.UseHeightInCalculation != nil {
		useHeight = input.UseHeightInCalculation
	}
	variationRequired := utils.NewFalse()
	if input.VariationRequired != nil {
		variationRequired = input.VariationRequired
	}
	displayInWidget := utils.NewTrue()
	if input.DisplayInWidget != nil {
		displayInWidget = input.DisplayInWidget
	}

	return Product{
		BusinessId:             businessId,
		Name:                   input.Name,
		Description:            input.Description,
		Category:               input.Category,
		PhotoUrl:               input.PhotoUrl,
		ThumbnailUrl:           input.ThumbnailUrl,
		UnitType:               input.UnitType,
		UnitLabel:              input.UnitLabel,
		MeasurementType:        input.MeasurementType,
		ListPrice:              input.ListPrice,
		MinimumOrderQuantity:   input.MinimumOrderQuantity,
		TierPricingEnabled:     tierPricingEnabled,
		SoldInIncrementsOf:     input.SoldInIncrementsOf,
		AllowPartialIncrements: allowPartial,
		IncrementLabel:         input.IncrementLabel,
		BaseHeight:             input.BaseHeight,
		UseHeightInCalculation: useHeight,
		VariationRequired:      variationRequired,
		DisplayInWidget:        displayInWidget,
		DisplayOrder:           input.DisplayOrder,
		IsActive:               utils.NewTrue(),
	}
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Name":                   input.Name,
		"Description":            input.Description,
		"Category":               input.Category,
		"PhotoUrl":               input.PhotoUrl,
		"ThumbnailUrl":           input.ThumbnailUrl,
		"UnitType":               input.UnitType,
		"UnitLabel":              input.UnitLabel,
		"MeasurementType":        input.MeasurementType,
		"ListPrice":              input.ListPrice,
		"MinimumOrderQuantity":   input.MinimumOrderQuantity,
		"TierPricingEnabled":     input.TierPricingEnabled,
		"SoldInIncrementsOf":     input.SoldInIncrementsOf,
		"AllowPartialIncrements": input.AllowPartialIncrements,
		"IncrementLabel":         input.IncrementLabel,
		"BaseHeight":             input.BaseHeight,
		"UseHeightInCalculation": input.UseHeightInCalculation,
		"VariationRequired":      input.VariationRequired,
		"DisplayInWidget":        input.DisplayInWidget,
		"DisplayOrder":           input.DisplayOrder,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := RemoveRedisBoth(*product); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[QuoteItem](ctx, businessId, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("quote associated with product exists")
	}

	db := config.GetDB()
	tx := db.Begin()

	// child configuration goes with the product
	if err := tx.WithContext(ctx).Where("product_id = ?", id).Delete(&PricingTier{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("product_id = ?", id).Delete(&Variation{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	var addonIds []int
	if err := tx.WithContext(ctx).Model(&Addon{}).Where("product_id = ?", id).Pluck("id", &addonIds).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(addonIds) > 0 {
		if err := tx.WithContext(ctx).Where("addon_id IN ?", addonIds).Delete(&AddonOption{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Where("product_id = ?", id).Delete(&Addon{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := RemoveRedisBoth(*result); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func ToggleActiveProduct(ctx context.Context, id int, isActive bool) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return ToggleActiveModel[Product](ctx, businessId, id, isActive)
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return GetResource[Product](ctx, id)
}

// GetProductWithChildren loads the product with all of its pricing
// configuration, which is what quote computation and the widget need.
func GetProductWithChildren(ctx context.Context, id int) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Product](ctx, businessId, id,
		"PricingTiers", "Variations", "Addons", "Addons.Options")
}

func GetProducts(ctx context.Context, name *string, category *string) ([]*Product, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Product
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if category != nil && len(*category) > 0 {
		dbCtx = dbCtx.Where("category = ?", category)
	}
	err := dbCtx.
		Order("display_order ASC, name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetWidgetProducts returns the configurable catalog shown to customers:
// active products flagged for widget display, children preloaded in the
// order the widget renders them.
func GetWidgetProducts(ctx context.Context, businessId string) ([]*Product, error) {
	db := config.GetDB()

	var results []*Product
	err := db.WithContext(ctx).
		Where("business_id = ? AND is_active = ? AND display_in_widget = ?", businessId, true, true).
		Preload("PricingTiers", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("pricing_tiers.display_order ASC, pricing_tiers.min_quantity ASC")
		}).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("variations.display_order ASC")
		}).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("addons.display_order ASC")
		}).
		Preload("Addons.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("addon_options.display_order ASC")
		}).
		Order("display_order ASC, name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetProductCategories(ctx context.Context) ([]string, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var categories []string
	err := db.WithContext(ctx).Model(&Product{}).
		Where("business_id = ? AND category != ''", businessId).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func PaginateProduct(ctx context.Context, limit *int, after *string,
	name *string, category *string, isActive *bool, displayInWidget *bool) (*ProductsConnection, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && *name != "" {
		dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if category != nil && *category != "" {
		dbCtx.Where("category = ?", category)
	}
	if isActive != nil {
		dbCtx.Where("is_active = ?", isActive)
	}
	if displayInWidget != nil {
		dbCtx.Where("display_in_widget = ?", displayInWidget)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Product](dbCtx, *limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}

	var productsConnection ProductsConnection
	productsConnection.PageInfo = pageInfo
	for _, edge := range edges {
		productEdge := ProductsEdge(edge)
		productsConnection.Edges = append(productsConnection.Edges, &productEdge)
	}

	return &productsConnection, err
}

/* price book import */

type PriceBookRow struct {
	Name                   string
	Description            string
	Category               string
	UnitType               UnitType
	UnitLabel              string
	MeasurementType        MeasurementType
	ListPrice              decimal.Decimal
	MinimumOrderQuantity   decimal.Decimal
	TierPricingEnabled     bool
	SoldInIncrementsOf     decimal.Decimal
	IncrementLabel         string
	BaseHeight             decimal.Decimal
	UseHeightInCalculation bool
}

func uploadImportFile(ctx context.Context, fileName string, file io.Reader) (string, error) {
	objectName := "importProducts/" + fileName
	err := utils.UploadFileToGCS(ctx, objectName, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to storage provider: %v", err)
	}
	return getCloudURL(objectName), nil
}

func readExcelFileFromURL(fileURL string) (*excelize.File, error) {
	// Download file content from the given URL
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: received status code %d", resp.StatusCode)
	}

	// Create an Excel reader
	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}

	return f, nil
}

func PopulatePriceBookRow(row []string) (PriceBookRow, error) {
	if len(row) < 13 {
		return PriceBookRow{}, errors.New("row has too few columns")
	}

	listPrice, err := utils.ParseDecimal(row[6])
	if err != nil {
		return PriceBookRow{}, fmt.Errorf("could not parse list price: %v", err)
	}
	minimumQty, err := utils.ParseDecimal(row[7])
	if err != nil {
		return PriceBookRow{}, fmt.Errorf("could not parse minimum order quantity: %v", err)
	}
	increment, err := utils.ParseDecimal(row[9])
	if err != nil {
		return PriceBookRow{}, fmt.Errorf("could not parse sold in increments of: %v", err)
	}
	baseHeight, err := utils.ParseDecimal(row[11])
	if err != nil {
		return PriceBookRow{}, fmt.Errorf("could not parse base height: %v", err)
	}

	unitType := UnitType(strings.ToLower(row[3]))
	measurementType := MeasurementType(strings.ToLower(row[5]))

	priceBookRow := PriceBookRow{
		Name:                   row[0],
		Description:            row[1],
		Category:               row[2],
		UnitType:               unitType,
		UnitLabel:              row[4],
		MeasurementType:        measurementType,
		ListPrice:              listPrice,
		MinimumOrderQuantity:   minimumQty,
		TierPricingEnabled:     row[8] == "T",
		SoldInIncrementsOf:     increment,
		IncrementLabel:         row[10],
		BaseHeight:             baseHeight,
		UseHeightInCalculation: row[12] == "T",
	}

	return priceBookRow, nil
}

// ImportProductsFromXlsx bulk-creates catalog products from a price book
// spreadsheet. Rows whose product name already exists are skipped and
// reported, not treated as errors.
func ImportProductsFromXlsx(ctx context.Context, filename string, file io.Reader) (string, error) {
	if file == nil {
		return "", errors.New("nil file provided")
	}

	if !strings.HasSuffix(filename, ".xlsx") {
		return "", fmt.Errorf("invalid file type: only .xlsx files are allowed")
	}

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return "", errors.New("business id is required")
	}

	uniqueFilename := businessId + "_" + utils.GenerateUniqueFilename() + ".xlsx"

	fileURL, err := uploadImportFile(ctx, uniqueFilename, file)
	if err != nil {
		return "", err
	}

	f, err := readExcelFileFromURL(fileURL)
	if err != nil {
		return "", err
	}

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return "", fmt.Errorf("unable to read sheet: %v", err)
	}
	if len(rows) < 2 {
		return "", errors.New("sheet has no data rows")
	}

	releaseLock, err := utils.BusinessLock(ctx, businessId, "lock", "product.go", "ImportProductsFromXlsx")
	if err != nil {
		return "", err
	}
	defer releaseLock()

	db := config.GetDB()
	tx := db.Begin()

	duplicateRows := make([]string, 0)

	for idx, row := range rows[1:] {

		priceBookRow, err := PopulatePriceBookRow(row)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("row %d: %v", idx+2, err)
		}

		// Check for existing products by name
		var existingProduct Product
		err = tx.WithContext(ctx).Where("business_id = ? AND name = ?", businessId, priceBookRow.Name).First(&existingProduct).Error
		if err == nil {
			// Product already exists, skip this row
			duplicateRows = append(duplicateRows, fmt.Sprintf("Row %d: Duplicate found for product with Name: %s", idx+2, priceBookRow.Name))
			continue
		} else if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			return "", fmt.Errorf("error checking for duplicates in row %d: %v", idx+2, err)
		}

		tierPricingEnabled := utils.NewFalse()
		if priceBookRow.TierPricingEnabled {
			tierPricingEnabled = utils.NewTrue()
		}
		useHeight := utils.NewFalse()
		if priceBookRow.UseHeightInCalculation {
			useHeight = utils.NewTrue()
		}

		product := Product{
			BusinessId:             businessId,
			Name:                   priceBookRow.Name,
			Description:            priceBookRow.Description,
			Category:               priceBookRow.Category,
			UnitType:               priceBookRow.UnitType,
			UnitLabel:              priceBookRow.UnitLabel,
			MeasurementType:        priceBookRow.MeasurementType,
			ListPrice:              priceBookRow.ListPrice,
			MinimumOrderQuantity:   priceBookRow.MinimumOrderQuantity,
			TierPricingEnabled:     tierPricingEnabled,
			SoldInIncrementsOf:     priceBookRow.SoldInIncrementsOf,
			AllowPartialIncrements: utils.NewFalse(),
			IncrementLabel:         priceBookRow.IncrementLabel,
			BaseHeight:             priceBookRow.BaseHeight,
			UseHeightInCalculation: useHeight,
			VariationRequired:      utils.NewFalse(),
			DisplayInWidget:        utils.NewTrue(),
			IsActive:               utils.NewTrue(),
		}

		if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
			tx.Rollback()
			return "", fmt.Errorf("could not create product in row %d: %v", idx+2, err)
		}
	}

	if err := removeWidgetCatalogCache(businessId); err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return "", err
	}

	if len(duplicateRows) > 0 {
		return fmt.Sprintf("imported successfully with duplicates: %v", duplicateRows), nil
	}

	return "imported successfully", nil
}
