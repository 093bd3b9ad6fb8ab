package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// get AllModelMap for loader, redis or db
func MapAllModel[ModelT any, AllT Identifier](ctx context.Context) (map[int]*AllT, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	// retrieve from redis
	key := utils.GetTypeName[AllT]() + "Map:" + businessId

	var allMap map[int]*AllT

	// retrieve from redis
	if exists, err := config.GetRedisObject(key, &allMap); err != nil {
		return nil, err
	} else if !exists {
		// if the map has not been cached yet
		// fetch resources and constrcut the map, cache the result

		allMap = make(map[int]*AllT)
		var allSlice []*AllT
		db := config.GetDB()
		var m ModelT
		dbCtx := db.WithContext(ctx).Model(&m)
		dbCtx.Where("business_id = ?", businessId)
		if err := dbCtx.Find(&allSlice).Error; err != nil {
			return nil, err
		}

		// fill the map
		for _, allModel := range allSlice {
			allMap[(*allModel).GetId()] = allModel
		}

		// store redis
		var duration time.Duration
		if err := config.SetRedisObject(key, &allMap, duration); err != nil {
			return nil, err
		}
	}

	return allMap, nil
}

// get AllModelMap for loader, redis or db
func MapAllAdmin[ModelT any, AllT Identifier](ctx context.Context) (map[int]*AllT, error) {

	// retrieve from redis
	key := utils.GetTypeName[AllT]() + "Map"

	var allMap map[int]*AllT

	// retrieve from redis
	if exists, err := config.GetRedisObject(key, &allMap); err != nil {
		return nil, err
	} else if !exists {
		// if the map has not been cached yet
		// fetch resources and constrcut the map, cache the result

		allMap = make(map[int]*AllT)
		var allSlice []*AllT
		db := config.GetDB()
		var m ModelT
		dbCtx := db.WithContext(ctx).Model(&m)
		if err := dbCtx.Find(&allSlice).Error; err != nil {
			return nil, err
		}

		// fill the map
		for _, allModel := range allSlice {
			allMap[(*allModel).GetId()] = allModel
		}

		// store redis
		var duration time.Duration
		if err := config.SetRedisObject(key, &allMap, duration); err != nil {
			return nil, err
		}
	}

	return allMap, nil
}

// embedding struct will receive ID field, satisfy Identifier interface
type HasId struct {
	ID int `json:"id"`
}

func (h HasId) GetId() int {
	return h.ID
}

type HasUid struct {
	ID uuid.UUID `json:"id"`
}

func (h HasUid) GetId() uuid.UUID {
	return h.ID
}

type AllBusiness struct {
	HasUid
	LogoURL  string `json:"logoUrl"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Address  string `json:"address"`
	Country  string `json:"country"`
	City     string `json:"city"`
}

// AllCustomer is the dropdown view used when attaching quotes and tasks.
type AllCustomer struct {
	HasId
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// AllProduct is the dropdown view used when adding quote line items.
type AllProduct struct {
	HasId
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	UnitType           UnitType        `json:"unit_type"`
	UnitLabel          string          `json:"unit_label"`
	ListPrice          decimal.Decimal `json:"list_price"`
	TierPricingEnabled bool            `json:"tier_pricing_enabled"`
	IsActive           bool            `json:"is_active"`
}

func ListAllBusiness(ctx context.Context) ([]*AllBusiness, error) {
	return ListAllAdmin[Business, AllBusiness](ctx)
}

func ListAllCustomer(ctx context.Context) ([]*AllCustomer, error) {
	return ListAllResource[Customer, AllCustomer](ctx, "name")
}

func MapAllCustomer(ctx context.Context) (map[int]*AllCustomer, error) {
	return MapAllModel[Customer, AllCustomer](ctx)
}

func ListAllProduct(ctx context.Context) ([]*AllProduct, error) {
	return ListAllResource[Product, AllProduct](ctx, "display_order", "name")
}

func MapAllProduct(ctx context.Context) (map[int]*AllProduct, error) {
	return MapAllModel[Product, AllProduct](ctx)
}
