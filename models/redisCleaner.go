package models

import (
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
)

type RedisCleaner interface {
	RemoveInstanceRedis() error // remove one
	RemoveAllRedis() error      // remove list & map if exists
}

// remove both item & list + map
func RemoveRedisBoth[T RedisCleaner](obj T) error {
	if err := obj.RemoveInstanceRedis(); err != nil {
		return err
	}
	if err := obj.RemoveAllRedis(); err != nil {
		return err
	}
	return nil
}

func (obj Customer) RemoveInstanceRedis() error {
	if err := utils.RemoveRedisItem[Customer](obj.ID); err != nil {
		return err
	}
	return nil
}

func (obj Customer) RemoveAllRedis() error {
	if err := utils.RemoveRedisList[AllCustomer](obj.BusinessId); err != nil {
		return err
	}
	if err := utils.RemoveRedisMap[AllCustomer](obj.BusinessId); err != nil {
		return err
	}
	return nil
}

func (obj Product) RemoveInstanceRedis() error {
	if err := utils.RemoveRedisItem[Product](obj.ID); err != nil {
		return err
	}
	return nil
}

// a product change also invalidates the cached widget catalog
func (obj Product) RemoveAllRedis() error {
	if err := utils.RemoveRedisList[AllProduct](obj.BusinessId); err != nil {
		return err
	}
	if err := utils.RemoveRedisMap[AllProduct](obj.BusinessId); err != nil {
		return err
	}
	return removeWidgetCatalogCache(obj.BusinessId)
}

// children ride on the parent product cache entry and the widget catalog

func (obj PricingTier) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Product](obj.ProductId)
}

func (obj PricingTier) RemoveAllRedis() error {
	return removeWidgetCatalogCache(obj.BusinessId)
}

func (obj Variation) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Product](obj.ProductId)
}

func (obj Variation) RemoveAllRedis() error {
	return removeWidgetCatalogCache(obj.BusinessId)
}

func (obj Addon) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Product](obj.ProductId)
}

func (obj Addon) RemoveAllRedis() error {
	return removeWidgetCatalogCache(obj.BusinessId)
}
