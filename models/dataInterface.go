package models

import (
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/utils"
)

type Identifier interface {
	GetId() int
}

// interface for dataloader result
type Data interface {
	Identifier
	GetDefault(int) Data
}

// key
func (c Customer) GetId() int {
	return c.ID
}

func (c Customer) GetDefault(id int) Data {
	return Customer{
		ID:        id,
		Source:    QuoteSourceDashboard,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (p Product) GetId() int {
	return p.ID
}

func (p Product) GetDefault(id int) Data {
	return Product{
		ID:              id,
		UnitType:        UnitTypeArea,
		MeasurementType: MeasurementTypeArea,
		IsActive:        utils.NewFalse(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func (q Quote) GetDefault(id int) Data {
	return Quote{
		ID:            id,
		QuoteDate:     time.Now(),
		CurrentStatus: QuoteStatusDraft,
		Source:        QuoteSourceDashboard,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func (t Task) GetDefault(id int) Data {
	return Task{
		ID:            id,
		CurrentStatus: TaskStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func (d Document) GetId() int {
	return d.ID
}

func (d Document) GetDefault(id int) Data {
	return Document{
		ID: id,
	}
}

// loader loading more than one model by one id
type RelatedData interface {
	GetReferenceId() int
}

func (t PricingTier) GetReferenceId() int {
	return t.ProductId
}

func (v Variation) GetReferenceId() int {
	return v.ProductId
}

func (a Addon) GetReferenceId() int {
	return a.ProductId
}

func (o AddonOption) GetReferenceId() int {
	return o.AddonId
}

func (qi QuoteItem) GetReferenceId() int {
	return qi.QuoteId
}

func (d Document) GetReferenceId() int {
	return d.ReferenceID
}

func (i Image) GetReferenceId() int {
	return i.ReferenceID
}
