package models

import (
	"context"

	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Demo catalog used by cmd/seed-demo. The three products cover the pricing
// paths a new install should see working: tiered area pricing with
// increments, length pricing with height variations and optioned add-ons,
// and volume pricing with a depth requirement.

func SeedDemoCatalog(tx *gorm.DB, ctx context.Context, businessId string) ([]*Product, error) {

	sod := Product{
		BusinessId:             businessId,
		Name:                   "Sod Installation",
		Description:            "Fresh-cut sod, delivered and installed.",
		Category:               "Lawn",
		UnitType:               UnitTypeArea,
		UnitLabel:              "sq ft",
		MeasurementType:        MeasurementTypeArea,
		ListPrice:              decimal.NewFromFloat(1.85),
		MinimumOrderQuantity:   decimal.NewFromInt(400),
		TierPricingEnabled:     utils.NewTrue(),
		SoldInIncrementsOf:     decimal.NewFromInt(450),
		AllowPartialIncrements: utils.NewFalse(),
		IncrementLabel:         "pallet",
		DisplayInWidget:        utils.NewTrue(),
		DisplayOrder:           1,
		IsActive:               utils.NewTrue(),
		PricingTiers: []PricingTier{
			{BusinessId: businessId, MinQuantity: decimal.NewFromInt(0), MaxQuantity: decimal.NewFromInt(2000), UnitPrice: decimal.NewFromFloat(1.85), DisplayOrder: 1, IsActive: utils.NewTrue()},
			{BusinessId: businessId, MinQuantity: decimal.NewFromInt(2001), MaxQuantity: decimal.NewFromInt(5000), UnitPrice: decimal.NewFromFloat(1.55), DisplayOrder: 2, IsActive: utils.NewTrue()},
			{BusinessId: businessId, MinQuantity: decimal.NewFromInt(5001), UnitPrice: decimal.NewFromFloat(1.3), DisplayOrder: 3, IsActive: utils.NewTrue()},
		},
	}

	fence := Product{
		BusinessId:        businessId,
		Name:              "Privacy Fence",
		Description:       "Pressure-treated pine privacy fence.",
		Category:          "Fencing",
		UnitType:          UnitTypeLength,
		UnitLabel:         "linear ft",
		MeasurementType:   MeasurementTypeLine,
		ListPrice:         decimal.NewFromInt(32),
		VariationRequired: utils.NewTrue(),
		DisplayInWidget:   utils.NewTrue(),
		DisplayOrder:      2,
		IsActive:          utils.NewTrue(),
		Variations: []Variation{
			{BusinessId: businessId, Name: "6 ft", AdjustmentType: AdjustmentTypeFixed, Adjustment: decimal.Zero, Height: decimal.NewFromInt(6), AffectsAreaCalculation: utils.NewFalse(), DisplayOrder: 1, IsActive: utils.NewTrue()},
			{BusinessId: businessId, Name: "8 ft", AdjustmentType: AdjustmentTypePercentage, Adjustment: decimal.NewFromInt(25), Height: decimal.NewFromInt(8), AffectsAreaCalculation: utils.NewFalse(), DisplayOrder: 2, IsActive: utils.NewTrue()},
		},
		Addons: []Addon{
			{
				BusinessId:      businessId,
				Name:            "Walk Gate",
				PriceValue:      decimal.NewFromInt(350),
				PriceType:       AdjustmentTypeFixed,
				CalculationType: AddonCalculationTypeTotal,
				MaxQuantity:     4,
				DisplayOrder:    1,
				IsActive:        utils.NewTrue(),
				Options: []AddonOption{
					{BusinessId: businessId, Name: "Standard latch", Adjustment: decimal.Zero, AdjustmentType: AdjustmentTypeFixed, DisplayOrder: 1},
					{BusinessId: businessId, Name: "Self-closing hinge", Adjustment: decimal.NewFromInt(85), AdjustmentType: AdjustmentTypeFixed, DisplayOrder: 2},
				},
			},
			{
				BusinessId:      businessId,
				Name:            "Premium Stain",
				PriceValue:      decimal.NewFromFloat(1.5),
				PriceType:       AdjustmentTypeFixed,
				CalculationType: AddonCalculationTypeArea,
				DisplayOrder:    2,
				IsActive:        utils.NewTrue(),
			},
		},
	}

	mulch := Product{
		BusinessId:             businessId,
		Name:                   "Mulch Installation",
		Description:            "Hardwood mulch, spread to depth.",
		Category:               "Beds",
		UnitType:               UnitTypeVolume,
		UnitLabel:              "cu yd",
		MeasurementType:        MeasurementTypeArea,
		ListPrice:              decimal.NewFromInt(95),
		AllowPartialIncrements: utils.NewTrue(),
		DisplayInWidget:        utils.NewTrue(),
		DisplayOrder:           3,
		IsActive:               utils.NewTrue(),
	}

	products := []*Product{&sod, &fence, &mulch}
	for _, product := range products {
		if err := tx.WithContext(ctx).Create(product).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	return products, nil
}

func SeedDemoCustomers(tx *gorm.DB, ctx context.Context, businessId string) ([]*Customer, error) {

	customers := []*Customer{
		{
			BusinessId: businessId,
			Name:       "Dana Whitfield",
			Email:      "dana.whitfield@example.com",
			Phone:      "+15125550134",
			Address:    "412 Creekside Dr",
			City:       "Austin",
			State:      "TX",
			ZipCode:    "78745",
			Source:     QuoteSourceWidget,
			IsActive:   utils.NewTrue(),
		},
		{
			BusinessId: businessId,
			Name:       "Marcus Bell",
			Email:      "marcus.bell@example.com",
			Phone:      "+15125550171",
			Address:    "88 Palmetto Ln",
			City:       "Round Rock",
			State:      "TX",
			ZipCode:    "78664",
			Source:     QuoteSourceDashboard,
			IsActive:   utils.NewTrue(),
		},
	}

	for _, customer := range customers {
		if err := tx.WithContext(ctx).Create(customer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	return customers, nil
}
