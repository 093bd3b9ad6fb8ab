package main

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/gin-gonic/gin"
)

// Business profile, quote settings and numbering series.

func registerSettingsRoutes(api *gin.RouterGroup) {
	business := api.Group("/business")
	business.GET("", getBusinessHandler())
	business.PUT("", updateBusinessHandler())
	business.GET("/quote-settings", getQuoteSettingsHandler())
	business.PUT("/quote-settings", updateQuoteSettingsHandler())

	series := api.Group("/quote-number-series")
	series.GET("", listQuoteNumberSeriesHandler())
	series.POST("", createQuoteNumberSeriesHandler())
	series.PUT("/:id", updateQuoteNumberSeriesHandler())
	series.DELETE("/:id", deleteQuoteNumberSeriesHandler())
}

func getBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, err := models.GetBusiness(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, business)
	}
}

func updateBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBusiness
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		business, err := models.UpdateBusiness(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, business)
	}
}

// quoteSettingsView mirrors the editable slice of the business record so
// the settings screen does not have to filter the full profile.
type quoteSettingsView struct {
	CurrencySymbol          string                    `json:"currency_symbol"`
	DecimalPrecision        int                       `json:"decimal_precision"`
	TaxRate                 string                    `json:"tax_rate"`
	MarkupPercentage        string                    `json:"markup_percentage"`
	PriceRangeEnabled       bool                      `json:"price_range_enabled"`
	PriceRangeLowerBound    string                    `json:"price_range_lower_bound"`
	PriceRangeUpperBound    string                    `json:"price_range_upper_bound"`
	PriceRangePercentage    string                    `json:"price_range_percentage"`
	PriceRangeDisplayFormat models.RangeDisplayFormat `json:"price_range_display_format"`
	QuoteValidityDays       int                       `json:"quote_validity_days"`
	WidgetKey               string                    `json:"widget_key"`
}

func getQuoteSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, err := models.GetBusiness(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quoteSettingsView{
			CurrencySymbol:          business.CurrencySymbol,
			DecimalPrecision:        business.DecimalPrecision,
			TaxRate:                 business.TaxRate.String(),
			MarkupPercentage:        business.MarkupPercentage.String(),
			PriceRangeEnabled:       business.PriceRangeEnabled != nil && *business.PriceRangeEnabled,
			PriceRangeLowerBound:    business.PriceRangeLowerBound.String(),
			PriceRangeUpperBound:    business.PriceRangeUpperBound.String(),
			PriceRangePercentage:    business.PriceRangePercentage.String(),
			PriceRangeDisplayFormat: business.PriceRangeDisplayFormat,
			QuoteValidityDays:       business.QuoteValidityDays,
			WidgetKey:               business.WidgetKey,
		})
	}
}

func updateQuoteSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewQuoteSettings
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		business, err := models.UpdateQuoteSettings(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, business)
	}
}

func listQuoteNumberSeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		series, err := models.GetQuoteNumberSeriesList(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, series)
	}
}

func createQuoteNumberSeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewQuoteNumberSeries
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		series, err := models.CreateQuoteNumberSeries(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, series)
	}
}

func updateQuoteNumberSeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewQuoteNumberSeries
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		series, err := models.UpdateQuoteNumberSeries(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, series)
	}
}

func deleteQuoteNumberSeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		series, err := models.DeleteQuoteNumberSeries(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, series)
	}
}
