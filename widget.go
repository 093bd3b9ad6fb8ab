package main

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/gin-gonic/gin"
)

// Public widget surface. Every route runs behind WidgetAuthMiddleware,
// which resolves X-Widget-Key to a business and stores the id in context.

func registerWidgetRoutes(widget *gin.RouterGroup) {
	widget.GET("/catalog", widgetCatalogHandler())
	widget.POST("/price-preview", widgetPricePreviewHandler())
	widget.POST("/increment-check", widgetIncrementCheckHandler())
	widget.POST("/quotes", widgetSubmitQuoteHandler())
}

func widgetBusinessId(c *gin.Context) (string, bool) {
	businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
	if !ok || businessId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "widget key is required"})
		return "", false
	}
	return businessId, true
}

func widgetCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, ok := widgetBusinessId(c)
		if !ok {
			return
		}
		catalog, err := models.GetWidgetCatalog(c.Request.Context(), businessId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, catalog)
	}
}

func widgetPricePreviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, ok := widgetBusinessId(c)
		if !ok {
			return
		}
		var input models.WidgetLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		preview, err := models.PreviewWidgetPrice(c.Request.Context(), businessId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, preview)
	}
}

func widgetIncrementCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, ok := widgetBusinessId(c)
		if !ok {
			return
		}
		var input models.WidgetIncrementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rounding, err := models.CheckWidgetIncrement(c.Request.Context(), businessId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, rounding)
	}
}

func widgetSubmitQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, ok := widgetBusinessId(c)
		if !ok {
			return
		}
		var input models.WidgetQuoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.IdempotencyKey == "" {
			input.IdempotencyKey = c.GetHeader("Idempotency-Key")
		}
		quote, err := models.SubmitWidgetQuote(c.Request.Context(), businessId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quote)
	}
}
