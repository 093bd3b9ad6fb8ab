package middlewares

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WidgetAuthMiddleware resolves the embeddable widget's key to a business.
// Widget routes never see a business id directly; the key is the only
// identifier the embed script carries.
func WidgetAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		widgetKey := c.Request.Header.Get("X-Widget-Key")
		if widgetKey == "" {
			widgetKey = c.Query("widget_key")
		}
		if widgetKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "widget key is required"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		business, err := models.GetBusinessByWidgetKey(ctx, widgetKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown widget key"})
			c.Abort()
			return
		}

		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		c.Header("X-Correlation-Id", correlationId)

		ctx = utils.SetBusinessIdInContext(ctx, business.ID.String())
		ctx = utils.SetQuoteSourceInContext(ctx, string(models.QuoteSourceWidget))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
