package middlewares

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware scopes dashboard requests to a business. The business id
// arrives as a header; routes without it fall through and the model layer
// rejects any business-scoped operation.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		c.Header("X-Correlation-Id", correlationId)

		businessId := c.Request.Header.Get("X-Business-Id")
		if businessId == "" {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}
		if _, err := uuid.Parse(businessId); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
			c.Abort()
			return
		}

		ctx = utils.SetBusinessIdInContext(ctx, businessId)
		ctx = utils.SetQuoteSourceInContext(ctx, string(models.QuoteSourceDashboard))

		// optional actor name recorded on history rows
		if userName := c.Request.Header.Get("X-User-Name"); userName != "" {
			ctx = utils.SetUsernameInContext(ctx, userName)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
