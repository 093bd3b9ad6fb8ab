package main

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/middlewares"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/gin-gonic/gin"
)

func registerQuoteRoutes(api *gin.RouterGroup) {
	quotes := api.Group("/quotes")
	quotes.GET("", paginateQuotesHandler())
	quotes.POST("", createQuoteHandler())
	quotes.GET("/:id", getQuoteHandler())
	quotes.PUT("/:id", updateQuoteHandler())
	quotes.DELETE("/:id", deleteQuoteHandler())
	quotes.PUT("/:id/status", updateQuoteStatusHandler())
	quotes.GET("/:id/history", quoteHistoryHandler())
	quotes.GET("/:id/events", quoteOutboxStatusHandler())
	quotes.POST("/:id/events/reprocess", reprocessQuoteEventsHandler())

	histories := api.Group("/histories")
	histories.GET("", paginateHistoriesHandler())
	histories.POST("", createManualHistoryHandler())
}

func paginateQuotesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, after := pageParams(c)
		var status *models.QuoteStatus
		if raw := queryString(c, "status"); raw != nil {
			value := models.QuoteStatus(*raw)
			status = &value
		}
		var source *models.QuoteSource
		if raw := queryString(c, "source"); raw != nil {
			value := models.QuoteSource(*raw)
			source = &value
		}
		connection, err := models.PaginateQuote(c.Request.Context(), limit, after,
			queryString(c, "quoteNumber"), queryInt(c, "customerId"),
			status, source, queryDate(c, "startDate"), queryDate(c, "endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, connection)
	}
}

func createQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewQuote
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote, err := models.CreateQuote(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quote)
	}
}

// quoteView joins a quote with the relations the detail screen needs,
// resolved through the request-scoped loaders.
type quoteView struct {
	*models.Quote
	Customer  *models.Customer    `json:"customer,omitempty"`
	Items     []*models.QuoteItem `json:"items"`
	Documents []*models.Document  `json:"documents"`
}

func getQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		quote, err := models.GetQuote(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}

		view := quoteView{Quote: quote}
		if customer, err := middlewares.GetCustomer(ctx, quote.CustomerId); err == nil {
			view.Customer = customer
		}
		if items, err := middlewares.GetQuoteItems(ctx, quote.ID); err == nil {
			view.Items = items
		}
		if documents, err := middlewares.GetQuoteDocuments(ctx, quote.ID); err == nil {
			view.Documents = documents
		}
		respondData(c, view)
	}
}

func updateQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewQuote
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote, err := models.UpdateQuote(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quote)
	}
}

func deleteQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		quote, err := models.DeleteQuote(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quote)
	}
}

func updateQuoteStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			Status        models.QuoteStatus `json:"status" binding:"required"`
			DeclineReason *string            `json:"declineReason"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote, err := models.UpdateQuoteStatus(c.Request.Context(), id, body.Status, body.DeclineReason)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, quote)
	}
}

func quoteHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		referenceType := "quotes"
		histories, err := models.GetHistories(c.Request.Context(), &id, &referenceType)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, histories)
	}
}

func quoteOutboxStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		status, err := models.GetOutboxStatus(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, status)
	}
}

func reprocessQuoteEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		status, err := models.ReprocessOutbox(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, status)
	}
}

func paginateHistoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, after := pageParams(c)
		connection, err := models.PaginateHistory(c.Request.Context(), limit, after,
			queryString(c, "referenceType"), queryInt(c, "referenceId"),
			queryString(c, "actionType"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, connection)
	}
}

func createManualHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewHistory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		history, err := models.CreateManualHistory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, history)
	}
}
