package main

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/middlewares"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/gin-gonic/gin"
)

// Site-visit and follow-up task management.

func registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	tasks.GET("", paginateTasksHandler())
	tasks.POST("", createTaskHandler())
	tasks.GET("/:id", getTaskHandler())
	tasks.PUT("/:id", updateTaskHandler())
	tasks.DELETE("/:id", deleteTaskHandler())
	tasks.PUT("/:id/status", updateTaskStatusHandler())
}

func paginateTasksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, after := pageParams(c)
		var status *models.TaskStatus
		if raw := queryString(c, "status"); raw != nil {
			value := models.TaskStatus(*raw)
			status = &value
		}
		connection, err := models.PaginateTask(c.Request.Context(), limit, after,
			queryInt(c, "customerId"), queryInt(c, "quoteId"),
			status, queryString(c, "assignedTo"),
			queryDate(c, "startDate"), queryDate(c, "endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, connection)
	}
}

func createTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTask
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := models.CreateTask(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, task)
	}
}

type taskView struct {
	*models.Task
	Customer *models.Customer `json:"customer,omitempty"`
	Quote    *models.Quote    `json:"quote,omitempty"`
	Images   []*models.Image  `json:"images"`
}

func getTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		task, err := models.GetTask(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}

		view := taskView{Task: task}
		if customer, err := middlewares.GetCustomer(ctx, task.CustomerId); err == nil {
			view.Customer = customer
		}
		if task.QuoteId > 0 {
			if quote, err := middlewares.GetQuote(ctx, task.QuoteId); err == nil {
				view.Quote = quote
			}
		}
		if images, err := middlewares.GetImages(ctx, "tasks", task.ID); err == nil {
			view.Images = images
		}
		respondData(c, view)
	}
}

func updateTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewTask
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := models.UpdateTask(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, task)
	}
}

func deleteTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		task, err := models.DeleteTask(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, task)
	}
}

func updateTaskStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			Status models.TaskStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := models.UpdateTaskStatus(c.Request.Context(), id, body.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, task)
	}
}
