package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondData wraps successful payloads the same way across every endpoint.
func respondData(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// respondError maps model errors onto HTTP status codes. Validation
// failures surface as 400 with the message intact; missing records as 404.
func respondError(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown error"})
		return
	}
	if errors.Is(err, utils.ErrorRecordNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryString(c *gin.Context, name string) *string {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	return &value
}

func queryInt(c *gin.Context, name string) *int {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryBool(c *gin.Context, name string) *bool {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryDate(c *gin.Context, name string) *models.MyDateString {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	parsed, err := parseDateParam(value)
	if err != nil {
		return nil
	}
	return parsed
}

func parseDateParam(value string) (*models.MyDateString, error) {
	layouts := []string{"2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			date := models.MyDateString(parsed)
			return &date, nil
		}
	}
	return nil, errors.New("invalid date, expected YYYY-MM-DD")
}

// pageParams reads cursor pagination query params; limit defaults server-side.
func pageParams(c *gin.Context) (*int, *string) {
	return queryInt(c, "limit"), queryString(c, "after")
}
