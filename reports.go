package main

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func registerReportRoutes(api *gin.RouterGroup) {
	group := api.Group("/reports")
	group.GET("/dashboard", dashboardReportHandler())
	group.GET("/quote-summary", quoteSummaryReportHandler())
	group.GET("/product-performance", productPerformanceReportHandler())
}

// reportWindow reads the fromDate/toDate query params; both are required
// because every window report aggregates over quote_date.
func reportWindow(c *gin.Context) (models.MyDateString, models.MyDateString, bool) {
	from := queryDate(c, "fromDate")
	to := queryDate(c, "toDate")
	if from == nil || to == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required (YYYY-MM-DD)"})
		return models.MyDateString{}, models.MyDateString{}, false
	}
	return *from, *to, true
}

func wantsExcel(c *gin.Context) bool {
	return c.Query("format") == "xlsx"
}

func writeExcelResponse(c *gin.Context, name string, headings []string, rows []reports.ExcelRow) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := reports.WriteExcel(c.Writer, "Report", headings, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write workbook"})
	}
}

func dashboardReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetDashboardReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, report)
	}
}

func quoteSummaryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportWindow(c)
		if !ok {
			return
		}
		var source *models.QuoteSource
		if raw := queryString(c, "source"); raw != nil {
			value := models.QuoteSource(*raw)
			source = &value
		}
		report, err := reports.GetQuoteSummaryReport(c.Request.Context(), from, to, source)
		if err != nil {
			respondError(c, err)
			return
		}
		if wantsExcel(c) {
			rows := make([]reports.ExcelRow, 0, len(report.Rows))
			for _, row := range report.Rows {
				rows = append(rows, *row)
			}
			writeExcelResponse(c, "quote-summary",
				[]string{"Status", "Quotes", "Total", "Average"}, rows)
			return
		}
		respondData(c, report)
	}
}

func productPerformanceReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportWindow(c)
		if !ok {
			return
		}
		report, err := reports.GetProductPerformanceReport(c.Request.Context(), from, to, queryString(c, "category"))
		if err != nil {
			respondError(c, err)
			return
		}
		if wantsExcel(c) {
			rows := make([]reports.ExcelRow, 0, len(report))
			for _, row := range report {
				rows = append(rows, *row)
			}
			writeExcelResponse(c, "product-performance",
				[]string{"Product", "Category", "Quotes", "Quantity", "QuotedAmount", "Accepted", "AcceptedAmount", "AverageLine"}, rows)
			return
		}
		respondData(c, report)
	}
}
