package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// ProductPerformanceRow aggregates quoted lines per product: how often a
// product appears on quotes, how much of it was quoted and how much of
// that converted.
type ProductPerformanceRow struct {
	ProductId        int             `json:"productId"`
	ProductName      string          `json:"productName"`
	Category         *string         `json:"category,omitempty"`
	QuoteCount       int             `json:"quoteCount"`
	QuotedQuantity   decimal.Decimal `json:"quotedQuantity"`
	QuotedAmount     decimal.Decimal `json:"quotedAmount"`
	AcceptedCount    int             `json:"acceptedCount"`
	AcceptedAmount   decimal.Decimal `json:"acceptedAmount"`
	AverageLineTotal decimal.Decimal `json:"averageLineTotal"`
}

func GetProductPerformanceReport(ctx context.Context, fromDate models.MyDateString, toDate models.MyDateString, category *string) ([]*ProductPerformanceRow, error) {
	started := time.Now()
	defer logSlowReport(ctx, "product_performance", started, nil)

	business, err := models.GetBusiness(ctx)
	if err != nil {
		return nil, errors.New("business id is required")
	}
	businessId := business.ID.String()
	if err := fromDate.StartOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("report:productPerformance:%s:%v:%v:%s",
		businessId, time.Time(fromDate).Unix(), time.Time(toDate).Unix(), utils.DereferencePtr(category))
	if reportCacheEnabled() {
		var cached []*ProductPerformanceRow
		if found, err := cacheGet(cacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	sqlT := `
SELECT
    qi.product_id,
    qi.product_name,
    products.category,
    COUNT(DISTINCT qi.quote_id) AS quote_count,
    SUM(qi.billable_quantity) AS quoted_quantity,
    SUM(qi.line_total) AS quoted_amount,
    AVG(qi.line_total) AS average_line_total,
    COUNT(DISTINCT CASE
        WHEN q.current_status = 'Accepted' THEN qi.quote_id
    END) AS accepted_count,
    SUM(CASE
        WHEN q.current_status = 'Accepted' THEN qi.line_total
        ELSE 0
    END) AS accepted_amount
FROM
    quote_items AS qi
        JOIN
    quotes AS q ON q.id = qi.quote_id
        LEFT JOIN
    products ON products.id = qi.product_id
WHERE
    q.business_id = @businessId
        AND q.quote_date BETWEEN @fromDate AND @toDate
        AND q.current_status <> 'Cancelled'
        {{- if .category }} AND products.category = @category {{- end }}
GROUP BY qi.product_id , qi.product_name , products.category
ORDER BY quoted_amount DESC;
`
	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"category": utils.DereferencePtr(category),
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var rows []*ProductPerformanceRow
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"businessId": businessId,
		"fromDate":   fromDate,
		"toDate":     toDate,
		"category":   category,
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, &rows, reportCacheTTL())
	}
	return rows, nil
}
