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

// QuoteSummaryRow aggregates quotes per status inside the window.
type QuoteSummaryRow struct {
	CurrentStatus string          `json:"currentStatus"`
	QuoteCount    int             `json:"quoteCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
}

type QuoteSummaryResponse struct {
	Rows []*QuoteSummaryRow `json:"rows"`
	// ConversionRate is accepted / (accepted + declined + expired), in
	// percent. Drafts and open submissions do not count either way.
	ConversionRate decimal.Decimal `json:"conversionRate"`
	TotalQuotes    int             `json:"totalQuotes"`
	TotalAccepted  decimal.Decimal `json:"totalAccepted"`
}

func GetQuoteSummaryReport(ctx context.Context, fromDate models.MyDateString, toDate models.MyDateString, source *models.QuoteSource) (*QuoteSummaryResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "quote_summary", started, nil)

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

	cacheKey := fmt.Sprintf("report:quoteSummary:%s:%v:%v:%s",
		businessId, time.Time(fromDate).Unix(), time.Time(toDate).Unix(), utils.DereferencePtr(source))
	if reportCacheEnabled() {
		var cached QuoteSummaryResponse
		if found, err := cacheGet(cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	sqlT := `
SELECT
    current_status,
    COUNT(id) AS quote_count,
    SUM(total) AS total_amount,
    AVG(total) AS average_amount
FROM
    quotes
WHERE
    business_id = @businessId
        AND quote_date BETWEEN @fromDate AND @toDate
        {{- if .source }} AND source = @source {{- end }}
GROUP BY current_status
ORDER BY current_status;
`
	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"source": utils.DereferencePtr(source),
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var rows []*QuoteSummaryRow
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"businessId": businessId,
		"fromDate":   fromDate,
		"toDate":     toDate,
		"source":     source,
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}

	response := QuoteSummaryResponse{Rows: rows}
	var accepted, resolved int
	for _, row := range rows {
		response.TotalQuotes += row.QuoteCount
		switch models.QuoteStatus(row.CurrentStatus) {
		case models.QuoteStatusAccepted:
			accepted = row.QuoteCount
			resolved += row.QuoteCount
			response.TotalAccepted = response.TotalAccepted.Add(row.TotalAmount)
		case models.QuoteStatusDeclined, models.QuoteStatusExpired:
			resolved += row.QuoteCount
		}
	}
	if resolved > 0 {
		response.ConversionRate = decimal.NewFromInt(int64(accepted)).
			Div(decimal.NewFromInt(int64(resolved))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, &response, reportCacheTTL())
	}
	return &response, nil
}
