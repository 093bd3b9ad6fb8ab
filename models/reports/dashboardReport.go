package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/shopspring/decimal"
)

// DashboardResponse is the landing-screen payload: live counts plus a
// month-by-month quote volume series for the trailing six months.
type DashboardResponse struct {
	DraftQuotes     int             `json:"draft_quotes"`
	OpenQuotes      int             `json:"open_quotes"`
	AcceptedQuotes  int             `json:"accepted_quotes"`
	AcceptedValue   decimal.Decimal `json:"accepted_value"`
	PendingTasks    int             `json:"pending_tasks"`
	WidgetQuotes30d int             `json:"widget_quotes_30d"`
	MonthlyVolume   []MonthlyVolume `json:"monthly_volume"`
}

type MonthlyVolume struct {
	Month       string          `json:"month"`
	QuoteCount  int             `json:"quote_count"`
	QuoteAmount decimal.Decimal `json:"quote_amount"`
}

type statusCountRow struct {
	CurrentStatus string
	QuoteCount    int
	TotalAmount   decimal.Decimal
}

func GetDashboardReport(ctx context.Context) (*DashboardResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard", started, nil)

	business, err := models.GetBusiness(ctx)
	if err != nil {
		return nil, errors.New("business id is required")
	}
	businessId := business.ID.String()

	db := config.GetDB()
	response := DashboardResponse{}

	var statusRows []*statusCountRow
	if err := db.WithContext(ctx).Raw(`
SELECT
    current_status,
    COUNT(id) AS quote_count,
    SUM(total) AS total_amount
FROM
    quotes
WHERE
    business_id = @businessId
GROUP BY current_status;
`, map[string]interface{}{"businessId": businessId}).Scan(&statusRows).Error; err != nil {
		return nil, err
	}

	for _, row := range statusRows {
		switch models.QuoteStatus(row.CurrentStatus) {
		case models.QuoteStatusDraft:
			response.DraftQuotes = row.QuoteCount
		case models.QuoteStatusSubmitted:
			response.OpenQuotes = row.QuoteCount
		case models.QuoteStatusAccepted:
			response.AcceptedQuotes = row.QuoteCount
			response.AcceptedValue = row.TotalAmount
		}
	}

	if err := db.WithContext(ctx).Raw(`
SELECT
    COUNT(id)
FROM
    tasks
WHERE
    business_id = @businessId
        AND current_status IN ('Pending' , 'Scheduled');
`, map[string]interface{}{"businessId": businessId}).Scan(&response.PendingTasks).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Raw(`
SELECT
    COUNT(id)
FROM
    quotes
WHERE
    business_id = @businessId
        AND source = 'widget'
        AND created_at >= @since;
`, map[string]interface{}{
		"businessId": businessId,
		"since":      time.Now().AddDate(0, 0, -30),
	}).Scan(&response.WidgetQuotes30d).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Raw(`
SELECT
    DATE_FORMAT(quote_date, '%Y-%m') AS month,
    COUNT(id) AS quote_count,
    SUM(total) AS quote_amount
FROM
    quotes
WHERE
    business_id = @businessId
        AND quote_date >= @since
        AND current_status <> 'Cancelled'
GROUP BY DATE_FORMAT(quote_date, '%Y-%m')
ORDER BY month;
`, map[string]interface{}{
		"businessId": businessId,
		"since":      time.Now().AddDate(0, -6, 0),
	}).Scan(&response.MonthlyVolume).Error; err != nil {
		return nil, err
	}

	return &response, nil
}
