package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// Adding the same fully-specified quote twice must produce two independent
// quotes with distinct numbers and identical computed totals, never a merge.
func TestCreateQuote_DuplicateSubmission_IndependentQuotes(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "quotes_test")
	t.Setenv("QUOTE_EVENTS_ENABLED", "1")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx = utils.SetUsernameInContext(ctx, "test@local")

	biz, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:  "Test Contracting",
		Email: "owner@test.local",
	})
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	businessID := biz.ID.String()
	ctx = utils.SetBusinessIdInContext(ctx, businessID)

	if _, err := models.UpdateQuoteSettings(ctx, &models.NewQuoteSettings{
		CurrencySymbol:    "$",
		DecimalPrecision:  2,
		TaxRate:           decimal.NewFromInt(10),
		MarkupPercentage:  decimal.NewFromInt(5),
		PriceRangeEnabled: utils.NewFalse(),
		QuoteValidityDays: 30,
	}); err != nil {
		t.Fatalf("UpdateQuoteSettings: %v", err)
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:  "Pat Winslow",
		Email: "pat@test.local",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:               "Cedar Fence",
		UnitType:           models.UnitTypeLength,
		MeasurementType:    models.MeasurementTypeLine,
		ListPrice:          decimal.NewFromInt(32),
		TierPricingEnabled: utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	hundred := decimal.NewFromInt(100)
	if _, err := models.ReplaceProductTiers(ctx, product.ID, []*models.NewPricingTier{
		{MinQuantity: decimal.Zero, MaxQuantity: &hundred, UnitPrice: decimal.NewFromInt(32)},
		{MinQuantity: hundred, MaxQuantity: nil, UnitPrice: decimal.NewFromInt(28)},
	}); err != nil {
		t.Fatalf("ReplaceProductTiers: %v", err)
	}

	input := &models.NewQuote{
		CustomerId: customer.ID,
		QuoteDate:  time.Now().UTC().Truncate(24 * time.Hour),
		Details: []*models.NewQuoteItem{
			{
				ProductId: product.ID,
				Measurement: models.NewMeasurement{
					Type:  models.MeasurementTypeLine,
					Value: decimal.NewFromInt(150),
				},
			},
		},
	}

	first, err := models.CreateQuote(ctx, input)
	if err != nil {
		t.Fatalf("CreateQuote first: %v", err)
	}
	second, err := models.CreateQuote(ctx, input)
	if err != nil {
		t.Fatalf("CreateQuote second: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected two independent quotes, got the same id %d", first.ID)
	}
	if first.QuoteNumber == second.QuoteNumber {
		t.Fatalf("expected distinct quote numbers, both got %q", first.QuoteNumber)
	}
	if !first.Total.Equal(second.Total) || !first.Subtotal.Equal(second.Subtotal) {
		t.Fatalf("expected identical totals, got %s/%s and %s/%s",
			first.Subtotal, first.Total, second.Subtotal, second.Total)
	}

	// 150 linear ft lands in the 100+ tier: 150 * 28 = 4200.
	wantSubtotal := decimal.NewFromInt(4200)
	if !first.Subtotal.Equal(wantSubtotal) {
		t.Fatalf("subtotal = %s, want %s", first.Subtotal, wantSubtotal)
	}
	wantMarkup := decimal.NewFromInt(210)
	if !first.MarkupAmount.Equal(wantMarkup) {
		t.Fatalf("markup = %s, want %s", first.MarkupAmount, wantMarkup)
	}
	wantTax := decimal.NewFromInt(441)
	if !first.TaxAmount.Equal(wantTax) {
		t.Fatalf("tax = %s, want %s", first.TaxAmount, wantTax)
	}
	wantTotal := decimal.NewFromInt(4851)
	if !first.Total.Equal(wantTotal) {
		t.Fatalf("total = %s, want %s", first.Total, wantTotal)
	}

	// Each create leaves its own outbox row for the dispatcher.
	db := config.GetDB()
	var eventCount int64
	if err := db.WithContext(ctx).Model(&models.QuoteEvent{}).
		Where("business_id = ? AND quote_id IN ?", businessID, []int{first.ID, second.ID}).
		Count(&eventCount).Error; err != nil {
		t.Fatalf("count quote events: %v", err)
	}
	if eventCount != 2 {
		t.Fatalf("expected 2 outbox rows, got %d", eventCount)
	}

	// Widget submissions run under the per-business redis lock and an
	// idempotency key: a retry with the same key returns the original quote,
	// and a fresh submission after that proves the lock was released.
	widgetInput := &models.WidgetQuoteInput{
		IdempotencyKey: "widget-submit-1",
		Customer:       &models.NewCustomer{Name: "Pat Winslow", Email: "pat@test.local"},
		Details:        input.Details,
	}
	submitted, err := models.SubmitWidgetQuote(ctx, businessID, widgetInput)
	if err != nil {
		t.Fatalf("SubmitWidgetQuote: %v", err)
	}
	replayed, err := models.SubmitWidgetQuote(ctx, businessID, widgetInput)
	if err != nil {
		t.Fatalf("SubmitWidgetQuote replay: %v", err)
	}
	if replayed.ID != submitted.ID {
		t.Fatalf("replay created quote %d, want original %d", replayed.ID, submitted.ID)
	}
	if !submitted.Total.Equal(first.Total) {
		t.Fatalf("widget total = %s, want %s", submitted.Total, first.Total)
	}
	fresh, err := models.SubmitWidgetQuote(ctx, businessID, &models.WidgetQuoteInput{
		IdempotencyKey: "widget-submit-2",
		Customer:       &models.NewCustomer{Name: "Pat Winslow", Email: "pat@test.local"},
		Details:        input.Details,
	})
	if err != nil {
		t.Fatalf("SubmitWidgetQuote after release: %v", err)
	}
	if fresh.ID == submitted.ID {
		t.Fatalf("expected a new quote for the second key, got %d again", fresh.ID)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("quotes-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("quotes-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=quotes_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
