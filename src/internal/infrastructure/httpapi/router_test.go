package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	app "github.com/jackyeh168/sales_engine/src/internal/application/sale"
	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/infrastructure/messaging"
	"github.com/jackyeh168/sales_engine/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/sales_engine/src/internal/platform/config"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
	"github.com/jackyeh168/sales_engine/src/internal/platform/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	clock   *shared.FixedClock
	metrics *metrics.Metrics
}

// newTestServer wires the real use cases onto an in-memory SQLite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:",
	}, gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.Close(db) })

	clock := &shared.FixedClock{At: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)}
	log := logger.NewNop()
	m := metrics.New()
	repo := persistence.NewGORMSaleRepository(db, clock)
	txManager := persistence.NewGORMTransactionManager(db)
	publisher := messaging.NewMetricsEventPublisher(messaging.NewLoggingEventPublisher(log), m)
	factory := domain.NewFactory(clock, nil)

	handler := NewSaleHandler(SaleHandlerDeps{
		Create:     app.NewCreateSaleUseCase(repo, txManager, publisher, factory, log),
		Update:     app.NewUpdateSaleUseCase(repo, txManager, publisher, log),
		Cancel:     app.NewCancelSaleUseCase(repo, txManager, publisher, log),
		CancelItem: app.NewCancelSaleItemUseCase(repo, txManager, publisher, log),
		Get:        app.NewGetSaleUseCase(repo),
		List:       app.NewListSalesUseCase(repo),
	}, log)

	return &testServer{
		router:  NewRouter(RouterConfig{SaleHandler: handler, Log: log, Metrics: m}),
		clock:   clock,
		metrics: m,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func item(productID string, quantity int, price string) map[string]interface{} {
	return map[string]interface{}{
		"productId":   productID,
		"productName": "Product " + productID[:4],
		"quantity":    quantity,
		"unitPrice":   price,
	}
}

func createBody(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customerId":   uuid.NewString(),
		"customerName": "Alice",
		"branchId":     uuid.NewString(),
		"branchName":   "Downtown",
		"items":        items,
	}
}

func (s *testServer) createSale(t *testing.T, items ...map[string]interface{}) saleResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/sales", createBody(items...))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[saleResponse](t, rec)
}

// ===========================
// Create / Get
// ===========================

// Test 1: creating a sale prices every line and returns 201
func TestCreateSale_Created(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	beer, chips := uuid.NewString(), uuid.NewString()

	// Act
	rec := srv.do(t, http.MethodPost, "/api/v1/sales", createBody(item(beer, 5, "10.00"), item(chips, 2, "3.50")))

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[saleResponse](t, rec)
	assert.Regexp(t, `^SALE-20240315-[0-9A-F]{8}$`, body.SaleNumber)
	assertMoney(t, "52.00", body.TotalAmount)
	require.Len(t, body.Items, 2)
	assertMoney(t, "0.10", body.Items[0].DiscountPercentage)
	assertMoney(t, "45.00", body.Items[0].TotalAmount)
	assertMoney(t, "0", body.Items[1].DiscountPercentage)
	assert.Equal(t, 1, body.Version)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.IsType(t, "", raw["totalAmount"], "money is serialised as a string")
}

// Test 2: command validation failures list every field
func TestCreateSale_ValidationFailed(t *testing.T) {
	srv := newTestServer(t)
	bad := item(uuid.NewString(), 25, "0")
	bad["productName"] = ""

	rec := srv.do(t, http.MethodPost, "/api/v1/sales", createBody(bad))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[ErrorEnvelope](t, rec)
	assert.Equal(t, "SALE_VALIDATION_FAILED", env.Error.Code)
	fields := make([]string, 0, len(env.Error.Details))
	for _, d := range env.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"Items[0].ProductName", "Items[0].Quantity", "Items[0].UnitPrice"}, fields)
}

// Test 3: malformed JSON is rejected before any use case runs
func TestCreateSale_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/sales", `{"items": [`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidRequestBody, decode[ErrorEnvelope](t, rec).Error.Code)
}

// Test 4: a stored sale can be fetched
func TestGetSale_Found(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createSale(t, item(uuid.NewString(), 12, "10.00"))

	rec := srv.do(t, http.MethodGet, "/api/v1/sales/"+created.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[saleResponse](t, rec)
	assert.Equal(t, created.ID, body.ID)
	assert.Equal(t, created.SaleNumber, body.SaleNumber)
	assertMoney(t, "96.00", body.TotalAmount)
	assert.Equal(t, "Alice", body.CustomerName)
}

// Test 5: unknown and malformed ids
func TestGetSale_Errors(t *testing.T) {
	srv := newTestServer(t)

	notFound := srv.do(t, http.MethodGet, "/api/v1/sales/"+uuid.NewString(), nil)
	badID := srv.do(t, http.MethodGet, "/api/v1/sales/not-a-uuid", nil)

	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, "SALE_NOT_FOUND", decode[ErrorEnvelope](t, notFound).Error.Code)
	assert.Equal(t, http.StatusBadRequest, badID.Code)
}

// ===========================
// Update
// ===========================

// Test 6: updating re-quantifies existing lines and adds new ones
func TestUpdateSale_ChangesAndAdds(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	beer := uuid.NewString()
	created := srv.createSale(t, item(beer, 2, "10.00"))
	change := item(beer, 10, "10.00")
	change["itemId"] = created.Items[0].ID

	// Act
	rec := srv.do(t, http.MethodPut, "/api/v1/sales/"+created.ID, map[string]interface{}{
		"items": []map[string]interface{}{change, item(uuid.NewString(), 4, "25.00")},
	})

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[saleResponse](t, rec)
	assertMoney(t, "170.00", body.TotalAmount)
	assert.Equal(t, 2, body.Version)
	require.Len(t, body.Items, 2)
	assert.Equal(t, 10, body.Items[0].Quantity)
	require.NotNil(t, body.UpdatedAt)
}

// Test 7: merging past the limit is an invalid argument
func TestUpdateSale_MergeAboveLimit(t *testing.T) {
	srv := newTestServer(t)
	beer := uuid.NewString()
	created := srv.createSale(t, item(beer, 15, "10.00"))

	rec := srv.do(t, http.MethodPut, "/api/v1/sales/"+created.ID, map[string]interface{}{
		"items": []map[string]interface{}{item(beer, 6, "10.00")},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SALE_ITEM_QUANTITY_ABOVE_LIMIT", decode[ErrorEnvelope](t, rec).Error.Code)

	stored := decode[saleResponse](t, srv.do(t, http.MethodGet, "/api/v1/sales/"+created.ID, nil))
	assert.Equal(t, 15, stored.Items[0].Quantity, "failed update leaves the sale untouched")
}

// Test 8: a cancelled sale cannot be modified
func TestUpdateSale_Cancelled(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createSale(t, item(uuid.NewString(), 1, "10.00"))
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/v1/sales/"+created.ID+"/cancel", nil).Code)

	rec := srv.do(t, http.MethodPut, "/api/v1/sales/"+created.ID, map[string]interface{}{
		"items": []map[string]interface{}{item(uuid.NewString(), 1, "1.00")},
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SALE_CANCELLED", decode[ErrorEnvelope](t, rec).Error.Code)
}

// ===========================
// Cancellation
// ===========================

// Test 9: cancelling twice succeeds both times
func TestCancelSale_Idempotent(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createSale(t, item(uuid.NewString(), 5, "10.00"))

	first := srv.do(t, http.MethodPost, "/api/v1/sales/"+created.ID+"/cancel", nil)
	second := srv.do(t, http.MethodPost, "/api/v1/sales/"+created.ID+"/cancel", nil)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	body := decode[cancelSaleResponse](t, second)
	assert.True(t, body.Success)
	assert.Equal(t, created.SaleNumber, body.SaleNumber)

	stored := decode[saleResponse](t, srv.do(t, http.MethodGet, "/api/v1/sales/"+created.ID, nil))
	assert.True(t, stored.IsCancelled)
	assertMoney(t, "0", stored.TotalAmount)
}

// Test 10: cancelling one line reports the new total
func TestCancelSaleItem(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createSale(t, item(uuid.NewString(), 5, "10.00"), item(uuid.NewString(), 2, "3.50"))

	rec := srv.do(t, http.MethodPost, "/api/v1/sales/"+created.ID+"/items/"+created.Items[0].ID+"/cancel", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[cancelSaleItemResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, created.Items[0].ID, body.ItemID)
	assertMoney(t, "7.00", body.UpdatedSaleTotal)
}

// Test 11: cancelling an unknown line
func TestCancelSaleItem_NotFound(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createSale(t, item(uuid.NewString(), 1, "10.00"))

	rec := srv.do(t, http.MethodPost, "/api/v1/sales/"+created.ID+"/items/"+uuid.NewString()+"/cancel", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SALE_ITEM_NOT_FOUND", decode[ErrorEnvelope](t, rec).Error.Code)
}

// ===========================
// List / health / metrics
// ===========================

// Test 12: the list is newest first with active item counts
func TestListSales(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	older := srv.createSale(t, item(uuid.NewString(), 1, "10.00"), item(uuid.NewString(), 1, "5.00"))
	srv.clock.Advance(time.Minute)
	newer := srv.createSale(t, item(uuid.NewString(), 4, "10.00"))
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost,
		"/api/v1/sales/"+older.ID+"/items/"+older.Items[1].ID+"/cancel", nil).Code)

	// Act
	rec := srv.do(t, http.MethodGet, "/api/v1/sales", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Sales []saleSummaryResponse `json:"sales"`
	}](t, rec)
	require.Len(t, body.Sales, 2)
	assert.Equal(t, newer.ID, body.Sales[0].ID)
	assert.Equal(t, older.ID, body.Sales[1].ID)
	assert.Equal(t, 2, body.Sales[1].ItemCount)
	assert.Equal(t, 1, body.Sales[1].ActiveItemCount)
	assertMoney(t, "10.00", body.Sales[1].TotalAmount)
}

// Test 13: health and metrics endpoints
func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	srv.createSale(t, item(uuid.NewString(), 1, "10.00"))

	health := srv.do(t, http.MethodGet, "/health", nil)
	scrape := srv.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `sales_http_requests_total{method="POST",route="/api/v1/sales",status="201"} 1`)
	assert.Contains(t, scrape.Body.String(), `sales_events_published_total{event_type="sale.registered",outcome="ok"} 1`)
}

// Test 14: without metrics the scrape endpoint is not registered
func TestRouter_MetricsDisabled(t *testing.T) {
	r := NewRouter(RouterConfig{Log: logger.NewNop()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
