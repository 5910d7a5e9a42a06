package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/catalog"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/memory"
	apphttp "github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/interfaces/http"
	pkgjwt "github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/jwt"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "alsaada-stock-test"
	testExpMin    = 60
)

func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := numbering.New(store.Sequences())
	stockEngine := stock.NewEngine(store, svc, nil, logger.Nop())
	auditEngine := audit.NewEngine(store, stockEngine, svc, nil, logger.Nop())
	catalogSvc := catalog.New(store.Items(), store.Transactions())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Stock:     stockEngine,
		Audit:     auditEngine,
		Catalog:   catalogSvc,
		JWTSecret: testJWTSecret,
	})
	return app, store
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := pkgjwt.Generate(testJWTSecret, testUserID, "warehouse", testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedBearing(store *memory.Store) {
	store.SeedItem(&entity.Item{
		ID: "item-1", Code: "REP-00001", Name: "bearing 6204", Barcode: "7801234567890",
		Unit: "pcs", Quantity: decimal.Zero, Active: true,
	})
}

func TestStockRoutes_RequireBearerToken(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/stock/receipts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReceipt_CreatesTransaction(t *testing.T) {
	app, store := buildTestApp(t)
	seedBearing(store)

	req := jsonRequest(t, http.MethodPost, "/api/stock/receipts", map[string]any{
		"item_id":    "item-1",
		"quantity":   "10",
		"unit_price": "5",
		"condition":  "NEW",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Number        string `json:"number"`
		Type          string `json:"type"`
		QuantityAfter string `json:"quantity_after"`
		CreatedBy     string `json:"created_by"`
	}
	decodeBody(t, resp, &body)
	assert.Regexp(t, `^IN-\d{8}-\d{4}$`, body.Number)
	assert.Equal(t, "IN", body.Type)
	assert.Equal(t, "10", body.QuantityAfter)
	assert.Equal(t, testUserID, body.CreatedBy, "the actor comes from the token, not the body")
}

func TestIssue_InsufficientStockAnswers409(t *testing.T) {
	app, store := buildTestApp(t)
	seedBearing(store)

	req := jsonRequest(t, http.MethodPost, "/api/stock/issues", map[string]any{
		"item_id":   "item-1",
		"quantity":  "1",
		"condition": "NEW",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestReceipt_InvalidQuantityAnswers400(t *testing.T) {
	app, store := buildTestApp(t)
	seedBearing(store)

	req := jsonRequest(t, http.MethodPost, "/api/stock/receipts", map[string]any{
		"item_id":    "item-1",
		"quantity":   "0",
		"unit_price": "5",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItemLookup_ByCodeAndBarcode(t *testing.T) {
	app, store := buildTestApp(t)
	seedBearing(store)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/items/code/REP-00001", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var byCode struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &byCode)
	assert.Equal(t, "item-1", byCode.ID)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/items/barcode/7801234567890", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/items/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuditLifecycle_OverHTTP(t *testing.T) {
	app, store := buildTestApp(t)
	store.SeedItem(&entity.Item{
		ID: "item-1", Code: "REP-00001", Name: "bearing", Unit: "pcs",
		Quantity: decimal.RequireFromString("50"),
		QtyNew:   decimal.RequireFromString("50"),
		Active:   true,
	})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/audits", map[string]any{"type": "FULL"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/audits/"+created.ID+"/next", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next struct {
		Exhausted bool `json:"exhausted"`
		Item      *struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	decodeBody(t, resp, &next)
	require.False(t, next.Exhausted)
	require.NotNil(t, next.Item)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/audits/"+created.ID+"/counts", map[string]any{
		"item_id":         next.Item.ID,
		"actual_quantity": "42",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/audits/"+created.ID+"/apply", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var applied struct {
		Status        string `json:"status"`
		ItemsWithDiff int    `json:"items_with_diff"`
	}
	decodeBody(t, resp, &applied)
	assert.Equal(t, "COMPLETED", applied.Status)
	assert.Equal(t, 1, applied.ItemsWithDiff)

	// Double apply is answered with a conflict.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/audits/"+created.ID+"/apply", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
