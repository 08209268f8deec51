package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideretail/stock-balancer/internal/config"
	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository/memory"
	"github.com/strideretail/stock-balancer/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDefaults() config.BalancerConfig {
	return config.BalancerConfig{
		DefaultPolicy:        "absolute",
		WindowDays:           14,
		LowStockThreshold:    2,
		ExcessStockThreshold: 8,
		NeedRatioThreshold:   3,
		ExcessRatioThreshold: 6,
		TopN:                 20,
	}
}

// newTestRouter wires the full router over in-memory repositories seeded with
// one understocked and one overstocked position for the same SKU.
func newTestRouter(t *testing.T) (*gin.Engine, *memory.Repositories) {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories()

	require.NoError(t, repos.ReplaceStores(ctx, []domain.Store{
		{ID: "ONLINE", Name: "Online Store", Type: "online", Active: true},
		{ID: "STORE01", Name: "Sydney CBD", Type: "physical", Location: "Sydney", Active: true},
		{ID: "STORE02", Name: "Melbourne Central", Type: "physical", Location: "Melbourne", Active: true},
	}))
	require.NoError(t, repos.ReplaceProducts(ctx, []domain.Product{
		{SKU: "RUN001-9", StyleCode: "RUN001", StyleName: "Road Runner", Category: "running", Size: 9},
	}))
	require.NoError(t, repos.ReplaceStockPositions(ctx, []domain.StockPosition{
		{StoreID: "STORE01", SKU: "RUN001-9", Quantity: 1},
		{StoreID: "STORE02", SKU: "RUN001-9", Quantity: 10},
	}))
	require.NoError(t, repos.AppendSales(ctx, []domain.SaleEvent{
		{StoreID: "STORE01", SKU: "RUN001-9", SaleDate: time.Now().AddDate(0, 0, -1), Quantity: 5},
	}))

	services := &Services{
		BalanceService: service.NewBalanceService(repos, repos, repos, repos, repos, nil),
		ImportService:  service.NewImportService(repos, repos, repos, repos, nil),
	}
	return NewRouter(services, testDefaults(), nil), repos
}

func doRequest(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	return doRequest(router, http.MethodGet, path, nil, "")
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		panic(err)
	}
	return doRequest(router, http.MethodPost, path, body, "application/json")
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetEvaluation(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := get(router, "/api/v1/balance/evaluate")
	require.Equal(t, http.StatusOK, rec.Code)

	var eval domain.Evaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Len(t, eval.Positions, 2)
	assert.Equal(t, 1, eval.Summary.NeedsCount)
	assert.Equal(t, 1, eval.Summary.ExcessCount)
}

func TestGetEvaluation_BadParams(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/balance/evaluate?window_days=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/balance/evaluate?window_days=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/balance/evaluate?policy=psychic").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/balance/evaluate?low=5&excess=5").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/balance/evaluate?policy=velocity&need_ratio=-1").Code)
}

func TestGetNeeds_FiltersByStore(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/balance/needs?store_id=STORE01")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Positions []domain.ClassifiedPosition `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Positions, 1)
	assert.Equal(t, domain.StatusNeedsStock, body.Positions[0].Status)

	rec = get(router, "/api/v1/balance/needs?store_id=STORE02")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Positions)
}

func TestGetTransfers(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/balance/transfers")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Transfers []domain.TransferCandidate `json:"transfers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Transfers, 1)
	assert.Equal(t, "STORE02", body.Transfers[0].FromStoreID)
	assert.Equal(t, "STORE01", body.Transfers[0].ToStoreID)
	assert.Equal(t, 1, body.Transfers[0].Quantity)
}

func TestGetSummary(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/balance/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.EvaluationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalPositions)
	assert.Equal(t, 11, summary.TotalStock)
}

func TestExportTransfers_CSV(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/balance/export/transfers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "transfer_recommendations_")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "from_store,to_store,sku,style_name,quantity,priority,reason", lines[0])
	assert.Contains(t, lines[1], "STORE02,STORE01,RUN001-9")
}

func TestTransferLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(router, "/api/v1/transfers", domain.TransferCandidate{
		FromStoreID: "STORE02",
		ToStoreID:   "STORE01",
		SKU:         "RUN001-9",
		Quantity:    1,
		Reason:      "store selling but low stock (sold 5 units in 14 days)",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.TransferRecommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.TransferPending, created.Status)

	rec = doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/v1/transfers/%d", created.ID),
		bytes.NewBufferString(`{"status":"applied"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/api/v1/transfers?status=applied")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Transfers []domain.TransferRecommendation `json:"transfers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Transfers, 1)
	assert.Equal(t, created.ID, listed.Transfers[0].ID)
}

func TestTransferEndpoints_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	// same store on both ends
	rec := postJSON(router, "/api/v1/transfers", domain.TransferCandidate{
		FromStoreID: "STORE01", ToStoreID: "STORE01", SKU: "RUN001-9", Quantity: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown transfer id
	rec = doRequest(router, http.MethodPatch, "/api/v1/transfers/404",
		bytes.NewBufferString(`{"status":"applied"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// back to pending is not a resolution
	rec = doRequest(router, http.MethodPatch, "/api/v1/transfers/1",
		bytes.NewBufferString(`{"status":"pending"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing status field
	rec = doRequest(router, http.MethodPatch, "/api/v1/transfers/1",
		bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown status filter on list
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/transfers?status=shipped").Code)
}

func TestListStores(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/stores")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stores []domain.Store `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stores, 3)
	assert.Equal(t, "ONLINE", body.Stores[0].ID)
}

func TestImportStock_Multipart(t *testing.T) {
	router, repos := newTestRouter(t)

	csvData := "store_id,sku,quantity\nSTORE01,RUN001-9,7\nSTORE99,RUN001-9,2\n"
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "stock.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvData))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := doRequest(router, http.MethodPost, "/api/v1/imports/stock", body, writer.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Loaded  int `json:"loaded"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 1, result.Skipped)

	positions, err := repos.ListStockPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 7, positions[0].Quantity)
}

func TestImport_MissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	rec := doRequest(router, http.MethodPost, "/api/v1/imports/sales", body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTemplate(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/templates/stock")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "stock_template.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "store_id,sku,quantity"))

	assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/templates/nothing").Code)
}
