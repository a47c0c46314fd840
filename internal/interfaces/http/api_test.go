package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/bootstrap"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/rentabilidad-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/rentabilidad-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

var allCaps = []string{pkgjwt.CapUpload, pkgjwt.CapViewAll, pkgjwt.CapDelete, pkgjwt.CapUseAI}

func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc, err := bootstrap.NewServices(context.Background(), bootstrap.MemoryRepositories(memory.NewStore()), bootstrap.Options{
		Limits:  ingest.Limits{MaxFileBytes: 10 << 20, MaxRows: 1000},
		Metrics: metrics.NewIngestRecorder(reg),
	})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ingest:      svc.Ingest,
		Batches:     svc.Batches,
		Dashboard:   svc.Dashboard,
		Narrative:   svc.Narrative,
		Report:      svc.Report,
		JWTSecret:   testJWTSecret,
		UploadDir:   t.TempDir(),
		ServiceName: "rentabilidad-api",
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPRecorder(reg),
	})
	return app
}

func bearer(t *testing.T, userID string, caps ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testIssuer, caps, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	write := func(sheet string, rows [][]any) {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	require.NoError(t, f.SetSheetName("Sheet1", ingest.SheetProducts))
	for _, name := range []string{ingest.SheetCustomers, ingest.SheetSales} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	write(ingest.SheetProducts, [][]any{
		{"ProductID", "ProductName", "BU", "Division", "Industry"},
		{"P1", "Widget", "BU1", "Div1", "Ind1"},
		{"P2", "Gadget", "BU1", "Div2", "Ind1"},
	})
	write(ingest.SheetCustomers, [][]any{
		{"CustomerID", "CustomerName", "Region", "Province", "District", "Industry", "ExecutiveName", "Email", "PhoneNumber"},
		{"C1", "Acme", "North", "Hanoi", "Ba Dinh", "Retail", "Ana", "a@acme.com", "111"},
		{"C2", "Beta", "South", "Can Tho", "Ninh Kieu", "Retail", "Luis", "b@beta.com", "222"},
	})
	write(ingest.SheetSales, [][]any{
		{"TransactionID", "Date", "ProductID", "CustomerID", "ExecutiveID", "ScenarioName", "Quantity", "UnitPrice", "Revenue", "COGS"},
		{"T1", "2024-01-15", "P1", "C1", "", "Actual", 10, 5, 50, 30},
		{"T2", "2024-02-10", "P2", "C2", "", "Actual", 2, 25, 50, 10},
		{"T3", "2024-02-10", "P2", "C2", "", "Budget", 2, 30, 60, 20},
	})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, name string, content []byte, auth string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, auth)
	return req
}

func call(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func get(t *testing.T, app *fiber.App, path, auth string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	return call(t, app, req)
}

func uploadOK(t *testing.T, app *fiber.App, auth string) dto.IngestResponse {
	t.Helper()
	status, body := call(t, app, uploadRequest(t, "ventas.xlsx", workbook(t), auth))
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.IngestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out.Success, out.Message)
	require.NotNil(t, out.Data)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga y lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CargaListadoYBorrado(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)

	out := uploadOK(t, app, auth)
	assert.Equal(t, 2, out.Data.Products)
	assert.Equal(t, 2, out.Data.Customers)
	assert.Equal(t, 3, out.Data.Transactions)
	assert.Equal(t, "160", out.Data.Revenue.String())

	status, body := get(t, app, "/api/batches", auth)
	require.Equal(t, http.StatusOK, status)
	var list dto.BatchListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, out.Data.BatchID, list.Items[0].ID)
	assert.Equal(t, "ventas.xlsx", list.Items[0].FileName)
	assert.Equal(t, "ana", list.Items[0].UploadedBy)

	path := "/api/batches/" + strconv.FormatInt(out.Data.BatchID, 10)
	status, _ = get(t, app, path, auth)
	assert.Equal(t, http.StatusOK, status)

	del := httptest.NewRequest(http.MethodDelete, path, nil)
	del.Header.Set(fiber.HeaderAuthorization, auth)
	status, body = call(t, app, del)
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = get(t, app, path, auth)
	assert.Equal(t, http.StatusNotFound, status, "un lote eliminado ya no se encuentra")

	// Los hechos del lote eliminado dejan de contar.
	status, body = get(t, app, "/api/dashboard/kpis", auth)
	require.Equal(t, http.StatusOK, status)
	var kpis dto.KPIDTO
	require.NoError(t, json.Unmarshal(body, &kpis))
	assert.True(t, kpis.TotalRevenue.IsZero())
	assert.Zero(t, kpis.TotalTransactions)
}

func TestAPI_SinViewAllSoloVeSusLotes(t *testing.T) {
	app := newTestAPI(t)
	uploadOK(t, app, bearer(t, "ana", pkgjwt.CapUpload))

	status, body := get(t, app, "/api/batches", bearer(t, "luis"))
	require.Equal(t, http.StatusOK, status)
	var list dto.BatchListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Items)

	status, body = get(t, app, "/api/batches", bearer(t, "luis", pkgjwt.CapViewAll))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
}

func TestAPI_CargaSinPermiso_Retorna403(t *testing.T) {
	app := newTestAPI(t)
	status, _ := call(t, app, uploadRequest(t, "ventas.xlsx", workbook(t), bearer(t, "ana", pkgjwt.CapViewAll)))
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_CargaExtensionInvalida_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	status, body := call(t, app, uploadRequest(t, "ventas.csv", []byte("a,b"), bearer(t, "ana", allCaps...)))
	assert.Equal(t, http.StatusBadRequest, status)

	var out dto.IngestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)
}

func TestAPI_CargaSinArchivo_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ana", allCaps...))
	status, body := call(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Seleccione un archivo")
}

func TestAPI_IDDeLoteInvalido_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	status, _ := get(t, app, "/api/batches/abc", bearer(t, "ana", allCaps...))
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Graficos(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)
	uploadOK(t, app, auth)

	for _, chart := range []string{"revenue-by-product", "revenue-by-month", "margin-by-product", "revenue-by-region", "revenue-by-province"} {
		t.Run(chart, func(t *testing.T) {
			status, body := get(t, app, "/api/dashboard/charts/"+chart, auth)
			require.Equal(t, http.StatusOK, status, string(body))
			var out struct {
				Success bool             `json:"success"`
				Chart   string           `json:"chart"`
				Data    []map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(body, &out))
			assert.True(t, out.Success)
			assert.Equal(t, chart, out.Chart)
			assert.NotEmpty(t, out.Data)
		})
	}
}

func TestAPI_GraficoDesconocido_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	status, body := get(t, app, "/api/dashboard/charts/pie-de-todo", bearer(t, "ana"))
	assert.Equal(t, http.StatusBadRequest, status)

	var out dto.ChartResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)
}

func TestAPI_KPIs(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)
	uploadOK(t, app, auth)

	status, body := get(t, app, "/api/dashboard/kpis", auth)
	require.Equal(t, http.StatusOK, status)
	var kpis dto.KPIDTO
	require.NoError(t, json.Unmarshal(body, &kpis))
	assert.Equal(t, "100", kpis.TotalRevenue.String(), "solo escenario Actual")
	assert.Equal(t, 2, kpis.TotalTransactions)
	assert.Equal(t, 2, kpis.ActiveCustomers)
	assert.Equal(t, "60", kpis.BudgetRevenue.String())
	assert.True(t, kpis.PriorYearEstimate)
}

func TestAPI_InsightsPorReglas(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)
	uploadOK(t, app, auth)

	status, body := get(t, app, "/api/dashboard/insights/revenue-by-product", auth)
	require.Equal(t, http.StatusOK, status)
	var out dto.InsightResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.Equal(t, "rules", out.Source)
	assert.NotEmpty(t, out.Insights)
}

func TestAPI_InsightsIA_SinProveedorUsaReglas(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)
	uploadOK(t, app, auth)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/insights/revenue-by-month/ai", nil)
	req.Header.Set(fiber.HeaderAuthorization, auth)
	status, body := call(t, app, req)
	require.Equal(t, http.StatusOK, status)

	var out dto.InsightResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "rules", out.Source)
	assert.True(t, out.Fallback)
}

func TestAPI_InsightsIA_SinPermiso_Retorna403(t *testing.T) {
	app := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/insights/revenue-by-month/ai", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "ana", pkgjwt.CapUpload))
	status, _ := call(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_ReportePDF(t *testing.T) {
	app := newTestAPI(t)
	auth := bearer(t, "ana", allCaps...)
	uploadOK(t, app, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/report.pdf", nil)
	req.Header.Set(fiber.HeaderAuthorization, auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	status, body := get(t, newTestAPI(t), "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestAPI_Metrics(t *testing.T) {
	app := newTestAPI(t)
	uploadOK(t, app, bearer(t, "ana", allCaps...))
	get(t, app, "/health", "")

	status, body := get(t, app, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "rentabilidad_ingest_batches_total")
	assert.Contains(t, string(body), "rentabilidad_http_requests_total")
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	status, _ := get(t, newTestAPI(t), "/api/dashboard/kpis", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

