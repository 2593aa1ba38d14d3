package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-fit/internal/catalog"
	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/service"
	"vehicle-fit/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.NewFeasibilityService(catalog.Default(), session.NewMemoryStore(time.Hour))
	return NewApp(AppConfig{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		BodyLimit:    1024 * 1024,
	}, svc)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[sessionResponse](t, resp).ID
}

var crate = map[string]any{"length": "2", "width": "2", "height": "2,5", "weight": 500, "quantity": "1"}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/healthz", "/actuator/health"} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "UP", body["status"])
	}
}

func TestListVehicles(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/vehicles", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[struct {
		Vehicles   []domain.VehicleSpec `json:"vehicles"`
		Names      []string             `json:"names"`
		Envelope   domain.Envelope      `json:"envelope"`
		FillFactor float64              `json:"fill_factor"`
	}](t, resp)
	assert.Len(t, body.Vehicles, 22)
	assert.Len(t, body.Names, 22)
	assert.Equal(t, 2.6, body.Envelope.WidthM)
	assert.Equal(t, 0.9, body.FillFactor)
}

func TestStatelessCompute(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/feasibility/compute", map[string]any{
		"loads":    []any{crate},
		"vehicles": []string{"Veículo Toco Baú"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	eval := decode[domain.Evaluation](t, resp)
	require.Len(t, eval.Results, 1)
	assert.Equal(t, 28.06, eval.Results[0].VolumeUtilizationPct)
	assert.Equal(t, 8.33, eval.Results[0].WeightUtilizationPct)
	assert.Equal(t, 20.17, eval.Results[0].Viability)
}

func TestComputeErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		body    any
		status  int
		fields  []string
		reasons []domain.Constraint
	}{
		{
			name:   "no loads",
			body:   map[string]any{},
			status: fiber.StatusUnprocessableEntity,
		},
		{
			name:   "invalid numbers",
			body:   map[string]any{"loads": []any{map[string]any{"length": "abc", "width": "1", "height": "0", "weight": "1"}}},
			status: fiber.StatusBadRequest,
			fields: []string{domain.FieldLength, domain.FieldHeight},
		},
		{
			name:    "wider than every vehicle",
			body:    map[string]any{"loads": []any{map[string]any{"length": "1", "width": "3", "height": "1", "weight": "1"}}},
			status:  fiber.StatusUnprocessableEntity,
			reasons: []domain.Constraint{domain.ConstraintWidth},
		},
		{
			name:   "unknown vehicle",
			body:   map[string]any{"loads": []any{crate}, "vehicles": []string{"Spaceship"}},
			status: fiber.StatusBadRequest,
		},
		{
			name:    "selected vehicle too small",
			body:    map[string]any{"loads": []any{crate}, "vehicles": []string{"Fiorino"}},
			status:  fiber.StatusUnprocessableEntity,
			reasons: []domain.Constraint{domain.ConstraintLength, domain.ConstraintWidth, domain.ConstraintHeight, domain.ConstraintVolume},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/v1/feasibility/compute", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode[domain.ErrorResponse](t, resp)
			assert.Equal(t, tt.status, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, tt.fields, body.Error.Fields)
			assert.Equal(t, tt.reasons, body.Error.Reasons)
		})
	}
}

func TestComputeRejectsMalformedJSON(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feasibility/compute", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/api/v1/sessions/" + id

	resp := doJSON(t, app, http.MethodPost, base+"/compute", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, base+"/report.xlsx", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, base+"/loads", crate)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, base+"/loads", map[string]any{"length": "1", "width": "1", "height": "1", "weight": "100", "quantity": 2})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	sess := decode[sessionResponse](t, resp)
	require.Len(t, sess.Loads, 2)
	assert.Equal(t, 3, sess.Totals.Quantity)
	assert.Equal(t, 700.0, sess.Totals.WeightKg)

	resp = doJSON(t, app, http.MethodPost, base+"/loads", map[string]any{"length": "19", "width": "1", "height": "1", "weight": "1"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, base+"/compute", map[string]any{"vehicles": []string{"veículo toco baú"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	eval := decode[domain.Evaluation](t, resp)
	require.Len(t, eval.Results, 1)
	assert.True(t, eval.Results[0].Recommended)

	resp = doJSON(t, app, http.MethodGet, base, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sess = decode[sessionResponse](t, resp)
	require.NotNil(t, sess.LastEvaluation)
	assert.Equal(t, eval.Results, sess.LastEvaluation.Results)

	resp = doJSON(t, app, http.MethodDelete, base+"/loads/0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sess = decode[sessionResponse](t, resp)
	assert.Len(t, sess.Loads, 1)

	resp = doJSON(t, app, http.MethodDelete, base+"/loads/9", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, base+"/loads/first", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, base+"/loads", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[sessionResponse](t, resp).Loads)

	resp = doJSON(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, base, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionComputeRejectsInlineLoads(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions/"+id+"/compute", map[string]any{"loads": []any{crate}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func uploadFile(t *testing.T, app *fiber.App, path, filename string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestImportAndReports(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	base := "/api/v1/sessions/" + id

	csv := "comprimento;largura;altura;peso;quantidade\n1,2;0,8;1;250;4\n2;1;1,5;400;1\n"
	resp := uploadFile(t, app, base+"/loads/import", "loads.csv", []byte(csv))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sess := decode[sessionResponse](t, resp)
	assert.Len(t, sess.Loads, 2)
	assert.NotEmpty(t, sess.Warnings)

	resp = doJSON(t, app, http.MethodPost, base+"/compute", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, base+"/report.xlsx", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "feasible_vehicles.xlsx")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Feasible Vehicles", "Loads"}, f.GetSheetList())
	require.NoError(t, f.Close())

	resp = doJSON(t, app, http.MethodGet, base+"/report.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	data, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestImportErrors(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)
	path := "/api/v1/sessions/" + id + "/loads/import"

	resp := uploadFile(t, app, path, "loads.csv", []byte("1,1,1,10,1\nx,1,1,10,1\n"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[domain.ErrorResponse](t, resp)
	assert.Equal(t, "import failed", body.Error.Message)

	resp = uploadFile(t, app, path, "loads.csv", []byte("1,1,4,10,1\n"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions/does-not-exist/loads", crate)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode[domain.ErrorResponse](t, resp)
	assert.Equal(t, fiber.StatusNotFound, body.Error.Code)
}

func TestRequestSizeLimiter(t *testing.T) {
	svc := service.NewFeasibilityService(catalog.Default(), session.NewMemoryStore(time.Hour))
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestSizeLimiter(16))
	SetupRoutes(app, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feasibility/compute", strings.NewReader(strings.Repeat(" ", 64)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodGet, "/healthz", nil)

	resp := doJSON(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `http_requests_total{method="GET",path="/healthz",status="200"}`)
}
