package http_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/imaging"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/xiuxiu-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
	apphttp "github.com/jhoicas/xiuxiu-stock/internal/interfaces/http"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre un almacén en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	repo := tablestore.NewRepository(memory.NewBlobStore())
	generator, err := infrapdf.NewShortageReportGenerator("")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC:     stock.NewUseCase(repo, imaging.NewJPEGEncoder(300, 70), logger.Nop()),
		ReconcileUC: stock.NewReconcileUseCase(repo, spreadsheet.NewOrderParser(), generator, time.UTC, logger.Nop()),
	})
	return app
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func initTable(t *testing.T, app *fiber.App) {
	t.Helper()
	resp, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/api/stock/init", nil))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func receiveForm(code, color, vendor, qty string) map[string]string {
	return map[string]string{"code": code, "color": color, "vendor": vendor, "cost": "10.5", "price": "20", "quantity": qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_SinInicializar(t *testing.T) {
	app := buildTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/stock", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.BrowseStockResponse](t, body)
	assert.False(t, list.Initialized)

	resp, body = do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A01", "红", "店1", "1")))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_INITIALIZED", decode[dto.ErrorResponse](t, body).Code)

	initTable(t, app)
	resp, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/stock/init", nil))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "VERSION_CONFLICT", decode[dto.ErrorResponse](t, body).Code)
}

func TestStock_RecibirConsultarYFoto(t *testing.T) {
	app := buildTestApp(t)
	initTable(t, app)

	req := multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A 01", "红", "店1", "2"),
		formFile{field: "photo", name: "a.png", content: pngImage(t)})
	resp, body := do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	res := decode[dto.ReceiveStockResponse](t, body)
	assert.Equal(t, "INSERTED", res.Outcome)
	assert.True(t, res.Record.HasPhoto)

	resp, body = do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A 01", "红", "店1", "3")))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	res = decode[dto.ReceiveStockResponse](t, body)
	assert.Equal(t, "INCREMENTED", res.Outcome)
	assert.Equal(t, 5, res.Record.Quantity)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stock?code=a%2001&include_photos=true", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.BrowseStockResponse](t, body)
	require.Equal(t, 1, list.Total)
	assert.NotEmpty(t, list.Items[0].Photo)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stock/photos/"+url.PathEscape("A 01"), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte{0xFF, 0xD8}), "JPEG")

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stock/photos/Z99", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStock_Validaciones(t *testing.T) {
	app := buildTestApp(t)
	initTable(t, app)

	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A01", "", "店1", "1")))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A01", "红", "店1", "dos")))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	form := receiveForm("A01", "红", "店1", "1")
	form["cost"] = "abc"
	resp, _ = do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", form))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A01", "红", "店1", "1"),
		formFile{field: "photo", name: "a.png", content: []byte("no soy una imagen")}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PARSE_ERROR", decode[dto.ErrorResponse](t, body).Code)
}

func TestStock_Borrar(t *testing.T) {
	app := buildTestApp(t)
	initTable(t, app)
	resp, _ := do(t, app, multipartRequest(t, http.MethodPost, "/api/stock", receiveForm("A01", "红", "店1", "1")))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	target := "/api/stock?code=A01&color=" + url.QueryEscape("红") + "&vendor=" + url.QueryEscape("店1")
	resp, body := do(t, app, httptest.NewRequest(http.MethodDelete, target, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.DeleteStockResponse](t, body).Deleted)

	resp, body = do(t, app, httptest.NewRequest(http.MethodDelete, target, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.DeleteStockResponse](t, body).Deleted)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/stock?code=A01", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	req.Header.Set(apphttp.RequestIDHeader, "abc-123")
	resp, _ := do(t, app, req)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.RequestIDHeader))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stock", nil))
	assert.NotEmpty(t, resp.Header.Get(apphttp.RequestIDHeader))
}
