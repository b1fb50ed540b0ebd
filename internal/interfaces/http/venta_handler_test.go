package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/registro-ventas/internal/application/dto"
	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/excel"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/lock"
	apphttp "github.com/jhoicas/registro-ventas/internal/interfaces/http"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type nopNotifier struct{}

func (nopNotifier) NotificarVenta(context.Context, ventas.Notificacion) error { return nil }

// buildTestApp arma la aplicación con un libro temporal: clientes 123, productos P001=5 y P002=2.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datos.xlsx")
	require.NoError(t, excel.CrearLibro(path,
		[]entity.Cliente{{Cedula: "123"}},
		[]entity.Producto{
			{Referencia: "P001", CantidadDisponible: 5},
			{Referencia: "P002", CantidadDisponible: 2},
		}))
	store, err := excel.Open(path, lock.NewMemoryLocker(), logger.Nop())
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RegistrarVenta: ventas.NewRegistrarVentaUseCase(store, nopNotifier{}, logger.Nop(), time.Second),
		Consultas:      ventas.NewConsultaUseCase(store),
	})
	return app
}

func postForm(t *testing.T, app *fiber.App, cedula, productos string) (int, string) {
	t.Helper()
	form := url.Values{"cedula": {cedula}, "productos": {productos}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ventas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func stock(t *testing.T, app *fiber.App) map[string]int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/productos", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ProductoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	out := make(map[string]int, len(list))
	for _, p := range list {
		out[p.Referencia] = p.CantidadDisponible
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Formulario
// ──────────────────────────────────────────────────────────────────────────────

func TestFormulario_Vacio(t *testing.T) {
	app := buildTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `name="cedula"`)
	assert.Contains(t, string(body), `name="productos"`)
}

func TestFormulario_VentaExitosa(t *testing.T) {
	app := buildTestApp(t)
	status, body := postForm(t, app, "123", "P001:5")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Venta registrada y notificación por correo procesada.")
	assert.Equal(t, 0, stock(t, app)["P001"])
}

func TestFormulario_Errores(t *testing.T) {
	casos := []struct {
		nombre    string
		cedula    string
		productos string
		status    int
		mensaje   string
	}{
		{"cliente inexistente", "999", "P001:1", http.StatusNotFound, "Cliente no encontrado."},
		{"formato incorrecto", "123", "P001-5", http.StatusBadRequest, "Formato de productos incorrecto. Usa P001:2,P002:3"},
		{"producto desconocido", "123", "P999:1", http.StatusNotFound, "Código de producto no válido: P999"},
		{"stock insuficiente", "123", "P002:3", http.StatusConflict, "No hay suficiente inventario de P002 (hay 2, pidió 3)"},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			app := buildTestApp(t)
			status, body := postForm(t, app, tc.cedula, tc.productos)
			assert.Equal(t, tc.status, status)
			assert.Contains(t, strings.ToLower(body), strings.ToLower(tc.mensaje))
			assert.Equal(t, map[string]int{"P001": 5, "P002": 2}, stock(t, app), "el stock no debe cambiar")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// API JSON
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RegistrarVenta(t *testing.T) {
	app := buildTestApp(t)
	resp := postJSON(t, app, `{"cedula":"123","productos":"P001:2,P002:1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.VentaResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "123", out.Cedula)
	assert.Len(t, out.Lineas, 2)
	assert.True(t, out.Notificado)
	assert.Equal(t, map[string]int{"P001": 3, "P002": 1}, stock(t, app))

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ventas?cedula=123", nil), -1)
	require.NoError(t, err)
	var ledger dto.ListVentasResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&ledger))
	assert.Equal(t, 2, ledger.Total)
	assert.Equal(t, out.Fecha, ledger.Ventas[0].Fecha)
}

func TestAPI_CodigosDeError(t *testing.T) {
	casos := []struct {
		body   string
		status int
		code   string
	}{
		{`{"cedula":"999","productos":"P001:1"}`, http.StatusNotFound, "CLIENT_NOT_FOUND"},
		{`{"cedula":"123","productos":"P001"}`, http.StatusBadRequest, "INVALID_PRODUCT_FORMAT"},
		{`{"cedula":"123","productos":"X:1"}`, http.StatusNotFound, "UNKNOWN_PRODUCT"},
		{`{"cedula":"123","productos":"P001:6"}`, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{`{"cedula":"","productos":"P001:1"}`, http.StatusBadRequest, "VALIDATION"},
		{`{"cedula":`, http.StatusBadRequest, "INVALID_BODY"},
	}
	app := buildTestApp(t)
	for _, tc := range casos {
		resp := postJSON(t, app, tc.body)
		assert.Equal(t, tc.status, resp.StatusCode, tc.body)
		var e dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, tc.code, e.Code, tc.body)
	}
}

func TestMensajeError(t *testing.T) {
	assert.Equal(t, apphttp.MsgClienteNoEncontrado, apphttp.MensajeError(domain.ErrClientNotFound))
	assert.Equal(t, apphttp.MsgFormatoIncorrecto, apphttp.MensajeError(domain.ErrInvalidProductFormat))
	assert.Equal(t, apphttp.MsgErrorInterno, apphttp.MensajeError(errors.New("disco lleno")))
}

// La documentación publicada en /docs carga docs/swagger.json sin interferir con la API.
func TestSwaggerUI(t *testing.T) {
	app := buildTestApp(t)
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "../../../docs/swagger.json",
		Path:     "docs",
		Title:    "Registro de Ventas",
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "swagger")

	assert.Equal(t, map[string]int{"P001": 5, "P002": 2}, stock(t, app))
}
