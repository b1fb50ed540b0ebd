package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/registro-ventas/internal/application/dto"
	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/domain"
)

//go:embed templates/formulario.html
var templatesFS embed.FS

var formularioTmpl = template.Must(template.ParseFS(templatesFS, "templates/formulario.html"))

// Mensajes del formulario.
const (
	MsgClienteNoEncontrado = "⚠️ Cliente no encontrado."
	MsgFormatoIncorrecto   = "⚠️ Formato de productos incorrecto. Usa P001:2,P002:3"
	MsgErrorInterno        = "❌ No se pudo registrar la venta. Intenta de nuevo."
)

// VentaHandler maneja el formulario de registro de ventas y la API JSON equivalente.
type VentaHandler struct {
	registrar *ventas.RegistrarVentaUseCase
	consultas *ventas.ConsultaUseCase
	validate  *validator.Validate
}

// NewVentaHandler construye el handler.
func NewVentaHandler(registrar *ventas.RegistrarVentaUseCase, consultas *ventas.ConsultaUseCase) *VentaHandler {
	return &VentaHandler{registrar: registrar, consultas: consultas, validate: validator.New()}
}

// Formulario GET / muestra el formulario vacío.
func (h *VentaHandler) Formulario(c *fiber.Ctx) error {
	return renderFormulario(c, fiber.StatusOK, nil)
}

// RegistrarFormulario POST / registra la venta y vuelve a mostrar el formulario vacío con el resultado.
func (h *VentaHandler) RegistrarFormulario(c *fiber.Ctx) error {
	out, err := h.registrar.RegistrarVenta(c.Context(), ventas.RegistrarVentaInput{
		Cedula:    c.FormValue("cedula"),
		Productos: c.FormValue("productos"),
	})
	if err != nil {
		return renderFormulario(c, statusFor(err), &dto.Resultado{OK: false, Mensaje: MensajeError(err)})
	}
	return renderFormulario(c, fiber.StatusOK, &dto.Resultado{OK: true, Mensaje: "✅ " + out.Message})
}

// Registrar godoc
// @Summary      Registrar venta
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarVentaRequest  true  "Cédula del cliente y productos en formato P001:2,P002:3"
// @Success      201   {object}  dto.VentaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *VentaHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarVentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cedula y productos son requeridos"})
	}
	out, err := h.registrar.RegistrarVenta(c.Context(), ventas.RegistrarVentaInput{Cedula: in.Cedula, Productos: in.Productos})
	if err != nil {
		return c.Status(statusFor(err)).JSON(dto.ErrorResponse{Code: codeFor(err), Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProductos godoc
// @Summary      Listar existencias de productos
// @Tags         ventas
// @Produce      json
// @Success      200  {array}   dto.ProductoResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/productos [get]
func (h *VentaHandler) ListProductos(c *fiber.Ctx) error {
	list, err := h.consultas.ListProductos(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListVentas godoc
// @Summary      Listar el libro de ventas
// @Tags         ventas
// @Produce      json
// @Param        cedula  query  string  false  "Cédula del cliente; vacío lista todas"
// @Success      200  {object}  dto.ListVentasResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ventas [get]
func (h *VentaHandler) ListVentas(c *fiber.Ctx) error {
	list, err := h.consultas.ListVentas(c.Context(), c.Query("cedula"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ListVentasResponse{Total: len(list), Ventas: list})
}

// MensajeError texto para el usuario según la validación que falló.
func MensajeError(err error) string {
	var unknown *domain.UnknownProductError
	var short *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return MsgClienteNoEncontrado
	case errors.Is(err, domain.ErrInvalidProductFormat):
		return MsgFormatoIncorrecto
	case errors.As(err, &unknown):
		return "⚠️ Código de producto no válido: " + unknown.Referencia
	case errors.As(err, &short):
		return "❌ " + short.Error()
	default:
		return MsgErrorInterno
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrClientNotFound), errors.Is(err, domain.ErrUnknownProductCode):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidProductFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return "CLIENT_NOT_FOUND"
	case errors.Is(err, domain.ErrUnknownProductCode):
		return "UNKNOWN_PRODUCT"
	case errors.Is(err, domain.ErrInvalidProductFormat):
		return "INVALID_PRODUCT_FORMAT"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	default:
		return "INTERNAL"
	}
}

func renderFormulario(c *fiber.Ctx, status int, res *dto.Resultado) error {
	var buf bytes.Buffer
	if err := formularioTmpl.Execute(&buf, res); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
