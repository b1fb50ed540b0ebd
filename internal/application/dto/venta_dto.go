package dto

// RegistrarVentaRequest body para POST /api/ventas y campos del formulario.
type RegistrarVentaRequest struct {
	Cedula    string `json:"cedula" form:"cedula" validate:"required,max=32"`
	Productos string `json:"productos" form:"productos" validate:"required,max=4096"`
}

// LineaVentaResponse una línea referencia/cantidad de la venta.
type LineaVentaResponse struct {
	Referencia string `json:"referencia"`
	Cantidad   int    `json:"cantidad"`
}

// VentaResponse resultado de una venta registrada.
type VentaResponse struct {
	VentaID    string               `json:"venta_id"`
	Cedula     string               `json:"cedula"`
	Lineas     []LineaVentaResponse `json:"lineas"`
	Fecha      string               `json:"fecha"`
	Notificado bool                 `json:"notificado"`
	Message    string               `json:"message"`
}

// ProductoResponse existencias de un producto.
type ProductoResponse struct {
	Referencia         string `json:"referencia"`
	CantidadDisponible int    `json:"cantidad_disponible"`
}

// RegistroVentaResponse una fila del libro de ventas.
type RegistroVentaResponse struct {
	Cedula     string `json:"cedula"`
	Referencia string `json:"referencia"`
	Cantidad   int    `json:"cantidad"`
	Fecha      string `json:"fecha"`
}

// ListVentasResponse respuesta de GET /api/ventas.
type ListVentasResponse struct {
	Total  int                      `json:"total"`
	Ventas []*RegistroVentaResponse `json:"ventas"`
}

// Resultado estado explícito de una solicitud del formulario (reemplaza los mensajes flash).
type Resultado struct {
	OK      bool
	Mensaje string
}
