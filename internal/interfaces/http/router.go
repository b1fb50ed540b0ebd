package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/registro-ventas/internal/application/ventas"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistrarVenta *ventas.RegistrarVentaUseCase
	Consultas      *ventas.ConsultaUseCase
}

// Router registra el formulario y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	ventaHandler := NewVentaHandler(deps.RegistrarVenta, deps.Consultas)

	// Formulario (público)
	app.Get("/", ventaHandler.Formulario)
	app.Post("/", ventaHandler.RegistrarFormulario)

	api := app.Group("/api")
	api.Post("/ventas", ventaHandler.Registrar)
	api.Get("/ventas", ventaHandler.ListVentas)
	api.Get("/productos", ventaHandler.ListProductos)
}
