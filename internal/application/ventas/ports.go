package ventas

import (
	"context"
	"time"

	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios atados al libro de datos.
// Run es la sección crítica del registro de ventas: carga, fn y guardado ocurren bajo un único bloqueo
// y los cambios solo se persisten si fn retorna nil. View es de solo lectura y nunca guarda.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		clienteRepo repository.ClienteRepository,
		productoRepo repository.ProductoRepository,
		ventaRepo repository.VentaRepository,
	) error) error
	View(ctx context.Context, fn func(
		clienteRepo repository.ClienteRepository,
		productoRepo repository.ProductoRepository,
		ventaRepo repository.VentaRepository,
	) error) error
}

// Notificacion resumen de una venta ya confirmada.
type Notificacion struct {
	VentaID string
	Cedula  string
	Lineas  []entity.LineaVenta
	Fecha   time.Time
}

// Notifier envía el aviso de una venta registrada. Debe respetar la cancelación de ctx.
type Notifier interface {
	NotificarVenta(ctx context.Context, n Notificacion) error
}
