package excel

import (
	"fmt"

	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
)

var (
	_ repository.ClienteRepository  = (*clienteRepo)(nil)
	_ repository.ProductoRepository = (*productoRepo)(nil)
	_ repository.VentaRepository    = (*ventaRepo)(nil)
)

// clienteRepo lectura de la hoja clientes.
type clienteRepo struct {
	lb *libro
}

// GetByCedula compara la cédula como texto, sin espacios ni el ".0" de una celda decimal.
func (r *clienteRepo) GetByCedula(cedula string) (*entity.Cliente, error) {
	id := normalizarID(cedula)
	if _, ok := r.lb.clientes[id]; !ok {
		return nil, nil
	}
	return &entity.Cliente{Cedula: id}, nil
}

// productoRepo hoja productos; los cambios quedan pendientes hasta que Run guarda.
type productoRepo struct {
	lb *libro
}

// GetByReferencia devuelve una copia del producto o (nil, nil) si no existe.
func (r *productoRepo) GetByReferencia(referencia string) (*entity.Producto, error) {
	fp, ok := r.lb.porRef[referencia]
	if !ok {
		return nil, nil
	}
	p := fp.producto
	return &p, nil
}

// List devuelve copias en el orden de la hoja.
func (r *productoRepo) List() ([]*entity.Producto, error) {
	out := make([]*entity.Producto, 0, len(r.lb.productos))
	for _, fp := range r.lb.productos {
		p := fp.producto
		out = append(out, &p)
	}
	return out, nil
}

// Update registra la nueva cantidad disponible. Nunca acepta existencias negativas.
func (r *productoRepo) Update(producto *entity.Producto) error {
	fp, ok := r.lb.porRef[producto.Referencia]
	if !ok {
		return &domain.UnknownProductError{Referencia: producto.Referencia}
	}
	if producto.CantidadDisponible < 0 {
		return fmt.Errorf("%w: %s quedaría en %d", domain.ErrInsufficientStock, producto.Referencia, producto.CantidadDisponible)
	}
	fp.producto.CantidadDisponible = producto.CantidadDisponible
	fp.modificado = true
	return nil
}

// ventaRepo hoja ventas (solo se agregan filas).
type ventaRepo struct {
	lb *libro
}

// Create agrega una fila pendiente al libro de ventas.
func (r *ventaRepo) Create(venta *entity.RegistroVenta) error {
	v := *venta
	r.lb.nuevas = append(r.lb.nuevas, &v)
	return nil
}

// ListByCedula incluye las filas pendientes del Run en curso.
func (r *ventaRepo) ListByCedula(cedula string) ([]*entity.RegistroVenta, error) {
	cedula = normalizarID(cedula)
	var out []*entity.RegistroVenta
	for _, group := range [][]*entity.RegistroVenta{r.lb.ventas, r.lb.nuevas} {
		for _, v := range group {
			if cedula != "" && v.Cedula != cedula {
				continue
			}
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}
