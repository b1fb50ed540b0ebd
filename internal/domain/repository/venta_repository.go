package repository

import "github.com/jhoicas/registro-ventas/internal/domain/entity"

// VentaRepository define el puerto del libro de ventas (append-only).
type VentaRepository interface {
	Create(venta *entity.RegistroVenta) error
	// ListByCedula devuelve las filas del cliente; cedula vacía devuelve todo el libro.
	ListByCedula(cedula string) ([]*entity.RegistroVenta, error)
}
