package repository

import "github.com/jhoicas/registro-ventas/internal/domain/entity"

// ProductoRepository define el puerto de persistencia para Producto (DIP).
// GetByReferencia devuelve (nil, nil) si la referencia no existe.
type ProductoRepository interface {
	GetByReferencia(referencia string) (*entity.Producto, error)
	List() ([]*entity.Producto, error)
	Update(producto *entity.Producto) error
}
