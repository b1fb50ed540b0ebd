package repository

import "github.com/jhoicas/registro-ventas/internal/domain/entity"

// ClienteRepository define el puerto de lectura para la hoja clientes.
type ClienteRepository interface {
	// GetByCedula devuelve el cliente con la cédula tal como está registrada, o (nil, nil) si no existe.
	GetByCedula(cedula string) (*entity.Cliente, error)
}
