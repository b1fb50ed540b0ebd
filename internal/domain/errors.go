package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrClientNotFound       = errors.New("cliente no encontrado")
	ErrInvalidProductFormat = errors.New("formato de productos incorrecto")
	ErrUnknownProductCode   = errors.New("código de producto no válido")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrNotificationFailed   = errors.New("no se pudo enviar la notificación")
	ErrStoreUnavailable     = errors.New("almacén de datos no disponible")
)

// UnknownProductError identifica la primera referencia que no existe en la hoja productos.
type UnknownProductError struct {
	Referencia string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownProductCode.Error(), e.Referencia)
}

func (e *UnknownProductError) Unwrap() error { return ErrUnknownProductCode }

// InsufficientStockError describe el primer producto sin existencias suficientes.
type InsufficientStockError struct {
	Referencia string
	Disponible int
	Solicitado int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("no hay suficiente inventario de %s (hay %d, pidió %d)", e.Referencia, e.Disponible, e.Solicitado)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
