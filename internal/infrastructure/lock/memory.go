package lock

import (
	"context"
	"fmt"
)

// MemoryLocker serializa el acceso al libro dentro de un mismo proceso.
// Es un semáforo de capacidad 1 para poder abandonar la espera cuando ctx se cancela.
type MemoryLocker struct {
	sem chan struct{}
}

// NewMemoryLocker construye el bloqueo en memoria.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{sem: make(chan struct{}, 1)}
}

// Lock espera el bloqueo y devuelve la función para liberarlo.
func (l *MemoryLocker) Lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("esperar bloqueo del libro: %w", err)
	}
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("esperar bloqueo del libro: %w", ctx.Err())
	}
}
