// Package excel implementa el almacén de datos sobre un libro .xlsx con las hojas
// clientes, productos y ventas.
//
// Cada Run carga el libro completo, ejecuta el callback y, solo si este retorna nil y hubo
// cambios, escribe el libro en un archivo temporal del mismo directorio y lo renombra sobre
// el original. Todo ocurre mientras se mantiene el Locker, así que "leer existencias, validar,
// descontar y guardar" es indivisible frente a otros registros de venta.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// Ensure Store implements ventas.TxRunner.
var _ ventas.TxRunner = (*Store)(nil)

// Nombres de hojas y columnas del libro.
const (
	HojaClientes  = "clientes"
	HojaProductos = "productos"
	HojaVentas    = "ventas"

	ColCedula             = "cedula"
	ColReferencia         = "referencia"
	ColCantidadDisponible = "cantidad_disponible"
	ColCantidad           = "cantidad"
	ColFecha              = "fecha"
)

// columnasVentas encabezado de la hoja ventas cuando se crea.
var columnasVentas = []string{ColCedula, ColReferencia, ColCantidad, ColFecha}

// Locker sección crítica alrededor de carga-validación-guardado.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Store almacén del libro de datos.
type Store struct {
	path   string
	locker Locker
	log    *logger.Logger
}

// Open verifica que el libro exista y tenga las hojas clientes y productos con sus columnas.
// Cualquier falla se reporta como domain.ErrStoreUnavailable: el servicio no debe arrancar sin él.
func Open(path string, locker Locker, log *logger.Logger) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	s := &Store{path: path, locker: locker, log: log}
	lb, err := s.load()
	if err != nil {
		return nil, err
	}
	lb.close()
	return s, nil
}

// Path ruta del libro.
func (s *Store) Path() string { return s.path }

// Run ejecuta fn bajo el bloqueo y guarda el libro si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	ventaRepo repository.VentaRepository,
) error) error {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	lb, err := s.load()
	if err != nil {
		return err
	}
	defer lb.close()

	if err := fn(&clienteRepo{lb: lb}, &productoRepo{lb: lb}, &ventaRepo{lb: lb}); err != nil {
		return err
	}
	if !lb.dirty() {
		return nil
	}
	if err := lb.apply(); err != nil {
		return err
	}
	return s.save(lb.f)
}

// View ejecuta fn sobre una copia recién cargada del libro; nunca guarda.
// No toma el bloqueo: el guardado reemplaza el archivo con un rename atómico.
func (s *Store) View(ctx context.Context, fn func(
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	ventaRepo repository.VentaRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lb, err := s.load()
	if err != nil {
		return err
	}
	defer lb.close()
	return fn(&clienteRepo{lb: lb}, &productoRepo{lb: lb}, &ventaRepo{lb: lb})
}

func (s *Store) load() (*libro, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %w", domain.ErrStoreUnavailable, s.path, err)
	}
	lb, err := leerLibro(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return lb, nil
}

// save escribe a un temporal en el mismo directorio y lo renombra sobre el libro.
func (s *Store) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".registro-ventas-*.xlsx")
	if err != nil {
		return fmt.Errorf("crear temporal del libro: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("crear temporal del libro: %w", err)
	}
	if err := f.SaveAs(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("guardar libro: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("reemplazar libro: %w", err)
	}
	s.log.Debug().Str("path", s.path).Msg("libro guardado")
	return nil
}
