package ventas

import (
	"context"
	"sync"

	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
)

// memStore TxRunner en memoria: cada Run trabaja sobre una copia y solo la publica si fn retorna nil.
type memStore struct {
	mu        sync.Mutex
	clientes  map[string]bool
	productos []entity.Producto
	ventas    []entity.RegistroVenta
}

func newMemStore(clientes []string, productos ...entity.Producto) *memStore {
	s := &memStore{clientes: make(map[string]bool)}
	for _, c := range clientes {
		s.clientes[c] = true
	}
	s.productos = append(s.productos, productos...)
	return s
}

type memTx struct {
	clientes  map[string]bool
	productos []entity.Producto
	ventas    []entity.RegistroVenta
}

func (s *memStore) snapshot() *memTx {
	return &memTx{
		clientes:  s.clientes,
		productos: append([]entity.Producto(nil), s.productos...),
		ventas:    append([]entity.RegistroVenta(nil), s.ventas...),
	}
}

func (s *memStore) Run(ctx context.Context, fn func(
	repository.ClienteRepository, repository.ProductoRepository, repository.VentaRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.snapshot()
	if err := fn(tx, tx.productoRepo(), tx.ventaRepo()); err != nil {
		return err
	}
	s.productos = tx.productos
	s.ventas = tx.ventas
	return nil
}

func (s *memStore) View(ctx context.Context, fn func(
	repository.ClienteRepository, repository.ProductoRepository, repository.VentaRepository,
) error) error {
	s.mu.Lock()
	tx := s.snapshot()
	s.mu.Unlock()
	return fn(tx, tx.productoRepo(), tx.ventaRepo())
}

func (s *memStore) stock(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.productos {
		if p.Referencia == ref {
			return p.CantidadDisponible
		}
	}
	return -1
}

func (s *memStore) registros() []entity.RegistroVenta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.RegistroVenta(nil), s.ventas...)
}

func (tx *memTx) GetByCedula(cedula string) (*entity.Cliente, error) {
	if !tx.clientes[cedula] {
		return nil, nil
	}
	return &entity.Cliente{Cedula: cedula}, nil
}

type memProductoRepo struct{ tx *memTx }
type memVentaRepo struct{ tx *memTx }

func (tx *memTx) productoRepo() *memProductoRepo { return &memProductoRepo{tx: tx} }
func (tx *memTx) ventaRepo() *memVentaRepo       { return &memVentaRepo{tx: tx} }

func (r *memProductoRepo) GetByReferencia(ref string) (*entity.Producto, error) {
	for _, p := range r.tx.productos {
		if p.Referencia == ref {
			c := p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductoRepo) List() ([]*entity.Producto, error) {
	out := make([]*entity.Producto, 0, len(r.tx.productos))
	for _, p := range r.tx.productos {
		c := p
		out = append(out, &c)
	}
	return out, nil
}

func (r *memProductoRepo) Update(p *entity.Producto) error {
	for i := range r.tx.productos {
		if r.tx.productos[i].Referencia == p.Referencia {
			if p.CantidadDisponible < 0 {
				return domain.ErrInsufficientStock
			}
			r.tx.productos[i].CantidadDisponible = p.CantidadDisponible
			return nil
		}
	}
	return &domain.UnknownProductError{Referencia: p.Referencia}
}

func (r *memVentaRepo) Create(v *entity.RegistroVenta) error {
	r.tx.ventas = append(r.tx.ventas, *v)
	return nil
}

func (r *memVentaRepo) ListByCedula(cedula string) ([]*entity.RegistroVenta, error) {
	var out []*entity.RegistroVenta
	for _, v := range r.tx.ventas {
		if cedula != "" && v.Cedula != cedula {
			continue
		}
		c := v
		out = append(out, &c)
	}
	return out, nil
}

// fakeNotifier registra las notificaciones recibidas; err o block simulan fallas del servidor de correo.
type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	block  bool
	recibo []Notificacion
}

func (f *fakeNotifier) NotificarVenta(ctx context.Context, n Notificacion) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recibo = append(f.recibo, n)
	return f.err
}

func (f *fakeNotifier) enviadas() []Notificacion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notificacion(nil), f.recibo...)
}
