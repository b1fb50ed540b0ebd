package ventas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/registro-ventas/internal/application/dto"
	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// MensajeVentaRegistrada se muestra al usuario cuando la venta quedó guardada.
// La notificación se intenta siempre; su resultado solo se registra en el log.
const MensajeVentaRegistrada = "Venta registrada y notificación por correo procesada."

// DefaultNotifyTimeout límite para el envío de la notificación si no se configura otro.
const DefaultNotifyTimeout = 10 * time.Second

// RegistrarVentaUseCase valida cliente y productos, descuenta existencias y agrega filas al libro
// de ventas dentro de la sección crítica del TxRunner. La notificación se envía después de liberarla.
type RegistrarVentaUseCase struct {
	txRunner      TxRunner
	notifier      Notifier
	log           *logger.Logger
	notifyTimeout time.Duration
	now           func() time.Time
}

// NewRegistrarVentaUseCase construye el caso de uso.
func NewRegistrarVentaUseCase(txRunner TxRunner, notifier Notifier, log *logger.Logger, notifyTimeout time.Duration) *RegistrarVentaUseCase {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	return &RegistrarVentaUseCase{
		txRunner:      txRunner,
		notifier:      notifier,
		log:           log,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
	}
}

// RegistrarVentaInput entrada del caso de uso (tal como llega del formulario).
type RegistrarVentaInput struct {
	Cedula    string
	Productos string
}

// RegistrarVenta aplica la venta completa o no aplica nada.
// Errores posibles: domain.ErrClientNotFound, domain.ErrInvalidProductFormat,
// *domain.UnknownProductError, *domain.InsufficientStockError o un error del almacén.
func (uc *RegistrarVentaUseCase) RegistrarVenta(ctx context.Context, in RegistrarVentaInput) (*dto.VentaResponse, error) {
	cedula := strings.TrimSpace(in.Cedula)
	raw := strings.TrimSpace(in.Productos)
	ventaID := uuid.New().String()

	var (
		lineas []entity.LineaVenta
		fecha  time.Time
	)
	err := uc.txRunner.Run(ctx, func(
		clienteRepo repository.ClienteRepository,
		productoRepo repository.ProductoRepository,
		ventaRepo repository.VentaRepository,
	) error {
		cliente, err := clienteRepo.GetByCedula(cedula)
		if err != nil {
			return err
		}
		if cliente == nil {
			return domain.ErrClientNotFound
		}
		// El libro de ventas guarda la cédula registrada, no la escrita en el formulario.
		cedula = cliente.Cedula

		var productos map[string]*entity.Producto
		lineas, productos, err = resolverLineas(productoRepo, raw)
		if err != nil {
			return err
		}

		// Todas las existencias se verifican antes de tocar cualquier fila.
		for _, l := range lineas {
			p := productos[l.Referencia]
			if !p.Alcanza(l.Cantidad) {
				return &domain.InsufficientStockError{
					Referencia: l.Referencia,
					Disponible: p.CantidadDisponible,
					Solicitado: l.Cantidad,
				}
			}
		}

		fecha = uc.now()
		for _, l := range lineas {
			p := productos[l.Referencia]
			p.CantidadDisponible -= l.Cantidad
			if err := productoRepo.Update(p); err != nil {
				return err
			}
			if err := ventaRepo.Create(&entity.RegistroVenta{
				Cedula:     cedula,
				Referencia: l.Referencia,
				Cantidad:   l.Cantidad,
				Fecha:      fecha,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logRechazo(cedula, ventaID, err)
		return nil, err
	}

	uc.log.Info().
		Str("venta_id", ventaID).
		Str("cedula", cedula).
		Int("lineas", len(lineas)).
		Msg("venta registrada")

	notificado := uc.notificar(ctx, Notificacion{
		VentaID: ventaID,
		Cedula:  cedula,
		Lineas:  lineas,
		Fecha:   fecha,
	})

	out := &dto.VentaResponse{
		VentaID:    ventaID,
		Cedula:     cedula,
		Lineas:     make([]dto.LineaVentaResponse, 0, len(lineas)),
		Fecha:      fecha.Format(entity.FormatoFecha),
		Notificado: notificado,
		Message:    MensajeVentaRegistrada,
	}
	for _, l := range lineas {
		out.Lineas = append(out.Lineas, dto.LineaVentaResponse{Referencia: l.Referencia, Cantidad: l.Cantidad})
	}
	return out, nil
}

// resolverLineas interpreta la lista en orden y verifica cada referencia contra la hoja productos.
// El primer elemento inválido, sea por formato o por referencia desconocida, corta el proceso.
func resolverLineas(productoRepo repository.ProductoRepository, raw string) ([]entity.LineaVenta, map[string]*entity.Producto, error) {
	var lineas []entity.LineaVenta
	pos := make(map[string]int)
	productos := make(map[string]*entity.Producto)
	for _, item := range SepararProductos(raw) {
		l, err := ParseLinea(item)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := productos[l.Referencia]; !ok {
			p, err := productoRepo.GetByReferencia(l.Referencia)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, &domain.UnknownProductError{Referencia: l.Referencia}
			}
			productos[l.Referencia] = p
		}
		lineas = agregarLinea(lineas, pos, l)
	}
	return lineas, productos, nil
}

// notificar envía el aviso con un límite de tiempo. Una falla no revierte la venta.
func (uc *RegistrarVentaUseCase) notificar(ctx context.Context, n Notificacion) bool {
	ctx, cancel := context.WithTimeout(ctx, uc.notifyTimeout)
	defer cancel()

	if err := uc.notifier.NotificarVenta(ctx, n); err != nil {
		uc.log.Error().
			Err(fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)).
			Str("venta_id", n.VentaID).
			Str("cedula", n.Cedula).
			Msg("notificación de venta")
		return false
	}
	return true
}

func (uc *RegistrarVentaUseCase) logRechazo(cedula, ventaID string, err error) {
	var ev *zerolog.Event
	if EsRechazo(err) {
		ev = uc.log.Warn()
	} else {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("venta_id", ventaID).
		Str("cedula", cedula).
		Msg("venta rechazada")
}

// EsRechazo indica si err es una validación del usuario (y no una falla del almacén).
func EsRechazo(err error) bool {
	return errors.Is(err, domain.ErrClientNotFound) ||
		errors.Is(err, domain.ErrInvalidProductFormat) ||
		errors.Is(err, domain.ErrUnknownProductCode) ||
		errors.Is(err, domain.ErrInsufficientStock)
}
