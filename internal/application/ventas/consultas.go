package ventas

import (
	"context"
	"strings"

	"github.com/jhoicas/registro-ventas/internal/application/dto"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
)

// ConsultaUseCase lecturas del libro de datos (existencias y libro de ventas). Nunca modifica el archivo.
type ConsultaUseCase struct {
	txRunner TxRunner
}

// NewConsultaUseCase construye el caso de uso.
func NewConsultaUseCase(txRunner TxRunner) *ConsultaUseCase {
	return &ConsultaUseCase{txRunner: txRunner}
}

// ListProductos devuelve las existencias actuales en el orden de la hoja.
func (uc *ConsultaUseCase) ListProductos(ctx context.Context) ([]*dto.ProductoResponse, error) {
	var out []*dto.ProductoResponse
	err := uc.txRunner.View(ctx, func(
		_ repository.ClienteRepository,
		productoRepo repository.ProductoRepository,
		_ repository.VentaRepository,
	) error {
		list, err := productoRepo.List()
		if err != nil {
			return err
		}
		out = make([]*dto.ProductoResponse, 0, len(list))
		for _, p := range list {
			out = append(out, &dto.ProductoResponse{
				Referencia:         p.Referencia,
				CantidadDisponible: p.CantidadDisponible,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListVentas devuelve las filas del libro de ventas; cedula vacía lista todas.
func (uc *ConsultaUseCase) ListVentas(ctx context.Context, cedula string) ([]*dto.RegistroVentaResponse, error) {
	cedula = strings.TrimSpace(cedula)
	var out []*dto.RegistroVentaResponse
	err := uc.txRunner.View(ctx, func(
		_ repository.ClienteRepository,
		_ repository.ProductoRepository,
		ventaRepo repository.VentaRepository,
	) error {
		list, err := ventaRepo.ListByCedula(cedula)
		if err != nil {
			return err
		}
		out = make([]*dto.RegistroVentaResponse, 0, len(list))
		for _, v := range list {
			out = append(out, &dto.RegistroVentaResponse{
				Cedula:     v.Cedula,
				Referencia: v.Referencia,
				Cantidad:   v.Cantidad,
				Fecha:      v.Fecha.Format(entity.FormatoFecha),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
