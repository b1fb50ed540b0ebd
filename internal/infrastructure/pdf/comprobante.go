// Package pdf genera el comprobante de venta que acompaña la notificación por correo.
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────┐
//	│  COMPROBANTE DE VENTA        │  Fecha / N°     │
//	│  ───────────────────────────────────────────  │
//	│  Cliente: cédula                               │
//	│  TABLA: Referencia | Cantidad                  │
//	│  Total de unidades                             │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ComprobanteGenerator genera el PDF del comprobante con Maroto v2.
type ComprobanteGenerator struct {
	empresa string
}

// NewComprobanteGenerator construye el generador; empresa aparece como autor y en el encabezado.
func NewComprobanteGenerator(empresa string) *ComprobanteGenerator {
	return &ComprobanteGenerator{empresa: empresa}
}

// GenerarComprobante devuelve los bytes del PDF.
func (g *ComprobanteGenerator) GenerarComprobante(_ context.Context, n ventas.Notificacion) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.empresa, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.empresa, n))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(n.Cedula))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(n.Lineas) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(n.Lineas))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(empresa string, n ventas.Notificacion) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(empresa, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Fecha: "+n.Fecha.Format(entity.FormatoFecha), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("N° "+n.VentaID, props.Text{
				Size: 7, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func clienteRow(cedula string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New("Cédula: "+cedula, props.Text{Size: 10, Top: 7}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New("Referencia", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(4).Add(text.New("Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
	)
}

func tableRows(lineas []entity.LineaVenta) []core.Row {
	rows := make([]core.Row, 0, len(lineas))
	for _, l := range lineas {
		rows = append(rows, row.New(7).Add(
			col.New(8).Add(text.New(l.Referencia, props.Text{Size: 9, Top: 1})),
			col.New(4).Add(text.New(strconv.Itoa(l.Cantidad), props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(lineas []entity.LineaVenta) core.Row {
	total := 0
	for _, l := range lineas {
		total += l.Cantidad
	}
	return row.New(10).Add(
		col.New(8).Add(text.New("Total de unidades", props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}
