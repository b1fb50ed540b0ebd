package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/registro-ventas/internal/domain/entity"
)

// CrearLibro escribe un libro nuevo con las hojas clientes y productos (y ventas solo con encabezado).
// Sobrescribe path si ya existe; el llamador decide si eso está permitido.
func CrearLibro(path string, clientes []entity.Cliente, productos []entity.Producto) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// El libro nuevo trae "Sheet1"; se renombra como clientes.
	if err := f.SetSheetName(f.GetSheetName(0), HojaClientes); err != nil {
		return fmt.Errorf("hoja %s: %w", HojaClientes, err)
	}
	if err := f.SetSheetRow(HojaClientes, "A1", &[]interface{}{ColCedula}); err != nil {
		return err
	}
	for i, c := range clientes {
		if err := f.SetCellValue(HojaClientes, fmt.Sprintf("A%d", i+2), c.Cedula); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(HojaProductos); err != nil {
		return fmt.Errorf("hoja %s: %w", HojaProductos, err)
	}
	if err := f.SetSheetRow(HojaProductos, "A1", &[]interface{}{ColReferencia, ColCantidadDisponible}); err != nil {
		return err
	}
	for i, p := range productos {
		if err := f.SetSheetRow(HojaProductos, fmt.Sprintf("A%d", i+2), &[]interface{}{p.Referencia, p.CantidadDisponible}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(HojaVentas); err != nil {
		return fmt.Errorf("hoja %s: %w", HojaVentas, err)
	}
	header := make([]interface{}, len(columnasVentas))
	for i, c := range columnasVentas {
		header[i] = c
	}
	if err := f.SetSheetRow(HojaVentas, "A1", &header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("guardar %s: %w", path, err)
	}
	return nil
}
