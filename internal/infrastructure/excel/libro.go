package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/registro-ventas/internal/domain/entity"
)

// libro contenido de trabajo de un Run: filas leídas más los cambios pendientes.
type libro struct {
	f *excelize.File

	clientes map[string]struct{}

	productos   []*filaProducto // orden de la hoja
	porRef      map[string]*filaProducto
	colCantidad int // columna (1-based) de cantidad_disponible

	ventasExiste bool
	colsVentas   map[string]int // columna (1-based) por encabezado
	filasVentas  int            // filas ocupadas en la hoja ventas, encabezado incluido
	ventas       []*entity.RegistroVenta
	nuevas       []*entity.RegistroVenta
}

type filaProducto struct {
	fila       int // 1-based
	producto   entity.Producto
	modificado bool
}

// leerLibro lee las tres hojas con el valor almacenado de cada celda y no con su formato de
// presentación: una cantidad con formato "#,##0" se guarda como 1500 aunque Excel muestre "1,500".
func leerLibro(f *excelize.File) (*libro, error) {
	lb := &libro{f: f, porRef: make(map[string]*filaProducto)}
	if err := lb.leerClientes(); err != nil {
		return nil, err
	}
	if err := lb.leerProductos(); err != nil {
		return nil, err
	}
	if err := lb.leerVentas(); err != nil {
		return nil, err
	}
	return lb, nil
}

func (lb *libro) close() { _ = lb.f.Close() }

func (lb *libro) dirty() bool {
	if len(lb.nuevas) > 0 {
		return true
	}
	for _, fp := range lb.productos {
		if fp.modificado {
			return true
		}
	}
	return false
}

func (lb *libro) tieneHoja(nombre string) bool {
	for _, h := range lb.f.GetSheetList() {
		if h == nombre {
			return true
		}
	}
	return false
}

func (lb *libro) leerClientes() error {
	if !lb.tieneHoja(HojaClientes) {
		return fmt.Errorf("falta la hoja %q", HojaClientes)
	}
	rows, err := lb.f.GetRows(HojaClientes, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("leer hoja %s: %w", HojaClientes, err)
	}
	cols, err := encabezados(rows, HojaClientes, ColCedula)
	if err != nil {
		return err
	}
	lb.clientes = make(map[string]struct{}, len(rows))
	for _, row := range cuerpo(rows) {
		if c := normalizarID(celda(row, cols[ColCedula])); c != "" {
			lb.clientes[c] = struct{}{}
		}
	}
	return nil
}

func (lb *libro) leerProductos() error {
	if !lb.tieneHoja(HojaProductos) {
		return fmt.Errorf("falta la hoja %q", HojaProductos)
	}
	rows, err := lb.f.GetRows(HojaProductos, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("leer hoja %s: %w", HojaProductos, err)
	}
	cols, err := encabezados(rows, HojaProductos, ColReferencia, ColCantidadDisponible)
	if err != nil {
		return err
	}
	lb.colCantidad = cols[ColCantidadDisponible] + 1
	for i, row := range cuerpo(rows) {
		ref := normalizarID(celda(row, cols[ColReferencia]))
		if ref == "" {
			continue
		}
		// Referencias repetidas: vale la primera fila.
		if _, ok := lb.porRef[ref]; ok {
			continue
		}
		fila := i + 2
		cant, err := parseEntero(celda(row, cols[ColCantidadDisponible]))
		if err != nil {
			return fmt.Errorf("hoja %s fila %d: %s inválida: %w", HojaProductos, fila, ColCantidadDisponible, err)
		}
		fp := &filaProducto{fila: fila, producto: entity.Producto{Referencia: ref, CantidadDisponible: cant}}
		lb.productos = append(lb.productos, fp)
		lb.porRef[ref] = fp
	}
	return nil
}

// leerVentas la hoja ventas es opcional: se crea con la primera venta.
func (lb *libro) leerVentas() error {
	if !lb.tieneHoja(HojaVentas) {
		lb.colsVentas = make(map[string]int, len(columnasVentas))
		for i, c := range columnasVentas {
			lb.colsVentas[c] = i + 1
		}
		return nil
	}
	lb.ventasExiste = true
	rows, err := lb.f.GetRows(HojaVentas, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("leer hoja %s: %w", HojaVentas, err)
	}
	if len(rows) == 0 {
		// Hoja vacía: se escribe el encabezado junto con la primera venta.
		lb.ventasExiste = false
		lb.colsVentas = make(map[string]int, len(columnasVentas))
		for i, c := range columnasVentas {
			lb.colsVentas[c] = i + 1
		}
		return nil
	}
	cols, err := encabezados(rows, HojaVentas, columnasVentas...)
	if err != nil {
		return err
	}
	lb.colsVentas = make(map[string]int, len(cols))
	for k, v := range cols {
		lb.colsVentas[k] = v + 1
	}
	lb.filasVentas = len(rows)
	for _, row := range cuerpo(rows) {
		v := &entity.RegistroVenta{
			Cedula:     normalizarID(celda(row, cols[ColCedula])),
			Referencia: normalizarID(celda(row, cols[ColReferencia])),
		}
		if v.Cedula == "" && v.Referencia == "" {
			continue
		}
		v.Cantidad, _ = parseEntero(celda(row, cols[ColCantidad]))
		v.Fecha, _ = time.ParseInLocation(entity.FormatoFecha, strings.TrimSpace(celda(row, cols[ColFecha])), time.Local)
		lb.ventas = append(lb.ventas, v)
	}
	return nil
}

// apply escribe en el libro las existencias modificadas y las filas nuevas de ventas.
func (lb *libro) apply() error {
	for _, fp := range lb.productos {
		if !fp.modificado {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(lb.colCantidad, fp.fila)
		if err != nil {
			return err
		}
		if err := lb.f.SetCellValue(HojaProductos, cell, fp.producto.CantidadDisponible); err != nil {
			return fmt.Errorf("actualizar %s: %w", fp.producto.Referencia, err)
		}
	}
	if len(lb.nuevas) == 0 {
		return nil
	}
	if !lb.ventasExiste {
		if !lb.tieneHoja(HojaVentas) {
			if _, err := lb.f.NewSheet(HojaVentas); err != nil {
				return fmt.Errorf("crear hoja %s: %w", HojaVentas, err)
			}
		}
		header := make([]interface{}, len(columnasVentas))
		for i, c := range columnasVentas {
			header[i] = c
		}
		if err := lb.f.SetSheetRow(HojaVentas, "A1", &header); err != nil {
			return fmt.Errorf("encabezado %s: %w", HojaVentas, err)
		}
		lb.ventasExiste = true
		lb.filasVentas = 1
	}
	for _, v := range lb.nuevas {
		fila := lb.filasVentas + 1
		valores := map[string]interface{}{
			ColCedula:     v.Cedula,
			ColReferencia: v.Referencia,
			ColCantidad:   v.Cantidad,
			ColFecha:      v.Fecha.Format(entity.FormatoFecha),
		}
		for col, val := range valores {
			cell, err := excelize.CoordinatesToCellName(lb.colsVentas[col], fila)
			if err != nil {
				return err
			}
			if err := lb.f.SetCellValue(HojaVentas, cell, val); err != nil {
				return fmt.Errorf("agregar venta: %w", err)
			}
		}
		lb.filasVentas = fila
	}
	return nil
}

// encabezados ubica (0-based) las columnas requeridas en la primera fila.
func encabezados(rows [][]string, hoja string, requeridas ...string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("hoja %s sin encabezado", hoja)
	}
	idx := make(map[string]int)
	for i, h := range rows[0] {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[k]; !ok && k != "" {
			idx[k] = i
		}
	}
	out := make(map[string]int, len(requeridas))
	for _, r := range requeridas {
		i, ok := idx[r]
		if !ok {
			return nil, fmt.Errorf("hoja %s sin columna %q", hoja, r)
		}
		out[r] = i
	}
	return out, nil
}

func cuerpo(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func celda(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// normalizarID recorta espacios y quita el ".0" que deja una cédula guardada como número decimal.
func normalizarID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(s, ".0")); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}

// parseEntero acepta "5" y también "5.0" (celda numérica con formato decimal). Vacío es 0.
func parseEntero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil || fl != math.Trunc(fl) {
		return 0, fmt.Errorf("%q no es un entero", s)
	}
	return int(fl), nil
}
