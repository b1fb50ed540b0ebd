// seed_datos crea el libro de datos (clientes, productos y ventas vacía) que usa el servicio.
//
// Uso:
//
//	go run ./cmd/seed_datos [-o datos.xlsx] [-clientes clientes.csv] [-productos productos.csv] [-force]
//
// Sin CSV escribe un libro de ejemplo. Los CSV llevan encabezado (cedula | referencia,cantidad_disponible)
// y pueden venir en UTF-8 o en Windows-1252 (exportados desde Excel).
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/excel"
)

var (
	clientesEjemplo  = []entity.Cliente{{Cedula: "123"}, {Cedula: "456"}}
	productosEjemplo = []entity.Producto{
		{Referencia: "P001", CantidadDisponible: 10},
		{Referencia: "P002", CantidadDisponible: 5},
		{Referencia: "P003", CantidadDisponible: 0},
	}
)

// errLibroExiste el libro de salida ya existe y no se pidió -force.
var errLibroExiste = errors.New("el libro ya existe; usa -force para sobrescribirlo")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "seed_datos: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed_datos", flag.ContinueOnError)
	out := fs.String("o", "datos.xlsx", "ruta del libro a crear")
	clientesPath := fs.String("clientes", "", "CSV con la columna cedula")
	productosPath := fs.String("productos", "", "CSV con las columnas referencia,cantidad_disponible")
	force := fs.Bool("force", false, "sobrescribir el libro si ya existe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*out); err == nil && !*force {
		return fmt.Errorf("%s: %w", *out, errLibroExiste)
	}

	clientes := clientesEjemplo
	if *clientesPath != "" {
		rows, err := leerCSV(*clientesPath)
		if err != nil {
			return fmt.Errorf("leer clientes: %w", err)
		}
		if clientes, err = parseClientes(rows); err != nil {
			return fmt.Errorf("clientes: %w", err)
		}
	}

	productos := productosEjemplo
	if *productosPath != "" {
		rows, err := leerCSV(*productosPath)
		if err != nil {
			return fmt.Errorf("leer productos: %w", err)
		}
		if productos, err = parseProductos(rows); err != nil {
			return fmt.Errorf("productos: %w", err)
		}
	}

	if err := excel.CrearLibro(*out, clientes, productos); err != nil {
		return fmt.Errorf("crear libro: %w", err)
	}
	fmt.Fprintf(stdout, "Escrito: %s (%d clientes, %d productos)\n", *out, len(clientes), len(productos))
	return nil
}

func leerCSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodificarCSV(raw)
}

// decodificarCSV si raw no es UTF-8 válido se decodifica como Windows-1252 (Excel en español).
// El separador es ';' cuando aparece más que ','.
func decodificarCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	// Excel en configuración regional es-CO exporta con punto y coma.
	if bytes.Count(raw, []byte(";")) > bytes.Count(raw, []byte(",")) {
		cr.Comma = ';'
	}
	return cr.ReadAll()
}

func parseClientes(rows [][]string) ([]entity.Cliente, error) {
	if len(rows) == 0 {
		return nil, errors.New("archivo vacío")
	}
	idx := indice(rows[0], excel.ColCedula)
	if idx < 0 {
		return nil, fmt.Errorf("falta la columna %q", excel.ColCedula)
	}
	out := make([]entity.Cliente, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if idx >= len(r) {
			continue
		}
		ced := strings.TrimSpace(r[idx])
		if ced == "" {
			continue
		}
		out = append(out, entity.Cliente{Cedula: ced})
	}
	return out, nil
}

func parseProductos(rows [][]string) ([]entity.Producto, error) {
	if len(rows) == 0 {
		return nil, errors.New("archivo vacío")
	}
	iRef := indice(rows[0], excel.ColReferencia)
	iCant := indice(rows[0], excel.ColCantidadDisponible)
	if iRef < 0 || iCant < 0 {
		return nil, fmt.Errorf("faltan las columnas %q y %q", excel.ColReferencia, excel.ColCantidadDisponible)
	}
	out := make([]entity.Producto, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if iRef >= len(r) || strings.TrimSpace(r[iRef]) == "" {
			continue
		}
		cant := 0
		if iCant < len(r) && strings.TrimSpace(r[iCant]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(r[iCant]))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("fila %d: cantidad_disponible inválida %q", i+2, r[iCant])
			}
			cant = n
		}
		out = append(out, entity.Producto{Referencia: strings.TrimSpace(r[iRef]), CantidadDisponible: cant})
	}
	return out, nil
}

func indice(header []string, col string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return i
		}
	}
	return -1
}
