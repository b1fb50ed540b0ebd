package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/internal/domain/repository"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/excel"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/lock"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

func TestDecodificarCSV(t *testing.T) {
	casos := []struct {
		nombre string
		raw    []byte
		want   [][]string
	}{
		{
			nombre: "utf-8 con coma",
			raw:    []byte("referencia,cantidad_disponible\nCAFÉ-1,4\n"),
			want:   [][]string{{"referencia", "cantidad_disponible"}, {"CAFÉ-1", "4"}},
		},
		{
			nombre: "utf-8 con BOM",
			raw:    []byte("\xef\xbb\xbfcedula\n123\n"),
			want:   [][]string{{"cedula"}, {"123"}},
		},
		{
			// 0xE9 es "é" en Windows-1252 y no es UTF-8 válido por sí solo.
			nombre: "windows-1252",
			raw:    []byte("referencia,cantidad_disponible\nCAF\xe9-1,4\n"),
			want:   [][]string{{"referencia", "cantidad_disponible"}, {"CAFé-1", "4"}},
		},
		{
			nombre: "punto y coma",
			raw:    []byte("referencia;cantidad_disponible\nP001;10\nP002; 5\n"),
			want:   [][]string{{"referencia", "cantidad_disponible"}, {"P001", "10"}, {"P002", "5"}},
		},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			got, err := decodificarCSV(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClientes(t *testing.T) {
	got, err := parseClientes([][]string{{"Nombre", " CEDULA "}, {"Ana", "123"}, {"Sin cédula", ""}, {"Luis", " 456 "}})
	require.NoError(t, err)
	assert.Equal(t, []entity.Cliente{{Cedula: "123"}, {Cedula: "456"}}, got)

	_, err = parseClientes([][]string{{"nombre", "nit"}, {"Ana", "123"}})
	assert.ErrorContains(t, err, `falta la columna "cedula"`)

	_, err = parseClientes(nil)
	assert.Error(t, err)
}

func TestParseProductos(t *testing.T) {
	got, err := parseProductos([][]string{
		{"referencia", "cantidad_disponible"},
		{"P001", "10"},
		{"P002", ""},
		{"", "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.Producto{
		{Referencia: "P001", CantidadDisponible: 10},
		{Referencia: "P002", CantidadDisponible: 0},
	}, got, "cantidad vacía es 0 y filas sin referencia se omiten")

	errores := map[string][][]string{
		"sin encabezado de cantidad": {{"referencia"}, {"P001"}},
		"cantidad no entera":         {{"referencia", "cantidad_disponible"}, {"P001", "diez"}},
		"cantidad decimal":           {{"referencia", "cantidad_disponible"}, {"P001", "1.5"}},
		"cantidad negativa":          {{"referencia", "cantidad_disponible"}, {"P001", "-1"}},
	}
	for nombre, rows := range errores {
		_, err := parseProductos(rows)
		assert.Error(t, err, nombre)
	}
}

func escribir(t *testing.T, dir, nombre string, raw []byte) string {
	t.Helper()
	p := filepath.Join(dir, nombre)
	require.NoError(t, os.WriteFile(p, raw, 0o600))
	return p
}

func TestRun_NoSobrescribeSinForce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "datos.xlsx")
	require.NoError(t, run([]string{"-o", out}, io.Discard))

	err := run([]string{"-o", out}, io.Discard)
	assert.ErrorIs(t, err, errLibroExiste)

	require.NoError(t, run([]string{"-o", out, "-force"}, io.Discard))
}

func TestRun_ImportaCSV(t *testing.T) {
	dir := t.TempDir()
	clientes := escribir(t, dir, "clientes.csv", []byte("cedula\n900123\n800456\n"))
	productos := escribir(t, dir, "productos.csv", []byte("referencia;cantidad_disponible\nCAF\xe9;7\n"))
	out := filepath.Join(dir, "datos.xlsx")

	require.NoError(t, run([]string{"-o", out, "-clientes", clientes, "-productos", productos}, io.Discard))

	store, err := excel.Open(out, lock.NewMemoryLocker(), logger.Nop())
	require.NoError(t, err, "el libro generado debe ser utilizable por el servicio")
	err = store.View(context.Background(), func(c repository.ClienteRepository, p repository.ProductoRepository, _ repository.VentaRepository) error {
		cli, err := c.GetByCedula("800456")
		require.NoError(t, err)
		assert.NotNil(t, cli)

		prod, err := p.GetByReferencia("CAFé")
		require.NoError(t, err)
		require.NotNil(t, prod)
		assert.Equal(t, 7, prod.CantidadDisponible)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_CSVInvalidoNoCreaLibro(t *testing.T) {
	dir := t.TempDir()
	productos := escribir(t, dir, "productos.csv", []byte("referencia,cantidad_disponible\nP001,muchos\n"))
	out := filepath.Join(dir, "datos.xlsx")

	err := run([]string{"-o", out, "-productos", productos}, io.Discard)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}
