package ventas

import (
	"strconv"
	"strings"

	"github.com/jhoicas/registro-ventas/internal/domain"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
)

// SepararProductos divide la lista cruda "P001:2, P002:3" en sus elementos, sin validarlos.
func SepararProductos(raw string) []string {
	return strings.Split(strings.TrimSpace(raw), ",")
}

// ParseLinea interpreta un elemento "referencia:cantidad".
// Cualquier falla (campos de más o de menos, referencia vacía, cantidad no entera o <= 0)
// retorna domain.ErrInvalidProductFormat.
func ParseLinea(item string) (entity.LineaVenta, error) {
	campos := strings.Split(strings.TrimSpace(item), ":")
	if len(campos) != 2 {
		return entity.LineaVenta{}, domain.ErrInvalidProductFormat
	}
	ref := strings.TrimSpace(campos[0])
	if ref == "" {
		return entity.LineaVenta{}, domain.ErrInvalidProductFormat
	}
	cantidad, err := strconv.Atoi(strings.TrimSpace(campos[1]))
	if err != nil || cantidad <= 0 {
		return entity.LineaVenta{}, domain.ErrInvalidProductFormat
	}
	return entity.LineaVenta{Referencia: ref, Cantidad: cantidad}, nil
}

// agregarLinea aplica "gana la última" para referencias repetidas, conservando la posición
// de la primera aparición.
func agregarLinea(lineas []entity.LineaVenta, pos map[string]int, l entity.LineaVenta) []entity.LineaVenta {
	if i, ok := pos[l.Referencia]; ok {
		lineas[i].Cantidad = l.Cantidad
		return lineas
	}
	pos[l.Referencia] = len(lineas)
	return append(lineas, l)
}
