package entity

// Producto representa una fila de la hoja productos.
// CantidadDisponible nunca queda negativa: las ventas que la excedan se rechazan completas.
type Producto struct {
	Referencia         string // código único
	CantidadDisponible int
}

// Alcanza indica si hay existencias para vender cantidad unidades.
func (p *Producto) Alcanza(cantidad int) bool {
	return p.CantidadDisponible >= cantidad
}
