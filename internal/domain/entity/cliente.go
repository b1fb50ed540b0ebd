package entity

// Cliente representa una fila de la hoja clientes. Solo se verifica su existencia.
type Cliente struct {
	Cedula string // cédula o NIT, se compara como texto
}
