package entity

import "time"

// FormatoFecha es el formato de la columna fecha en la hoja ventas.
const FormatoFecha = "2006-01-02 15:04:05"

// LineaVenta es un par referencia:cantidad de una solicitud. No se persiste como tal;
// cada línea produce un RegistroVenta.
type LineaVenta struct {
	Referencia string
	Cantidad   int
}

// RegistroVenta es una fila del libro de ventas (solo se agregan, nunca se modifican).
type RegistroVenta struct {
	Cedula     string
	Referencia string
	Cantidad   int
	Fecha      time.Time
}
