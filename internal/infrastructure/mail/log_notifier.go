package mail

import (
	"context"

	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// LogNotifier escribe la notificación en el log. Se usa cuando no hay SMTP_HOST configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de desarrollo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotificarVenta nunca falla.
func (n *LogNotifier) NotificarVenta(_ context.Context, v ventas.Notificacion) error {
	n.log.Info().
		Str("venta_id", v.VentaID).
		Str("asunto", Asunto(v.Cedula)).
		Str("cuerpo", Cuerpo(v)).
		Msg("notificación de venta (SMTP desactivado)")
	return nil
}
