// Package mail envía la notificación de ventas por SMTP autenticado (STARTTLS en el puerto 587).
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/domain/entity"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

var (
	_ ventas.Notifier = (*SMTPNotifier)(nil)
	_ ventas.Notifier = (*LogNotifier)(nil)
)

// Sender envía mensajes ya armados. *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// ComprobanteGenerator genera el PDF adjunto. Opcional.
type ComprobanteGenerator interface {
	GenerarComprobante(ctx context.Context, n ventas.Notificacion) ([]byte, error)
}

// Config datos de la cuenta SMTP y el destinatario fijo.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPNotifier implementa ventas.Notifier con gomail.
type SMTPNotifier struct {
	sender       Sender
	from         string
	to           string
	comprobantes ComprobanteGenerator
	log          *logger.Logger
}

// NewSMTPNotifier construye el notificador sobre un gomail.Dialer.
// Con el puerto 587 gomail negocia STARTTLS antes de autenticarse.
func NewSMTPNotifier(cfg Config, comprobantes ComprobanteGenerator, log *logger.Logger) *SMTPNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return NewNotifierWithSender(d, cfg.From, cfg.To, comprobantes, log)
}

// NewNotifierWithSender permite inyectar el Sender (tests, otros transportes).
func NewNotifierWithSender(sender Sender, from, to string, comprobantes ComprobanteGenerator, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		sender:       sender,
		from:         from,
		to:           to,
		comprobantes: comprobantes,
		log:          log,
	}
}

// NotificarVenta arma y envía el correo. Si ctx vence antes de que el servidor responda,
// retorna el error de ctx sin esperar al envío.
//
// gomail no fija plazos de lectura ni escritura después de conectar, así que el envío
// abandonado sigue en su goroutine (con su conexión) hasta que el servidor responda o cierre,
// y el correo todavía puede llegar aunque la venta se haya informado con notificado=false.
// Ese desenlace tardío queda en el log.
func (s *SMTPNotifier) NotificarVenta(ctx context.Context, n ventas.Notificacion) error {
	m := s.mensaje(ctx, n)

	errCh := make(chan error, 1)
	go func() {
		err := s.sender.DialAndSend(m)
		if ctx.Err() != nil {
			s.log.Warn().Err(err).
				Str("venta_id", n.VentaID).
				Str("to", s.to).
				Bool("entregado", err == nil).
				Msg("envío de correo terminado después del tiempo límite")
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("enviar correo a %s: %w", s.to, err)
		}
		s.log.Info().Str("venta_id", n.VentaID).Str("to", s.to).Msg("correo de venta enviado")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enviar correo a %s: %w", s.to, ctx.Err())
	}
}

func (s *SMTPNotifier) mensaje(ctx context.Context, n ventas.Notificacion) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", Asunto(n.Cedula))
	m.SetBody("text/plain", Cuerpo(n))

	if s.comprobantes == nil {
		return m
	}
	pdf, err := s.comprobantes.GenerarComprobante(ctx, n)
	if err != nil {
		// Sin comprobante igual se envía el aviso.
		s.log.Warn().Err(err).Str("venta_id", n.VentaID).Msg("comprobante PDF")
		return m
	}
	m.Attach(NombreComprobante(n),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return m
}

// Asunto línea de asunto del correo; incluye la cédula.
func Asunto(cedula string) string {
	return "Venta registrada - Cliente " + cedula
}

// Cuerpo texto plano con las líneas de la venta y la fecha.
func Cuerpo(n ventas.Notificacion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Se ha registrado una venta para el cliente con cédula %s:\n\n", n.Cedula)
	for _, l := range n.Lineas {
		fmt.Fprintf(&b, "- Producto %s: %d unidades\n", l.Referencia, l.Cantidad)
	}
	fmt.Fprintf(&b, "\nFecha: %s\n", n.Fecha.Format(entity.FormatoFecha))
	return b.String()
}

// NombreComprobante nombre del PDF adjunto.
func NombreComprobante(n ventas.Notificacion) string {
	return fmt.Sprintf("venta-%s-%s.pdf", n.Cedula, n.Fecha.Format("20060102-150405"))
}
