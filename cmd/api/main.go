package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/registro-ventas/docs"
	"github.com/jhoicas/registro-ventas/internal/application/ventas"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/excel"
	"github.com/jhoicas/registro-ventas/internal/infrastructure/lock"
	infmail "github.com/jhoicas/registro-ventas/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/registro-ventas/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/registro-ventas/internal/interfaces/http"
	"github.com/jhoicas/registro-ventas/pkg/config"
	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// @title        Registro de Ventas API
// @version      1.0
// @description  Registro de ventas sobre un libro de Excel: valida cliente y existencias, descuenta el inventario y notifica por correo.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Path).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Bloqueo de la sección crítica: memoria (una instancia) o Redis (varias instancias).
	var locker excel.Locker = lock.NewMemoryLocker()
	if cfg.Lock.Driver == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		defer rdb.Close()
		if err := lock.Ping(ctx, rdb); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Lock.RedisAddr).Msg("bloqueo distribuido")
		}
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{
			Key:  cfg.Lock.Key,
			TTL:  cfg.Lock.TTL,
			Wait: cfg.Lock.Wait,
		}, log.Named("lock"))
	}

	// Sin libro de datos el servicio no acepta ventas.
	store, err := excel.Open(cfg.Store.Path, locker, log.Named("excel"))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).
			Msg("el libro de datos no existe o no es legible; créalo con hojas 'clientes' y 'productos' (go run ./cmd/seed_datos)")
	}

	var notifier ventas.Notifier
	if cfg.SMTP.Enabled() {
		var comprobantes infmail.ComprobanteGenerator
		if cfg.SMTP.AttachPDF {
			comprobantes = infrapdf.NewComprobanteGenerator(cfg.App.Name)
		}
		notifier = infmail.NewSMTPNotifier(infmail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}, comprobantes, log.Named("mail"))
	} else {
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones de venta solo se escriben en el log")
		notifier = infmail.NewLogNotifier(log.Named("mail"))
	}

	registrarUC := ventas.NewRegistrarVentaUseCase(store, notifier, log.Named("ventas"), cfg.SMTP.Timeout)
	consultaUC := ventas.NewConsultaUseCase(store)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SMTP.Timeout + cfg.Lock.Wait + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistrarVenta: registrarUC,
		Consultas:      consultaUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
