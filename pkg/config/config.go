package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez en main y se pasa a los constructores; no hay variables globales.
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Store StoreConfig
	SMTP  SMTPConfig
	Lock  LockConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string `validate:"required,oneof=development staging production test"`
	Name     string `validate:"required"`
	LogLevel string `validate:"omitempty,oneof=trace debug info warn error disabled"`
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig libro de Excel con las hojas clientes, productos y ventas.
type StoreConfig struct {
	Path string `validate:"required"`
}

// SMTPConfig envío de la notificación de ventas (STARTTLS en el puerto de envío 587).
// Host vacío desactiva el correo: la notificación solo se escribe en el log.
type SMTPConfig struct {
	Host      string
	Port      int    `validate:"min=1,max=65535"`
	Username  string `validate:"required_with=Host"`
	Password  string `validate:"required_with=Host"`
	From      string `validate:"omitempty,email"`
	To        string `validate:"omitempty,email"`
	Timeout   time.Duration
	AttachPDF bool
}

// Enabled indica si hay servidor SMTP configurado.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// LockConfig sección crítica del registro de ventas.
// "memory" sirve para una sola instancia; "redis" serializa varias instancias sobre el mismo archivo.
type LockConfig struct {
	Driver        string `validate:"oneof=memory redis"`
	RedisAddr     string `validate:"required_if=Driver redis"`
	RedisPassword string
	RedisDB       int `validate:"min=0"`
	Key           string
	TTL           time.Duration
	Wait          time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, PORT, STORE_PATH, SMTP_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye y valida la configuración a partir de una instancia de Viper ya preparada.
func FromViper(v *viper.Viper) (*Config, error) {
	port := getInt(v, "PORT", 0)
	if port == 0 {
		port = getInt(v, "HTTP_PORT", 5000)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "registro-ventas"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: port,
		},
		Store: StoreConfig{
			Path: getString(v, "STORE_PATH", "datos.xlsx"),
		},
		SMTP: SMTPConfig{
			Host:      getString(v, "SMTP_HOST", ""),
			Port:      getInt(v, "SMTP_PORT", 587),
			Username:  getString(v, "SMTP_USERNAME", ""),
			Password:  getString(v, "SMTP_PASSWORD", ""),
			From:      getString(v, "SMTP_FROM", ""),
			To:        getString(v, "SMTP_TO", ""),
			Timeout:   time.Duration(getInt(v, "SMTP_TIMEOUT_SECONDS", 10)) * time.Second,
			AttachPDF: getBool(v, "SMTP_ATTACH_PDF", true),
		},
		Lock: LockConfig{
			Driver:        getString(v, "LOCK_DRIVER", "memory"),
			RedisAddr:     getString(v, "REDIS_ADDR", ""),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
			Key:           getString(v, "LOCK_KEY", "registro-ventas:libro"),
			TTL:           time.Duration(getInt(v, "LOCK_TTL_SECONDS", 30)) * time.Second,
			Wait:          time.Duration(getInt(v, "LOCK_WAIT_SECONDS", 15)) * time.Second,
		},
	}
	// SMTP_FROM por defecto es el usuario de la cuenta (Gmail y similares lo exigen).
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.To == "" {
		return nil, fmt.Errorf("configuración inválida: SMTP_TO es requerido cuando SMTP_HOST está definido")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return strings.TrimSpace(v.GetString(key))
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
