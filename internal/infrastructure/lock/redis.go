package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/registro-ventas/pkg/logger"
)

// ErrLockNotObtained no se consiguió el bloqueo distribuido dentro del tiempo de espera.
var ErrLockNotObtained = errors.New("no se pudo obtener el bloqueo del libro de datos")

// RedisLocker serializa varias instancias del servicio que comparten el mismo archivo.
type RedisLocker struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// RedisOptions parámetros del bloqueo distribuido.
type RedisOptions struct {
	Key  string        // clave en Redis
	TTL  time.Duration // vida máxima del bloqueo si el proceso muere sin liberarlo
	Wait time.Duration // cuánto esperar para obtenerlo
}

// NewRedisLocker construye el bloqueo sobre un cliente go-redis ya conectado.
func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, log *logger.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.Wait <= 0 {
		opts.Wait = 15 * time.Second
	}
	return &RedisLocker{
		locker: redislock.New(client),
		key:    opts.Key,
		ttl:    opts.TTL,
		wait:   opts.Wait,
		log:    log,
	}
}

// Lock obtiene el bloqueo reintentando cada 50ms hasta Wait o hasta que ctx se cancele.
func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lk, err := l.locker.Obtain(waitCtx, l.key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrLockNotObtained, l.key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener bloqueo redis: %w", err)
	}
	return func() {
		// La liberación usa un contexto propio: el de la petición puede estar cancelado.
		relCtx, relCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer relCancel()
		if err := lk.Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Error().Err(err).Str("key", l.key).Msg("liberar bloqueo redis")
		}
	}, nil
}

// Ping verifica la conexión con Redis al arrancar.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("conexión a redis: %w", err)
	}
	return nil
}
