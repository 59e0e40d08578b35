package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/application/ports"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// HTTPRecorder cuenta peticiones terminadas. Lo implementa *metrics.Metrics.
type HTTPRecorder interface {
	HTTPRequest(method string, status int)
}

// RequestLogger registra cada petición con método, ruta, estado, duración y usuario.
func RequestLogger(log *logger.Logger, rec HTTPRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler escriba la respuesta antes de leer el estado
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		evt := log.Info()
		if status >= fiber.StatusInternalServerError {
			evt = log.Error()
		}
		evt = evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start))
		if id, ok := c.Locals("requestid").(string); ok {
			evt = evt.Str("request_id", id)
		}
		if caller, ok := GetCaller(c); ok && caller.User != nil {
			evt = evt.Str("user_id", caller.User.ID)
		}
		evt.Msg("petición")

		if rec != nil {
			rec.HTTPRequest(c.Method(), status)
		}
		return nil
	}
}

const maxTrackedClients = 1024

// LoginLimiter limita los intentos de login por IP con un token bucket por cliente.
type LoginLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	metrics ports.Metrics
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter crea el limitador. perSecond <= 0 desactiva el límite.
func NewLoginLimiter(perSecond float64, burst int, metrics ports.Metrics) *LoginLimiter {
	if burst <= 0 {
		burst = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LoginLimiter{
		clients: map[string]*limiterEntry{},
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     10 * time.Minute,
		metrics: metrics,
		now:     time.Now,
	}
}

// Allow consume un token del bucket de key.
func (l *LoginLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	entry, ok := l.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	if len(l.clients) > maxTrackedClients {
		l.evict(now)
	}
	return entry.limiter.AllowN(now, 1)
}

// evict descarta clientes inactivos para acotar la memoria.
func (l *LoginLimiter) evict(now time.Time) {
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.clients, k)
		}
	}
}

// Middleware responde 429 cuando la IP supera el límite.
func (l *LoginLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.IP()) {
			l.metrics.Login(ports.LoginThrottled)
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos, reintente en unos segundos"})
		}
		return c.Next()
	}
}
