package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/forms-service/internal/http/response"
)

// IPLimiter хранит отдельный token bucket для каждого адреса клиента.
// Бакет удаляется, если к нему не обращались дольше времени его полного
// восстановления (от минуты до суток), поэтому число записей ограничено.
type IPLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	rps      rate.Limit
	burst    int
}

// Пределы времени хранения простаивающего бакета.
const (
	minIdle = time.Minute
	maxIdle = 24 * time.Hour
)

// NewIPLimiter создаёт лимитер с rps запросами в секунду и запасом burst на адрес.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	if burst < 1 {
		burst = 1
	}
	return newIPLimiter(rps, burst, refillTime(rps, burst))
}

func newIPLimiter(rps float64, burst int, idle time.Duration) *IPLimiter {
	return &IPLimiter{
		limiters: gocache.New(idle, idle),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// refillTime — время, за которое пустой бакет наполняется целиком.
func refillTime(rps float64, burst int) time.Duration {
	if rps <= 0 {
		return maxIdle
	}
	d := time.Duration(float64(burst) / rps * float64(time.Second))
	switch {
	case d < minIdle:
		return minIdle
	case d > maxIdle:
		return maxIdle
	}
	return d
}

// Allow сообщает, можно ли пропустить ещё один запрос с адреса ip.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	var limiter *rate.Limiter
	if x, ok := l.limiters.Get(ip); ok {
		limiter = x.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.rps, l.burst)
	}
	// продлеваем срок жизни при каждом обращении
	l.limiters.SetDefault(ip, limiter)
	l.mu.Unlock()
	return limiter.Allow()
}

// Len возвращает число отслеживаемых адресов.
func (l *IPLimiter) Len() int {
	return l.limiters.ItemCount()
}

// RateLimitMiddleware отвечает 429, когда адрес клиента исчерпал лимит.
func RateLimitMiddleware(log *slog.Logger, limiter *IPLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				log.Warn("too many requests",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP берёт хост из RemoteAddr. Заголовки прокси учитываются, только
// если перед лимитером стоит middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
