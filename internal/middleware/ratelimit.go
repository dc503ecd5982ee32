package middleware

import (
  "net/http"
  "sync"
  "time"

  "github.com/gin-gonic/gin"
  "golang.org/x/time/rate"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
)

type clientLimiter struct {
  limiter  *rate.Limiter
  lastSeen time.Time
}

// RateLimitMiddleware holds one token bucket per client IP. Entries idle
// longer than three minutes are dropped by a background sweep.
type RateLimitMiddleware struct {
  log     *logger.Logger
  mu      sync.Mutex
  clients map[string]*clientLimiter
  limit   rate.Limit
  burst   int
}

func NewRateLimitMiddleware(log *logger.Logger, perSecond float64, burst int) *RateLimitMiddleware {
  middlewareLogger := log.With("Middleware", "RateLimitMiddleware")
  rl := &RateLimitMiddleware{
    log:     middlewareLogger,
    clients: make(map[string]*clientLimiter),
    limit:   rate.Limit(perSecond),
    burst:   burst,
  }
  go rl.cleanupLoop()
  return rl
}

func (rl *RateLimitMiddleware) Limit() gin.HandlerFunc {
  return func(c *gin.Context) {
    if !rl.allow(c.ClientIP()) {
      c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
      return
    }
    c.Next()
  }
}

func (rl *RateLimitMiddleware) allow(ip string) bool {
  rl.mu.Lock()
  defer rl.mu.Unlock()

  client, found := rl.clients[ip]
  if !found {
    client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
    rl.clients[ip] = client
  }
  client.lastSeen = time.Now()
  return client.limiter.Allow()
}

func (rl *RateLimitMiddleware) cleanupLoop() {
  for {
    time.Sleep(time.Minute)
    rl.mu.Lock()
    for ip, client := range rl.clients {
      if time.Since(client.lastSeen) > 3*time.Minute {
        delete(rl.clients, ip)
      }
    }
    rl.mu.Unlock()
  }
}
