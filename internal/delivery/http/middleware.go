package http

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/i18n"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	translatorKey   = "translator"
	adminSubjectKey = "adminSubject"
)

// CORSMiddleware handles CORS for the storefront and back-office origins.
// Credentials are only allowed for explicitly listed origins; a bare "*"
// entry answers with a wildcard and no credentials.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if allowed, credentials := isAllowedOrigin(origin, allowedOrigins); allowed {
			if credentials {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Add("Vary", "Origin")
			} else {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			}
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language, X-Client-ID")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks the origin against exact entries and prefix*
// wildcards. credentials is false when only a bare "*" entry matched.
func isAllowedOrigin(origin string, allowedOrigins []string) (allowed, credentials bool) {
	if origin == "" {
		return false, false
	}
	anyOrigin := false
	for _, entry := range allowedOrigins {
		switch {
		case entry == "*":
			anyOrigin = true
		case strings.HasSuffix(entry, "*"):
			if strings.HasPrefix(origin, strings.TrimSuffix(entry, "*")) {
				return true, true
			}
		case origin == entry:
			return true, true
		}
	}
	return anyOrigin, false
}

// LoggerMiddleware logs requests
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

// LanguageMiddleware negotiates the display language from ?lang= and
// Accept-Language and stores the translator on the context.
func LanguageMiddleware(fallback domain.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := i18n.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"), fallback)
		c.Set(translatorKey, t)
		c.Header("Content-Language", string(t.Lang()))
		c.Next()
	}
}

// ipLimiter hands out one token bucket per client IP
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     10 * time.Minute,
		lastGC:   time.Now(),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.idle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, key)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimitMiddleware limits each client IP to perMinute requests
func RateLimitMiddleware(perMinute, burst int) gin.HandlerFunc {
	limiter := newIPLimiter(perMinute, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": domain.ErrRateLimited.Error(),
			})
			return
		}
		c.Next()
	}
}

// AdminAuthMiddleware requires a valid bearer token
func AdminAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing bearer token"})
			return
		}

		subject, err := auth.Validate(strings.TrimSpace(token))
		if err != nil {
			log.Printf("[ADMIN] Rejected token from %s: %v", c.ClientIP(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": domain.ErrUnauthorized.Error()})
			return
		}

		c.Set(adminSubjectKey, subject)
		c.Next()
	}
}
