package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxNameLength     int           `json:"max_name_length"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxNameLength:     200,
		MaxRequestsPerMin: 120,
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:    []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:    30 * time.Second,
	}
}

// SecurityMiddleware provides rate limiting and input validation
type SecurityMiddleware struct {
	config     SecurityConfig
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// ValidateBusinessName validates a business name received as a path or query
// parameter before it reaches the scoring layer.
func (sm *SecurityMiddleware) ValidateBusinessName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("business name cannot be empty")
	}

	if len(name) > sm.config.MaxNameLength {
		return fmt.Errorf("business name exceeds maximum length of %d characters", sm.config.MaxNameLength)
	}

	if strings.Contains(name, "\x00") {
		return fmt.Errorf("business name contains invalid characters")
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("business name contains invalid UTF-8 encoding")
	}

	return nil
}

// limiterForIP returns the rate limiter for one client IP, creating it lazily.
func (sm *SecurityMiddleware) limiterForIP(ip string) *rate.Limiter {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	limiter, ok := sm.ipLimiters[ip]
	if !ok {
		perSecond := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		limiter = rate.NewLimiter(perSecond, sm.config.MaxRequestsPerMin/6)
		sm.ipLimiters[ip] = limiter
	}

	return limiter
}

// RateLimitByIP limits requests per client IP
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	if !sm.limiterForIP(c.ClientIP()).Allow() {
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		c.Abort()
		return
	}

	c.Next()
}

// RequestTimeout attaches a deadline to the request context
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// ValidateContentType rejects mutating requests without a JSON body
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		contentType := c.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Content-Type must be application/json"})
			c.Abort()
			return
		}
	}

	c.Next()
}
