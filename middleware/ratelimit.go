package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/evanmmo/vod-dashboard/metrics"
)

// IPRateLimiter giữ một token bucket cho mỗi IP
type IPRateLimiter struct {
	rate  rate.Limit
	burst int

	mu          sync.Mutex
	perIP       map[string]*rate.Limiter
	lastCleanup time.Time
	cleanup     time.Duration
}

// NewIPRateLimiter cho phép perMinute request mỗi phút cho mỗi IP, burst bằng perMinute
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &IPRateLimiter{
		rate:        rate.Limit(float64(perMinute) / 60.0),
		burst:       perMinute,
		perIP:       make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		cleanup:     10 * time.Minute,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// xóa toàn bộ định kỳ để map không phình ra
	if time.Since(l.lastCleanup) > l.cleanup {
		l.perIP = make(map[string]*rate.Limiter)
		l.lastCleanup = time.Now()
	}

	limiter, ok := l.perIP[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.perIP[ip] = limiter
	}
	return limiter.Allow()
}

// RateLimit trả 429 khi IP vượt giới hạn
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.RateLimitedTotal.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Quá nhiều yêu cầu, vui lòng thử lại sau"})
			c.Abort()
			return
		}
		c.Next()
	}
}
