package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/kvstore"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// StoreLimiter is a fixed-window counter in the key-value store, shared by
// every API instance when Redis is enabled.
type StoreLimiter struct {
	store    kvstore.Store
	requests int
	window   time.Duration
}

// NewStoreLimiter creates a new StoreLimiter
func NewStoreLimiter(store kvstore.Store, requests int, window time.Duration) *StoreLimiter {
	return &StoreLimiter{store: store, requests: requests, window: window}
}

// Allow counts the request in the current window
func (l *StoreLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	return count <= int64(l.requests), nil
}

// LocalLimiter keeps a token bucket per key in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewLocalLimiter refills requests tokens per window
func NewLocalLimiter(requests int, window time.Duration) *LocalLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

// Allow takes a token from the key's bucket
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// RateLimit rejects callers over the limit with 429. The key is the client IP
// plus the route, so one form cannot starve another.
func RateLimit(limiter Limiter, retryAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open
			logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeTooManyRequests, i18n.T(LangFrom(c), i18n.KeyErrorTooManyRequests))
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityWarning)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
