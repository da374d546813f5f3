package router

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/dto"
	"github.com/Oniqq60/staff_control/internal/respond"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request.id"
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("requestId", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.String("error", errs.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// Recovery turns a panic into a 500 envelope. The stack is only returned to
// the client outside production.
func Recovery(log *zap.Logger, exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stack := string(debug.Stack())
			log.Error("panic recovered",
				zap.String("requestId", c.GetString(requestIDKey)),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.String("stack", stack),
			)

			resp := dto.Response{Success: false, Message: "Internal server error"}
			if exposeStack {
				resp.Stack = fmt.Sprintf("%v\n%s", rec, stack)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// BodyLimit caps the request body. Reads past the limit fail with
// *http.MaxBytesError, which body validation reports as 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// CORS allows every origin when origins is empty.
func CORS(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: len(origins) > 0,
		MaxAge:           time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return cors.New(conf)
}

const evictThreshold = 1024

// RateLimiter is a fixed-window counter per client IP.
type RateLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	count   int
	expires time.Time
}

func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 || window <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
		clients:  make(map[string]*clientWindow),
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	if r == nil || r.requests == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if r.hit(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(r.window.Seconds())))
			respond.Fail(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) hit(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	state, ok := r.clients[key]
	if !ok || now.After(state.expires) {
		if len(r.clients) >= evictThreshold {
			r.evict(now)
		}
		r.clients[key] = &clientWindow{count: 1, expires: now.Add(r.window)}
		return false
	}
	if state.count >= r.requests {
		return true
	}
	state.count++
	return false
}

// evict drops expired windows so idle clients do not accumulate.
func (r *RateLimiter) evict(now time.Time) {
	for k, w := range r.clients {
		if now.After(w.expires) {
			delete(r.clients, k)
		}
	}
}
