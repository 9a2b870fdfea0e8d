package app

import (
	"net/http"
	"net/netip"
	"strings"
	"time"

	"Tasker/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/unrolled/secure"
)

const requestIDHeader = "X-Request-ID"

// forwardedHeaders strips X-Forwarded-Proto and X-Forwarded-Host from
// requests whose peer is not one of the trusted proxies.
func forwardedHeaders(proxies []string) (gin.HandlerFunc, error) {
	trusted := make([]netip.Prefix, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, err
			}
			trusted = append(trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		trusted = append(trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return func(c *gin.Context) {
		if !peerTrusted(c.RemoteIP(), trusted) {
			c.Request.Header.Del("X-Forwarded-Proto")
			c.Request.Header.Del("X-Forwarded-Host")
		}
		c.Next()
	}, nil
}

func peerTrusted(remote string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// requestLogger logs one line per request. Bodies are never logged.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func secureHeaders(isDevelopment bool) gin.HandlerFunc {
	s := secure.New(secure.Options{
		IsDevelopment:      isDevelopment,
		ContentTypeNosniff: true,
		FrameDeny:          true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
		}
	}
}

// rateLimit limits by client IP with an in-memory store. rateFormatted is
// "20-M", "1000-H" and so on; empty disables limiting.
func rateLimit(rateFormatted string) (gin.HandlerFunc, error) {
	if rateFormatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	return mgin.NewMiddleware(
		limiter.New(memory.NewStore(), rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.Failure(http.StatusTooManyRequests, "too many requests", c.Request.URL.Path))
		}),
	), nil
}
