package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxLogger       = "logger"
)

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}

// RequestLogger attaches a request-scoped logger and writes one line per
// request once the handler chain is done.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		log := base.With().Str("request_id", c.GetString(ctxRequestID)).Logger()
		c.Set(ctxLogger, log)

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request processed")
	}
}

// loggerFrom returns the request-scoped logger, or the fallback outside the
// RequestLogger chain.
func loggerFrom(c *gin.Context, fallback zerolog.Logger) zerolog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if log, ok := v.(zerolog.Logger); ok {
			return log
		}
	}
	return fallback
}

// RateLimit rejects requests once the shared token bucket is empty. A nil
// limiter disables the check.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			abortError(c, http.StatusTooManyRequests, "rate_limited", "too many recommendation requests, try again shortly")
			return
		}
		c.Next()
	}
}

// limitBodySize rejects a declared oversize body before any handler reads
// it. Chunked bodies have no length up front and are cut off while reading,
// which surfaces as *http.MaxBytesError from binding.
func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			loggerFrom(c, zerolog.Nop()).Warn().
				Int64("content_length", c.Request.ContentLength).
				Int64("limit", maxBytes).
				Msg("request body too large")
			abortError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
