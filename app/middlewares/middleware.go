package middlewares

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/utils/sessions"
	"github.com/google/uuid"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// SessionMiddleware issues the cart session cookie and puts the cart id,
// user id and client IP on the request context.
func SessionMiddleware(store sessions.SessionStore, rnd *render.Render, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID, err := store.EnsureCartID(w, r)
			if err != nil {
				logger.Error("SessionMiddleware: could not issue cart session", zap.Error(err))
				_ = rnd.JSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyCartID, cartID)
			if userID := store.GetUserID(r); userID != "" {
				ctx = context.WithValue(ctx, helpers.ContextKeyUserID, userID)
			}
			ctx = context.WithValue(ctx, helpers.ContextKeyClientIP, ClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// RequestLogger tags each request with an id and logs it once served.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w}
			ctx := context.WithValue(r.Context(), helpers.ContextKeyRequestID, requestID)
			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Warn("RequestLogger: request failed", fields...)
				return
			}
			logger.Info("RequestLogger: request served", fields...)
		})
	}
}

// Recoverer turns a handler panic into a 500 response.
func Recoverer(rnd *render.Render, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					logger.Error("Recoverer: handler panicked",
						zap.Any("panic", rv),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"))
					_ = rnd.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop and falls back to the
// connection address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
