package middleware

import (
	"net/http"

	"sales-inventory/internal/config"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Response headers the API sets and browsers may read.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
	HeaderRequestID          = "X-Request-Id"
)

// ExposedHeaders are readable by cross-origin clients: the rate limit
// counters and the request id that correlates a response with server logs.
var ExposedHeaders = []string{
	HeaderRateLimitLimit,
	HeaderRateLimitRemaining,
	HeaderRateLimitReset,
	HeaderRetryAfter,
	HeaderRequestID,
}

// CORSMiddleware builds the CORS handler from cfg. Development and an
// empty origin list both mean any origin.
func CORSMiddleware(cfg config.CORSConfig, isDevelopment bool) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if isDevelopment || len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderRequestID},
		ExposedHeaders:   ExposedHeaders,
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// echoRequestID returns the request id chi assigned in a response header.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(HeaderRequestID, id)
		}
		next.ServeHTTP(w, r)
	})
}

// DefaultMiddlewareStack returns the chi middleware every route runs
// behind.
func DefaultMiddlewareStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		echoRequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Compress(5),
	}
}
