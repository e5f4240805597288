package transport

import "net/http"

// Guards holds the optional middlewares applied to route groups. A nil
// guard lets requests through.
type Guards struct {
	// Auth protects every mutating route.
	Auth func(http.Handler) http.Handler
	// Admin additionally protects report deletion.
	Admin func(http.Handler) http.Handler
	// RateLimit throttles stock-moving routes.
	RateLimit func(http.Handler) http.Handler
}

func (g Guards) auth() func(http.Handler) http.Handler      { return orPassthrough(g.Auth) }
func (g Guards) admin() func(http.Handler) http.Handler     { return orPassthrough(g.Admin) }
func (g Guards) rateLimit() func(http.Handler) http.Handler { return orPassthrough(g.RateLimit) }
