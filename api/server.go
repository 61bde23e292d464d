/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontends
  5. WithAuth:   Bearer-token verification (statement routes only)

ROUTE GROUPS:
  /api/v1/users        Registration (public)
  /api/v1/sessions     Authentication (public)
  /api/v1/statements/* Ledger operations (authenticated)

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Token verification
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, verifier TokenVerifier) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", h.Register)
		r.Post("/sessions", h.CreateSession)

		// Statement routes (authenticated)
		r.Route("/statements", func(r chi.Router) {
			r.Use(WithAuth(verifier))

			r.Get("/balance", h.GetBalance)
			r.Post("/deposit", h.Deposit)
			r.Post("/withdraw", h.Withdraw)
			r.Get("/{statement_id}", h.GetOperation)
		})
	})

	return r
}
