package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterOptions configure middleware that varies per deployment.
type RouterOptions struct {
	// AuthMiddleware authenticates requests and stores the subject in context.
	AuthMiddleware func(http.Handler) http.Handler

	// CORSAllowedOrigins defaults to allowing any origin when empty.
	CORSAllowedOrigins []string
}

// NewRouter constructs the API HTTP router.
//
// Middleware order matters: the recoverer is installed before auth and the
// handlers so every failure path, including panics, ends in the shared
// error envelope.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRecoverer(s.log))

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Debug-Subject"},
	}).Handler)

	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	// Health endpoint is used for infra checks and bypasses auth.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{userID}", s.handleGetUser)
		r.Get("/me", s.handleGetMe)
		r.Patch("/me", s.handleUpdateMe)
	})

	return r
}
