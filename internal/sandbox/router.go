// Package sandbox is a local stand-in for the storefront REST API, serving
// fixture data so the client can run without the real backend.
package sandbox

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/auth"
	"github.com/example/delicias-storefront/internal/sandbox/middleware"
)

// Options configures the sandbox. Zero values get usable defaults.
type Options struct {
	Fixtures   Fixtures
	JWTSecret  string
	SessionTTL time.Duration
	Orders     OrderSink
	Logger     *zap.Logger
}

// NewRouter wires all sandbox routes under /api.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("sandbox")
	if opts.JWTSecret == "" {
		opts.JWTSecret = "sandbox-insecure-secret"
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Fixtures.Products == nil {
		opts.Fixtures = DefaultFixtures()
	}

	jwtService := auth.NewJWTService(opts.JWTSecret, opts.SessionTTL)
	catalogHandlers := NewCatalogHandlers(opts.Fixtures)
	authHandlers := NewAuthHandlers(NewAccounts(), jwtService, logger)
	orderHandlers := NewOrderHandlers(opts.Orders, logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(withLogging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/productos", func(r chi.Router) {
			r.Get("/", catalogHandlers.ListProducts)
			r.Get("/destacados/", catalogHandlers.Featured)
			r.Get("/categorias/", catalogHandlers.Categories)
			r.Get("/banners/", catalogHandlers.Banners)
			r.Get("/{id}/", catalogHandlers.GetProduct)
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.Post("/registro/", authHandlers.Register)
			r.Post("/login/", authHandlers.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(jwtService))
				r.Post("/logout/", authHandlers.Logout)
				r.Get("/perfil/", authHandlers.Profile)
			})
		})

		if opts.Orders != nil {
			r.Post("/send-email", orderHandlers.SendEmail)
		}
	})

	return r
}

func withLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
