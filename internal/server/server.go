package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/config"
	"github.com/hongminglow/shoptrack-be/internal/http/handlers"
	"github.com/hongminglow/shoptrack-be/internal/middleware"
	"github.com/hongminglow/shoptrack-be/internal/service"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, denylist auth.Denylist, log zerolog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, store, denylist, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewRouter builds the HTTP handler tree. Exposed so tests can drive it
// through httptest.
func NewRouter(cfg config.Config, store storage.Store, denylist auth.Denylist, log zerolog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	accounts := service.NewAccounts(store, tokens, cfg.StorageTimeout)
	lists := service.NewLists(store, store, cfg.StorageTimeout)
	items := service.NewItems(store, cfg.StorageTimeout)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now(), store).Register(r)

	authHandler := handlers.NewAuthHandler(accounts, denylist, log)
	authHandler.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, denylist, log))
		authHandler.RegisterProtected(r)
		handlers.NewListHandler(lists, items, log).Register(r)
		handlers.NewItemHandler(items, log).Register(r)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
