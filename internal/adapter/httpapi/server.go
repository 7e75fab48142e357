package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexusdev/nexushomes-backend/internal/adapter/httpapi/middleware"
	"github.com/nexusdev/nexushomes-backend/internal/config"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

// Server wraps the chi router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(cfg config.HTTPServerConfig, handler *ListingHandler, jwtSecret string, log logger.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger(log))

	r.Get("/api/listings", handler.HandleGetActive)
	r.Get("/api/listings/{id}", handler.HandleGetByID)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(jwtSecret, log))
		protected.Get("/api/my/listings", handler.HandleGetMine)
		protected.Post("/api/listings", handler.HandlePublish)
		protected.Put("/api/listings/{id}", handler.HandleUpdate)
		protected.Delete("/api/listings/{id}", handler.HandleDelete)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: log,
	}
}

func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
