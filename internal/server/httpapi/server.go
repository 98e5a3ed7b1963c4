package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmarquez/usermirror/internal/logging"
)

const shutdownGrace = 5 * time.Second

type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer builds the HTTP server with the route table:
//
//	POST /users           register
//	GET  /users           list mirrored users
//	POST /users/confirm   submit confirmation code
//	POST /users/login     password authentication
//	GET  /users/pool      list provider-side usernames
func NewServer(addr string, h *Handler, requestTimeout time.Duration, logger logging.Logger) *Server {
	r := chi.NewRouter()

	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createUser)
		r.Get("/", h.listUsers)
		r.Post("/confirm", h.confirmUser)
		r.Post("/login", h.loginUser)
		r.Get("/pool", h.listPoolUsers)
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	}

	return &Server{srv: srv, logger: logger}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
