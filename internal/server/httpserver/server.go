// Package httpserver exposes the services as a JSON REST API.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Services are the handlers' collaborators.
type Services struct {
	Users      *services.UserService
	Tags       *services.TagService
	Tasks      *services.TaskService
	Events     *services.EventService
	Activities *services.ActivityService
	Invites    *services.InviteService
}

type HTTPServer struct {
	address    string
	logger     logging.Logger
	svc        Services
	jwtSecret  []byte
	corsOrigin string
	limiter    *ipLimiter
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services) *HTTPServer {
	return &HTTPServer{
		address:    cfg.HTTPAddress,
		logger:     l.With("module", "http_server"),
		svc:        svc,
		jwtSecret:  []byte(cfg.SecretKey),
		corsOrigin: cfg.CORSOrigin,
		limiter:    newIPLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginRateBurst),
	}
}

// Handler returns the complete middleware chain and routes.
func (s *HTTPServer) Handler() http.Handler {
	return s.recoverer(s.instrument(s.cors(s.routes())))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
