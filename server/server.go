package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"uniquehttpd/internal/config"
	"uniquehttpd/internal/console"
	"uniquehttpd/internal/http/header"
	"uniquehttpd/internal/http/response"
	"uniquehttpd/internal/middleware"
	"uniquehttpd/internal/registry"
	"uniquehttpd/internal/router"
	"uniquehttpd/internal/stats"
	"uniquehttpd/internal/transport"

	"golang.org/x/sync/errgroup"
)

type (
	Request        = header.Request
	ResponseWriter = response.Writer
	HandlerFunc    = router.HandlerFunc
)

var ErrInvalidHeader = errors.New("invalid response header")

// Server is the configuration surface of the HTTP server. Everything is
// registered before Start; afterwards the tables are read-only and further
// registrations fail with router.ErrFrozen.
type Server interface {
	RegisterRoute(method, path string, fn HandlerFunc) error
	RegisterFolder(prefix string) error
	RegisterResponseHeader(line string) error

	Start(ctx context.Context) error
	Serve(ctx context.Context, listener net.Listener) error
	Stats() stats.Stats
}

type server struct {
	config   config.Config
	router   router.Router
	stats    stats.Stats
	sessions registry.Registry
	headers  []string
}

func New(conf config.Config) Server {
	return &server{
		config:   conf,
		router:   router.New(conf.MaxRoutes(), conf.MaxFolders()),
		stats:    stats.New(),
		sessions: registry.NewRegistry(),
	}
}

func (s *server) RegisterRoute(method, path string, fn HandlerFunc) error {
	return s.router.HandleFunc(method, path, fn)
}

func (s *server) RegisterFolder(prefix string) error {
	return s.router.Folder(prefix)
}

// RegisterResponseHeader adds a "Name: value" line sent with every
// response, after the default Server and Content-Security-Policy lines.
func (s *server) RegisterResponseHeader(line string) error {
	if s.router.Frozen() {
		return router.ErrFrozen
	}
	name, _, ok := strings.Cut(line, ":")
	if !ok || strings.TrimSpace(name) == "" || strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidHeader, line)
	}
	s.headers = append(s.headers, line)
	return nil
}

func (s *server) Stats() stats.Stats {
	return s.stats
}

func (s *server) Start(ctx context.Context) error {
	srv, err := s.newTransport()
	if err != nil {
		return err
	}
	listener, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", s.config.Port(), err)
	}
	return s.serve(ctx, srv, listener)
}

// Serve runs the acceptor on an existing listener until ctx is done, then
// closes the listener and the socket of every open session.
func (s *server) Serve(ctx context.Context, listener net.Listener) error {
	srv, err := s.newTransport()
	if err != nil {
		_ = listener.Close()
		return err
	}
	return s.serve(ctx, srv, listener)
}

func (s *server) newTransport() (transport.Transport, error) {
	s.router.Freeze()
	base, err := s.baseHeaders()
	if err != nil {
		return nil, err
	}
	return transport.NewHTTPServer(s.config, s.router, s.stats, s.sessions, base), nil
}

func (s *server) serve(ctx context.Context, srv transport.Transport, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, net.ErrClosed) && gctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		var errs []error
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		if n := s.sessions.Len(); n > 0 {
			console.Closing("Cancelling %d open session(s)", n)
		}
		if err := s.sessions.CancelAll(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

func (s *server) baseHeaders() ([]string, error) {
	hs := response.NewHeaderSet()
	err := middleware.Apply(hs,
		middleware.NewServerFingerprint(),
		middleware.NewSecurityPolicy(middleware.DefaultScriptPolicy),
	)
	if err != nil {
		return nil, err
	}
	for _, line := range s.headers {
		hs.Add(line)
	}
	return hs.Lines(), nil
}
