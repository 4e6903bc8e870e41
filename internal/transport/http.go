package transport

import (
	"context"
	"errors"
	"net"
	"uniquehttpd/internal/config"
	"uniquehttpd/internal/console"
	"uniquehttpd/internal/http/stream"
	"uniquehttpd/internal/random"
	"uniquehttpd/internal/registry"
	"uniquehttpd/internal/router"
	"uniquehttpd/internal/stats"

	"golang.org/x/net/netutil"
)

const sessionIDLength = 8

type httpServer struct {
	config      config.Config
	router      router.Router
	stats       stats.Stats
	registry    registry.Registry
	random      random.Random
	baseHeaders []string
}

// NewHTTPServer builds the acceptor. Every accepted connection is tracked in
// sessionRegistry while it is open, and baseHeaders seed its response
// header set.
func NewHTTPServer(cfg config.Config, rt router.Router, st stats.Stats, sessionRegistry registry.Registry, baseHeaders []string) Transport {
	return &httpServer{
		config:      cfg,
		router:      rt,
		stats:       st,
		registry:    sessionRegistry,
		random:      random.New(),
		baseHeaders: append([]string(nil), baseHeaders...),
	}
}

func (ht *httpServer) Listen() (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	listener, err := lc.Listen(context.Background(), "tcp4", ":"+ht.config.Port())
	if err != nil {
		return nil, err
	}
	if limit := ht.config.MaxConnections(); limit > 0 {
		listener = netutil.LimitListener(listener, limit)
	}
	return listener, nil
}

func (ht *httpServer) Serve(listener net.Listener) error {
	console.Startup("HTTP server is listening on port %s", ht.config.Port())
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			console.Error("Error accepting connection: %v", err)
			continue
		}

		ht.stats.AddConnection()
		go ht.handler(conn)
	}
}

func (ht *httpServer) handler(conn net.Conn) {
	id, err := ht.random.String(sessionIDLength)
	if err != nil {
		console.Error("Error generating session id: %v", err)
		id = conn.RemoteAddr().String()
	}

	sess := newSession(id, stream.New(conn, ht.config.BufferSize()), sessionConfig{
		rootDir:             ht.config.RootDir(),
		firstRequestTimeout: ht.config.FirstRequestTimeout(),
		keepAliveTimeout:    ht.config.KeepAliveTimeout(),
		emptyReadLimit:      ht.config.EmptyReadLimit(),
		baseHeaders:         ht.baseHeaders,
	}, ht.router, ht.stats)

	if ht.registry.Register(sess) {
		defer ht.registry.Remove(id)
	} else {
		console.Error("Session id %s already in use, serving untracked", id)
	}
	sess.Run()
}
