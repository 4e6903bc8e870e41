package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"path/filepath"
	"time"
	"uniquehttpd/internal/console"
	"uniquehttpd/internal/http/header"
	"uniquehttpd/internal/http/response"
	"uniquehttpd/internal/http/stream"
	"uniquehttpd/internal/lifecycle"
	"uniquehttpd/internal/router"
	"uniquehttpd/internal/stats"
)

const emptyReadBackoff = 250 * time.Microsecond

type sessionConfig struct {
	rootDir             string
	firstRequestTimeout time.Duration
	keepAliveTimeout    time.Duration
	emptyReadLimit      int
	baseHeaders         []string
}

// session drives one accepted connection from its first request until it
// closes. Nothing in it is shared with other sessions.
type session struct {
	id        string
	stream    stream.Stream
	headers   *response.HeaderSet
	lifecycle lifecycle.Lifecycle
	router    router.Router
	stats     stats.Stats
	config    sessionConfig
	backoff   time.Duration
}

func newSession(id string, s stream.Stream, cfg sessionConfig, rt router.Router, st stats.Stats) *session {
	headers := response.NewHeaderSet(cfg.baseHeaders...)
	return &session{
		id:        id,
		stream:    s,
		headers:   headers,
		lifecycle: lifecycle.New(s, headers),
		router:    rt,
		stats:     st,
		config:    cfg,
		backoff:   emptyReadBackoff,
	}
}

func (s *session) ID() string { return s.id }

// Cancel closes the socket from outside the session. A pending receive fails
// and Run finishes the teardown on its own goroutine.
func (s *session) Cancel() error {
	return s.stream.Close()
}

// Run serves requests until the peer leaves, a wait times out, the
// empty-read budget runs out or a response ends the connection. A panic in a
// handler ends this session only.
func (s *session) Run() {
	console.Session("%s connected from %s", s.id, s.RemoteAddr())
	defer func() {
		if r := recover(); r != nil {
			console.Error("Session %s aborted: %v", s.id, r)
		}
		if err := s.lifecycle.Close(); err != nil {
			console.Error("Error closing session %s: %v", s.id, err)
		}
		console.Closing("Session %s closed after %d request(s)", s.id, s.lifecycle.Requests())
	}()

	s.lifecycle.SetState(lifecycle.Receiving)
	data, err := s.stream.Receive(s.config.firstRequestTimeout)
	if err != nil {
		s.logReceiveError(err, s.config.firstRequestTimeout)
		return
	}
	if len(data) == 0 {
		return
	}

	for {
		req, keepAlive := s.serve(data)
		if !keepAlive {
			return
		}

		var ok bool
		if data, ok = s.awaitNext(req); !ok {
			return
		}
	}
}

// serve parses and answers one request and reports whether the connection
// stays open for another.
func (s *session) serve(data []byte) (*header.Request, bool) {
	s.lifecycle.SetState(lifecycle.Parsing)
	if console.DebugEnabled() {
		console.Debug("Request from %s:\n%s", s.RemoteAddr(), data)
	}

	req, err := header.NewRequest(data)
	if err != nil {
		console.Error("Bad request from %s: %v", s.RemoteAddr(), err)
		s.lifecycle.SetState(lifecycle.Responding)
		if err = response.NewWriter(s.stream, s.headers, "").BadRequest(); err != nil {
			console.Error("Error writing response to %s: %v", s.RemoteAddr(), err)
		}
		return nil, false
	}

	s.lifecycle.CountRequest()
	s.stats.AddRequest()
	if req.KeepAlive() {
		s.headers.Add("Connection: keep-alive")
	}

	w := response.NewWriter(s.stream, s.headers, req.Method())
	s.lifecycle.SetState(lifecycle.Dispatching)
	result := s.router.Dispatch(req, w)
	console.Debug("%s %s -> %s", req.Method(), req.Path(), result.Disposition)

	s.lifecycle.SetState(lifecycle.Responding)
	switch result.Disposition {
	case router.ServeFile:
		err = w.SendFile(filepath.Join(s.config.rootDir, result.File))
	case router.NotFound:
		err = w.NotFound()
	}

	if err != nil && !errors.Is(err, response.ErrFileNotFound) {
		console.Error("Error writing response to %s: %v", s.RemoteAddr(), err)
		return req, false
	}
	if werr := w.Err(); werr != nil {
		console.Error("Error writing response to %s: %v", s.RemoteAddr(), werr)
		return req, false
	}

	return req, req.KeepAlive() && !w.Closing()
}

// awaitNext waits for the next message on a kept-alive connection. Reads
// carrying the multipart boundary of the previous request are appended to its
// body instead of being parsed as a new request.
func (s *session) awaitNext(prev *header.Request) ([]byte, bool) {
	s.lifecycle.SetState(lifecycle.KeepAliveWait)
	s.headers.Reset()

	var boundary []byte
	if prev != nil && prev.IsMultipart() && prev.Boundary() != "" {
		boundary = []byte(prev.Boundary())
	}

	budget := s.config.emptyReadLimit
	for budget > 0 {
		data, err := s.stream.Receive(s.config.keepAliveTimeout)
		if err != nil {
			s.logReceiveError(err, s.config.keepAliveTimeout)
			return nil, false
		}

		if len(data) == 0 {
			budget--
			time.Sleep(s.backoff)
			continue
		}

		if boundary != nil && bytes.Contains(data, boundary) {
			prev.AppendBody(data)
			continue
		}

		return data, true
	}

	console.Debug("Session %s exhausted its empty read budget", s.id)
	return nil, false
}

func (s *session) logReceiveError(err error, waited time.Duration) {
	switch {
	case errors.Is(err, stream.ErrTimeout):
		console.Info("Session %s sent nothing within %s", s.id, waited)
	case errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		console.Debug("Session %s was cancelled", s.id)
	default:
		console.Error("Error reading from session %s: %v", s.id, err)
	}
}

func (s *session) RemoteAddr() string {
	if addr := s.stream.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
