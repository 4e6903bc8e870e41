package lifecycle

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Receiving
	Parsing
	Dispatching
	Responding
	KeepAliveWait
	Closed
)

var stateNames = [...]string{
	Idle:          "idle",
	Receiving:     "receiving",
	Parsing:       "parsing",
	Dispatching:   "dispatching",
	Responding:    "responding",
	KeepAliveWait: "keep-alive-wait",
	Closed:        "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type Releaser interface {
	Release()
}

type Lifecycle interface {
	State() State
	SetState(state State)
	IsActive() bool
	StartedAt() time.Time
	Requests() int
	CountRequest()
	Close() error
}

type lifecycle struct {
	mu        sync.Mutex
	state     State
	closeErr  error
	conn      io.Closer
	headers   Releaser
	startedAt time.Time
	requests  int
}

func New(conn io.Closer, headers Releaser) Lifecycle {
	return &lifecycle{
		state:     Idle,
		conn:      conn,
		headers:   headers,
		startedAt: time.Now(),
	}
}

// SetState moves the session forward. Closed is terminal; nothing leaves it.
func (l *lifecycle) SetState(state State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Closed {
		return
	}
	l.state = state
}

func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *lifecycle) IsActive() bool {
	return l.State() != Closed
}

func (l *lifecycle) StartedAt() time.Time {
	return l.startedAt
}

func (l *lifecycle) Requests() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests
}

func (l *lifecycle) CountRequest() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests++
}

// Close releases the header accumulator and the connection exactly once.
// Later calls return the first result.
func (l *lifecycle) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Closed {
		return l.closeErr
	}
	l.state = Closed

	var errs []error
	if l.headers != nil {
		l.headers.Release()
	}
	if l.conn != nil {
		if err := l.conn.Close(); err != nil && !isClosedError(err) {
			errs = append(errs, err)
		}
	}

	l.closeErr = errors.Join(errs...)
	return l.closeErr
}

func isClosedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
