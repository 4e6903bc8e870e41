package registry

import (
	"errors"
	"fmt"
	"sync"
)

var ErrSessionNotFound = fmt.Errorf("session not found")

// Session is a live connection as seen from outside its own goroutine.
// Cancel only closes the socket; the session notices and tears itself down.
type Session interface {
	ID() string
	RemoteAddr() string
	Cancel() error
}

type Registry interface {
	Register(session Session) (success bool)
	Remove(id string)
	Get(id string) (Session, error)
	Len() int
	CancelAll() error
}

type registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() Registry {
	return &registry{
		sessions: make(map[string]Session),
	}
}

func (r *registry) Register(session Session) (success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID()]; exists {
		return false
	}
	r.sessions[session.ID()] = session
	return true
}

func (r *registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *registry) Get(id string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CancelAll closes the socket of every registered session. Sessions remove
// themselves once they have finished closing.
func (r *registry) CancelAll() error {
	r.mu.RLock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Cancel(); err != nil {
			errs = append(errs, fmt.Errorf("cancel session %s (%s): %w", s.ID(), s.RemoteAddr(), err))
		}
	}
	return errors.Join(errs...)
}
