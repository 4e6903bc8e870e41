package transport

import (
	"net"
)

// Transport binds a listening socket and runs the accept loop on it. Serve
// returns an error wrapping net.ErrClosed once the listener is closed.
type Transport interface {
	Listen() (net.Listener, error)
	Serve(listener net.Listener) error
}
