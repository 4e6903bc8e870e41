package stream

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

var (
	ErrTimeout      = errors.New("timed out waiting for data")
	ErrWriteFailure = errors.New("write failure")
)

// Stream is the socket side of one connection: bounded waits for the next
// message into a fixed-size receive buffer, plus writes that report a peer
// hang-up as ErrWriteFailure.
type Stream interface {
	io.WriteCloser
	Receive(timeout time.Duration) ([]byte, error)
	RemoteAddr() net.Addr
}

type stream struct {
	conn net.Conn
	buf  []byte

	closeOnce sync.Once
	closeErr  error
}

func New(conn net.Conn, bufferSize int) Stream {
	return &stream{
		conn: conn,
		buf:  make([]byte, bufferSize),
	}
}

func (s *stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		err := s.conn.Close()
		if err != nil && !errors.Is(err, net.ErrClosed) {
			s.closeErr = err
		}
	})
	return s.closeErr
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}
