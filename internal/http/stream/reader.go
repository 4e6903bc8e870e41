package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Receive waits up to timeout for the connection to become readable and
// performs a single read of at most the buffer capacity. Bytes beyond the
// capacity stay in the socket and arrive with the next read.
//
// A read that yields nothing, including EOF from a peer that went away,
// returns an empty slice and a nil error; the caller decides how many of
// those it tolerates. The returned slice is owned by the caller.
func (s *stream) Receive(timeout time.Duration) ([]byte, error) {
	if err := s.conn.SetReadDeadline(deadline(timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	n, err := s.conn.Read(s.buf)
	if n > 0 {
		data := make([]byte, n)
		copy(data, s.buf[:n])
		return data, nil
	}

	switch {
	case err == nil, errors.Is(err, io.EOF):
		return []byte{}, nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return nil, ErrTimeout
	default:
		return nil, fmt.Errorf("receive: %w", err)
	}
}
