package stream

import "fmt"

func (s *stream) Write(p []byte) (int, error) {
	n, err := s.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return n, nil
}
