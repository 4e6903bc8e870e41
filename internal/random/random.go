package random

import (
	"crypto/rand"
	"fmt"
	"io"
)

var (
	ErrInvalidLength = fmt.Errorf("invalid length")
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Random produces short identifiers used to tell connections apart in logs
// and in the session registry.
type Random interface {
	String(length int) (string, error)
}

type random struct {
	reader io.Reader
}

func New() Random {
	return &random{reader: rand.Reader}
}

func (r *random) String(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	b := make([]byte, length)
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b), nil
}
