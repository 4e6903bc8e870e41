package stream

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceive(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	defer s.Close()

	go func() {
		_, _ = client.Write([]byte("GET / HTTP/1.1\r\n"))
	}()

	data, err := s.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "GET / HTTP/1.1\r\n", string(data))
}

func TestReceiveTruncatesAtCapacity(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 4)
	defer s.Close()

	go func() {
		_, _ = client.Write([]byte("abcdefgh"))
	}()

	first, err := s.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(first))

	second, err := s.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "efgh", string(second))
	assert.Equal(t, "abcd", string(first), "earlier data must not alias the buffer")
}

func TestReceiveTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	defer s.Close()

	start := time.Now()
	data, err := s.Receive(50 * time.Millisecond)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, data)
	assert.Less(t, time.Since(start), time.Second)
}

func TestReceiveAfterPeerClosed(t *testing.T) {
	client, server := net.Pipe()
	s := New(server, 16)
	defer s.Close()

	require.NoError(t, client.Close())

	data, err := s.Receive(time.Second)
	assert.NoError(t, err)
	assert.Empty(t, data)
}

func TestReceiveOnClosedStream(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	require.NoError(t, s.Close())

	_, err := s.Receive(time.Second)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestWrite(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	defer s.Close()

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 32)
		n, _ := client.Read(buf)
		got <- string(buf[:n])
	}()

	n, err := s.Write([]byte("HTTP/1.1 200 OK"))
	require.NoError(t, err)
	assert.Equal(t, 15, n)
	assert.Equal(t, "HTTP/1.1 200 OK", <-got)
}

func TestWriteFailure(t *testing.T) {
	client, server := net.Pipe()
	s := New(server, 16)
	defer s.Close()

	require.NoError(t, client.Close())

	_, err := s.Write([]byte("HTTP/1.1 200 OK"))
	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestCloseIsIdempotent(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestRemoteAddr(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	s := New(server, 16)
	defer s.Close()

	assert.Equal(t, server.RemoteAddr(), s.RemoteAddr())
}
