package response

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrAlreadySent  = errors.New("response already sent")
)

// Writer assembles and sends the response for one request. Every send
// operation is terminal: once one has run, the others fail with
// ErrAlreadySent.
type Writer interface {
	AddHeader(line string)
	AddContentType(value string)
	AddCookie(name, value string)

	SendFile(path string) error
	SendText(body string) error
	Redirect(location string) error
	NotFound() error
	BadRequest() error

	Sent() bool
	Closing() bool
	Err() error
}

type writer struct {
	conn    io.Writer
	headers *HeaderSet
	head    bool
	sent    bool
	closing bool
	err     error
}

func NewWriter(conn io.Writer, headers *HeaderSet, method string) Writer {
	return &writer{
		conn:    conn,
		headers: headers,
		head:    method == "HEAD",
	}
}

func (w *writer) AddHeader(line string) {
	w.headers.Add(line)
}

func (w *writer) AddContentType(value string) {
	w.AddHeader("Content-Type: " + value)
}

func (w *writer) AddCookie(name, value string) {
	w.AddHeader("Set-Cookie: " + name + "=" + value)
}

// SendFile writes the file with a 200 status, or the 404 payload when it
// does not exist. HEAD requests get the headers, Content-Length included,
// without the body.
func (w *writer) SendFile(path string) error {
	if w.sent {
		return ErrAlreadySent
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return errors.Join(fmt.Errorf("%w: %s", ErrFileNotFound, path), w.NotFound())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(fmt.Errorf("read %s: %w", path, err), w.NotFound())
	}

	w.AddContentType(ContentTypeFor(path))
	w.sent = true

	if err = w.write(w.buildHead(statusOK, len(content), 0)); err != nil {
		return err
	}
	if w.head {
		return nil
	}
	return w.write(content)
}

func (w *writer) SendText(body string) error {
	if w.sent {
		return ErrAlreadySent
	}
	w.AddContentType("text/plain")
	w.sent = true

	buf := w.buildHead(statusOK, len(body), len(body))
	if !w.head {
		buf = append(buf, body...)
	}
	return w.write(buf)
}

func (w *writer) Redirect(location string) error {
	if w.sent {
		return ErrAlreadySent
	}
	w.sent = true
	w.closing = true

	buf := make([]byte, 0, len(statusRedirect)+len(location)+w.headers.size()+40)
	buf = append(buf, statusRedirect...)
	buf = append(buf, "Connection: Close\r\n"...)
	buf = append(buf, "Location: "...)
	buf = append(buf, sanitize(location)...)
	buf = append(buf, '\r', '\n')
	buf = w.headers.appendTo(buf)
	buf = append(buf, '\r', '\n')
	return w.write(buf)
}

func (w *writer) NotFound() error {
	if w.sent {
		return ErrAlreadySent
	}
	w.sent = true
	return w.write(NotFoundResponse)
}

func (w *writer) BadRequest() error {
	if w.sent {
		return ErrAlreadySent
	}
	w.sent = true
	w.closing = true
	return w.write(BadRequestResponse)
}

func (w *writer) Sent() bool { return w.sent }

// Closing reports whether the response told the client the connection ends.
func (w *writer) Closing() bool { return w.closing }

// Err returns the first write failure, if any.
func (w *writer) Err() error { return w.err }

// buildHead serializes the status line, accumulated headers and
// Content-Length. reserve is extra capacity for a body appended in place.
func (w *writer) buildHead(status string, contentLength, reserve int) []byte {
	buf := make([]byte, 0, len(status)+w.headers.size()+reserve+32)
	buf = append(buf, status...)
	buf = w.headers.appendTo(buf)
	buf = append(buf, "Content-Length: "...)
	buf = strconv.AppendInt(buf, int64(contentLength), 10)
	buf = append(buf, "\r\n\r\n"...)
	return buf
}

func (w *writer) write(p []byte) error {
	if _, err := w.conn.Write(p); err != nil {
		if w.err == nil {
			w.err = err
		}
		return err
	}
	return nil
}
