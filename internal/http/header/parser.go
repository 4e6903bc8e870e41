package header

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrEmptyRequest       = errors.New("empty request")
	ErrMalformedStartLine = errors.New("malformed start line")
	ErrMissingHost        = errors.New("missing Host header")
)

var (
	nameHost          = []byte("Host")
	nameConnection    = []byte("Connection")
	nameCookie        = []byte("Cookie")
	nameContentType   = []byte("Content-Type")
	nameContentLength = []byte("Content-Length")

	tokenKeepAlive = []byte("keep-alive")
	mediaForm      = []byte("application/x-www-form-urlencoded")
	mediaMultipart = []byte("multipart/form-data")
	paramBoundary  = []byte("boundary=")
)

// NewRequest parses one request message. The Request keeps borrowing data,
// so the caller must not reuse the slice while the Request is alive.
// Anything past the receive capacity has already been cut off by the
// reader; such requests are parsed as far as the bytes go.
func NewRequest(data []byte) (*Request, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyRequest
	}

	req := &Request{
		raw:           data,
		method:        none,
		target:        none,
		version:       none,
		path:          none,
		query:         none,
		fragment:      none,
		host:          none,
		connection:    none,
		cookie:        none,
		contentType:   none,
		contentLength: none,
		boundary:      none,
		contentLenVal: -1,
	}

	lineEnd := indexLineEnd(data, 0)
	if err := req.parseStartLine(span{start: 0, end: trimCR(data, 0, lineEnd)}); err != nil {
		return nil, err
	}
	req.splitTarget()

	bodyStart := req.parseHeaderBlock(lineEnd + 1)
	if !req.host.ok() {
		return nil, fmt.Errorf("%w: %s %s", ErrMissingHost, req.Method(), req.Path())
	}

	if bodyStart < len(data) {
		req.body = data[bodyStart:len(data):len(data)]
	}
	req.classifyContent()

	return req, nil
}

// parseStartLine takes the first two space separated tokens as method and
// request target, and a third, if present, as the protocol version.
func (req *Request) parseStartLine(line span) error {
	tokens := make([]span, 0, 3)
	i := line.start
	for i < line.end && len(tokens) < 3 {
		for i < line.end && req.raw[i] == ' ' {
			i++
		}
		if i == line.end {
			break
		}
		start := i
		for i < line.end && req.raw[i] != ' ' {
			i++
		}
		tokens = append(tokens, span{start: start, end: i})
	}

	if len(tokens) < 2 {
		return fmt.Errorf("%w: %q", ErrMalformedStartLine, req.raw[line.start:line.end])
	}

	req.method = tokens[0]
	req.target = tokens[1]
	if len(tokens) == 3 {
		req.version = span{start: tokens[2].start, end: line.end}
	}
	return nil
}

// splitTarget separates path, query and fragment. A '?' that only shows up
// inside the fragment belongs to the fragment.
func (req *Request) splitTarget() {
	t := req.target
	uri := req.raw[t.start:t.end]

	pathEnd := t.end
	if hash := bytes.IndexByte(uri, '#'); hash >= 0 {
		req.fragment = span{start: t.start + hash + 1, end: t.end}
		pathEnd = t.start + hash
	}
	if q := bytes.IndexByte(req.raw[t.start:pathEnd], '?'); q >= 0 {
		req.query = span{start: t.start + q + 1, end: pathEnd}
		pathEnd = t.start + q
	}
	req.path = span{start: t.start, end: pathEnd}
}

// parseHeaderBlock records every line up to the first empty one and returns
// the offset where the body begins. Both CRLF and bare LF line endings are
// accepted.
func (req *Request) parseHeaderBlock(pos int) int {
	data := req.raw
	for pos < len(data) {
		lineEnd := indexLineEnd(data, pos)
		end := trimCR(data, pos, lineEnd)
		if end == pos {
			return lineEnd + 1
		}

		line := span{start: pos, end: end}
		req.headers = append(req.headers, line)
		req.classifyHeader(line)

		pos = lineEnd + 1
	}
	return len(data)
}

// classifyHeader keeps one value per interesting header. When a header
// repeats, the last line wins.
func (req *Request) classifyHeader(line span) {
	k, v, ok := splitHeaderLine(req.raw[line.start:line.end])
	if !ok {
		return
	}
	key := req.raw[line.start+k.start : line.start+k.end]
	v = span{start: line.start + v.start, end: line.start + v.end}

	switch {
	case bytes.EqualFold(key, nameHost):
		req.host = v
	case bytes.EqualFold(key, nameConnection):
		req.connection = v
	case bytes.EqualFold(key, nameCookie):
		req.cookie = v
	case bytes.EqualFold(key, nameContentType):
		req.contentType = v
	case bytes.EqualFold(key, nameContentLength):
		req.contentLength = v
	}
}

func (req *Request) classifyContent() {
	if req.connection.ok() {
		for _, token := range bytes.Split(req.raw[req.connection.start:req.connection.end], []byte(",")) {
			if bytes.EqualFold(bytes.TrimSpace(token), tokenKeepAlive) {
				req.keepAlive = true
			}
		}
	}

	if req.contentLength.ok() {
		req.contentLenVal = parseContentLength(req.raw[req.contentLength.start:req.contentLength.end])
	}

	if !req.contentType.ok() {
		return
	}

	ct := req.contentType
	value := req.raw[ct.start:ct.end]
	media := value
	if semi := bytes.IndexByte(value, ';'); semi >= 0 {
		media = value[:semi]
	}
	media = bytes.TrimSpace(media)

	switch {
	case bytes.EqualFold(media, mediaForm):
		req.form = true
	case bytes.EqualFold(media, mediaMultipart):
		req.multipart = true
		req.boundary = findBoundary(value, ct.start)
	}
}

// findBoundary locates the boundary parameter of a multipart content type.
// offset is the position of value inside the raw buffer.
func findBoundary(value []byte, offset int) span {
	idx := bytes.Index(value, paramBoundary)
	if idx < 0 {
		return none
	}
	start := idx + len(paramBoundary)
	end := start
	for end < len(value) && value[end] != ';' && value[end] != ' ' {
		end++
	}
	if end-start >= 2 && value[start] == '"' && value[end-1] == '"' {
		start++
		end--
	}
	if start >= end {
		return none
	}
	return span{start: offset + start, end: offset + end}
}

// splitHeaderLine cuts a raw header line at its first colon. The returned
// spans are relative to line and exclude surrounding whitespace.
func splitHeaderLine(line []byte) (key, value span, ok bool) {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return none, none, false
	}
	return trimSpan(line, 0, colon), trimSpan(line, colon+1, len(line)), true
}

func trimSpan(b []byte, start, end int) span {
	for start < end && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return span{start: start, end: end}
}

func indexLineEnd(data []byte, from int) int {
	if idx := bytes.IndexByte(data[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(data)
}

func trimCR(data []byte, start, end int) int {
	if end > start && data[end-1] == '\r' {
		return end - 1
	}
	return end
}
