package header

import (
	"bytes"
	"strconv"
	"strings"
)

// span is a borrowed [start, end) range of Request.raw. A negative start
// marks the field as absent.
type span struct {
	start int
	end   int
}

var none = span{start: -1, end: -1}

func (s span) ok() bool { return s.start >= 0 }

type Request struct {
	raw []byte

	method   span
	target   span
	version  span
	path     span
	query    span
	fragment span

	headers []span

	host          span
	connection    span
	cookie        span
	contentType   span
	contentLength span

	boundary      span
	form          bool
	multipart     bool
	keepAlive     bool
	contentLenVal int64

	body []byte
}

func (req *Request) str(s span) string {
	if !s.ok() {
		return ""
	}
	return string(req.raw[s.start:s.end])
}

func (req *Request) Method() string  { return req.str(req.method) }
func (req *Request) Target() string  { return req.str(req.target) }
func (req *Request) Version() string { return req.str(req.version) }
func (req *Request) Path() string    { return req.str(req.path) }
func (req *Request) Host() string    { return req.str(req.host) }
func (req *Request) KeepAlive() bool { return req.keepAlive }
func (req *Request) Body() []byte    { return req.body }

// Query returns the raw query string. A urlencoded form body stands in for
// the query when the request target carried none.
func (req *Request) Query() (string, bool) {
	if req.query.ok() {
		return req.str(req.query), true
	}
	if req.form {
		return string(req.body), true
	}
	return "", false
}

func (req *Request) Fragment() (string, bool) {
	return req.str(req.fragment), req.fragment.ok()
}

func (req *Request) Cookies() (string, bool) {
	return req.str(req.cookie), req.cookie.ok()
}

func (req *Request) ContentType() (string, bool) {
	return req.str(req.contentType), req.contentType.ok()
}

// ContentLength reports the parsed Content-Length value. A header that is
// present but not a valid non-negative integer is reported as absent.
func (req *Request) ContentLength() (int64, bool) {
	if !req.contentLength.ok() || req.contentLenVal < 0 {
		return 0, false
	}
	return req.contentLenVal, true
}

func (req *Request) Boundary() string { return req.str(req.boundary) }

func (req *Request) IsForm() bool      { return req.form }
func (req *Request) IsMultipart() bool { return req.multipart }

// Headers returns the raw header lines in arrival order.
func (req *Request) Headers() []string {
	lines := make([]string, len(req.headers))
	for i, h := range req.headers {
		lines[i] = req.str(h)
	}
	return lines
}

// Header looks up a header by name. The first matching line wins.
func (req *Request) Header(name string) (string, bool) {
	for _, h := range req.headers {
		line := req.raw[h.start:h.end]
		key, value, ok := splitHeaderLine(line)
		if ok && bytes.EqualFold(line[key.start:key.end], []byte(name)) {
			return string(line[value.start:value.end]), true
		}
	}
	return "", false
}

func (req *Request) Cookie(name string) (string, bool) {
	if !req.cookie.ok() {
		return "", false
	}
	for _, pair := range strings.Split(req.str(req.cookie), ";") {
		key, value, _ := strings.Cut(strings.TrimSpace(pair), "=")
		if key == name {
			return value, true
		}
	}
	return "", false
}

func (req *Request) Param(name string) (string, bool) {
	query, ok := req.Query()
	if !ok {
		return "", false
	}
	return lookupParam(query, name)
}

func (req *Request) FragmentParam(name string) (string, bool) {
	fragment, ok := req.Fragment()
	if !ok {
		return "", false
	}
	return lookupParam(fragment, name)
}

// AppendBody adds a continuation read to the body. The parsed body has its
// capacity clipped, so the first append always copies away from raw.
func (req *Request) AppendBody(p []byte) {
	req.body = append(req.body, p...)
}

func lookupParam(source, name string) (string, bool) {
	for _, pair := range strings.Split(source, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key == name {
			return value, true
		}
	}
	return "", false
}

func parseContentLength(value []byte) int64 {
	n, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
