package router

import (
	"bytes"
	"testing"
	"uniquehttpd/internal/http/header"
	"uniquehttpd/internal/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(req *header.Request, w response.Writer) {
	m.Called(req.Method(), req.Path())
}

func newRequest(t *testing.T, method, target string) *header.Request {
	t.Helper()
	req, err := header.NewRequest([]byte(method + " " + target + " HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	require.NoError(t, err)
	return req
}

func newWriter() response.Writer {
	return response.NewWriter(&bytes.Buffer{}, response.NewHeaderSet(), "GET")
}

func TestDispatchRouteByMethod(t *testing.T) {
	getHandler := new(MockHandler)
	postHandler := new(MockHandler)
	lateHandler := new(MockHandler)

	r := New(0, 0)
	require.NoError(t, r.Handle("GET", "/login", getHandler))
	require.NoError(t, r.Handle("POST", "/login", postHandler))
	require.NoError(t, r.Handle("POST", "/login", lateHandler))

	postHandler.On("Handle", "POST", "/login").Return().Once()

	result := r.Dispatch(newRequest(t, "POST", "/login"), newWriter())

	assert.Equal(t, Result{Disposition: Handled}, result)
	postHandler.AssertExpectations(t)
	getHandler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	lateHandler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatchHeadMatchesAnyMethod(t *testing.T) {
	postHandler := new(MockHandler)
	getHandler := new(MockHandler)

	r := New(0, 0)
	require.NoError(t, r.Handle("POST", "/form", postHandler))
	require.NoError(t, r.Handle("GET", "/form", getHandler))

	postHandler.On("Handle", "HEAD", "/form").Return().Once()

	result := r.Dispatch(newRequest(t, "HEAD", "/form"), newWriter())

	assert.Equal(t, Handled, result.Disposition)
	postHandler.AssertExpectations(t)
	getHandler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatchHeadStillNeedsPathMatch(t *testing.T) {
	h := new(MockHandler)

	r := New(0, 0)
	require.NoError(t, r.Handle("GET", "/a", h))

	result := r.Dispatch(newRequest(t, "HEAD", "/b"), newWriter())

	assert.Equal(t, NotFound, result.Disposition)
	h.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatchIgnoresQuery(t *testing.T) {
	h := new(MockHandler)
	h.On("Handle", "GET", "/search").Return().Once()

	r := New(0, 0)
	require.NoError(t, r.Handle("GET", "/search", h))

	result := r.Dispatch(newRequest(t, "GET", "/search?q=1#top"), newWriter())

	assert.Equal(t, Handled, result.Disposition)
	h.AssertExpectations(t)
}

func TestDispatchFolders(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		folders []string
		expect  Result
	}{
		{
			name:    "substring match serves file",
			method:  "GET",
			target:  "/static/app.js",
			folders: []string{"/static"},
			expect:  Result{Disposition: ServeFile, File: "./static/app.js"},
		},
		{
			name:    "match is not anchored",
			method:  "GET",
			target:  "/site/static/app.js",
			folders: []string{"static"},
			expect:  Result{Disposition: ServeFile, File: "./site/static/app.js"},
		},
		{
			name:    "HEAD serves file",
			method:  "HEAD",
			target:  "/index.html",
			folders: []string{"/"},
			expect:  Result{Disposition: ServeFile, File: "./index.html"},
		},
		{
			name:    "POST never serves folders",
			method:  "POST",
			target:  "/static/app.js",
			folders: []string{"/static"},
			expect:  Result{Disposition: NotFound},
		},
		{
			name:    "parent segments are refused",
			method:  "GET",
			target:  "/static/../../etc/passwd",
			folders: []string{"/static"},
			expect:  Result{Disposition: NotFound},
		},
		{
			name:    "no folder matches",
			method:  "GET",
			target:  "/other/file.txt",
			folders: []string{"/static"},
			expect:  Result{Disposition: NotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(0, 0)
			for _, f := range tt.folders {
				require.NoError(t, r.Folder(f))
			}
			assert.Equal(t, tt.expect, r.Dispatch(newRequest(t, tt.method, tt.target), newWriter()))
		})
	}
}

func TestDispatchRoutesBeatFolders(t *testing.T) {
	h := new(MockHandler)
	h.On("Handle", "GET", "/static/override.js").Return().Once()

	r := New(0, 0)
	require.NoError(t, r.Folder("/static"))
	require.NoError(t, r.Handle("GET", "/static/override.js", h))

	result := r.Dispatch(newRequest(t, "GET", "/static/override.js"), newWriter())

	assert.Equal(t, Handled, result.Disposition)
	h.AssertExpectations(t)
}

func TestTableFull(t *testing.T) {
	h := new(MockHandler)
	r := New(2, 1)

	require.NoError(t, r.Handle("GET", "/a", h))
	require.NoError(t, r.Handle("GET", "/b", h))
	assert.ErrorIs(t, r.Handle("GET", "/c", h), ErrTableFull)

	require.NoError(t, r.Folder("/static"))
	assert.ErrorIs(t, r.Folder("/assets"), ErrTableFull)

	h.On("Handle", "GET", "/b").Return().Once()
	assert.Equal(t, Handled, r.Dispatch(newRequest(t, "GET", "/b"), newWriter()).Disposition)
	assert.Equal(t, NotFound, r.Dispatch(newRequest(t, "GET", "/c"), newWriter()).Disposition)
	h.AssertExpectations(t)
}

func TestRegistrationAfterFreeze(t *testing.T) {
	r := New(0, 0)
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.HandleFunc("GET", "/", func(*header.Request, response.Writer) {}), ErrFrozen)
	assert.ErrorIs(t, r.Folder("/"), ErrFrozen)
}

func TestInvalidRegistration(t *testing.T) {
	r := New(0, 0)

	assert.ErrorIs(t, r.HandleFunc("GET", "/", nil), ErrInvalidRoute)
	assert.ErrorIs(t, r.Handle("", "/", new(MockHandler)), ErrInvalidRoute)
	assert.ErrorIs(t, r.Handle("GET", "", new(MockHandler)), ErrInvalidRoute)
	assert.ErrorIs(t, r.Folder(""), ErrInvalidRoute)
}

func TestHandlerFuncReceivesWriter(t *testing.T) {
	var buf bytes.Buffer
	r := New(0, 0)
	require.NoError(t, r.HandleFunc("GET", "/hello", func(req *header.Request, w response.Writer) {
		_ = w.SendText("hello")
	}))

	w := response.NewWriter(&buf, response.NewHeaderSet(), "GET")
	result := r.Dispatch(newRequest(t, "GET", "/hello"), w)

	assert.Equal(t, Handled, result.Disposition)
	assert.True(t, w.Sent())
	assert.Contains(t, buf.String(), "\r\n\r\nhello")
}

func TestDispositionString(t *testing.T) {
	assert.Equal(t, "handled", Handled.String())
	assert.Equal(t, "serve-file", ServeFile.String())
	assert.Equal(t, "not-found", NotFound.String())
}
