package handler

import (
	"io"
	"net/http"
	"strconv"
)

type streamResponse struct {
	body        io.ReadCloser
	contentType string
	size        int64
	header      http.Header
}

// StreamOption configures a streamed response.
type StreamOption func(*streamResponse)

// WithStreamHeader sets an extra response header.
func WithStreamHeader(key, value string) StreamOption {
	return func(s *streamResponse) {
		s.header.Set(key, value)
	}
}

// WithContentLength sets Content-Length. Non-positive sizes are ignored.
func WithContentLength(size int64) StreamOption {
	return func(s *streamResponse) {
		s.size = size
	}
}

func (s streamResponse) Render(w http.ResponseWriter, r *http.Request) error {
	defer s.body.Close()

	for k, v := range s.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", s.contentType)
	if s.size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(s.size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return nil
	}
	// The status is already sent; a failed copy means the client went away.
	_, _ = io.Copy(w, s.body)
	return nil
}

// Stream responds with 200 and copies body to the client, closing it afterwards.
func Stream(body io.ReadCloser, contentType string, opts ...StreamOption) Response {
	s := streamResponse{body: body, contentType: contentType, header: http.Header{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
