package middleware

import (
	"bytes"
	"net/http"
)

// recorder tracks what a handler wrote. The body is only buffered when
// captureBody is set, for idempotent replays.
type recorder struct {
	http.ResponseWriter
	status      int
	written     int
	captureBody bool
	body        bytes.Buffer
}

func newRecorder(w http.ResponseWriter) *recorder {
	if rec, ok := w.(*recorder); ok {
		return rec
	}
	return &recorder{ResponseWriter: w}
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	if r.captureBody {
		r.body.Write(b)
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += n
	return n, err
}

// Status is 200 for handlers that never wrote.
func (r *recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *recorder) wroteHeader() bool {
	return r.status != 0
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
