package middleware

import "net/http"

// statusRecorder captures what a handler wrote. Analysis streams flush once
// per event, so flushes doubles as the streamed event count.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	flushes int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// FlushError is picked up by http.ResponseController.
func (r *statusRecorder) FlushError() error {
	r.flushes++
	return http.NewResponseController(r.ResponseWriter).Flush()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *statusRecorder) streaming() bool {
	return r.Header().Get("Content-Type") == "text/event-stream"
}
