package obs

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kuitang/notes-service/internal/logutil"
)

// maxLoggedBodyBytes bounds how much of a request body the access log keeps.
const maxLoggedBodyBytes = 4096

// ResponseRecorder tracks response status and bytes written.
type ResponseRecorder struct {
	http.ResponseWriter
	statusCode  int
	respBytes   int64
	wroteHeader bool
}

func (r *ResponseRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *ResponseRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.statusCode = http.StatusOK
		r.wroteHeader = true
	}
	n, err := r.ResponseWriter.Write(p)
	r.respBytes += int64(n)
	return n, err
}

func (r *ResponseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *ResponseRecorder) StatusCode() int {
	return r.statusCode
}

func (r *ResponseRecorder) RespBytes() int64 {
	return r.respBytes
}

// NewResponseRecorder wraps a response writer for status/byte accounting.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// RequestContextMiddleware injects request correlation fields into context
// and echoes the request id back to the client.
func RequestContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent := strings.TrimSpace(r.Header.Get("traceparent"))
		traceID := extractTraceID(traceparent)

		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" && traceID != "" {
			requestID = traceID
		}
		if requestID == "" {
			requestID = newRequestID()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := WithCorrelation(r.Context(), Correlation{
			RequestID:   requestID,
			TraceID:     traceID,
			Traceparent: traceparent,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessLogMiddleware emits one structured access event per request,
// including a redacted preview of the request body.
func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		bodyPreview := captureBodyPreview(r)
		recorder := NewResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		reqBytes := int64(0)
		if r.ContentLength > 0 {
			reqBytes = r.ContentLength
		}

		durMS := float64(time.Since(start).Microseconds()) / 1000.0
		From(r.Context()).
			With("pkg", "http").
			Debug(
				"http_access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.StatusCode(),
				"dur_ms", durMS,
				"req_bytes", reqBytes,
				"resp_bytes", recorder.RespBytes(),
				"body", bodyPreview,
				"headers", logutil.FormatHeadersForLog(r.Header),
			)
	})
}

// captureBodyPreview reads a bounded prefix of the request body for logging
// and restores the body so handlers see the full stream.
func captureBodyPreview(r *http.Request) string {
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	if err != nil {
		r.Body = io.NopCloser(bytes.NewReader(buf))
		return ""
	}

	truncated := false
	preview := buf
	if len(preview) > maxLoggedBodyBytes {
		preview = preview[:maxLoggedBodyBytes]
		truncated = true
	}

	// Stitch the consumed prefix back onto the unread remainder.
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf), r.Body))

	contentType := r.Header.Get("Content-Type")
	return logutil.FormatBodyForLog(contentType, preview, maxLoggedBodyBytes, truncated)
}
