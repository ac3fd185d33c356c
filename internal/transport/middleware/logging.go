package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

// maskedKeys are matched as substrings of lower-cased header names and JSON keys.
var maskedKeys = []string{"password", "token", "authorization", "secret"}

const (
	masked = "[FILTERED]"

	// maxLoggedBody caps how much of a body is copied into a log line.
	maxLoggedBody = 4 << 10
)

// LoggingMiddleware logs each request and response with credentials masked.
// It prefers the request-scoped logger placed in the context by RequestID.
func LoggingMiddleware(fallback *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := fallback
			if middleware.GetReqID(r.Context()) != "" {
				lg = logger.From(r.Context())
			}

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			lg.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"headers", maskHeaders(r.Header),
				"body", maskBody(body),
			)

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			userID, _ := internal.UserIDFromContext(r.Context())
			lg.Log(r.Context(), level, "response",
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", userID,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
				"body", maskBody(rec.body.Bytes()),
			)
		})
	}
}

// recorder keeps the status and the first maxLoggedBody bytes of the response.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(room, len(b))])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

func isMasked(name string) bool {
	name = strings.ToLower(name)
	for _, k := range maskedKeys {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isMasked(name) {
			out[name] = masked
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// maskBody renders a JSON body with masked keys replaced. Non-JSON bodies are
// logged as is unless they mention a masked key.
func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isMasked(string(body)) {
			return masked
		}
		return string(body)
	}

	out, err := json.Marshal(maskJSON(data))
	if err != nil {
		return masked
	}
	return string(out)
}

func maskJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isMasked(key) {
				v[key] = masked
				continue
			}
			v[key] = maskJSON(value)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = maskJSON(item)
		}
		return v
	default:
		return v
	}
}
