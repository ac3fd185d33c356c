package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("reuses the caller id", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = chiMiddleware.GetReqID(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		Expect(seen).To(Equal("abc-123"))
		Expect(w.Header().Get(RequestIDHeader)).To(Equal("abc-123"))
	})

	It("generates an id when absent", func() {
		w := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(RequestIDHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	preflight := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
		r.Header.Set("Origin", origin)
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		r.Header.Set("Access-Control-Request-Headers", "Authorization")
		return r
	}

	It("answers preflight for allowed origins without reaching the handler", func() {
		reached := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

		w := httptest.NewRecorder()
		CORS("http://app.local, http://admin.local")(next).ServeHTTP(w, preflight("http://admin.local"))

		Expect(reached).To(BeFalse())
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://admin.local"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(Equal(http.MethodPost))
	})

	It("allows every origin with a wildcard", func() {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://any.local")
		w := httptest.NewRecorder()

		CORS("*")(okHandler).ServeHTTP(w, r)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("leaves other origins without allow headers", func() {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()

		CORS("http://app.local")(okHandler).ServeHTTP(w, r)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into an error envelope", func() {
		lg := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		h := RecoveryMiddleware(lg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"error","message":"internal server error"}`))
	})
})

var _ = Describe("Timeout", func() {
	It("puts a deadline on the request context", func() {
		var deadline time.Time
		h := Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, _ = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(time.Until(deadline)).To(BeNumerically("~", time.Minute, 5*time.Second))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks credentials in logged bodies and headers", func() {
		var out bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&out, nil))

		var body string
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			body = buf.String()
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		}))

		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"hunter2"}`))
		r.Header.Set("Authorization", "Bearer secret-token")
		h.ServeHTTP(httptest.NewRecorder(), r.WithContext(context.Background()))

		Expect(body).To(ContainSubstring("hunter2"))
		Expect(out.String()).NotTo(ContainSubstring("hunter2"))
		Expect(out.String()).NotTo(ContainSubstring("secret-token"))
		Expect(out.String()).To(ContainSubstring("status_code=201"))
	})

	It("filters nested fields", func() {
		out := maskBody([]byte(`{"user":{"name":"a","password_hash":"x"},"items":[{"access_token":"k","id":1}]}`))
		Expect(out).To(MatchJSON(`{"user":{"name":"a","password_hash":"[FILTERED]"},"items":[{"access_token":"[FILTERED]","id":1}]}`))
	})

	It("masks non JSON bodies that mention a credential", func() {
		Expect(maskBody([]byte("password=hunter2"))).To(Equal(masked))
		Expect(maskBody([]byte("plain text"))).To(Equal("plain text"))
	})
})
