package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"

	tests := []struct {
		name           string
		configuredKey  string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{"valid key", apiKey, apiKey, "/api/v1/employees/e1/summary", http.StatusOK},
		{"wrong key", apiKey, "wrong-key", "/api/v1/admin/config", http.StatusUnauthorized},
		{"missing key", apiKey, "", "/api/v1/admin/config", http.StatusUnauthorized},
		{"healthz is public", apiKey, "", "/healthz", http.StatusOK},
		{"metrics is public", apiKey, "", "/metrics", http.StatusOK},
		{"prefix lookalike is not public", apiKey, "", "/metricsz", http.StatusUnauthorized},
		{"unset server key rejects everything", "", "", "/api/v1/admin/config", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.configuredKey, nil, NewSuspiciousActivityDetector())(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
		"Cache-Control":          "no-store",
	}
	for header, want := range expected {
		assert.Equal(t, want, rec.Header().Get(header), header)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	detector := newDetector(func() time.Time { return now })
	mw := RateLimitMiddleware(nil, detector)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/config", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < requestLimitPerWindow; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"), "other callers are unaffected")

	now = now.Add(detectorWindow + time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"), "window rolled over")
}

func TestDetector_ClockStepsBackward(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	detector := newDetector(func() time.Time { return now })

	for i := 0; i < requestLimitPerWindow; i++ {
		require.True(t, detector.RecordRequest("10.0.0.1"))
	}
	require.False(t, detector.RecordRequest("10.0.0.1"))

	now = now.Add(-time.Hour)
	assert.True(t, detector.RecordRequest("10.0.0.1"), "window resets after a backwards clock step")
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct", "203.0.113.9:4000", "", nil, "203.0.113.9"},
		{"untrusted proxy header ignored", "203.0.113.9:4000", "1.2.3.4", nil, "203.0.113.9"},
		{"trusted proxy uses last hop", "10.0.0.5:4000", "1.2.3.4, 198.51.100.7", []string{"10.0.0.5"}, "198.51.100.7"},
		{"trusted proxy without header", "10.0.0.5:4000", "", []string{"10.0.0.5"}, "10.0.0.5"},
		{"unparseable remote", "garbage", "", nil, "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAPIKey, "secret")
	h.Set(HeaderAuthorization, "Bearer x")
	h.Set("X-Actor-ID", "admin-1")

	out := redactHeaders(h)
	assert.Equal(t, RedactedValue, out.Get(HeaderAPIKey))
	assert.Equal(t, RedactedValue, out.Get(HeaderAuthorization))
	assert.Equal(t, "admin-1", out.Get("X-Actor-ID"))
	assert.Equal(t, "secret", h.Get(HeaderAPIKey), "input untouched")
}
