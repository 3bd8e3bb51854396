package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func echoRemote() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.RemoteAddr))
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "untrusted peer keeps RemoteAddr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "203.0.113.9:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "203.0.113.9:5000",
		},
		{
			name:    "trusted CIDR uses X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "1.2.3.4",
		},
		{
			name:    "single address entry uses last untrusted hop",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			want:    "10.0.0.1",
		},
		{
			name:    "spoofed leftmost hop is skipped",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.0.0.2:5000",
			headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 203.0.113.50, 10.0.0.9"},
			want:    "203.0.113.50",
		},
		{
			name:    "all hops trusted uses leftmost",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.0.0.2:5000",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.7, 10.0.0.9"},
			want:    "10.0.0.7",
		},
		{
			name:    "malformed hop keeps RemoteAddr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.0.0.2:5000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.50, nope"},
			want:    "10.0.0.2:5000",
		},
		{
			name:    "invalid header is ignored",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "127.0.0.1:5000",
		},
		{
			name:    "invalid trusted entry is skipped",
			trusted: []string{"garbage", " "},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "127.0.0.1:5000",
		},
		{
			name:    "ipv6 proxy",
			trusted: []string{"::1/128"},
			remote:  "[::1]:5000",
			headers: map[string]string{"X-Real-IP": "2001:db8::1"},
			want:    "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TrustedRealIP(tt.trusted)(echoRemote())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Close()
	h := rl.Middleware(echoRemote())

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("192.0.2.1:1111"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := do("192.0.2.1:2222")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	if rec := do("192.0.2.2:1111"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestRateLimiter_CleanupForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	defer rl.Close()

	rl.Allow("a")
	rl.Allow("b")
	rl.cleanup(rl.entries["b"].lastSeen.Add(1))

	if len(rl.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(rl.entries))
	}
}

func TestResponseWriter_CapturesFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := wrap(rec)
	ww.WriteHeader(http.StatusTeapot)
	ww.WriteHeader(http.StatusOK)

	if ww.status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", ww.status, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("recorded = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestMetricsAndLogger_PassThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Logger, Metrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}
