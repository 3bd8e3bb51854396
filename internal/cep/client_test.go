package cep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/employees/internal/apperr"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01310100", "01310-100"},
		{"01310-100", "01310-100"},
		{" 01.310-100 ", "01310-100"},
		{"123", "123"},
		{"", ""},
		{"013101000", "013101000"},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := Format(tt.input); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("01310-100"); got != "01310100" {
		t.Errorf("Digits() = %q, want 01310100", got)
	}
}

// viaCEP serves a fixed body and counts requests.
func viaCEP(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLookup_Success(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"complemento": "de 612 a 1510 - lado par",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/ws"))
	addr, err := c.Lookup(context.Background(), "01310-100")

	require.NoError(t, err)
	assert.Equal(t, "/ws/01310100/json/", path)
	assert.Equal(t, Address{
		CEP:      "01310-100",
		Street:   "Avenida Paulista",
		District: "Bela Vista",
		City:     "São Paulo",
		State:    "SP",
	}, addr)
}

func TestLookup_InvalidLengthMakesNoRequest(t *testing.T) {
	srv, hits := viaCEP(t, http.StatusOK, `{}`)
	c := NewClient(WithBaseURL(srv.URL))

	for _, code := range []string{"", "123", "1234-5678-9"} {
		_, err := c.Lookup(context.Background(), code)
		assert.True(t, apperr.Is(err, apperr.Validation), "code %q: %v", code, err)
		assert.Equal(t, MsgInvalid, err.Error())
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestLookup_NotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		srv, _ := viaCEP(t, http.StatusOK, body)
		c := NewClient(WithBaseURL(srv.URL))

		var err error
		require.NotPanics(t, func() {
			_, err = c.Lookup(context.Background(), "00000000")
		})
		assert.True(t, apperr.Is(err, apperr.NotFound), "body %s: %v", body, err)
		assert.Equal(t, MsgNotFound, err.Error())
	}
}

func TestLookup_TransportFailures(t *testing.T) {
	t.Run("non 2xx status", func(t *testing.T) {
		srv, _ := viaCEP(t, http.StatusBadRequest, `<html>bad request</html>`)
		_, err := NewClient(WithBaseURL(srv.URL)).Lookup(context.Background(), "01310100")

		assert.True(t, apperr.Is(err, apperr.Transport))
		assert.Equal(t, "postal code lookup failed: status 400", err.Error())
	})

	t.Run("unreachable", func(t *testing.T) {
		srv, _ := viaCEP(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()

		_, err := NewClient(WithBaseURL(url)).Lookup(context.Background(), "01310100")
		assert.True(t, apperr.Is(err, apperr.Transport))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := viaCEP(t, http.StatusOK, `not json`)
		_, err := NewClient(WithBaseURL(srv.URL)).Lookup(context.Background(), "01310100")
		assert.True(t, apperr.Is(err, apperr.Transport))
	})
}

func TestLookup_RateLimitHonoursContext(t *testing.T) {
	srv, hits := viaCEP(t, http.StatusOK, `{"cep":"01310-100"}`)
	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(0.001, 1))

	_, err := c.Lookup(context.Background(), "01310100")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Lookup(ctx, "01310100")

	assert.True(t, apperr.Is(err, apperr.Transport))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}
