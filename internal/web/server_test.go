package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/config"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/core/coretest"
)

func ptr[T any](v T) *T { return &v }

// fakeLookup resolves only the codes it holds.
type fakeLookup map[string]cep.Address

func (f fakeLookup) Lookup(ctx context.Context, code string) (cep.Address, error) {
	digits := cep.Digits(code)
	if len(digits) != 8 {
		return cep.Address{}, apperr.New(apperr.Validation, cep.MsgInvalid)
	}
	a, ok := f[digits]
	if !ok {
		return cep.Address{}, apperr.New(apperr.NotFound, cep.MsgNotFound)
	}
	return a, nil
}

var paulista = cep.Address{
	CEP:      "01310-100",
	Street:   "Avenida Paulista",
	District: "Bela Vista",
	City:     "São Paulo",
	State:    "SP",
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{EnableCSP: true},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, rows ...core.EmployeeRow) (*Server, *coretest.MemoryStore) {
	t.Helper()
	mem := coretest.NewMemoryStore(rows...)
	s := NewServer(core.NewService(mem), fakeLookup{"01310100": paulista}, testConfig())
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, mem
}

func do(t *testing.T, s *Server, method, target, body, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s *Server, target string, v url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, target, v.Encode(), "application/x-www-form-urlencoded")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAPI_ListAndGet(t *testing.T) {
	s, _ := newTestServer(t,
		core.EmployeeRow{ID: ptr(int64(1)), Name: ptr("Ana")},
		core.EmployeeRow{ID: ptr(int64(2)), Name: ptr("Bruno")},
	)

	rec := do(t, s, http.MethodGet, "/api/funcionarios", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[core.Result[[]core.EmployeeRow]](t, rec)
	assert.True(t, list.Success)
	assert.Len(t, list.Data, 2)

	rec = do(t, s, http.MethodGet, "/api/funcionarios/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	one := decode[core.Result[core.EmployeeRow]](t, rec)
	assert.Equal(t, "Bruno", *one.Data.Name)
}

func TestAPI_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		storeErr   error
		wantStatus int
		wantCode   string
	}{
		{"missing employee", "/api/funcionarios/99", nil, http.StatusNotFound, "EMP001"},
		{"bad id", "/api/funcionarios/abc", nil, http.StatusBadRequest, "EMP003"},
		{"store unreachable", "/api/funcionarios", apperr.New(apperr.Transport, "dial tcp: connection refused"), http.StatusBadGateway, "DB003"},
		{"unknown failure", "/api/funcionarios", apperr.New(apperr.Unknown, "boom"), http.StatusInternalServerError, "ERR000"},
		{"invalid cep", "/api/cep/123", nil, http.StatusBadRequest, "CEP001"},
		{"unknown cep", "/api/cep/00000000", nil, http.StatusNotFound, "CEP002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newTestServer(t)
			mem.Err = tt.storeErr

			rec := do(t, s, http.MethodGet, tt.target, "", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decode[ErrorResponse](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestAPI_CreateUpdateDelete(t *testing.T) {
	s, mem := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/funcionarios",
		`{"nome":"Carla","salario":4200.5,"dataAdmissao":"2024-02-01"}`, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"dataadmissao":"2024-02-01"`)
	assert.NotContains(t, rec.Body.String(), "dataAdmissao")

	rows := mem.Rows()
	require.Len(t, rows, 1)
	id := *rows[0].ID

	rec = do(t, s, http.MethodPut, "/api/funcionarios/1", `{"id":77,"cargo":"Gerente"}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows = mem.Rows()
	assert.Equal(t, id, *rows[0].ID)
	assert.Equal(t, "Gerente", *rows[0].Role)
	assert.Equal(t, "Carla", *rows[0].Name)

	rec = do(t, s, http.MethodDelete, "/api/funcionarios/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, mem.Rows())

	rec = do(t, s, http.MethodDelete, "/api/funcionarios/1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, "deleting nothing is still success")
}

func TestAPI_CreateRejectsBadBody(t *testing.T) {
	s, mem := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/funcionarios", `{"nome":`, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL003", decode[ErrorResponse](t, rec).Code)
	assert.Empty(t, mem.Rows())
}

func TestAPI_HireDateText(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		wantDate string
		code     string
	}{
		{"empty means absent", `{"nome":"Ana","dataAdmissao":""}`, http.StatusCreated, "", ""},
		{"null means absent", `{"nome":"Ana","dataAdmissao":null}`, http.StatusCreated, "", ""},
		{"day first", `{"nome":"Ana","dataAdmissao":"01/02/2024"}`, http.StatusCreated, "2024-02-01", ""},
		{"garbage", `{"nome":"Ana","dataAdmissao":"ontem"}`, http.StatusBadRequest, "", "VAL001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newTestServer(t)

			rec := do(t, s, http.MethodPost, "/api/funcionarios", tt.body, "application/json")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
				assert.Empty(t, mem.Rows())
				return
			}

			rows := mem.Rows()
			require.Len(t, rows, 1)
			assert.Equal(t, tt.wantDate, core.FormatDate(rows[0].HireDate))
		})
	}
}

func TestAPI_Lookup(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/cep/01310-100", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[core.Result[cep.Address]](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, paulista, res.Data)
}

func TestHome(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Consulta de CEP")

	rec = do(t, s, http.MethodGet, "/?cep=01310100", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Avenida Paulista")
	assert.Contains(t, rec.Body.String(), "toast-success")

	rec = do(t, s, http.MethodGet, "/?cep=12", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CEP001")
	assert.Contains(t, rec.Body.String(), "toast-error")
}

func TestEmployeesPage_PrefillFromQuery(t *testing.T) {
	s, _ := newTestServer(t, core.EmployeeRow{ID: ptr(int64(3)), Name: ptr("Davi")})

	rec := do(t, s, http.MethodGet, "/funcionarios?cidade=Recife&ignored=x", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Davi")
	assert.Contains(t, body, `name="cidade" type="text" value="Recife"`)
	assert.NotContains(t, body, "ignored")
}

func TestCreateEmployeeForm_SaveRedirectsWithFlash(t *testing.T) {
	s, mem := newTestServer(t)

	rec := postForm(t, s, "/funcionarios", url.Values{
		"acao":         {actionSave},
		"nome":         {" Elisa "},
		"salario":      {"R$ 3.500,50"},
		"dataAdmissao": {"01/02/2024"},
		"numero":       {""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/funcionarios", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "flash=")

	rows := mem.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Elisa", *rows[0].Name)
	assert.Equal(t, 3500.5, *rows[0].Salary)
	assert.Equal(t, "2024-02-01", core.FormatDate(rows[0].HireDate))
	assert.Nil(t, rows[0].Number)
}

func TestCreateEmployeeForm_LookupFillsAddress(t *testing.T) {
	s, mem := newTestServer(t)

	rec := postForm(t, s, "/funcionarios", url.Values{
		"acao":   {actionLookup},
		"nome":   {"Fabio"},
		"cep":    {"01310100"},
		"numero": {"1578"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Avenida Paulista"`)
	assert.Contains(t, body, `value="01310-100"`)
	assert.Contains(t, body, `value="1578"`)
	assert.Contains(t, body, `value="Fabio"`)
	assert.Empty(t, mem.Rows(), "lookup must not save")
}

func TestCreateEmployeeForm_InvalidSalary(t *testing.T) {
	s, mem := newTestServer(t)

	rec := postForm(t, s, "/funcionarios", url.Values{"acao": {actionSave}, "salario": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL002")
	assert.Contains(t, rec.Body.String(), `value="abc"`)
	assert.Empty(t, mem.Rows())
}

func TestEditAndUpdateEmployeeForm(t *testing.T) {
	s, mem := newTestServer(t, core.EmployeeRow{ID: ptr(int64(4)), Name: ptr("Gabi"), Salary: ptr(1000.0)})

	rec := do(t, s, http.MethodGet, "/funcionarios/4/editar", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Gabi"`)
	assert.Contains(t, rec.Body.String(), `value="1000.00"`)

	rec = postForm(t, s, "/funcionarios/4", url.Values{"acao": {actionSave}, "nome": {"Gabriela"}, "salario": {"1000.00"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "Gabriela", *mem.Rows()[0].Name)

	rec = do(t, s, http.MethodGet, "/funcionarios/40/editar", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMP001")
}

func TestDeleteEmployeeForm(t *testing.T) {
	s, mem := newTestServer(t, core.EmployeeRow{ID: ptr(int64(8)), Name: ptr("Hugo")})

	rec := postForm(t, s, "/funcionarios/8/excluir", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, mem.Rows())
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	s := NewServer(core.NewService(coretest.NewMemoryStore()), fakeLookup{}, cfg)
	defer s.Shutdown(context.Background())

	first := do(t, s, http.MethodGet, "/healthz", "", "")
	second := do(t, s, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestServe_WaitsForInFlightRequests(t *testing.T) {
	s, _ := newTestServer(t)
	started, release := make(chan struct{}), make(chan struct{})
	s.Router().Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusNoContent)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case err := <-served:
		t.Fatalf("Serve() returned %v while a request was in flight", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	assert.Equal(t, http.StatusNoContent, <-status)
	assert.NoError(t, <-served)
}
