// Package cep looks up Brazilian postal codes (CEP) through the ViaCEP
// service and formats them for display.
//
// Unlike the employee data-access operations, Lookup returns its failures
// as errors: the caller decides how to show them.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/logging"
)

// DefaultBaseURL is the ViaCEP endpoint. The code and "/json/" are appended.
const DefaultBaseURL = "https://viacep.com.br/ws/"

// DefaultTimeout bounds one lookup when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// Messages of the three failure kinds.
const (
	MsgInvalid  = "postal code must contain 8 digits"
	MsgNotFound = "postal code not found"
	MsgFailed   = "postal code lookup failed"
)

// Address is a normalized lookup result.
type Address struct {
	CEP      string `json:"cep"`
	Street   string `json:"endereco"`
	District string `json:"bairro"`
	City     string `json:"cidade"`
	State    string `json:"estado"`
}

// Lookuper resolves a postal code to an address.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (Address, error)
}

// Client calls ViaCEP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another ViaCEP-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.baseURL = strings.TrimSuffix(u, "/") + "/"
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-lookup timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit caps outbound lookups at rps with the given burst.
// A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient returns a Client for ViaCEP.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClient = NewClient()

// Lookup resolves code with a default Client.
func Lookup(ctx context.Context, code string) (Address, error) {
	return defaultClient.Lookup(ctx, code)
}

// viaCEPResponse is the ViaCEP body. "erro" has been sent both as a boolean
// and as the string "true".
type viaCEPResponse struct {
	CEP        string    `json:"cep"`
	Logradouro string    `json:"logradouro"`
	Bairro     string    `json:"bairro"`
	Localidade string    `json:"localidade"`
	UF         string    `json:"uf"`
	Erro       errorFlag `json:"erro"`
}

type errorFlag bool

func (f *errorFlag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*f = errorFlag(strings.EqualFold(s, "true"))
	return nil
}

// Lookup strips non-digits from code and resolves it.
//
// A code without exactly 8 digits fails with apperr.Validation before any
// request. A failed request or non-2xx status is apperr.Transport. A code
// ViaCEP does not know is apperr.NotFound.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	addr, err := c.lookup(ctx, code)
	if err != nil {
		logging.FromContext(ctx).Warn("postal code lookup failed",
			"cep", code,
			"kind", apperr.KindOf(err).String(),
			"error", err,
		)
		return Address{}, err
	}
	return addr, nil
}

func (c *Client) lookup(ctx context.Context, code string) (Address, error) {
	digits := Digits(code)
	if len(digits) != 8 {
		return Address{}, apperr.New(apperr.Validation, MsgInvalid)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Address{}, &apperr.Error{
				Kind:    apperr.Transport,
				Message: fmt.Sprintf("%s: rate limit: %v", MsgFailed, err),
				Err:     err,
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+digits+"/json/", nil)
	if err != nil {
		return Address{}, apperr.Wrap(apperr.Unknown, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, &apperr.Error{
			Kind:    apperr.Transport,
			Message: fmt.Sprintf("%s: %v", MsgFailed, err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Address{}, apperr.Newf(apperr.Transport, "%s: status %d", MsgFailed, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, &apperr.Error{
			Kind:    apperr.Transport,
			Message: fmt.Sprintf("%s: decode response: %v", MsgFailed, err),
			Err:     err,
		}
	}
	if body.Erro {
		return Address{}, apperr.New(apperr.NotFound, MsgNotFound)
	}

	return Address{
		CEP:      body.CEP,
		Street:   body.Logradouro,
		District: body.Bairro,
		City:     body.Localidade,
		State:    body.UF,
	}, nil
}

// Digits returns code with every non-digit removed.
func Digits(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format rewrites an 8-digit code as NNNNN-NNN. Anything else is returned
// unchanged.
func Format(code string) string {
	digits := Digits(code)
	if len(digits) != 8 {
		return code
	}
	return digits[:5] + "-" + digits[5:]
}
