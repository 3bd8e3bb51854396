package cep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/employees/internal/apperr"
)

// memoryBackend is an in-process stand-in for Redis.
type memoryBackend struct {
	data    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.readErr != nil {
		return redis.NewStringResult("", m.readErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryBackend) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

// countingLookuper returns addr (or err) and counts calls.
type countingLookuper struct {
	addr  Address
	err   error
	calls int
}

func (c *countingLookuper) Lookup(ctx context.Context, code string) (Address, error) {
	c.calls++
	return c.addr, c.err
}

func TestCachedLookuper_CachesSuccess(t *testing.T) {
	next := &countingLookuper{addr: Address{CEP: "01310-100", City: "São Paulo"}}
	backend := newMemoryBackend()
	c := NewCachedLookuper(next, backend, WithCachePrefix("test:cep:"), WithCacheTTL(time.Hour))

	first, err := c.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	second, err := c.Lookup(context.Background(), "01310100")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Contains(t, backend.data, "test:cep:01310100")
	assert.Equal(t, time.Hour, backend.ttls["test:cep:01310100"])
}

func TestCachedLookuper_DoesNotCacheFailures(t *testing.T) {
	next := &countingLookuper{err: apperr.New(apperr.NotFound, MsgNotFound)}
	backend := newMemoryBackend()
	c := NewCachedLookuper(next, backend)

	for i := 0; i < 2; i++ {
		_, err := c.Lookup(context.Background(), "00000000")
		assert.True(t, apperr.Is(err, apperr.NotFound))
	}
	assert.Equal(t, 2, next.calls)
	assert.Empty(t, backend.data)
}

func TestCachedLookuper_BypassesBrokenRedis(t *testing.T) {
	next := &countingLookuper{addr: Address{CEP: "01310-100"}}
	backend := newMemoryBackend()
	backend.readErr = errors.New("dial tcp: connection refused")
	c := NewCachedLookuper(next, backend)

	addr, err := c.Lookup(context.Background(), "01310100")

	require.NoError(t, err)
	assert.Equal(t, "01310-100", addr.CEP)
	assert.Equal(t, 1, next.calls)
}

func TestCachedLookuper_InvalidCodeSkipsCache(t *testing.T) {
	next := &countingLookuper{err: apperr.New(apperr.Validation, MsgInvalid)}
	backend := newMemoryBackend()
	backend.readErr = errors.New("must not be called")
	c := NewCachedLookuper(next, backend)

	_, err := c.Lookup(context.Background(), "123")

	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Empty(t, backend.data)
}
