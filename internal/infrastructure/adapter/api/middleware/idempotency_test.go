package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
)

type memoryIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]*CachedResponse
	locks     map[string]bool
	failWith  error
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{
		responses: map[string]*CachedResponse{},
		locks:     map[string]bool{},
	}
}

func (s *memoryIdempotencyStore) Lookup(_ context.Context, key string) (*CachedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.responses[key], nil
}

func (s *memoryIdempotencyStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] {
		return false, nil
	}
	s.locks[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) Save(_ context.Context, key string, resp *CachedResponse, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = resp
	delete(s.locks, key)
	return nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, key)
	return nil
}

type idempotencyFixture struct {
	store  *memoryIdempotencyStore
	router *gin.Engine
	calls  int
	status int
	panics bool
}

func newIdempotencyFixture(t *testing.T) *idempotencyFixture {
	gin.SetMode(gin.TestMode)
	logger := coremocks.NewMockLogger(t)
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()

	f := &idempotencyFixture{store: newMemoryIdempotencyStore(), status: http.StatusCreated}
	f.router = gin.New()
	f.router.Use(ErrorHandler(logger))
	f.router.Use(func(c *gin.Context) {
		c.Set(ContextUserID, c.GetHeader("X-Test-User"))
		c.Next()
	})
	f.router.Use(Idempotency(f.store, IdempotencyConfig{TTL: time.Hour, InFlightTTL: time.Minute}, logger))
	f.router.POST("/credit", func(c *gin.Context) {
		f.calls++
		if f.panics {
			panic("handler exploded")
		}
		c.JSON(f.status, gin.H{"call": f.calls})
	})
	return f
}

func (f *idempotencyFixture) post(user, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/credit", nil)
	req.Header.Set("X-Test-User", user)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	f := newIdempotencyFixture(t)

	first := f.post("u1", "key-1")
	second := f.post("u1", "key-1")

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(ReplayedHeader))
	assert.Empty(t, first.Header().Get(ReplayedHeader))
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	f := newIdempotencyFixture(t)

	f.post("u1", "key-1")
	w := f.post("u2", "key-1")

	assert.Equal(t, 2, f.calls)
	assert.JSONEq(t, `{"call":2}`, w.Body.String())
}

func TestIdempotency_WithoutKeyAlwaysRuns(t *testing.T) {
	f := newIdempotencyFixture(t)

	f.post("u1", "")
	f.post("u1", "")

	assert.Equal(t, 2, f.calls)
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	f := newIdempotencyFixture(t)
	f.status = http.StatusInternalServerError

	f.post("u1", "key-1")
	f.status = http.StatusCreated
	w := f.post("u1", "key-1")

	assert.Equal(t, 2, f.calls)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	f := newIdempotencyFixture(t)
	f.panics = true

	w := f.post("u1", "key-1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, f.store.locks)
	assert.Empty(t, f.store.responses)

	f.panics = false
	w = f.post("u1", "key-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, f.calls)
}

func TestIdempotency_InFlightKeyConflicts(t *testing.T) {
	f := newIdempotencyFixture(t)
	_, _ = f.store.Reserve(context.Background(), "u1:POST:/credit:key-1", time.Minute)

	w := f.post("u1", "key-1")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, f.calls)
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	f := newIdempotencyFixture(t)
	f.store.failWith = errors.New("connection refused")

	w := f.post("u1", "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, f.calls)
}

func TestIdempotency_RejectsOversizedKey(t *testing.T) {
	f := newIdempotencyFixture(t)
	long := make([]byte, maxIdempotencyKeyLength+1)
	for i := range long {
		long[i] = 'k'
	}

	w := f.post("u1", string(long))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.calls)
}
