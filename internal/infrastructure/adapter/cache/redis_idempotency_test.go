package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "idempotency:u1:POST:/api/v1/me/referral:abc", responseKey("u1:POST:/api/v1/me/referral:abc"))
	assert.Equal(t, "idempotency:k:lock", lockKey("k"))
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse([]byte(`{"status":201,"contentType":"application/json","body":"eyJvayI6dHJ1ZX0="}`))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))

	_, err = decodeResponse([]byte("not json"))
	assert.Error(t, err)
}

func TestNewRedisIdempotencyStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewRedisIdempotencyStore(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
