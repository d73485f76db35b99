package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
)

// IdempotencyHeader is the request header carrying the client's key
const IdempotencyHeader = "Idempotency-Key"

// ReplayedHeader is set on responses served from the idempotency store
const ReplayedHeader = "Idempotent-Replayed"

const maxIdempotencyKeyLength = 128

// CachedResponse is a stored response for a completed request
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps responses of mutating requests by key
type IdempotencyStore interface {
	// Lookup returns the stored response, or nil when there is none
	Lookup(ctx context.Context, key string) (*CachedResponse, error)
	// Reserve claims the key for an in-flight request; false when already claimed
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Save stores the response and drops the reservation
	Save(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error
	// Release drops the reservation without storing anything
	Release(ctx context.Context, key string) error
}

// IdempotencyConfig tunes the Idempotency middleware
type IdempotencyConfig struct {
	TTL         time.Duration // how long responses are replayed
	InFlightTTL time.Duration // how long a reservation outlives a crashed request
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a mutating request repeats
// an Idempotency-Key. Keys are scoped to the caller, method and path.
// Server errors are not stored so that the client can retry them.
// When the store is unavailable requests are processed without replay.
func Idempotency(store IdempotencyStore, cfg IdempotencyConfig, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.CodeValidation,
				Message: "Idempotency-Key is too long",
			})
			return
		}

		ctx := c.Request.Context()
		scoped := strings.Join([]string{UserID(c), c.Request.Method, c.Request.URL.Path, key}, ":")

		cached, err := store.Lookup(ctx, scoped)
		if err != nil {
			logger.Warn("Idempotency store lookup failed", map[string]any{"error": err.Error()})
			c.Next()
			return
		}
		if cached != nil {
			c.Header(ReplayedHeader, "true")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		reserved, err := store.Reserve(ctx, scoped, cfg.InFlightTTL)
		if err != nil {
			logger.Warn("Idempotency store reserve failed", map[string]any{"error": err.Error()})
			c.Next()
			return
		}
		if !reserved {
			c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{
				Code:    domainerr.CodeConcurrencyConflict,
				Message: "A request with this Idempotency-Key is still in progress",
			})
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		// runs while a handler panic unwinds too, so the key is never left reserved
		completed := false
		defer func() {
			// the request context may be cancelled by now
			storeCtx := context.WithoutCancel(ctx)
			status := writer.Status()
			if !completed || status >= http.StatusInternalServerError {
				if err := store.Release(storeCtx, scoped); err != nil {
					logger.Warn("Idempotency store release failed", map[string]any{"error": err.Error()})
				}
				return
			}
			resp := &CachedResponse{
				Status:      status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}
			if err := store.Save(storeCtx, scoped, resp, cfg.TTL); err != nil {
				logger.Warn("Idempotency store save failed", map[string]any{"error": err.Error()})
			}
		}()

		c.Next()
		completed = true
	}
}
