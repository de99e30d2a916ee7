package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// IdempotencyHeader carries the client's retry key.
	IdempotencyHeader = "Idempotency-Key"
	// ReplayedHeader is set on responses served from the replay store.
	ReplayedHeader = "Idempotent-Replayed"

	idempotencyTTL = 24 * time.Hour
	maxReplayBody  = 1 << 20
)

// replayEntry is a stored response and the fingerprint of the request that produced it.
type replayEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type recordingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a POST or PATCH
// repeats an Idempotency-Key on the same route. A repeated key with a
// different body is rejected with 409.
func IdempotencyMiddleware(rdb redis.Cmdable, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPatch) {
			c.Next()
			return
		}

		body, err := readBody(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable request body"})
			return
		}
		fingerprint := fingerprintOf(body)

		ctx := c.Request.Context()
		storeKey := idempotencyCacheKey(c.FullPath(), key)
		log := logger.With(zap.String("idempotency_key", key), zap.String("route", c.FullPath()))

		entry, err := loadReplay(ctx, rdb, storeKey)
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			log.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		case entry.Fingerprint != "" && entry.Fingerprint != fingerprint:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "idempotency key was used with a different request",
			})
			return
		default:
			c.Header(ReplayedHeader, "true")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if !replayable(status) {
			return
		}
		err = saveReplay(ctx, rdb, storeKey, replayEntry{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		})
		if err != nil {
			log.Warn("idempotency store failed", zap.Error(err))
		}
	}
}

func idempotencyCacheKey(route, key string) string {
	return "idempotency:" + route + ":" + key
}

// readBody consumes the request body and puts a fresh reader back.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReplayBody))
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// replayable reports whether a response is final for its key. Only
// successes are stored: a declined or conflicting attempt may be retried
// with the same key once its cause is fixed.
func replayable(status int) bool {
	return status >= 200 && status < 300
}

func loadReplay(ctx context.Context, rdb redis.Cmdable, key string) (*replayEntry, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var entry replayEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func saveReplay(ctx context.Context, rdb redis.Cmdable, key string, entry replayEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, idempotencyTTL).Err()
}
