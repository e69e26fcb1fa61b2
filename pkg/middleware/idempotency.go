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

	"github.com/shamroze153/FM-Portal/pkg/response"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// ContextKeyIdempotencyKey is the context key for idempotency key
	ContextKeyIdempotencyKey = "idempotency_key"
	// IdempotencyKeyPrefix namespaces records in Redis
	IdempotencyKeyPrefix = "dispatch:idempotency:"

	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultProcessingTTL  = 30 * time.Second
)

// IdempotencyStatus represents the status of an idempotency record
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RedisClient is the subset of go-redis the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	Redis RedisClient
	// TTL of completed records
	TTL time.Duration
	// ProcessingTTL bounds how long an in-flight claim blocks retries
	ProcessingTTL time.Duration
}

// Idempotency replays the stored response for a repeated X-Idempotency-Key.
// Requests without the header pass through; Redis errors fail open.
// Only 2xx responses are cached so a failed filing can be retried with the same key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}
	if cfg.ProcessingTTL <= 0 {
		cfg.ProcessingTTL = DefaultProcessingTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || cfg.Redis == nil {
			c.Next()
			return
		}
		c.Set(ContextKeyIdempotencyKey, key)

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		hash := requestHash(c.Request.Method, c.Request.URL.Path, body)
		redisKey := IdempotencyKeyPrefix + key
		ctx := c.Request.Context()

		existing, err := getRecord(ctx, cfg.Redis, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}
		if existing != nil {
			replayOrReject(c, existing, hash)
			return
		}

		record := &IdempotencyRecord{Status: StatusProcessing, RequestHash: hash, CreatedAt: time.Now()}
		claimed, err := setRecordNX(ctx, cfg.Redis, redisKey, record, cfg.ProcessingTTL)
		if err != nil {
			c.Next()
			return
		}
		if !claimed {
			if existing, _ = getRecord(ctx, cfg.Redis, redisKey); existing != nil {
				replayOrReject(c, existing, hash)
				return
			}
		}

		rw := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rw
		c.Next()

		status := rw.Status()
		if status < 200 || status >= 300 {
			_ = cfg.Redis.Del(context.WithoutCancel(ctx), redisKey).Err()
			return
		}
		record.Status = StatusCompleted
		record.ResponseCode = status
		record.ResponseBody = rw.body.String()
		_ = saveRecord(context.WithoutCancel(ctx), cfg.Redis, redisKey, record, cfg.TTL)
	}
}

func replayOrReject(c *gin.Context, rec *IdempotencyRecord, hash string) {
	switch {
	case rec.RequestHash != hash:
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeIdempotencyReuse,
			"idempotency key already used with a different request")
	case rec.Status == StatusProcessing:
		response.Abort(c, http.StatusConflict, response.CodeInProgress,
			"a request with this idempotency key is still being processed")
	default:
		c.Header("Idempotent-Replayed", "true")
		c.Data(rec.ResponseCode, "application/json; charset=utf-8", []byte(rec.ResponseBody))
		c.Abort()
	}
}

// GetIdempotencyKey extracts idempotency key from gin context
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetString(ContextKeyIdempotencyKey)
	return key, key != ""
}

type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func getRecord(ctx context.Context, rc RedisClient, key string) (*IdempotencyRecord, error) {
	raw, err := rc.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func setRecordNX(ctx context.Context, rc RedisClient, key string, rec *IdempotencyRecord, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	return rc.SetNX(ctx, key, string(data), ttl).Result()
}

func saveRecord(ctx context.Context, rc RedisClient, key string, rec *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, string(data), ttl).Err()
}
