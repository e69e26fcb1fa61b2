package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamroze153/FM-Portal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(logger.NewNop()))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
}

func authRouter(cfg AuthConfig) *gin.Engine {
	r := gin.New()
	r.PUT("/admin", RequireRole(cfg, RoleAdmin), func(c *gin.Context) {
		sub, _ := GetSubject(c)
		c.String(http.StatusOK, sub)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	cfg := AuthConfig{Enabled: true, Secret: "s3cret", Issuer: "fm-portal"}
	r := authRouter(cfg)

	adminToken, err := IssueToken(cfg.Secret, cfg.Issuer, "ops-lead", RoleAdmin, time.Hour)
	require.NoError(t, err)
	techToken, err := IssueToken(cfg.Secret, cfg.Issuer, "bilal", "technician", time.Hour)
	require.NoError(t, err)
	otherSecret, err := IssueToken("other", cfg.Issuer, "x", RoleAdmin, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(cfg.Secret, cfg.Issuer, "x", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong role", "Bearer " + techToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ops-lead", w.Body.String())
			}
		})
	}
}

func TestRequireRole_Disabled(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(AuthConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func idempotentRouter(t *testing.T, status int) (*gin.Engine, *int32, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	var calls int32
	r := gin.New()
	r.POST("/tickets", Idempotency(IdempotencyConfig{Redis: rc}), func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(status, gin.H{"call": n})
	})
	return r, &calls, mr
}

func post(r http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	r, calls, _ := idempotentRouter(t, http.StatusCreated)

	first := post(r, "k1", `{"asset_id":"ahu-1"}`)
	second := post(r, "k1", `{"asset_id":"ahu-1"}`)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotency_KeyReusedWithDifferentBody(t *testing.T) {
	r, _, _ := idempotentRouter(t, http.StatusCreated)

	post(r, "k1", `{"asset_id":"ahu-1"}`)
	w := post(r, "k1", `{"asset_id":"ahu-2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	r, calls, _ := idempotentRouter(t, http.StatusCreated)

	post(r, "", `{}`)
	post(r, "", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	r, calls, mr := idempotentRouter(t, http.StatusBadRequest)

	post(r, "k1", `{}`)
	post(r, "k1", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.False(t, mr.Exists(IdempotencyKeyPrefix+"k1"))
}

func TestIdempotency_InProgress(t *testing.T) {
	r, calls, mr := idempotentRouter(t, http.StatusCreated)

	hash := requestHash(http.MethodPost, "/tickets", []byte(`{}`))
	require.NoError(t, mr.Set(IdempotencyKeyPrefix+"k1", `{"status":"processing","request_hash":"`+hash+`"}`))

	w := post(r, "k1", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestIdempotency_RedisDownFailsOpen(t *testing.T) {
	r, calls, mr := idempotentRouter(t, http.StatusCreated)
	mr.Close()

	w := post(r, "k1", `{}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
