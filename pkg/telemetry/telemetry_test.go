package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), &Config{ServiceName: "dispatch-test"})
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer())

	ctx, span := StartSpan(context.Background(), "noop")
	span.End()
	assert.Equal(t, "", GetTraceID(ctx))

	SetSpanError(ctx, errors.New("ignored"))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInit_NilConfig(t *testing.T) {
	_, err := Init(context.Background(), nil)
	assert.NoError(t, err)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestInstruments_NoopMeter(t *testing.T) {
	m := Meter("test")
	c := NewCounter(m, "tickets_filed_total", "tickets filed")
	c.Add(context.Background(), 1)

	h := NewHistogram(m, "advisor_latency", "advisor latency", "s")
	h.Since(context.Background(), time.Now())

	var nilCounter *Counter
	nilCounter.Add(context.Background(), 1)
}

func TestMiddleware_PassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TracingMiddleware("dispatch-test"), TraceHeaderMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
