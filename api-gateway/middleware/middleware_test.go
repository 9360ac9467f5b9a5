package middleware

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tair/clothing-store/pkg/logger"
)

func TestCacheArea(t *testing.T) {
	assert.Equal(t, "products", CacheArea("/products"))
	assert.Equal(t, "products", CacheArea("/products/5/stock"))
	assert.Equal(t, "purchases", CacheArea("/purchases/3/cancel"))
	assert.Equal(t, "purchases", CacheArea("/admin/purchases/3"))
	assert.Equal(t, "customers", CacheArea("/customers/me"))
	assert.Equal(t, "misc", CacheArea("/auth/login"))
}

func TestDetermineServiceFromPath(t *testing.T) {
	assert.Equal(t, "shop", determineServiceFromPath("/purchases"))
	assert.Equal(t, "shop", determineServiceFromPath("/products/1"))
	assert.Equal(t, "shop", determineServiceFromPath("/auth/login"))
	assert.Equal(t, "shop", determineServiceFromPath("/admin/purchases/4"))
	assert.Equal(t, "", determineServiceFromPath("/metrics"))
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker("shop", 3, 10*time.Millisecond)
	fail := func() error { return errors.New("boom") }
	ok := func() error { return nil }

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Call(fail))
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// Open circuit rejects without invoking the function.
	err := cb.Call(ok)
	assert.Error(t, err)

	time.Sleep(15 * time.Millisecond)

	// Half-open: three successes close the circuit.
	for i := 0; i < 3; i++ {
		assert.NoError(t, cb.Call(ok))
	}
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestStructuredLoggingCapturesOutcome(t *testing.T) {
	var buf bytes.Buffer
	saved := logger.Logger
	logger.Logger = zerolog.New(&buf)
	defer func() { logger.Logger = saved }()

	app := fiber.New()
	app.Use(StructuredLoggingMiddleware())
	app.Get("/purchases", func(c *fiber.Ctx) error {
		c.Locals("customer_id", uint(7))
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/purchases", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, `"customer_id":7`)
	assert.Contains(t, line, `"status":201`)
	assert.Contains(t, line, `"path":"/purchases"`)
}

func TestTracingContinuesIncomingTrace(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	app := fiber.New()
	app.Use(TracingMiddleware())

	var forwarded string
	app.Get("/products", func(c *fiber.Ctx) error {
		forwarded = c.Get("traceparent")
		return c.SendStatus(fiber.StatusOK)
	})

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The upstream trace continues into the proxied request and is echoed
	// back to the caller.
	assert.Contains(t, forwarded, traceID)
	assert.Equal(t, traceID, resp.Header.Get("X-Trace-Id"))
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("shop", 1, 10*time.Millisecond)

	assert.Error(t, cb.Call(func() error { return errors.New("boom") }))
	assert.Equal(t, StateOpen, cb.GetState())

	time.Sleep(15 * time.Millisecond)

	assert.Error(t, cb.Call(func() error { return errors.New("boom again") }))
	assert.Equal(t, StateOpen, cb.GetState())
}
