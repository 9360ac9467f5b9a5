package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request and hands the trace
// context to the proxied shop services. An incoming traceparent header is
// honored, so traces started upstream continue through the gateway.
func TracingMiddleware() fiber.Handler {
	tracer := otel.Tracer("api-gateway")
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		incoming := propagation.HeaderCarrier{}
		c.Request().Header.VisitAll(func(key, value []byte) {
			incoming.Set(string(key), string(value))
		})
		parent := propagator.Extract(c.UserContext(), incoming)

		ctx, span := tracer.Start(
			parent,
			c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.host", c.Hostname()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("gateway.request_id", requestID(c)),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)

		outgoing := propagation.HeaderCarrier{}
		propagator.Inject(ctx, outgoing)
		for key, values := range outgoing {
			for _, value := range values {
				c.Request().Header.Set(key, value)
			}
		}

		// Surface the trace id so clients can quote it when reporting a
		// failed purchase.
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int("http.response.size", len(c.Response().Body())),
		)
		if customerID, ok := c.Locals("customer_id").(uint); ok {
			span.SetAttributes(attribute.Int("customer.id", int(customerID)))
		}
		if cache := string(c.Response().Header.Peek("X-Cache")); cache != "" {
			span.SetAttributes(attribute.String("gateway.cache", cache))
		}

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= 500:
			span.SetStatus(codes.Error, "upstream failure")
		default:
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
