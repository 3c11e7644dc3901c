package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TracerFromContext(ctx context.Context) trace.Tracer {
	if tracer, ok := ctx.Value(ContextKeyTracer).(trace.Tracer); ok {
		return tracer
	}
	return noop.NewTracerProvider().Tracer("")
}

func StoreTracerInContext(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, ContextKeyTracer, tracer)
}

func StoreTracerInContextMiddleware(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(StoreTracerInContext(c.Request.Context(), tracer))
		c.Next()
	}
}

// StartSpan starts a span with the tracer of the context, or a noop span when the
// request is not traced.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return TracerFromContext(ctx).Start(ctx, name, trace.WithAttributes(attrs...))
}
