package core

import (
	"context"

	"annexvii/pkg/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "annexvii/internal/core"

// OTelTracer adapts an OpenTelemetry tracer to Tracer. Business rejections
// are recorded as span events; only Internal failures mark the span as an error.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer uses provider, or the global provider when nil.
func NewOTelTracer(provider trace.TracerProvider) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTelTracer{tracer: provider.Tracer(instrumentationName)}
}

// Start implements Tracer.
func (t *OTelTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	ctx, span := t.tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("annexvii.operation", operation)),
	)
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		kind := domain.KindOf(err)
		s.span.SetAttributes(attribute.String("annexvii.error_kind", string(kind)))
		s.span.RecordError(err)
		if kind == domain.KindInternal {
			s.span.SetStatus(codes.Error, err.Error())
		}
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
