// Package otel bridges gemkit telemetry events into OpenTelemetry spans.
//
// The hook emits one client span per API request, timestamped from the
// event's start and end times, with the operation, model, token usage,
// and error status recorded as attributes. Only operational metadata
// reaches the spans; prompts, responses, and credentials never do.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cobalt-labs/gemkit"
)

const tracerName = "github.com/cobalt-labs/gemkit/contrib/otel"

// Hook implements gemkit.TelemetryHook by emitting one span per
// completed request.
type Hook struct {
	tracer trace.Tracer
}

// NewHook creates a hook emitting spans through the given provider.
func NewHook(tp trace.TracerProvider) *Hook {
	return &Hook{tracer: tp.Tracer(tracerName)}
}

// OnRequestStart does nothing; the span is created at request end so its
// duration is exact without correlating paired events.
func (h *Hook) OnRequestStart(gemkit.RequestStartEvent) {}

// OnRequestEnd emits a client span spanning the request's lifetime.
func (h *Hook) OnRequestEnd(e gemkit.RequestEndEvent) {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", e.Operation),
	}
	if e.Model != "" {
		attrs = append(attrs, attribute.String("gen_ai.request.model", e.Model))
	}
	if u := e.Usage; u != nil {
		if u.PromptTokenCount != nil {
			attrs = append(attrs, attribute.Int("gen_ai.usage.input_tokens", int(*u.PromptTokenCount)))
		}
		if u.CandidatesTokenCount != nil {
			attrs = append(attrs, attribute.Int("gen_ai.usage.output_tokens", int(*u.CandidatesTokenCount)))
		}
		if u.TotalTokenCount != nil {
			attrs = append(attrs, attribute.Int("gen_ai.usage.total_tokens", int(*u.TotalTokenCount)))
		}
	}

	_, span := h.tracer.Start(context.Background(), e.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(attrs...),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}

// Compile-time check that Hook implements gemkit.TelemetryHook.
var _ gemkit.TelemetryHook = (*Hook)(nil)
