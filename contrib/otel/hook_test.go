package otel

import (
	"errors"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/cobalt-labs/gemkit"
)

func newTestHook() (*Hook, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return NewHook(tp), exporter
}

func TestHookEmitsSpanPerRequest(t *testing.T) {
	hook, exporter := newTestHook()

	start := time.Now().Add(-200 * time.Millisecond)
	end := time.Now()
	total := int32(42)

	hook.OnRequestEnd(gemkit.RequestEndEvent{
		Operation: "generateContent",
		Model:     "gemini-2.5-flash",
		Start:     start,
		End:       end,
		Usage:     &gemkit.UsageMetadata{TotalTokenCount: &total},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "generateContent" {
		t.Errorf("span name = %q", span.Name)
	}
	if got := span.EndTime.Sub(span.StartTime); got < 150*time.Millisecond {
		t.Errorf("span duration = %v, want the event's timing", got)
	}

	attrs := make(map[string]any)
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["gen_ai.request.model"] != "gemini-2.5-flash" {
		t.Errorf("model attribute = %v", attrs["gen_ai.request.model"])
	}
	if attrs["gen_ai.usage.total_tokens"] != int64(42) {
		t.Errorf("total tokens attribute = %v", attrs["gen_ai.usage.total_tokens"])
	}
}

func TestHookRecordsErrors(t *testing.T) {
	hook, exporter := newTestHook()

	hook.OnRequestEnd(gemkit.RequestEndEvent{
		Operation: "generateContent",
		Start:     time.Now(),
		End:       time.Now(),
		Err:       errors.New("rate limited"),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("no error event recorded on span")
	}
}
