package gemkit

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Event types are designed to NEVER include sensitive data:
//   - API keys are NEVER included (stored separately as Secret)
//   - Prompt content is NEVER included
//   - Response content is NEVER included
//   - Only operational metadata is exposed (operation, model, timing, token counts)
//
// This design ensures that telemetry data can be safely logged to disk,
// sent to external monitoring systems, or stored long-term for debugging.
//
// If extending this interface, maintain these security properties. Never
// add fields that could contain API keys, prompts, or model responses.
type TelemetryHook interface {
	// OnRequestStart is called when a request to the service begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to the service completes.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
//
// # Security
//
// This struct intentionally excludes API keys, message content, and
// request headers. Only operational metadata suitable for logging is
// included.
type RequestStartEvent struct {
	Operation string    // API operation (e.g., "generateContent", "embedContent")
	Model     string    // Model being called, empty for resource operations
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
//
// # Security
//
// This struct intentionally excludes API keys, response content, and raw
// HTTP response data.
type RequestEndEvent struct {
	Operation string         // API operation
	Model     string         // Model that was called, empty for resource operations
	Start     time.Time      // When the request started
	End       time.Time      // When the request completed
	Usage     *UsageMetadata // Token consumption, nil when not reported
	Err       error          // Error if request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
