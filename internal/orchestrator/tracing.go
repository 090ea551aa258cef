package orchestrator

import (
	"context"

	"github.com/vinayprograms/agentkit/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startAPICallSpan starts a span for one api_call invocation.
func (rt *Runtime) startAPICallSpan(ctx context.Context, path string, kind string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "agent.api_call")
	span.SetAttributes(
		attribute.String("agent.path", path),
		attribute.String("agent.kind", kind),
	)
	return ctx, span
}

// endAPICallSpan ends the api_call span with the directive count and error,
// if any.
func endAPICallSpan(span trace.Span, directiveCount int, err error) {
	span.SetAttributes(attribute.Int("agent.directive_count", directiveCount))
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// startDirectiveSpan starts a span for one directive's execution.
func (rt *Runtime) startDirectiveSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "directive."+kind)
	return ctx, span
}
