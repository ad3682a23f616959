// Package telemetry wraps OpenTelemetry tracing for runs, agents, model calls
// and tool calls. Spans go to the global tracer provider, which is a no-op
// until the host process installs one.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hupe1980/agentloop"

// Tracer returns the module's tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartRun starts a span for an orchestrator run.
func StartRun(ctx context.Context, mode, runID string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "orchestrator.run")
	span.SetAttributes(
		attribute.String("run.mode", mode),
		attribute.String("run.id", runID),
	)
	return ctx, span
}

// StartAgent starts a span for one agent run.
func StartAgent(ctx context.Context, kind, name string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "agent."+kind)
	span.SetAttributes(
		attribute.String("agent.kind", kind),
		attribute.String("agent.name", name),
	)
	return ctx, span
}

// StartModelCall starts a span for a model backend call.
func StartModelCall(ctx context.Context, provider, model string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "model.call", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("model.provider", provider),
		attribute.String("model.name", model),
	)
	return ctx, span
}

// StartToolCall starts a span for a tool invocation.
func StartToolCall(ctx context.Context, tool string, iteration int) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "tool."+tool)
	span.SetAttributes(
		attribute.String("tool.name", tool),
		attribute.Int("react.iteration", iteration),
	)
	return ctx, span
}

// End records err on the span, sets its status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
