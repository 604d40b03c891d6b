// Copyright © 2025 The Refract authors

package navtrace

import (
	"context"

	"github.com/refract-tools/refract/sem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey = "otelParentTracer"
)

var _ Annotator = &otelAnnotator{}

type otelAnnotator struct {
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator records query spans on the globally
// registered OpenTelemetry tracer provider, nested under whatever span
// parentContext carries.
func NewOpenTelemetryAnnotator(parentContext context.Context) Annotator {
	return &otelAnnotator{currentContext: parentContext}
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = "refract"
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(op string, t *sem.Tree, id sem.NodeID) func() {
	oldContext := p.currentContext
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, op)
	p.addCodeAttributes(t, id)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}

func (p *otelAnnotator) addCodeAttributes(t *sem.Tree, id sem.NodeID) {
	attrs := []attribute.KeyValue{
		semconv.CodeFilepath(t.File()),
	}
	if n := t.Node(id); n != nil {
		loc := t.NodeLoc(id)
		attrs = append(attrs,
			attribute.String("node.kind", n.Kind().String()),
			attribute.Int("node.offset", loc.Offset),
		)
		if loc.Line > 0 {
			attrs = append(attrs, semconv.CodeLineNumber(loc.Line))
		}
		if loc.Col > 0 {
			attrs = append(attrs, semconv.CodeColumn(loc.Col))
		}
	}
	p.currentSpan.SetAttributes(attrs...)
}
