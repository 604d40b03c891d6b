// Copyright © 2025 The Refract authors

package navtrace

import (
	"context"

	"github.com/refract-tools/refract/sem"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator records query spans through OpenCensus, nested
// under whatever span parentContext carries.
func NewOpenCensusAnnotator(parentContext context.Context) Annotator {
	return &ocAnnotator{currentContext: parentContext}
}

func (p *ocAnnotator) Start(op string, t *sem.Tree, id sem.NodeID) func() {
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, op)

	attrs := []trace.Attribute{
		trace.StringAttribute("file", t.File()),
	}
	if n := t.Node(id); n != nil {
		attrs = append(attrs,
			trace.StringAttribute("node.kind", n.Kind().String()),
			trace.Int64Attribute("node.offset", int64(t.NodeLoc(id).Offset)),
		)
	}
	p.currentSpan.Annotate(attrs, "query")

	return func() {
		p.currentSpan.End()
		// And pop the current context back
		last := len(p.contexts) - 1
		p.currentContext = p.contexts[last]
		p.contexts = p.contexts[:last]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
