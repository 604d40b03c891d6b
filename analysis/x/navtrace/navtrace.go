// Copyright © 2025 The Refract authors

// Package navtrace annotates navigation queries with distributed-trace
// spans, one span per query and one per emitted reference. Annotators
// exist for OpenTelemetry and OpenCensus backends.
package navtrace

import (
	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/sem"
)

// Annotator opens a span around one query step. The returned func closes
// the span. Annotators are not safe for concurrent use; run one query at
// a time per annotator.
type Annotator interface {
	Start(op string, t *sem.Tree, id sem.NodeID) func()
}

// Resolve runs a single-node resolution under a span.
func Resolve(a Annotator, t *sem.Tree, id sem.NodeID) analysis.TargetSet {
	done := a.Start("resolve", t, id)
	defer done()
	return analysis.Resolve(t, id)
}

// CollectReferences runs a subtree walk under a span, with a child span
// per reference record.
func CollectReferences(a Annotator, t *sem.Tree, root sem.NodeID, visit func(analysis.Reference)) {
	done := a.Start("collect-references", t, root)
	defer done()
	analysis.CollectReferences(t, root, func(r analysis.Reference) {
		refDone := a.Start("reference", t, r.Node)
		visit(r)
		refDone()
	})
}
