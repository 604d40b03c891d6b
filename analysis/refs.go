// Copyright © 2025 The Refract authors

package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/source"
	"github.com/refract-tools/refract/treeutil"
)

// Reference records one explicitly written name inside a walked subtree:
// where it was written, what it resolves to (alias entries removed), and
// the textual scope qualification preceding it, when any was written.
type Reference struct {
	// Node is the syntax node that carries the written name.
	Node sem.NodeID

	// Loc is the expansion-resolved position of the name's first
	// character in the main file.
	Loc source.Location

	// Qualifier is the scope path written before the name, e.g. "a::b::".
	// Empty for unqualified references.
	Qualifier string

	// Targets holds the resolved declarations, narrowed to non-alias
	// entries.
	Targets TargetSet
}

// Format renders the reference against its tree for display and
// debugging.
func (r Reference) Format(t *sem.Tree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "targets = %s", r.Targets.Format(t))
	if r.Qualifier != "" {
		fmt.Fprintf(&b, ", qualifier = '%s'", r.Qualifier)
	}
	return b.String()
}

// CollectReferences walks the subtree rooted at root and invokes visit
// once per explicit, user-written name reference, in strictly increasing
// order of source offset. Compiler-synthesized nodes produce no records.
// Qualifier paths produce one record per segment, left to right, before
// the record for the final name. Names written inside macro bodies are
// reported at their expansion point in the main file.
func CollectReferences(t *sem.Tree, root sem.NodeID, visit func(Reference)) {
	w := walker{tree: t}
	w.node(root)
	// Children are stored in source order, but a parent's name can sit
	// between (member access) or after (call operands) its children's
	// names, so traversal order alone does not give offset order.
	sort.SliceStable(w.refs, func(i, j int) bool {
		return w.refs[i].Loc.Offset < w.refs[j].Loc.Offset
	})
	for _, r := range w.refs {
		visit(r)
	}
}

// walker accumulates one CollectReferences call's records.
type walker struct {
	tree *sem.Tree
	refs []Reference
}

func (w *walker) node(id sem.NodeID) {
	n := w.tree.Node(id)
	if n == nil {
		return
	}
	b := n.Base()
	if !b.Synthesized && treeutil.Named(n.Kind()) {
		w.emitQualified(n)
	}
	// Synthesized wrappers still contain user-written children (the
	// range expression of an implicit iteration, for example).
	for _, child := range b.Children {
		w.node(child)
	}
}

// emitQualified records the node's qualifier segments left to right and
// then the node's own name. Each segment's record carries the textual
// prefix written before that segment.
func (w *walker) emitQualified(n sem.Node) {
	b := n.Base()
	var prefix strings.Builder
	for _, segID := range b.Qualifier {
		seg, ok := w.tree.Node(segID).(*sem.ScopeSegment)
		if !ok {
			continue
		}
		if !seg.Synthesized {
			w.emit(seg.ID, seg.Loc, prefix.String(), Resolve(w.tree, seg.ID))
		}
		prefix.WriteString(seg.Text)
		prefix.WriteString("::")
	}
	w.emit(b.ID, b.Loc, prefix.String(), Resolve(w.tree, b.ID))
}

func (w *walker) emit(id sem.NodeID, loc source.Location, qualifier string, targets TargetSet) {
	w.refs = append(w.refs, Reference{
		Node:      id,
		Loc:       loc.Resolved(),
		Qualifier: qualifier,
		Targets:   targets.WithoutRelation(RelAlias),
	})
}
