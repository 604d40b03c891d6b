// Copyright © 2025 The Refract authors

package analysis

import (
	"fmt"
	"strings"

	"github.com/refract-tools/refract/sem"
)

// Target pairs a declaration with the relations describing how it was
// reached from the resolved node.
type Target struct {
	Decl      sem.DeclID
	Relations RelationSet
}

// TargetSet is a duplicate-free collection of targets. Declarations are
// deduplicated by handle; adding the same declaration twice merges the
// relation sets. Iteration order is insertion order but carries no
// meaning.
type TargetSet struct {
	targets []Target
}

// Add records a declaration with the given relations, merging with an
// existing entry for the same declaration. Invalid handles are ignored.
func (ts *TargetSet) Add(decl sem.DeclID, rels RelationSet) {
	if decl == sem.InvalidDecl {
		return
	}
	for i := range ts.targets {
		if ts.targets[i].Decl == decl {
			ts.targets[i].Relations = ts.targets[i].Relations.Union(rels)
			return
		}
	}
	ts.targets = append(ts.targets, Target{Decl: decl, Relations: rels})
}

// Targets returns the entries of the set.
func (ts TargetSet) Targets() []Target { return ts.targets }

// Len returns the number of entries.
func (ts TargetSet) Len() int { return len(ts.targets) }

// Get returns the entry for decl, if present.
func (ts TargetSet) Get(decl sem.DeclID) (Target, bool) {
	for _, t := range ts.targets {
		if t.Decl == decl {
			return t, true
		}
	}
	return Target{}, false
}

// WithoutRelation returns a copy of the set with every entry tagged r
// removed.
func (ts TargetSet) WithoutRelation(r DeclRelation) TargetSet {
	var out TargetSet
	for _, t := range ts.targets {
		if !t.Relations.Contains(r) {
			out.targets = append(out.targets, t)
		}
	}
	return out
}

// Union returns the merged set, OR-ing relation sets of shared
// declarations.
func (ts TargetSet) Union(o TargetSet) TargetSet {
	var out TargetSet
	for _, t := range ts.targets {
		out.Add(t.Decl, t.Relations)
	}
	for _, t := range o.targets {
		out.Add(t.Decl, t.Relations)
	}
	return out
}

// Format renders the set against its tree for display and debugging.
func (ts TargetSet) Format(t *sem.Tree) string {
	var b strings.Builder
	b.WriteString("{")
	for i, tgt := range ts.targets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.DeclString(tgt.Decl))
		if !tgt.Relations.Empty() {
			fmt.Fprintf(&b, " [%s]", tgt.Relations)
		}
	}
	b.WriteString("}")
	return b.String()
}

// Resolve maps one syntax node to the declarations it references.
//
// Dispatch is exhaustive over node kinds; kinds with nothing to resolve
// (structural groups, dialect edge cases with no tree anchor, future
// kinds) yield an empty set. Resolution never fails: a best-effort,
// never-crash contract for interactive tooling.
func Resolve(t *sem.Tree, id sem.NodeID) TargetSet {
	r := resolver{tree: t}
	r.node(t.Node(id))
	return r.out
}

// resolver accumulates one Resolve call's target set.
type resolver struct {
	tree *sem.Tree
	out  TargetSet

	// chasing guards the alias chase against malformed cyclic input.
	chasing map[sem.DeclID]bool
}

func (r *resolver) node(n sem.Node) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *sem.DeclRef:
		if n.Via != sem.InvalidDecl {
			// Found through an import: the reference is already resolved
			// to one overload, so unused siblings never appear.
			r.out.Add(n.Via, Relations(RelAlias))
			r.expand(n.Decl, Relations(RelUnderlying))
		} else {
			r.decl(n.Decl, 0)
		}

	case *sem.MemberAccess:
		if n.Via != sem.InvalidDecl {
			r.out.Add(n.Via, Relations(RelAlias))
			r.expand(n.Member, Relations(RelUnderlying))
		} else {
			r.expand(n.Member, 0)
		}

	case *sem.UsingDecl:
		// The import declaration itself references everything it
		// imports, including overloads no use site ever picked.
		imp := r.tree.Decl(n.Import)
		if imp == nil {
			return
		}
		r.out.Add(n.Import, Relations(RelAlias))
		for _, tgt := range imp.Targets {
			r.expand(tgt, Relations(RelUnderlying))
		}

	case *sem.OverloadRef:
		// Dependent on an unsubstituted generic parameter: every
		// candidate, untagged.
		for _, c := range n.Candidates {
			r.out.Add(c, 0)
		}

	case *sem.CtorInit:
		if n.Field != sem.InvalidDecl {
			r.out.Add(n.Field, 0)
		} else {
			// Delegating construction names the enclosing type, not a
			// specific overload.
			r.decl(n.Class, 0)
		}

	case *sem.DesignatorInit:
		r.out.Add(r.designatedField(n), 0)

	case *sem.ScopeSegment:
		r.decl(n.Decl, 0)

	case *sem.TypeRef:
		r.decl(n.Decl, 0)

	case *sem.DeducedTypeRef:
		if n.Underlying != sem.InvalidDecl {
			r.expand(n.Underlying, Relations(RelUnderlying))
		}

	case *sem.CaptureRef:
		// Chase synthesized capture storage to the original variable;
		// the storage itself never surfaces.
		if stor := r.tree.Decl(n.Capture); stor != nil {
			r.decl(stor.CapturedFrom, 0)
		}

	case *sem.MessageSend:
		r.out.Add(n.Method, 0)

	case *sem.IvarAccess:
		r.out.Add(n.Ivar, 0)

	case *sem.PropertyAccess:
		r.property(n)

	case *sem.ProtocolExpr:
		r.out.Add(n.Protocol, 0)

	default:
		// Groups and unhandled kinds resolve to nothing.
	}
}

// decl reports a declaration the front end resolved a name to, splitting
// alias declarations into their alias and underlying halves. Alias
// chains are followed, tagging every link.
func (r *resolver) decl(id sem.DeclID, base RelationSet) {
	d := r.tree.Decl(id)
	if d == nil {
		return
	}
	if !d.IsAlias() {
		r.expand(id, base)
		return
	}
	if r.chasing[id] {
		return
	}
	if r.chasing == nil {
		r.chasing = make(map[sem.DeclID]bool)
	}
	r.chasing[id] = true

	rel := base.With(RelAlias)
	if d.Template {
		// An alias template is itself a generic pattern.
		rel = rel.With(RelTemplatePattern)
	}
	r.out.Add(id, rel)
	for _, tgt := range d.Targets {
		r.decl(tgt, base.With(RelUnderlying))
	}
}

// expand reports a declaration, splitting implicit and partial
// specializations into their concrete and pattern halves. Explicit
// specializations are user-written, not derived from a pattern, and
// report only themselves.
func (r *resolver) expand(id sem.DeclID, base RelationSet) {
	d := r.tree.Decl(id)
	if d == nil {
		return
	}
	switch d.Spec {
	case sem.SpecImplicit, sem.SpecPartial:
		r.out.Add(id, base.With(RelTemplateInstantiation))
		r.decl(d.Pattern, base.With(RelTemplatePattern))
	default:
		r.out.Add(id, base)
	}
}

// designatedField resolves a dotted designator path by walking nested
// aggregate members, returning the final named field.
func (r *resolver) designatedField(n *sem.DesignatorInit) sem.DeclID {
	record := n.Record
	found := sem.InvalidDecl
	for _, name := range n.Path {
		rec := r.tree.Decl(record)
		if rec == nil {
			return sem.InvalidDecl
		}
		found = sem.InvalidDecl
		for _, fid := range rec.Fields {
			if f := r.tree.Decl(fid); f != nil && f.Name == name {
				found = fid
				record = f.Type
				break
			}
		}
		if found == sem.InvalidDecl {
			return sem.InvalidDecl
		}
	}
	return found
}

// property picks the declaration a property-style access means: the
// declared property when one exists, otherwise the accessor matching the
// access direction (setter for assignment targets, getter for reads).
func (r *resolver) property(n *sem.PropertyAccess) {
	if n.Property != sem.InvalidDecl {
		r.out.Add(n.Property, 0)
		return
	}
	if n.Assign {
		r.out.Add(n.Setter, 0)
		return
	}
	r.out.Add(n.Getter, 0)
}
