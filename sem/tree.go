// Copyright © 2025 The Refract authors

// Package sem models the type-checked semantic tree the resolution core
// reads. Trees are produced by an external front end that has already run
// name lookup, overload resolution, and template instantiation; this
// package only defines the shape those results arrive in.
//
// Declarations and nodes live in per-tree arenas and are addressed by
// opaque DeclID/NodeID handles. A handle borrowed from a tree must not
// outlive it, and a tree must not be mutated while resolution queries are
// in progress. Read-only queries over the same tree may run concurrently.
package sem

import "github.com/refract-tools/refract/source"

// Tree is the semantic tree of one type-checked translation unit.
type Tree struct {
	file  string
	decls []Decl
	nodes []Node
	root  NodeID
}

// NewTree creates an empty tree for the named main file.
func NewTree(file string) *Tree {
	return &Tree{file: file}
}

// File returns the name of the tree's main source file.
func (t *Tree) File() string { return t.file }

// AddDecl appends a declaration to the tree and returns its handle.
func (t *Tree) AddDecl(d Decl) DeclID {
	t.decls = append(t.decls, d)
	return DeclID(len(t.decls))
}

// Decl returns the declaration named by id, or nil when id is invalid
// for this tree.
func (t *Tree) Decl(id DeclID) *Decl {
	if id <= 0 || int(id) > len(t.decls) {
		return nil
	}
	return &t.decls[id-1]
}

// DeclCount returns the number of declarations in the tree. Valid
// handles are 1 through DeclCount.
func (t *Tree) DeclCount() int { return len(t.decls) }

// AddNode appends a node to the tree, records its handle in the node's
// base, and returns the handle.
func (t *Tree) AddNode(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	id := NodeID(len(t.nodes))
	n.Base().ID = id
	return id
}

// Node returns the node named by id, or nil when id is invalid for this
// tree.
func (t *Tree) Node(id NodeID) Node {
	if id <= 0 || int(id) > len(t.nodes) {
		return nil
	}
	return t.nodes[id-1]
}

// NodeCount returns the number of nodes in the tree. Valid handles are
// 1 through NodeCount.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// SetRoot records the root node of the tree.
func (t *Tree) SetRoot(id NodeID) { t.root = id }

// Root returns the root node handle, or InvalidNode for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// AddChild appends child to parent's child list and records the parent
// link. Children must be added in source order.
func (t *Tree) AddChild(parent, child NodeID) {
	p := t.Node(parent)
	c := t.Node(child)
	if p == nil || c == nil {
		return
	}
	p.Base().Children = append(p.Base().Children, child)
	c.Base().Parent = parent
}

// SetQualifier records the ScopeSegment nodes written before a node's
// name, left to right.
func (t *Tree) SetQualifier(id NodeID, segments ...NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	n.Base().Qualifier = segments
	for _, seg := range segments {
		if s := t.Node(seg); s != nil {
			s.Base().Parent = id
		}
	}
}

// DeclString renders a declaration for display: its Detail when the
// front end supplied one, otherwise "kind name".
func (t *Tree) DeclString(id DeclID) string {
	d := t.Decl(id)
	if d == nil {
		return "<none>"
	}
	return d.String()
}

// NodeLoc returns the expansion-resolved location of a node's name, or a
// zero location for an invalid handle.
func (t *Tree) NodeLoc(id NodeID) source.Location {
	n := t.Node(id)
	if n == nil {
		return source.Location{}
	}
	return n.Base().Loc.Resolved()
}
