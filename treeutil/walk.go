// Copyright © 2025 The Refract authors

// Package treeutil provides shared traversal utilities over semantic
// trees.
//
// These helpers are used by both the analysis package and the snapshot
// tooling for walking type-checked trees.
package treeutil

import (
	"github.com/refract-tools/refract/sem"
)

// Walk calls fn for every node in the subtree rooted at root,
// depth-first in child order. parent is nil for the root. Qualifier
// segments are visited before the node that carries them.
func Walk(t *sem.Tree, root sem.NodeID, fn func(n, parent sem.Node, depth int)) {
	walkNode(t, root, nil, 0, fn)
}

func walkNode(t *sem.Tree, id sem.NodeID, parent sem.Node, depth int, fn func(n, parent sem.Node, depth int)) {
	n := t.Node(id)
	if n == nil {
		return
	}
	for _, seg := range n.Base().Qualifier {
		walkNode(t, seg, n, depth, fn)
	}
	fn(n, parent, depth)
	for _, child := range n.Base().Children {
		walkNode(t, child, n, depth+1, fn)
	}
}

// FindAtOffset returns the node whose written name starts at the given
// offset in the tree's main file, searching the subtree rooted at root.
// Returns InvalidNode when no name starts there.
func FindAtOffset(t *sem.Tree, root sem.NodeID, offset int) sem.NodeID {
	found := sem.InvalidNode
	Walk(t, root, func(n, _ sem.Node, _ int) {
		if found != sem.InvalidNode {
			return
		}
		loc := n.Base().Loc.Resolved()
		if loc.Offset == offset && !n.Base().Synthesized {
			found = n.Base().ID
		}
	})
	return found
}

// Named reports whether a node kind carries a written name that can be
// reported as an explicit reference.
func Named(k sem.NodeKind) bool {
	switch k {
	case sem.KindGroup, sem.KindDeducedTypeRef:
		return false
	}
	return true
}
