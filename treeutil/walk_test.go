// Copyright © 2025 The Refract authors

package treeutil

import (
	"testing"

	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/semtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_Order(t *testing.T) {
	b := semtest.New("main.x")
	x := b.Var("x")
	y := b.Var("y")

	inner := b.Group(b.DeclRef(5, x))
	root := b.Root(inner, b.DeclRef(9, y))

	var kinds []sem.NodeKind
	var depths []int
	Walk(b.Tree(), root, func(n, _ sem.Node, depth int) {
		kinds = append(kinds, n.Kind())
		depths = append(depths, depth)
	})

	require.Equal(t, []sem.NodeKind{
		sem.KindGroup, sem.KindGroup, sem.KindDeclRef, sem.KindDeclRef,
	}, kinds)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestWalk_VisitsQualifierFirst(t *testing.T) {
	b := semtest.New("main.x")
	ns := b.Namespace("ns")
	s := b.Type("S", semtest.Owner(ns))
	ref := b.TypeRef(4, s)
	b.Qualify(ref, b.Segment(0, "ns", ns))
	root := b.Root(ref)

	var kinds []sem.NodeKind
	Walk(b.Tree(), root, func(n, _ sem.Node, _ int) {
		kinds = append(kinds, n.Kind())
	})
	assert.Equal(t, []sem.NodeKind{
		sem.KindGroup, sem.KindScopeSegment, sem.KindTypeRef,
	}, kinds)
}

func TestWalk_ParentLinks(t *testing.T) {
	b := semtest.New("main.x")
	x := b.Var("x")
	child := b.DeclRef(5, x)
	root := b.Root(child)

	Walk(b.Tree(), root, func(n, parent sem.Node, _ int) {
		if n.Base().ID == child {
			require.NotNil(t, parent)
			assert.Equal(t, root, parent.Base().ID)
		}
		if n.Base().ID == root {
			assert.Nil(t, parent)
		}
	})
}

func TestFindAtOffset(t *testing.T) {
	b := semtest.New("main.x")
	x := b.Var("x")
	y := b.Var("y")
	rx := b.DeclRef(5, x)
	ry := b.DeclRef(9, y, semtest.Synthesized())
	root := b.Root(rx, ry)

	assert.Equal(t, rx, FindAtOffset(b.Tree(), root, 5))
	assert.Equal(t, sem.InvalidNode, FindAtOffset(b.Tree(), root, 7))
	// Synthesized names are not selectable.
	assert.Equal(t, sem.InvalidNode, FindAtOffset(b.Tree(), root, 9))
}

func TestNamed(t *testing.T) {
	assert.False(t, Named(sem.KindGroup))
	assert.False(t, Named(sem.KindDeducedTypeRef))
	assert.True(t, Named(sem.KindDeclRef))
	assert.True(t, Named(sem.KindScopeSegment))
	assert.True(t, Named(sem.KindPropertyAccess))
}
