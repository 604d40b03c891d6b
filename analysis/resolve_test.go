// Copyright © 2025 The Refract authors

package analysis_test

import (
	"testing"

	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/semtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectTargets asserts the exact declaration/relation pairs of a
// resolution result.
func expectTargets(t *testing.T, ts analysis.TargetSet, want map[sem.DeclID]analysis.RelationSet) {
	t.Helper()
	got := make(map[sem.DeclID]analysis.RelationSet)
	for _, tgt := range ts.Targets() {
		got[tgt.Decl] = tgt.Relations
	}
	assert.Equal(t, want, got)
}

func rels(rs ...analysis.DeclRelation) analysis.RelationSet {
	return analysis.Relations(rs...)
}

// --- Direct uses and imports ---

func TestResolve_DirectName(t *testing.T) {
	b := semtest.New("main.x")
	f := b.Func("f", semtest.Detail("int f()"))
	ref := b.DeclRef(10, f)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		f: rels(),
	})
}

// Two overloads visible, one imported by name and called with a matching
// argument: the unused sibling never appears.
func TestResolve_ImportedOverloadUse(t *testing.T) {
	b := semtest.New("main.x")
	ns := b.Namespace("foo")
	fInt := b.Func("f", semtest.Owner(ns), semtest.Detail("int f(int)"))
	fChar := b.Func("f", semtest.Owner(ns), semtest.Detail("int f(char)"))
	imp := b.Import("f", semtest.Targets(fInt, fChar))
	call := b.DeclRefVia(30, fInt, imp)

	ts := analysis.Resolve(b.Tree(), call)
	expectTargets(t, ts, map[sem.DeclID]analysis.RelationSet{
		imp:  rels(analysis.RelAlias),
		fInt: rels(analysis.RelUnderlying),
	})
	_, hasSibling := ts.Get(fChar)
	assert.False(t, hasSibling, "unused overload must not appear")
}

// The import declaration itself references every imported overload.
func TestResolve_UsingDeclItself(t *testing.T) {
	b := semtest.New("main.x")
	ns := b.Namespace("foo")
	fInt := b.Func("f", semtest.Owner(ns))
	fChar := b.Func("f", semtest.Owner(ns))
	imp := b.Import("f", semtest.Targets(fInt, fChar))
	using := b.UsingDecl(5, imp)

	expectTargets(t, analysis.Resolve(b.Tree(), using), map[sem.DeclID]analysis.RelationSet{
		imp:   rels(analysis.RelAlias),
		fInt:  rels(analysis.RelUnderlying),
		fChar: rels(analysis.RelUnderlying),
	})
}

func TestResolve_MemberThroughInheritedImport(t *testing.T) {
	b := semtest.New("main.x")
	base := b.Type("X")
	foo := b.Decl(sem.DeclMethod, "foo", semtest.Owner(base), semtest.Detail("int foo()"))
	imp := b.Import("foo", semtest.Targets(foo))
	access := b.MemberAccessVia(40, foo, imp)

	expectTargets(t, analysis.Resolve(b.Tree(), access), map[sem.DeclID]analysis.RelationSet{
		imp: rels(analysis.RelAlias),
		foo: rels(analysis.RelUnderlying),
	})
}

func TestResolve_MemberDirect(t *testing.T) {
	b := semtest.New("main.x")
	rec := b.Type("X")
	field := b.Field("a", semtest.Owner(rec))
	access := b.MemberAccess(12, field)

	expectTargets(t, analysis.Resolve(b.Tree(), access), map[sem.DeclID]analysis.RelationSet{
		field: rels(),
	})
}

// --- Unresolved overload sets ---

// A call dependent on an unsubstituted generic parameter reports every
// candidate, untagged.
func TestResolve_DependentOverloadSet(t *testing.T) {
	b := semtest.New("main.x")
	f1 := b.Func("func", semtest.Detail("void func(int *)"))
	f2 := b.Func("func", semtest.Detail("void func(char *)"))
	ref := b.OverloadRef(20, []sem.DeclID{f1, f2})

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		f1: rels(),
		f2: rels(),
	})
}

// --- Constructor initializers ---

func TestResolve_CtorInit(t *testing.T) {
	b := semtest.New("main.x")
	cls := b.Type("X")
	field := b.Field("a", semtest.Owner(cls))

	memberInit := b.CtorInitField(15, field)
	expectTargets(t, analysis.Resolve(b.Tree(), memberInit), map[sem.DeclID]analysis.RelationSet{
		field: rels(),
	})

	// Delegating construction names the enclosing type, not an overload.
	delegating := b.CtorInitDelegating(25, cls)
	expectTargets(t, analysis.Resolve(b.Tree(), delegating), map[sem.DeclID]analysis.RelationSet{
		cls: rels(),
	})
}

// --- Designated initializers ---

func TestResolve_DesignatedInit(t *testing.T) {
	b := semtest.New("main.x")
	inner := b.Type("X")
	a := b.Field("a", semtest.Owner(inner))
	bField := b.Field("b")
	c := b.Field("c", semtest.FieldType(inner))
	outer := b.Type("Y", semtest.Fields(bField, c))
	innerDecl := b.Tree().Decl(inner)
	innerDecl.Fields = []sem.DeclID{a}

	// .c[0].a walks through the nested aggregate member.
	init := b.DesignatorInit(30, outer, []string{"c", "a"})
	expectTargets(t, analysis.Resolve(b.Tree(), init), map[sem.DeclID]analysis.RelationSet{
		a: rels(),
	})

	// An unknown field name degrades to an empty set.
	bad := b.DesignatorInit(40, outer, []string{"c", "nope"})
	assert.Zero(t, analysis.Resolve(b.Tree(), bad).Len())
}

// --- Qualifying scope segments ---

func TestResolve_ScopeSegment(t *testing.T) {
	b := semtest.New("main.x")
	nsA := b.Namespace("a")
	nsB := b.Namespace("b", semtest.Owner(nsA))
	seg := b.Segment(9, "b", nsB)

	expectTargets(t, analysis.Resolve(b.Tree(), seg), map[sem.DeclID]analysis.RelationSet{
		nsB: rels(),
	})
}

func TestResolve_NamespaceAliasSegment(t *testing.T) {
	b := semtest.New("main.x")
	nsA := b.Namespace("a")
	alias := b.NamespaceAlias("b", semtest.Targets(nsA), semtest.Detail("namespace b = a"))
	seg := b.Segment(9, "b", alias)

	expectTargets(t, analysis.Resolve(b.Tree(), seg), map[sem.DeclID]analysis.RelationSet{
		alias: rels(analysis.RelAlias),
		nsA:   rels(analysis.RelUnderlying),
	})
}

// --- Type references ---

func TestResolve_TypeDirect(t *testing.T) {
	b := semtest.New("main.x")
	x := b.Type("X")
	ref := b.TypeRef(8, x)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		x: rels(),
	})
}

func TestResolve_TypeThroughAlias(t *testing.T) {
	b := semtest.New("main.x")
	s := b.Type("S")
	alias := b.TypeAlias("X", semtest.Targets(s), semtest.Detail("typedef S X"))
	ref := b.TypeRef(8, alias)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		alias: rels(analysis.RelAlias),
		s:     rels(analysis.RelUnderlying),
	})
}

// A chain of aliases tags every link.
func TestResolve_TypeAliasChain(t *testing.T) {
	b := semtest.New("main.x")
	s := b.Type("S")
	first := b.TypeAlias("A", semtest.Targets(s))
	second := b.TypeAlias("B", semtest.Targets(first))
	ref := b.TypeRef(8, second)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		second: rels(analysis.RelAlias),
		first:  rels(analysis.RelAlias, analysis.RelUnderlying),
		s:      rels(analysis.RelUnderlying),
	})
}

func TestResolve_DeducedType(t *testing.T) {
	b := semtest.New("main.x")
	s := b.Type("S")

	// decltype(X) recovers the underlying named type.
	known := b.DeducedTypeRef(8, s)
	expectTargets(t, analysis.Resolve(b.Tree(), known), map[sem.DeclID]analysis.RelationSet{
		s: rels(analysis.RelUnderlying),
	})

	// No recoverable named type degrades to empty.
	unknown := b.DeducedTypeRef(20, sem.InvalidDecl)
	assert.Zero(t, analysis.Resolve(b.Tree(), unknown).Len())
}

// A generic-parameter type reference reports the parameter declaration
// itself; the front end cannot supply a printable form for it.
func TestResolve_GenericParamType(t *testing.T) {
	b := semtest.New("main.x")
	param := b.Decl(sem.DeclTypeParam, "T")
	ref := b.TypeRef(8, param)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		param: rels(),
	})
}

// --- Template specializations ---

func TestResolve_ImplicitSpecialization(t *testing.T) {
	b := semtest.New("main.x")
	primary := b.Type("Foo", semtest.Template(), semtest.Detail("class Foo"))
	inst := b.Type("Foo", semtest.Pattern(sem.SpecImplicit, primary), semtest.Detail("class Foo<42>"))
	ref := b.TypeRef(8, inst)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		inst:    rels(analysis.RelTemplateInstantiation),
		primary: rels(analysis.RelTemplatePattern),
	})
}

// A user-written explicit specialization is not derived from a pattern
// and reports only itself.
func TestResolve_ExplicitSpecialization(t *testing.T) {
	b := semtest.New("main.x")
	primary := b.Type("Foo", semtest.Template())
	spec := b.Type("Foo", semtest.Pattern(sem.SpecExplicit, primary))
	ref := b.TypeRef(8, spec)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		spec: rels(),
	})
}

// An instantiation matched by a partial specialization pairs with the
// partial pattern, not the primary template.
func TestResolve_PartialSpecialization(t *testing.T) {
	b := semtest.New("main.x")
	primary := b.Type("Foo", semtest.Template())
	partial := b.Type("Foo", semtest.Template(), semtest.Detail("class Foo<T *>"))
	inst := b.Type("Foo", semtest.Pattern(sem.SpecPartial, partial), semtest.Detail("class Foo<int *>"))
	ref := b.TypeRef(8, inst)

	ts := analysis.Resolve(b.Tree(), ref)
	expectTargets(t, ts, map[sem.DeclID]analysis.RelationSet{
		inst:    rels(analysis.RelTemplateInstantiation),
		partial: rels(analysis.RelTemplatePattern),
	})
	_, hasPrimary := ts.Get(primary)
	assert.False(t, hasPrimary, "primary template must not appear for a partial match")
}

func TestResolve_FunctionTemplate(t *testing.T) {
	b := semtest.New("main.x")
	pattern := b.Func("foo", semtest.Template(), semtest.Detail("bool foo(T)"))
	inst := b.Func("foo", semtest.Pattern(sem.SpecImplicit, pattern), semtest.Detail("bool foo<int>(int)"))
	call := b.DeclRef(30, inst)

	expectTargets(t, analysis.Resolve(b.Tree(), call), map[sem.DeclID]analysis.RelationSet{
		inst:    rels(analysis.RelTemplateInstantiation),
		pattern: rels(analysis.RelTemplatePattern),
	})
}

// An alias template naming a specialization combines both axes.
func TestResolve_AliasTemplate(t *testing.T) {
	b := semtest.New("main.x")
	primary := b.Type("SmallVector", semtest.Template())
	inst := b.Type("SmallVector", semtest.Pattern(sem.SpecImplicit, primary))
	alias := b.TypeAlias("TinyVector", semtest.Template(), semtest.Targets(inst))
	ref := b.TypeRef(8, alias)

	expectTargets(t, analysis.Resolve(b.Tree(), ref), map[sem.DeclID]analysis.RelationSet{
		alias:   rels(analysis.RelAlias, analysis.RelTemplatePattern),
		inst:    rels(analysis.RelTemplateInstantiation, analysis.RelUnderlying),
		primary: rels(analysis.RelTemplatePattern, analysis.RelUnderlying),
	})
}

func TestResolve_MemberOfTemplate(t *testing.T) {
	b := semtest.New("main.x")
	patternMember := b.Decl(sem.DeclMethod, "x", semtest.Template(), semtest.Detail("int x(T)"))
	instMember := b.Decl(sem.DeclMethod, "x", semtest.Pattern(sem.SpecImplicit, patternMember), semtest.Detail("int x(int)"))
	access := b.MemberAccess(25, instMember)

	expectTargets(t, analysis.Resolve(b.Tree(), access), map[sem.DeclID]analysis.RelationSet{
		instMember:    rels(analysis.RelTemplateInstantiation),
		patternMember: rels(analysis.RelTemplatePattern),
	})
}

// --- Closure captures ---

func TestResolve_CaptureChasesStorage(t *testing.T) {
	b := semtest.New("main.x")
	outer := b.Var("x", semtest.Detail("int x = 42"))
	storage := b.Field("x", semtest.CaptureOf(outer))
	use := b.CaptureRef(50, storage)

	ts := analysis.Resolve(b.Tree(), use)
	expectTargets(t, ts, map[sem.DeclID]analysis.RelationSet{
		outer: rels(),
	})
	_, hasStorage := ts.Get(storage)
	assert.False(t, hasStorage, "synthesized capture storage must never surface")
}

// --- Dynamic-dispatch dialect ---

func TestResolve_MessageSend(t *testing.T) {
	b := semtest.New("main.x")
	method := b.Decl(sem.DeclMethod, "bar", semtest.Detail("- (void)bar"))
	send := b.MessageSend(30, method)

	expectTargets(t, analysis.Resolve(b.Tree(), send), map[sem.DeclID]analysis.RelationSet{
		method: rels(),
	})
}

func TestResolve_IvarAccess(t *testing.T) {
	b := semtest.New("main.x")
	ivar := b.Decl(sem.DeclIvar, "bar", semtest.Detail("int bar"))
	access := b.IvarAccess(30, ivar)

	expectTargets(t, analysis.Resolve(b.Tree(), access), map[sem.DeclID]analysis.RelationSet{
		ivar: rels(),
	})
}

func TestResolve_PropertyAccess(t *testing.T) {
	b := semtest.New("main.x")
	getter := b.Decl(sem.DeclMethod, "x", semtest.Detail("- (int)x"))
	setter := b.Decl(sem.DeclMethod, "setX:", semtest.Detail("- (void)setX:(int)x"))
	prop := b.Decl(sem.DeclProperty, "x", semtest.Accessors(getter, setter))

	// A declared property wins regardless of access direction.
	declared := b.PropertyAccess(20, prop, true)
	expectTargets(t, analysis.Resolve(b.Tree(), declared), map[sem.DeclID]analysis.RelationSet{
		prop: rels(),
	})

	// Accessor-only assignment target resolves to the setter.
	assign := b.AccessorAccess(30, getter, setter, true)
	expectTargets(t, analysis.Resolve(b.Tree(), assign), map[sem.DeclID]analysis.RelationSet{
		setter: rels(),
	})

	// Accessor-only read resolves to the getter.
	read := b.AccessorAccess(40, getter, setter, false)
	expectTargets(t, analysis.Resolve(b.Tree(), read), map[sem.DeclID]analysis.RelationSet{
		getter: rels(),
	})
}

func TestResolve_ProtocolAndInterface(t *testing.T) {
	b := semtest.New("main.x")
	proto := b.Decl(sem.DeclProtocol, "Foo", semtest.Detail("@protocol Foo"))
	iface := b.Decl(sem.DeclInterface, "Foo", semtest.Detail("@interface Foo"))

	lit := b.ProtocolExpr(10, proto)
	expectTargets(t, analysis.Resolve(b.Tree(), lit), map[sem.DeclID]analysis.RelationSet{
		proto: rels(),
	})

	ifaceRef := b.TypeRef(20, iface)
	expectTargets(t, analysis.Resolve(b.Tree(), ifaceRef), map[sem.DeclID]analysis.RelationSet{
		iface: rels(),
	})

	qualified := b.TypeRef(30, proto)
	expectTargets(t, analysis.Resolve(b.Tree(), qualified), map[sem.DeclID]analysis.RelationSet{
		proto: rels(),
	})

	// A protocol composed onto a forward-declared class has no tree
	// anchor and yields empty.
	forward := b.TypeRef(40, sem.InvalidDecl)
	assert.Zero(t, analysis.Resolve(b.Tree(), forward).Len())
}

// --- Degradation and invariants ---

func TestResolve_UnsupportedKindsAreEmpty(t *testing.T) {
	b := semtest.New("main.x")
	group := b.Group()

	assert.Zero(t, analysis.Resolve(b.Tree(), group).Len())
	assert.Zero(t, analysis.Resolve(b.Tree(), sem.InvalidNode).Len())
	assert.Zero(t, analysis.Resolve(b.Tree(), sem.NodeID(999)).Len())
}

func TestResolve_Deterministic(t *testing.T) {
	b := semtest.New("main.x")
	s := b.Type("S")
	alias := b.TypeAlias("X", semtest.Targets(s))
	ref := b.TypeRef(8, alias)

	first := analysis.Resolve(b.Tree(), ref)
	second := analysis.Resolve(b.Tree(), ref)
	assert.Equal(t, first, second)

	// Idempotence: union with itself changes nothing.
	assert.Equal(t, first, first.Union(second))
}

// Every target set containing an alias entry also contains an
// underlying entry.
func TestResolve_AliasPairingInvariant(t *testing.T) {
	b := semtest.New("main.x")
	s := b.Type("S")
	alias := b.TypeAlias("X", semtest.Targets(s))
	ns := b.Namespace("a")
	nsAlias := b.NamespaceAlias("b", semtest.Targets(ns))
	f := b.Func("f")
	imp := b.Import("f", semtest.Targets(f))

	nodes := []sem.NodeID{
		b.TypeRef(8, alias),
		b.Segment(12, "b", nsAlias),
		b.DeclRefVia(20, f, imp),
		b.UsingDecl(30, imp),
	}
	for _, id := range nodes {
		ts := analysis.Resolve(b.Tree(), id)
		require.NotZero(t, ts.Len())
		hasAlias, hasUnderlying := false, false
		for _, tgt := range ts.Targets() {
			if tgt.Relations.Contains(analysis.RelAlias) {
				hasAlias = true
			}
			if tgt.Relations.Contains(analysis.RelUnderlying) {
				hasUnderlying = true
			}
		}
		assert.True(t, hasAlias, "node %d", id)
		assert.True(t, hasUnderlying, "node %d", id)
	}
}

// Instantiation entries from implicit or partial specializations always
// pair with a pattern entry; explicit specializations carry neither tag.
func TestResolve_InstantiationPairingInvariant(t *testing.T) {
	b := semtest.New("main.x")
	primary := b.Type("Foo", semtest.Template())
	partial := b.Type("Foo", semtest.Template())
	implicit := b.Type("Foo", semtest.Pattern(sem.SpecImplicit, primary))
	fromPartial := b.Type("Foo", semtest.Pattern(sem.SpecPartial, partial))
	explicit := b.Type("Foo", semtest.Pattern(sem.SpecExplicit, primary))

	for _, id := range []sem.NodeID{b.TypeRef(8, implicit), b.TypeRef(16, fromPartial)} {
		ts := analysis.Resolve(b.Tree(), id)
		hasInst, hasPattern := false, false
		for _, tgt := range ts.Targets() {
			if tgt.Relations.Contains(analysis.RelTemplateInstantiation) {
				hasInst = true
			}
			if tgt.Relations.Contains(analysis.RelTemplatePattern) {
				hasPattern = true
			}
		}
		assert.True(t, hasInst, "node %d", id)
		assert.True(t, hasPattern, "node %d", id)
	}

	ts := analysis.Resolve(b.Tree(), b.TypeRef(24, explicit))
	for _, tgt := range ts.Targets() {
		assert.False(t, tgt.Relations.Contains(analysis.RelTemplateInstantiation))
		assert.False(t, tgt.Relations.Contains(analysis.RelTemplatePattern))
	}
}

func TestTargetSet_MergesDuplicates(t *testing.T) {
	b := semtest.New("main.x")
	d := b.Func("f")

	var ts analysis.TargetSet
	ts.Add(d, rels(analysis.RelAlias))
	ts.Add(d, rels(analysis.RelTemplatePattern))
	require.Equal(t, 1, ts.Len())
	tgt, ok := ts.Get(d)
	require.True(t, ok)
	assert.True(t, tgt.Relations.Contains(analysis.RelAlias))
	assert.True(t, tgt.Relations.Contains(analysis.RelTemplatePattern))
}
