// Copyright © 2025 The Refract authors

// Package semtest builds semantic trees by hand, standing in for the
// front end in tests and demos.
//
// The real collaborator constructs trees from type-checked source; the
// Builder constructs the same shapes directly, with short helpers for
// the declaration and node forms the resolution rules care about.
package semtest

import (
	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/source"
)

// Builder assembles a semantic tree for one synthetic translation unit.
type Builder struct {
	tree *sem.Tree
	file string
}

// New creates a builder for the named main file.
func New(file string) *Builder {
	return &Builder{tree: sem.NewTree(file), file: file}
}

// Tree returns the built tree.
func (b *Builder) Tree() *sem.Tree { return b.tree }

// Loc places a name at a byte offset in the main file.
func (b *Builder) Loc(offset int) source.Location {
	return source.Location{File: b.file, Offset: offset}
}

// MacroLoc places a name inside a macro buffer, expanded at the given
// offset in the main file.
func (b *Builder) MacroLoc(macroOffset, expansionOffset int) source.Location {
	exp := b.Loc(expansionOffset)
	return source.Location{File: "<macro>", Offset: macroOffset, Expansion: &exp}
}

// DeclOption adjusts a declaration under construction.
type DeclOption func(*sem.Decl)

// Detail sets the pretty-printed signature.
func Detail(s string) DeclOption {
	return func(d *sem.Decl) { d.Detail = s }
}

// Owner sets the enclosing namespace or type.
func Owner(id sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Owner = id }
}

// Pattern marks the declaration as a specialization of kind k derived
// from pattern.
func Pattern(k sem.SpecKind, pattern sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Spec = k; d.Pattern = pattern }
}

// Template marks the declaration as an uninstantiated generic pattern.
func Template() DeclOption {
	return func(d *sem.Decl) { d.Template = true }
}

// Targets sets the declarations an alias stands for.
func Targets(ids ...sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Targets = ids }
}

// Fields sets a record type's data members.
func Fields(ids ...sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Fields = ids }
}

// FieldType sets the declared type of a field.
func FieldType(id sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Type = id }
}

// Accessors links a property to its getter and setter methods.
func Accessors(getter, setter sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.Getter = getter; d.Setter = setter }
}

// CaptureOf links synthesized capture storage to the outer variable.
func CaptureOf(id sem.DeclID) DeclOption {
	return func(d *sem.Decl) { d.CapturedFrom = id }
}

// DeclAt sets the declaration's own source offset.
func DeclAt(offset int) DeclOption {
	return func(d *sem.Decl) { d.Loc.Offset = offset }
}

// Decl adds a declaration of the given kind and name.
func (b *Builder) Decl(kind sem.DeclKind, name string, opts ...DeclOption) sem.DeclID {
	d := sem.Decl{Name: name, Kind: kind, Loc: source.Location{File: b.file}}
	for _, opt := range opts {
		opt(&d)
	}
	return b.tree.AddDecl(d)
}

// Shorthands for the common declaration kinds.

func (b *Builder) Namespace(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclNamespace, name, opts...)
}

func (b *Builder) Func(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclFunction, name, opts...)
}

func (b *Builder) Var(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclVariable, name, opts...)
}

func (b *Builder) Type(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclType, name, opts...)
}

func (b *Builder) Field(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclField, name, opts...)
}

func (b *Builder) Import(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclImport, name, opts...)
}

func (b *Builder) TypeAlias(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclTypeAlias, name, opts...)
}

func (b *Builder) NamespaceAlias(name string, opts ...DeclOption) sem.DeclID {
	return b.Decl(sem.DeclNamespaceAlias, name, opts...)
}

// NodeOption adjusts a node under construction.
type NodeOption func(*sem.NodeBase)

// Synthesized marks the node as compiler-generated.
func Synthesized() NodeOption {
	return func(nb *sem.NodeBase) { nb.Synthesized = true }
}

// At overrides the node's location.
func At(loc source.Location) NodeOption {
	return func(nb *sem.NodeBase) { nb.Loc = loc }
}

func (b *Builder) add(n sem.Node, offset int, opts ...NodeOption) sem.NodeID {
	nb := n.Base()
	nb.Loc = b.Loc(offset)
	for _, opt := range opts {
		opt(nb)
	}
	return b.tree.AddNode(n)
}

// Group adds a structural node wrapping children in source order.
func (b *Builder) Group(children ...sem.NodeID) sem.NodeID {
	id := b.add(&sem.Group{}, 0)
	for _, c := range children {
		b.tree.AddChild(id, c)
	}
	return id
}

// Root adds a Group wrapping children and records it as the tree root.
func (b *Builder) Root(children ...sem.NodeID) sem.NodeID {
	id := b.Group(children...)
	b.tree.SetRoot(id)
	return id
}

// AddChildren appends children to an existing node.
func (b *Builder) AddChildren(parent sem.NodeID, children ...sem.NodeID) {
	for _, c := range children {
		b.tree.AddChild(parent, c)
	}
}

// Qualify attaches scope segments to a node, left to right.
func (b *Builder) Qualify(id sem.NodeID, segments ...sem.NodeID) sem.NodeID {
	b.tree.SetQualifier(id, segments...)
	return id
}

// Node constructors; offset is the position of the written name.

func (b *Builder) DeclRef(offset int, decl sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.DeclRef{Decl: decl}, offset, opts...)
}

// DeclRefVia adds a use of a name found through an import.
func (b *Builder) DeclRefVia(offset int, decl, via sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.DeclRef{Decl: decl, Via: via}, offset, opts...)
}

func (b *Builder) MemberAccess(offset int, member sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.MemberAccess{Member: member}, offset, opts...)
}

func (b *Builder) MemberAccessVia(offset int, member, via sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.MemberAccess{Member: member, Via: via}, offset, opts...)
}

func (b *Builder) UsingDecl(offset int, imp sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.UsingDecl{Import: imp}, offset, opts...)
}

func (b *Builder) OverloadRef(offset int, candidates []sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.OverloadRef{Candidates: candidates}, offset, opts...)
}

func (b *Builder) CtorInitField(offset int, field sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.CtorInit{Field: field}, offset, opts...)
}

func (b *Builder) CtorInitDelegating(offset int, class sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.CtorInit{Class: class}, offset, opts...)
}

func (b *Builder) DesignatorInit(offset int, record sem.DeclID, path []string, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.DesignatorInit{Record: record, Path: path}, offset, opts...)
}

func (b *Builder) Segment(offset int, text string, decl sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.ScopeSegment{Decl: decl, Text: text}, offset, opts...)
}

func (b *Builder) TypeRef(offset int, decl sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.TypeRef{Decl: decl}, offset, opts...)
}

func (b *Builder) DeducedTypeRef(offset int, underlying sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.DeducedTypeRef{Underlying: underlying}, offset, opts...)
}

func (b *Builder) CaptureRef(offset int, capture sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.CaptureRef{Capture: capture}, offset, opts...)
}

func (b *Builder) MessageSend(offset int, method sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.MessageSend{Method: method}, offset, opts...)
}

func (b *Builder) IvarAccess(offset int, ivar sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.IvarAccess{Ivar: ivar}, offset, opts...)
}

func (b *Builder) PropertyAccess(offset int, property sem.DeclID, assign bool, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.PropertyAccess{Property: property, Assign: assign}, offset, opts...)
}

// AccessorAccess adds a property-style access backed only by accessor
// methods, with no declared property.
func (b *Builder) AccessorAccess(offset int, getter, setter sem.DeclID, assign bool, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.PropertyAccess{Getter: getter, Setter: setter, Assign: assign}, offset, opts...)
}

func (b *Builder) ProtocolExpr(offset int, protocol sem.DeclID, opts ...NodeOption) sem.NodeID {
	return b.add(&sem.ProtocolExpr{Protocol: protocol}, offset, opts...)
}
