// Copyright © 2025 The Refract authors

package sem

import "github.com/refract-tools/refract/source"

// NodeID is an opaque handle naming a syntax node within one Tree.
// The zero value is InvalidNode.
type NodeID int32

// InvalidNode is the absent-node sentinel.
const InvalidNode NodeID = 0

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	KindGroup          NodeKind = iota // structural container, names nothing
	KindDeclRef                        // use of a previously declared value name
	KindMemberAccess                   // member use through an object expression
	KindUsingDecl                      // the import declaration itself
	KindOverloadRef                    // name whose overload set is not yet resolvable
	KindCtorInit                       // constructor initializer entry
	KindDesignatorInit                 // designated field in an aggregate initializer
	KindScopeSegment                   // one segment of a qualifying scope path
	KindTypeRef                        // written reference to a named type
	KindDeducedTypeRef                 // computed type ("type of an expression")
	KindCaptureRef                     // captured-variable use inside a closure body
	KindMessageSend                    // dialect message send
	KindIvarAccess                     // dialect instance-variable access
	KindPropertyAccess                 // dialect property-style access
	KindProtocolExpr                   // dialect protocol-literal expression
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDeclRef:
		return "decl-ref"
	case KindMemberAccess:
		return "member-access"
	case KindUsingDecl:
		return "using-decl"
	case KindOverloadRef:
		return "overload-ref"
	case KindCtorInit:
		return "ctor-init"
	case KindDesignatorInit:
		return "designator-init"
	case KindScopeSegment:
		return "scope-segment"
	case KindTypeRef:
		return "type-ref"
	case KindDeducedTypeRef:
		return "deduced-type-ref"
	case KindCaptureRef:
		return "capture-ref"
	case KindMessageSend:
		return "message-send"
	case KindIvarAccess:
		return "ivar-access"
	case KindPropertyAccess:
		return "property-access"
	case KindProtocolExpr:
		return "protocol-expr"
	default:
		return "unknown"
	}
}

// Node is one syntax node of a type-checked tree. Concrete node types
// carry the name-lookup results the front end already computed; the
// resolution core never performs lookup itself.
type Node interface {
	Kind() NodeKind
	Base() *NodeBase
}

// NodeBase holds the structure shared by every node kind.
type NodeBase struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID // in source order

	// Loc is the position of the written name, when the node has one.
	Loc source.Location

	// Synthesized marks nodes the front end introduced with no
	// corresponding user-written text (implicit iteration calls, default
	// constructor calls, capture storage, ...).
	Synthesized bool

	// Qualifier lists the ScopeSegment nodes written before the name,
	// left to right ("a::" then "b::" for a::b::name). Qualifier nodes
	// are not repeated in Children.
	Qualifier []NodeID
}

// Base returns the node's shared structure.
func (b *NodeBase) Base() *NodeBase { return b }

// Group is a structural node that names nothing itself: a block, a call's
// argument list, an operator expression, and so on.
type Group struct{ NodeBase }

func (*Group) Kind() NodeKind { return KindGroup }

// DeclRef is a use of a previously declared value name. Decl is the
// single declaration overload resolution chose. Via is the import the
// name was found through, when it was.
type DeclRef struct {
	NodeBase
	Decl DeclID
	Via  DeclID
}

func (*DeclRef) Kind() NodeKind { return KindDeclRef }

// MemberAccess is a member use through an object expression. Via is set
// when the member was found through an inherited import.
type MemberAccess struct {
	NodeBase
	Member DeclID
	Via    DeclID
}

func (*MemberAccess) Kind() NodeKind { return KindMemberAccess }

// UsingDecl is the import declaration itself, as opposed to a use of an
// imported name.
type UsingDecl struct {
	NodeBase
	Import DeclID
}

func (*UsingDecl) Kind() NodeKind { return KindUsingDecl }

// OverloadRef is a name whose overload set could not be resolved because
// it depends on a yet-unsubstituted generic parameter.
type OverloadRef struct {
	NodeBase
	Candidates []DeclID
}

func (*OverloadRef) Kind() NodeKind { return KindOverloadRef }

// CtorInit is one entry of a constructor initializer list. Field names
// the initialized data member; a delegating initializer leaves Field
// invalid and names the enclosing type in Class.
type CtorInit struct {
	NodeBase
	Field DeclID
	Class DeclID
}

func (*CtorInit) Kind() NodeKind { return KindCtorInit }

// DesignatorInit is a dotted/positional designator inside an aggregate
// initializer. Record is the aggregate type being initialized and Path
// the written field names, outermost first.
type DesignatorInit struct {
	NodeBase
	Record DeclID
	Path   []string
}

func (*DesignatorInit) Kind() NodeKind { return KindDesignatorInit }

// ScopeSegment is one "A::" segment of a qualifying scope path. Text is
// the segment's spelling without the separator.
type ScopeSegment struct {
	NodeBase
	Decl DeclID
	Text string
}

func (*ScopeSegment) Kind() NodeKind { return KindScopeSegment }

// TypeRef is a written reference to a named type: a record, an alias, a
// specialization, a generic parameter, or a dialect interface/protocol.
// Template arguments, when written, appear as Children.
type TypeRef struct {
	NodeBase
	Decl DeclID
}

func (*TypeRef) Kind() NodeKind { return KindTypeRef }

// DeducedTypeRef is a computed type ("type of an expression").
// Underlying names the deduced named type when the front end recovered
// one.
type DeducedTypeRef struct {
	NodeBase
	Underlying DeclID
}

func (*DeducedTypeRef) Kind() NodeKind { return KindDeducedTypeRef }

// CaptureRef is a captured-variable use inside a closure body. Capture
// names the compiler-synthesized storage, whose CapturedFrom link leads
// to the original outer variable.
type CaptureRef struct {
	NodeBase
	Capture DeclID
}

func (*CaptureRef) Kind() NodeKind { return KindCaptureRef }

// MessageSend is a dialect message send resolving to the invoked method.
type MessageSend struct {
	NodeBase
	Method DeclID
}

func (*MessageSend) Kind() NodeKind { return KindMessageSend }

// IvarAccess is a dialect field-style access on an object, resolving to
// the backing instance variable.
type IvarAccess struct {
	NodeBase
	Ivar DeclID
}

func (*IvarAccess) Kind() NodeKind { return KindIvarAccess }

// PropertyAccess is a dialect property-style access. Property is the
// declared property when one exists; otherwise Getter/Setter name the
// bare accessor methods. Assign marks an access in assignment-target
// position.
type PropertyAccess struct {
	NodeBase
	Property DeclID
	Getter   DeclID
	Setter   DeclID
	Assign   bool
}

func (*PropertyAccess) Kind() NodeKind { return KindPropertyAccess }

// ProtocolExpr is a dialect protocol-literal expression.
type ProtocolExpr struct {
	NodeBase
	Protocol DeclID
}

func (*ProtocolExpr) Kind() NodeKind { return KindProtocolExpr }
