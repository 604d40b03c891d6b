// Copyright © 2025 The Refract authors

package sem

import (
	"fmt"

	"github.com/refract-tools/refract/source"
)

// DeclID is an opaque handle naming a declaration within one Tree.
// The zero value is InvalidDecl. Handles are only meaningful for the tree
// that issued them.
type DeclID int32

// InvalidDecl is the absent-declaration sentinel.
const InvalidDecl DeclID = 0

// DeclKind classifies a declaration.
type DeclKind int

const (
	DeclVariable       DeclKind = iota // variable or non-member value
	DeclField                          // data member of a record type
	DeclFunction                       // free function
	DeclMethod                         // member function or dialect method
	DeclType                           // record/enum/user-defined type
	DeclNamespace                      // namespace
	DeclTypeAlias                      // typedef or using-alias for a type
	DeclNamespaceAlias                 // namespace alias
	DeclImport                         // using-declaration importing names
	DeclTypeParam                      // generic type parameter
	DeclValueParam                     // non-type generic parameter
	DeclProperty                       // dialect property
	DeclProtocol                       // dialect protocol
	DeclInterface                      // dialect interface
	DeclIvar                           // dialect instance variable
)

func (k DeclKind) String() string {
	switch k {
	case DeclVariable:
		return "variable"
	case DeclField:
		return "field"
	case DeclFunction:
		return "function"
	case DeclMethod:
		return "method"
	case DeclType:
		return "type"
	case DeclNamespace:
		return "namespace"
	case DeclTypeAlias:
		return "type-alias"
	case DeclNamespaceAlias:
		return "namespace-alias"
	case DeclImport:
		return "import"
	case DeclTypeParam:
		return "type-param"
	case DeclValueParam:
		return "value-param"
	case DeclProperty:
		return "property"
	case DeclProtocol:
		return "protocol"
	case DeclInterface:
		return "interface"
	case DeclIvar:
		return "ivar"
	default:
		return "unknown"
	}
}

// SpecKind records how a declaration relates to generic specialization.
type SpecKind int

const (
	SpecNone     SpecKind = iota // not a specialization
	SpecImplicit                 // instantiated on demand from the primary pattern
	SpecExplicit                 // fully concrete user-written specialization
	SpecPartial                  // instantiated from a matched partial-specialization pattern
)

func (k SpecKind) String() string {
	switch k {
	case SpecNone:
		return "none"
	case SpecImplicit:
		return "implicit"
	case SpecExplicit:
		return "explicit"
	case SpecPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Decl is a named entity produced by the front end. The resolution core
// only ever reads declarations; it never creates, mutates, or destroys
// them outside of tree construction.
type Decl struct {
	Name string
	Kind DeclKind
	Loc  source.Location

	// Detail is an optional pretty-printed one-line signature supplied by
	// the front end, e.g. "int f(int)". Used for display only.
	Detail string

	// Owner is the enclosing namespace or type, if any.
	Owner DeclID

	// Spec and Pattern classify generic specializations. Pattern names the
	// primary pattern for SpecImplicit and the matched partial pattern for
	// SpecPartial; it is ignored for other kinds.
	Spec    SpecKind
	Pattern DeclID

	// Template marks an uninstantiated generic pattern (primary template,
	// partial-specialization pattern, or alias template).
	Template bool

	// Targets lists the declarations an alias-like declaration stands for.
	// An import that re-exports an overload set carries one entry per
	// overload; type and namespace aliases carry exactly one.
	Targets []DeclID

	// Fields lists the data members of a record type in declaration order,
	// used to walk nested designated initializers.
	Fields []DeclID

	// Type is the declared type of a field or variable, where the front
	// end recorded one.
	Type DeclID

	// Getter and Setter link a property to its accessor methods.
	Getter DeclID
	Setter DeclID

	// CapturedFrom links compiler-synthesized capture storage back to the
	// outer variable it captures.
	CapturedFrom DeclID
}

// IsAlias reports whether the declaration renames or imports another
// entity rather than introducing one.
func (d *Decl) IsAlias() bool {
	switch d.Kind {
	case DeclTypeAlias, DeclNamespaceAlias, DeclImport:
		return true
	}
	return false
}

func (d *Decl) String() string {
	if d.Detail != "" {
		return d.Detail
	}
	if d.Name == "" {
		return d.Kind.String()
	}
	return fmt.Sprintf("%s %s", d.Kind, d.Name)
}
