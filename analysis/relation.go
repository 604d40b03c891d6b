// Copyright © 2025 The Refract authors

package analysis

import "strings"

// DeclRelation describes how a resolved declaration relates to the node
// that was resolved.
type DeclRelation int

const (
	// RelAlias marks a declaration that renames or imports the entity the
	// node really refers to (a using-declaration, typedef, or namespace
	// alias).
	RelAlias DeclRelation = iota

	// RelUnderlying marks the real entity an alias in the same target set
	// points at.
	RelUnderlying

	// RelTemplatePattern marks the generic, uninstantiated form of a
	// referenced entity.
	RelTemplatePattern

	// RelTemplateInstantiation marks the concrete instantiation of a
	// generic pattern.
	RelTemplateInstantiation
)

func (r DeclRelation) String() string {
	switch r {
	case RelAlias:
		return "alias"
	case RelUnderlying:
		return "underlying"
	case RelTemplatePattern:
		return "template-pattern"
	case RelTemplateInstantiation:
		return "template-instantiation"
	default:
		return "unknown"
	}
}

// RelationSet is an unordered set of DeclRelation tags. The zero value
// is the empty set.
type RelationSet uint8

// Relations builds a set from individual tags.
func Relations(rels ...DeclRelation) RelationSet {
	var s RelationSet
	for _, r := range rels {
		s = s.With(r)
	}
	return s
}

// With returns the set extended with r.
func (s RelationSet) With(r DeclRelation) RelationSet {
	return s | 1<<uint(r)
}

// Contains reports whether r is in the set.
func (s RelationSet) Contains(r DeclRelation) bool {
	return s&(1<<uint(r)) != 0
}

// Union returns the combined set.
func (s RelationSet) Union(o RelationSet) RelationSet {
	return s | o
}

// Empty reports whether the set has no tags.
func (s RelationSet) Empty() bool { return s == 0 }

func (s RelationSet) String() string {
	if s == 0 {
		return "{}"
	}
	var parts []string
	for r := RelAlias; r <= RelTemplateInstantiation; r++ {
		if s.Contains(r) {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, "|")
}
