// Copyright © 2025 The Refract authors

// Package analysis answers "what declarations does this piece of source
// text name?" over a type-checked semantic tree.
//
// It exposes two entry points. Resolve maps a single syntax node to the
// set of declarations it references, each tagged with how the
// declaration relates to the node (alias, underlying entity, generic
// pattern, concrete instantiation). CollectReferences walks a whole
// subtree and reports every explicitly written name in source order with
// its resolved targets. Navigation features (go-to-definition, find
// references, rename, hover) are built on these two queries.
//
// Both entry points are pure read-only traversals: they never mutate the
// tree, never fail, and hold no state between calls. Unsupported or
// ambiguous-by-design nodes resolve to an empty target set rather than
// an error, so interactive callers degrade to "no definition found"
// instead of crashing.
package analysis
