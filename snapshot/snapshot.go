// Copyright © 2025 The Refract authors

// Package snapshot reads and writes serialized semantic trees.
//
// The front end type-checks a translation unit out of process and dumps
// the resulting tree as a versioned JSON snapshot; the navigation
// tooling loads the snapshot to answer resolution queries. A snapshot is
// the transport form of the collaborator's tree, not an index: nothing
// here survives beyond the loaded tree's lifetime.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/source"
)

// Version is the snapshot format version this package reads and writes.
const Version = 1

type jsonLocation struct {
	File      string        `json:"file,omitempty"`
	Offset    int           `json:"offset"`
	Line      int           `json:"line,omitempty"`
	Col       int           `json:"col,omitempty"`
	Expansion *jsonLocation `json:"expansion,omitempty"`
}

type jsonDecl struct {
	Name         string        `json:"name,omitempty"`
	Kind         string        `json:"kind"`
	Loc          *jsonLocation `json:"loc,omitempty"`
	Detail       string        `json:"detail,omitempty"`
	Owner        sem.DeclID    `json:"owner,omitempty"`
	Spec         string        `json:"spec,omitempty"`
	Pattern      sem.DeclID    `json:"pattern,omitempty"`
	Template     bool          `json:"template,omitempty"`
	Targets      []sem.DeclID  `json:"targets,omitempty"`
	Fields       []sem.DeclID  `json:"fields,omitempty"`
	Type         sem.DeclID    `json:"type,omitempty"`
	Getter       sem.DeclID    `json:"getter,omitempty"`
	Setter       sem.DeclID    `json:"setter,omitempty"`
	CapturedFrom sem.DeclID    `json:"capturedFrom,omitempty"`
}

type jsonNode struct {
	Kind        string        `json:"kind"`
	Loc         *jsonLocation `json:"loc,omitempty"`
	Synthesized bool          `json:"synthesized,omitempty"`
	Children    []sem.NodeID  `json:"children,omitempty"`
	Qualifier   []sem.NodeID  `json:"qualifier,omitempty"`

	Decl       sem.DeclID   `json:"decl,omitempty"`
	Via        sem.DeclID   `json:"via,omitempty"`
	Member     sem.DeclID   `json:"member,omitempty"`
	Import     sem.DeclID   `json:"import,omitempty"`
	Candidates []sem.DeclID `json:"candidates,omitempty"`
	Field      sem.DeclID   `json:"field,omitempty"`
	Class      sem.DeclID   `json:"class,omitempty"`
	Record     sem.DeclID   `json:"record,omitempty"`
	Path       []string     `json:"path,omitempty"`
	Text       string       `json:"text,omitempty"`
	Underlying sem.DeclID   `json:"underlying,omitempty"`
	Capture    sem.DeclID   `json:"capture,omitempty"`
	Method     sem.DeclID   `json:"method,omitempty"`
	Ivar       sem.DeclID   `json:"ivar,omitempty"`
	Property   sem.DeclID   `json:"property,omitempty"`
	Getter     sem.DeclID   `json:"getter,omitempty"`
	Setter     sem.DeclID   `json:"setter,omitempty"`
	Assign     bool         `json:"assign,omitempty"`
	Protocol   sem.DeclID   `json:"protocol,omitempty"`
}

type jsonTree struct {
	Version int        `json:"version"`
	File    string     `json:"file"`
	Decls   []jsonDecl `json:"decls"`
	Nodes   []jsonNode `json:"nodes"`
	Root    sem.NodeID `json:"root,omitempty"`
}

var declKindNames = map[sem.DeclKind]string{}
var declKindValues = map[string]sem.DeclKind{}
var nodeKindValues = map[string]sem.NodeKind{}
var specKindNames = map[sem.SpecKind]string{}
var specKindValues = map[string]sem.SpecKind{}

func init() {
	for k := sem.DeclVariable; k <= sem.DeclIvar; k++ {
		declKindNames[k] = k.String()
		declKindValues[k.String()] = k
	}
	for k := sem.KindGroup; k <= sem.KindProtocolExpr; k++ {
		nodeKindValues[k.String()] = k
	}
	for k := sem.SpecNone; k <= sem.SpecPartial; k++ {
		specKindNames[k] = k.String()
		specKindValues[k.String()] = k
	}
}

// Encode writes the tree to w as a JSON snapshot.
func Encode(w io.Writer, t *sem.Tree) error {
	out := jsonTree{
		Version: Version,
		File:    t.File(),
		Root:    t.Root(),
	}
	for id := sem.DeclID(1); int(id) <= t.DeclCount(); id++ {
		out.Decls = append(out.Decls, encodeDecl(t.Decl(id)))
	}
	for id := sem.NodeID(1); int(id) <= t.NodeCount(); id++ {
		jn, err := encodeNode(t.Node(id))
		if err != nil {
			return fmt.Errorf("snapshot: node %d: %w", id, err)
		}
		out.Nodes = append(out.Nodes, jn)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func encodeLoc(loc source.Location) *jsonLocation {
	if loc == (source.Location{}) {
		return nil
	}
	out := &jsonLocation{File: loc.File, Offset: loc.Offset, Line: loc.Line, Col: loc.Col}
	if loc.Expansion != nil {
		out.Expansion = encodeLoc(*loc.Expansion)
	}
	return out
}

func decodeLoc(jl *jsonLocation) source.Location {
	if jl == nil {
		return source.Location{}
	}
	loc := source.Location{File: jl.File, Offset: jl.Offset, Line: jl.Line, Col: jl.Col}
	if jl.Expansion != nil {
		exp := decodeLoc(jl.Expansion)
		loc.Expansion = &exp
	}
	return loc
}

func encodeDecl(d *sem.Decl) jsonDecl {
	jd := jsonDecl{
		Name:         d.Name,
		Kind:         declKindNames[d.Kind],
		Loc:          encodeLoc(d.Loc),
		Detail:       d.Detail,
		Owner:        d.Owner,
		Pattern:      d.Pattern,
		Template:     d.Template,
		Targets:      d.Targets,
		Fields:       d.Fields,
		Type:         d.Type,
		Getter:       d.Getter,
		Setter:       d.Setter,
		CapturedFrom: d.CapturedFrom,
	}
	if d.Spec != sem.SpecNone {
		jd.Spec = specKindNames[d.Spec]
	}
	return jd
}

func encodeNode(n sem.Node) (jsonNode, error) {
	b := n.Base()
	jn := jsonNode{
		Kind:        n.Kind().String(),
		Loc:         encodeLoc(b.Loc),
		Synthesized: b.Synthesized,
		Children:    b.Children,
		Qualifier:   b.Qualifier,
	}
	switch n := n.(type) {
	case *sem.Group:
	case *sem.DeclRef:
		jn.Decl, jn.Via = n.Decl, n.Via
	case *sem.MemberAccess:
		jn.Member, jn.Via = n.Member, n.Via
	case *sem.UsingDecl:
		jn.Import = n.Import
	case *sem.OverloadRef:
		jn.Candidates = n.Candidates
	case *sem.CtorInit:
		jn.Field, jn.Class = n.Field, n.Class
	case *sem.DesignatorInit:
		jn.Record, jn.Path = n.Record, n.Path
	case *sem.ScopeSegment:
		jn.Decl, jn.Text = n.Decl, n.Text
	case *sem.TypeRef:
		jn.Decl = n.Decl
	case *sem.DeducedTypeRef:
		jn.Underlying = n.Underlying
	case *sem.CaptureRef:
		jn.Capture = n.Capture
	case *sem.MessageSend:
		jn.Method = n.Method
	case *sem.IvarAccess:
		jn.Ivar = n.Ivar
	case *sem.PropertyAccess:
		jn.Property, jn.Getter, jn.Setter, jn.Assign = n.Property, n.Getter, n.Setter, n.Assign
	case *sem.ProtocolExpr:
		jn.Protocol = n.Protocol
	default:
		return jn, fmt.Errorf("unsupported node kind %q", n.Kind())
	}
	return jn, nil
}

// Decode reads a JSON snapshot from r and reconstructs the tree.
func Decode(r io.Reader) (*sem.Tree, error) {
	var in jsonTree
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if in.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d (want %d)", in.Version, Version)
	}

	t := sem.NewTree(in.File)
	declCount := len(in.Decls)
	checkDecl := func(id sem.DeclID, what string, i int) error {
		if id < 0 || int(id) > declCount {
			return fmt.Errorf("snapshot: %s %d: declaration handle %d out of range", what, i+1, id)
		}
		return nil
	}

	for i, jd := range in.Decls {
		kind, ok := declKindValues[jd.Kind]
		if !ok {
			return nil, fmt.Errorf("snapshot: decl %d: unknown kind %q", i+1, jd.Kind)
		}
		spec := sem.SpecNone
		if jd.Spec != "" {
			spec, ok = specKindValues[jd.Spec]
			if !ok {
				return nil, fmt.Errorf("snapshot: decl %d: unknown spec kind %q", i+1, jd.Spec)
			}
		}
		links := []sem.DeclID{jd.Owner, jd.Pattern, jd.Type, jd.Getter, jd.Setter, jd.CapturedFrom}
		links = append(links, jd.Targets...)
		links = append(links, jd.Fields...)
		for _, id := range links {
			if err := checkDecl(id, "decl", i); err != nil {
				return nil, err
			}
		}
		t.AddDecl(sem.Decl{
			Name:         jd.Name,
			Kind:         kind,
			Loc:          decodeLoc(jd.Loc),
			Detail:       jd.Detail,
			Owner:        jd.Owner,
			Spec:         spec,
			Pattern:      jd.Pattern,
			Template:     jd.Template,
			Targets:      jd.Targets,
			Fields:       jd.Fields,
			Type:         jd.Type,
			Getter:       jd.Getter,
			Setter:       jd.Setter,
			CapturedFrom: jd.CapturedFrom,
		})
	}

	// Nodes arrive in handle order; wiring children happens in a second
	// pass once every handle exists.
	for i, jn := range in.Nodes {
		n, err := decodeNode(jn)
		if err != nil {
			return nil, fmt.Errorf("snapshot: node %d: %w", i+1, err)
		}
		for _, id := range nodeDeclRefs(jn) {
			if err := checkDecl(id, "node", i); err != nil {
				return nil, err
			}
		}
		t.AddNode(n)
	}
	nodeCount := len(in.Nodes)
	for i, jn := range in.Nodes {
		parent := sem.NodeID(i + 1)
		for _, c := range jn.Children {
			if c <= 0 || int(c) > nodeCount {
				return nil, fmt.Errorf("snapshot: node %d: child handle %d out of range", i+1, c)
			}
			t.AddChild(parent, c)
		}
		for _, q := range jn.Qualifier {
			if q <= 0 || int(q) > nodeCount {
				return nil, fmt.Errorf("snapshot: node %d: qualifier handle %d out of range", i+1, q)
			}
		}
		if len(jn.Qualifier) > 0 {
			t.SetQualifier(parent, jn.Qualifier...)
		}
	}
	if in.Root != sem.InvalidNode {
		if int(in.Root) > nodeCount || in.Root < 0 {
			return nil, fmt.Errorf("snapshot: root handle %d out of range", in.Root)
		}
		t.SetRoot(in.Root)
	}
	return t, nil
}

func decodeNode(jn jsonNode) (sem.Node, error) {
	base := sem.NodeBase{Loc: decodeLoc(jn.Loc), Synthesized: jn.Synthesized}
	kind, ok := nodeKindValues[jn.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", jn.Kind)
	}
	switch kind {
	case sem.KindGroup:
		return &sem.Group{NodeBase: base}, nil
	case sem.KindDeclRef:
		return &sem.DeclRef{NodeBase: base, Decl: jn.Decl, Via: jn.Via}, nil
	case sem.KindMemberAccess:
		return &sem.MemberAccess{NodeBase: base, Member: jn.Member, Via: jn.Via}, nil
	case sem.KindUsingDecl:
		return &sem.UsingDecl{NodeBase: base, Import: jn.Import}, nil
	case sem.KindOverloadRef:
		return &sem.OverloadRef{NodeBase: base, Candidates: jn.Candidates}, nil
	case sem.KindCtorInit:
		return &sem.CtorInit{NodeBase: base, Field: jn.Field, Class: jn.Class}, nil
	case sem.KindDesignatorInit:
		return &sem.DesignatorInit{NodeBase: base, Record: jn.Record, Path: jn.Path}, nil
	case sem.KindScopeSegment:
		return &sem.ScopeSegment{NodeBase: base, Decl: jn.Decl, Text: jn.Text}, nil
	case sem.KindTypeRef:
		return &sem.TypeRef{NodeBase: base, Decl: jn.Decl}, nil
	case sem.KindDeducedTypeRef:
		return &sem.DeducedTypeRef{NodeBase: base, Underlying: jn.Underlying}, nil
	case sem.KindCaptureRef:
		return &sem.CaptureRef{NodeBase: base, Capture: jn.Capture}, nil
	case sem.KindMessageSend:
		return &sem.MessageSend{NodeBase: base, Method: jn.Method}, nil
	case sem.KindIvarAccess:
		return &sem.IvarAccess{NodeBase: base, Ivar: jn.Ivar}, nil
	case sem.KindPropertyAccess:
		return &sem.PropertyAccess{NodeBase: base, Property: jn.Property, Getter: jn.Getter, Setter: jn.Setter, Assign: jn.Assign}, nil
	case sem.KindProtocolExpr:
		return &sem.ProtocolExpr{NodeBase: base, Protocol: jn.Protocol}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", jn.Kind)
	}
}

// nodeDeclRefs lists every declaration handle a serialized node refers
// to, for range validation.
func nodeDeclRefs(jn jsonNode) []sem.DeclID {
	ids := []sem.DeclID{
		jn.Decl, jn.Via, jn.Member, jn.Import, jn.Field, jn.Class,
		jn.Record, jn.Underlying, jn.Capture, jn.Method, jn.Ivar,
		jn.Property, jn.Getter, jn.Setter, jn.Protocol,
	}
	return append(ids, jn.Candidates...)
}

// Load reads a snapshot file from disk.
func Load(path string) (*sem.Tree, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return Decode(f)
}

// Save writes a snapshot file to disk.
func Save(path string, t *sem.Tree) error {
	f, err := os.Create(path) //#nosec G304
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(f, t); err != nil {
		f.Close() //nolint:errcheck // already failing
		return err
	}
	return f.Close()
}
