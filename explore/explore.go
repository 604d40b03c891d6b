// Copyright © 2025 The Refract authors

// Package explore implements an interactive query loop over a loaded
// semantic tree: resolve the name at an offset, list the references in
// the file, inspect declarations.
package explore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/sem"
	"github.com/refract-tools/refract/treeutil"
)

// errQuit signals a user-requested exit from the command loop.
var errQuit = errors.New("quit")

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the query loop.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the query loop.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// Session answers queries against one loaded tree.
type Session struct {
	tree *sem.Tree
	out  io.Writer
}

// NewSession creates a session writing results to out.
func NewSession(tree *sem.Tree, out io.Writer) *Session {
	return &Session{tree: tree, out: out}
}

// Run reads commands interactively until EOF or quit.
func Run(tree *sem.Tree, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var stderr io.Writer = os.Stderr
	if cfg.stderr != nil {
		stderr = cfg.stderr
	}

	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      &commandCompleter{tree: tree},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	ensureHistoryFilePermissions(rlCfg.HistoryFile)
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := NewSession(tree, stderr)
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		err = s.Exec(string(line))
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		}
	}
}

var commands = map[string]func(*Session, []string) error{
	"at":       (*Session).cmdAt,
	"refs":     (*Session).cmdRefs,
	"decls":    (*Session).cmdDecls,
	"describe": (*Session).cmdDescribe,
	"help":     (*Session).cmdHelp,
	"quit":     func(*Session, []string) error { return errQuit },
	"exit":     func(*Session, []string) error { return errQuit },
}

// Exec runs one command line and writes its result.
func (s *Session) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return cmd(s, fields[1:])
}

func (s *Session) cmdHelp([]string) error {
	fmt.Fprint(s.out, `Commands:
  at <offset>        resolve the name written at a byte offset
  refs [offset]      list explicit references (in the subtree at offset)
  decls [prefix]     list declarations, optionally filtered by name prefix
  describe <handle>  show one declaration in full
  quit               leave the session
`)
	return nil
}

func (s *Session) cmdAt(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: at <offset>")
	}
	offset, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad offset %q", args[0])
	}
	id := treeutil.FindAtOffset(s.tree, s.tree.Root(), offset)
	if id == sem.InvalidNode {
		fmt.Fprintf(s.out, "no name at offset %d\n", offset)
		return nil
	}
	n := s.tree.Node(id)
	fmt.Fprintf(s.out, "%s at %s\n", n.Kind(), s.tree.NodeLoc(id))
	targets := analysis.Resolve(s.tree, id)
	if targets.Len() == 0 {
		fmt.Fprintln(s.out, "  resolves to nothing")
		return nil
	}
	for _, tgt := range targets.Targets() {
		line := s.tree.DeclString(tgt.Decl)
		if !tgt.Relations.Empty() {
			line = fmt.Sprintf("%s [%s]", line, tgt.Relations)
		}
		fmt.Fprintf(s.out, "  %s\n", line)
	}
	return nil
}

func (s *Session) cmdRefs(args []string) error {
	root := s.tree.Root()
	if len(args) == 1 {
		offset, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad offset %q", args[0])
		}
		root = treeutil.FindAtOffset(s.tree, s.tree.Root(), offset)
		if root == sem.InvalidNode {
			fmt.Fprintf(s.out, "no name at offset %d\n", offset)
			return nil
		}
	} else if len(args) > 1 {
		return errors.New("usage: refs [offset]")
	}
	count := 0
	analysis.CollectReferences(s.tree, root, func(r analysis.Reference) {
		count++
		fmt.Fprintf(s.out, "%s: %s\n", r.Loc, r.Format(s.tree))
	})
	if count == 0 {
		fmt.Fprintln(s.out, "no references")
	}
	return nil
}

func (s *Session) cmdDecls(args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	count := 0
	for id := sem.DeclID(1); int(id) <= s.tree.DeclCount(); id++ {
		d := s.tree.Decl(id)
		if !strings.HasPrefix(d.Name, prefix) {
			continue
		}
		count++
		fmt.Fprintf(s.out, "%4d  %s\n", id, d)
	}
	if count == 0 {
		fmt.Fprintln(s.out, "no declarations")
	}
	return nil
}

func (s *Session) cmdDescribe(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: describe <handle>")
	}
	raw, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad handle %q", args[0])
	}
	id := sem.DeclID(raw)
	d := s.tree.Decl(id)
	if d == nil {
		return fmt.Errorf("no declaration %d", id)
	}
	fmt.Fprint(s.out, DescribeDecl(s.tree, id))
	return nil
}

// DescribeDecl renders one declaration as a multi-line block.
func DescribeDecl(t *sem.Tree, id sem.DeclID) string {
	d := t.Decl(id)
	if d == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", d.Kind, d.Name)
	if d.Template {
		b.WriteString(" (generic pattern)")
	}
	if d.Spec != sem.SpecNone {
		fmt.Fprintf(&b, " (%s specialization of %s)", d.Spec, t.DeclString(d.Pattern))
	}
	b.WriteString("\n")
	if d.Detail != "" {
		b.WriteString(indent.String(wordwrap.String(d.Detail, 72), 2))
		b.WriteString("\n")
	}
	if d.Owner != sem.InvalidDecl {
		fmt.Fprintf(&b, "  owner: %s\n", t.DeclString(d.Owner))
	}
	for _, tgt := range d.Targets {
		fmt.Fprintf(&b, "  stands for: %s\n", t.DeclString(tgt))
	}
	if d.Loc.File != "" {
		fmt.Fprintf(&b, "  declared at %s\n", d.Loc)
	}
	return b.String()
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".refract_history")
}

// ensureHistoryFilePermissions keeps the history file private; readline
// creates it world-readable otherwise.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0600) //#nosec G304
	if err != nil {
		return
	}
	f.Close()                //nolint:errcheck // created empty
	_ = os.Chmod(path, 0600) // best-effort tightening
}
