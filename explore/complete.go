// Copyright © 2025 The Refract authors

package explore

import (
	"sort"
	"strings"

	"github.com/refract-tools/refract/sem"
)

// commandCompleter implements readline.AutoCompleter over the session's
// command names and the tree's declaration names.
type commandCompleter struct {
	tree *sem.Tree
}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var candidates []string
	if start == 0 {
		candidates = c.commandNames(prefix)
	} else {
		candidates = c.declNames(prefix)
	}
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *commandCompleter) commandNames(prefix string) []string {
	var result []string
	for name := range commands {
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func (c *commandCompleter) declNames(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	for id := sem.DeclID(1); int(id) <= c.tree.DeclCount(); id++ {
		name := c.tree.Decl(id).Name
		if name != "" && strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}
