// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/jsvet/parser/token"
)

// symbolCompleter implements readline.AutoCompleter by enumerating session
// commands and the identifiers known to the session.
type symbolCompleter struct {
	session *Session
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a non-identifier rune).
	start := pos
	for start > 0 && token.IsIdentifierPart(line[start-1]) {
		start--
	}
	if start > 0 && line[start-1] == ':' && strings.TrimSpace(string(line[:start-1])) == "" {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		suffix := sym[len(prefix):]
		result = append(result, []rune(suffix))
	}
	return result, len([]rune(prefix))
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	var result []string
	if strings.HasPrefix(prefix, ":") {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd.name, prefix) {
				result = append(result, cmd.name)
			}
		}
		return result
	}
	for _, name := range c.session.names() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}
