// Copyright © 2024 The ELPS authors

// Package docs embeds the jsvet options reference for use by the CLI.
package docs

import (
	_ "embed"
	"sort"
	"strings"
)

//go:embed options.md
var OptionsGuide string

// Section returns the part of the options reference describing name,
// including its heading.  It reports false when no section matches.
func Section(name string) (string, bool) {
	heading := "## " + strings.ToLower(strings.TrimSpace(name)) + "\n"
	i := strings.Index(OptionsGuide, heading)
	if i < 0 {
		return "", false
	}
	rest := OptionsGuide[i+len(heading):]
	if j := strings.Index(rest, "\n## "); j >= 0 {
		rest = rest[:j+1]
	}
	return heading + rest, true
}

// Topics returns the sorted names of the sections in the reference.
func Topics() []string {
	var topics []string
	for _, line := range strings.Split(OptionsGuide, "\n") {
		if name, ok := strings.CutPrefix(line, "## "); ok {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics
}
