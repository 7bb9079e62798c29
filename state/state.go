// Copyright © 2024 The ELPS authors

// Package state holds the per-file option and mode state shared by the
// lexer, the scope manager and the driver that connects them.
//
// A State is owned by the caller for the duration of one file.  It must not
// be mutated concurrently with lexer or scope manager calls, and it must be
// Reset (or replaced) before analyzing an unrelated file.
package state

import "strings"

// State is the shared, caller-owned analysis state for one file.
type State struct {
	Option Options

	// JSONMode is set by the driver when the file is a JSON document.
	JSONMode bool

	// Directive records prologue directives such as "use strict".
	Directive map[string]bool

	// InClassBody is true while the driver is inside a class body.
	InClassBody bool

	// Ignored holds diagnostic codes suppressed by configuration or by
	// /*jshint -Wxxx */ directives.
	Ignored map[string]bool

	// FunctUnused overrides Option.Unused for the function currently being
	// analyzed.  The zero value means no override.
	FunctUnused UnusedMode
	functUnused bool
}

// New returns a State for a fresh file using opts.
func New(opts Options) *State {
	s := &State{}
	s.Reset(opts)
	return s
}

// Reset clears all per-file state and installs opts.
func (s *State) Reset(opts Options) {
	if opts.Indent <= 0 {
		opts.Indent = 4
	}
	s.Option = opts
	s.JSONMode = false
	s.Directive = make(map[string]bool)
	s.InClassBody = false
	s.Ignored = make(map[string]bool)
	s.FunctUnused = UnusedOff
	s.functUnused = false
}

// SetFunctUnused installs a function level unused policy override.
func (s *State) SetFunctUnused(mode UnusedMode) {
	s.FunctUnused = mode
	s.functUnused = true
}

// ClearFunctUnused removes any function level unused override.
func (s *State) ClearFunctUnused() {
	s.FunctUnused = UnusedOff
	s.functUnused = false
}

// UnusedOption returns the unused policy in effect for the current
// function, falling back to the file option.
func (s *State) UnusedOption() UnusedMode {
	if s.functUnused {
		return s.FunctUnused
	}
	return s.Option.Unused
}

// Tab returns the string a tab character expands to.
func (s *State) Tab() string {
	return strings.Repeat(" ", s.Option.Indent)
}

// IsStrict reports whether the code currently analyzed is strict mode code.
func (s *State) IsStrict() bool {
	return s.Directive["use strict"] || s.InClassBody ||
		s.Option.Module || s.Option.Strict == StrictImplied
}

// InMoz reports whether Mozilla JavaScript extensions are enabled.
func (s *State) InMoz() bool {
	return s.Option.Moz
}

// InES6 reports whether ES6 syntax is enabled.  With strict set, Mozilla
// extensions do not count.
func (s *State) InES6(strict bool) bool {
	if strict {
		return s.Option.ESVersion >= 6
	}
	return s.Option.Moz || s.Option.ESVersion >= 6
}

// InES5 reports whether ES5 semantics apply.  With strict set it is true
// only when the version is exactly ES5.
func (s *State) InES5(strict bool) bool {
	if strict {
		return (s.Option.ESVersion == 0 || s.Option.ESVersion == 5) && !s.Option.Moz
	}
	return s.Option.ESVersion == 0 || s.Option.ESVersion >= 5 || s.Option.Moz
}

// IsIgnored reports whether diagnostics with code are suppressed.
func (s *State) IsIgnored(code string) bool {
	return s.Ignored[code]
}
