// Copyright © 2024 The ELPS authors

package directive

import (
	"regexp"
	"strconv"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// Target receives the effects of a directive that reach beyond the option
// state.
type Target interface {
	// Predefine adds a global.  writable is false for read only globals.
	Predefine(name string, writable bool)
	// Blacklist removes a predefined global.
	Blacklist(name string)
	// Declare records a global that is reported if it is never used.
	Declare(name string)
	// Export exempts a name from unused reporting.
	Export(name string)
	// Member records an allowed property name.
	Member(name string)
	// IgnoreLine suppresses warnings on the directive's line.
	IgnoreLine()
}

// Problem is a diagnostic raised while applying a directive.  Problems are
// positioned at the directive comment by the caller.
type Problem struct {
	Code diagnostic.Code
	Data []string
}

var warningToggle = regexp.MustCompile(`^([+-])(W\d{3})$`)

// optionNames lists the option keys accepted in jshint directives.
var optionNames = map[string]bool{
	"indent": true, "maxlen": true, "maxerr": true,
	"esversion": true, "esnext": true, "es3": true, "es5": true,
	"moz": true, "strict": true, "module": true,
	"shadow": true, "unused": true, "funcscope": true, "latedef": true,
	"nonbsp": true, "multistr": true, "node": true, "undef": true,
	"ignore": true,
}

var numericOptions = map[string]bool{
	"indent": true, "maxlen": true, "maxerr": true,
}

// Apply applies d to st and t.  Unknown options, bad values and stray
// commas are returned as problems; processing continues past them.
func Apply(d *Directive, st *state.State, t Target) []Problem {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case token.CommentGlobals:
		return applyGlobals(d, t)
	case token.CommentExported:
		return applyExported(d, t)
	case token.CommentMembers:
		for _, e := range d.Entries {
			if !e.Empty {
				t.Member(Unquote(e.Key))
			}
		}
		return nil
	case token.CommentJSHint, token.CommentJSLint:
		var problems []Problem
		for _, e := range d.Entries {
			problems = append(problems, applyOption(d.Kind, e, st, t)...)
		}
		return problems
	}
	return nil
}

// stray reports whether an empty entry at index i is an error.  A single
// trailing comma is allowed.
func stray(d *Directive, i int) bool {
	return !(i > 0 && i == len(d.Entries)-1)
}

func applyGlobals(d *Directive, t Target) []Problem {
	var problems []Problem
	type global struct {
		name     string
		writable bool
	}
	var predef []global
	for i, e := range d.Entries {
		if e.Empty || e.Key == "-" {
			if stray(d, i) {
				problems = append(problems, Problem{Code: diagnostic.BadOptionValue})
			}
			continue
		}
		if e.Key[0] == '-' {
			t.Blacklist(e.Key[1:])
			continue
		}
		predef = append(predef, global{name: e.Key, writable: e.Value == "true"})
	}
	for _, g := range predef {
		t.Predefine(g.name, g.writable)
		t.Declare(g.name)
	}
	return problems
}

func applyExported(d *Directive, t Target) []Problem {
	var problems []Problem
	for i, e := range d.Entries {
		if e.Empty {
			if stray(d, i) {
				problems = append(problems, Problem{Code: diagnostic.BadOptionValue})
			}
			continue
		}
		t.Export(e.Key)
	}
	return problems
}

func applyOption(kind token.CommentKind, e Entry, st *state.State, t Target) []Problem {
	bad := []Problem{{Code: diagnostic.BadOptionValue}}
	key, val := e.Key, e.Value

	if m := warningToggle.FindStringSubmatch(key); m != nil {
		st.Ignored[m[2]] = m[1] == "-"
		return nil
	}
	if !optionNames[key] {
		if kind == token.CommentJSLint {
			return nil
		}
		return []Problem{{Code: diagnostic.BadOption, Data: []string{key}}}
	}
	if e.Malformed {
		return bad
	}

	switch {
	case numericOptions[key]:
		if err := st.Option.Set(key, val); err != nil {
			return []Problem{{Code: diagnostic.BadSmallInteger, Data: []string{val}}}
		}
		return nil
	case key == "ignore":
		if val != "line" {
			return bad
		}
		t.IgnoreLine()
		return nil
	case key == "es3" || key == "es5" || key == "esnext":
		switch val {
		case "true":
			st.Option.Moz = false
			st.Option.ESVersion = map[string]int{"es3": 3, "es5": 5, "esnext": 6}[key]
		case "false":
			if !st.Option.Moz {
				st.Option.ESVersion = 5
			}
		default:
			return bad
		}
		return nil
	case key == "esversion":
		var problems []Problem
		n, err := strconv.Atoi(val)
		switch {
		case err != nil:
			return bad
		case n == 5:
			if st.InES5(true) {
				problems = append(problems, Problem{Code: diagnostic.ES5Default})
			}
		case n == 2015:
			n = 6
		case n != 3 && n != 6:
			return bad
		}
		st.Option.Moz = false
		st.Option.ESVersion = n
		return problems
	}
	if err := st.Option.Set(key, val); err != nil {
		return bad
	}
	return nil
}
