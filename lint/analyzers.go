// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/luthersystems/jsvet/diagnostic"
)

// Analyzer is a named group of diagnostic codes that can be selected or
// deselected as a unit.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Codes are the diagnostic codes this check reports.
	Codes []diagnostic.Code
}

// AnalyzerLexical reports malformed or suspicious literals and comments.
var AnalyzerLexical = &Analyzer{
	Name: "lexical",
	Doc:  "Report malformed or suspicious strings, numbers, regular expressions, templates and comments.\n\nUnclosed literals are errors. Escapes that are invalid in the current language version, octal literals in strict mode and single quoted strings in JSON documents are warnings.",
	Codes: []diagnostic.Code{
		diagnostic.UnclosedRegExp, diagnostic.InvalidRegExp,
		diagnostic.UnclosedComment, diagnostic.UnbegunComment,
		diagnostic.UnexpectedChar, diagnostic.UnclosedString,
		diagnostic.UnclosedTemplate, diagnostic.AvoidEOLEscape,
		diagnostic.BadEOLEscape, diagnostic.BadNumber,
		diagnostic.RegExpControlChar, diagnostic.RegExpEscapedChar,
		diagnostic.UnexpectedEscape, diagnostic.SingleQuote,
		diagnostic.UnclosedStringLine, diagnostic.ControlChar,
		diagnostic.Avoid, diagnostic.StrictOctal, diagnostic.ESVersionFeature,
	},
}

// AnalyzerLayout reports line level layout problems.
var AnalyzerLayout = &Analyzer{
	Name: "layout",
	Doc:  "Report lines longer than maxlen, non-breaking spaces and unsafe characters.\n\nThe maxlen check skips lines that consist of a single long word such as a URL in a comment.",
	Codes: []diagnostic.Code{
		diagnostic.UnsafeChar, diagnostic.LineTooLong, diagnostic.NonBreakingSpace,
	},
}

// AnalyzerScope reports conflicting declarations and assignments.
var AnalyzerScope = &Analyzer{
	Name: "scope",
	Doc:  "Report redeclarations, shadowing, assignments to constants and read only globals, and uses outside a declaration's scope.\n\nRedeclaring a let, const or class binding is an error; the other findings are warnings whose strictness follows the shadow, latedef and funcscope options.",
	Codes: []diagnostic.Code{
		diagnostic.AlreadyDeclared, diagnostic.ConstOverride,
		diagnostic.UsedBeforeDeclared, diagnostic.IEOverwrite,
		diagnostic.UsedBeforeDefined, diagnostic.AlreadyDefined,
		diagnostic.ReadOnly, diagnostic.Reassignment,
		diagnostic.UsedOutOfScope, diagnostic.OuterShadow,
	},
}

// AnalyzerUndef reports references to undeclared names.
var AnalyzerUndef = &Analyzer{
	Name:  "undef",
	Doc:   "Report references to names that are neither declared nor predefined.\n\nGlobals can be declared with /*global name */ comments, the predef configuration or the node option. Operands of typeof are not reported.",
	Codes: []diagnostic.Code{diagnostic.Undefined},
}

// AnalyzerUnused reports declarations that are never read.
var AnalyzerUnused = &Analyzer{
	Name:  "unused",
	Doc:   "Report variables, functions and parameters that are never read.\n\nThe unused option selects which parameters are checked: last-param only reports parameters after the last used one, strict reports every parameter and vars skips parameters entirely. Names listed in /*exported */ comments are not reported.",
	Codes: []diagnostic.Code{diagnostic.Unused},
}

// AnalyzerOptions reports invalid inline option comments.
var AnalyzerOptions = &Analyzer{
	Name: "options",
	Doc:  "Report unknown options and invalid values in /*jshint */ and /*global */ comments.",
	Codes: []diagnostic.Code{
		diagnostic.BadOption, diagnostic.BadOptionValue,
		diagnostic.BadSmallInteger, diagnostic.ES5Default,
	},
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerLexical,
		AnalyzerLayout,
		AnalyzerScope,
		AnalyzerUndef,
		AnalyzerUnused,
		AnalyzerOptions,
	}
}

var analyzerByCode = func() map[diagnostic.Code]*Analyzer {
	m := make(map[diagnostic.Code]*Analyzer)
	for _, a := range DefaultAnalyzers() {
		for _, code := range a.Codes {
			m[code] = a
		}
	}
	return m
}()

// AnalyzerFor returns the analyzer that reports code.  Codes that end a
// file early, such as E041 and E043, belong to no analyzer and are always
// reported.
func AnalyzerFor(code diagnostic.Code) *Analyzer {
	return analyzerByCode[code]
}

// AnalyzerByName returns the default analyzer with the given name.
func AnalyzerByName(name string) (*Analyzer, error) {
	for _, a := range DefaultAnalyzers() {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("unknown check: %s", name)
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers,
// wrapped to width columns.
func AnalyzerDoc(width int) string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		codes := make([]string, len(a.Codes))
		for i, c := range a.Codes {
			codes[i] = string(c)
		}
		fmt.Fprintf(&b, "  %s (%s)\n", a.Name, strings.Join(codes, " "))
		summary, _, _ := strings.Cut(a.Doc, "\n")
		b.WriteString(indent.String(wordwrap.String(summary, width-4), 4))
		b.WriteString("\n\n")
	}
	return b.String()
}
