// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a classified, positioned lexical unit.  Tokens are never mutated
// by the lexer after they are returned.
type Token struct {
	Type Type
	// Text is the raw text of the token.  It differs from Value only for
	// identifiers containing \uXXXX escapes, which Value has resolved.
	Text string
	// Value is the cooked value of the token.
	Value  string
	Source *Location

	// IsProperty is set on identifiers that immediately follow a '.'.
	IsProperty bool

	// Reserved is set on words that may not be used as identifiers in the
	// language mode in effect when the token was scanned.
	Reserved bool

	// Meta is the shared metadata record for punctuators and keywords.  It
	// is nil for all other tokens.
	Meta *Meta

	Number   *NumberInfo
	Str      *StringInfo
	RegExp   *RegExpInfo
	Template *TemplateInfo
	Comment  *CommentInfo
}

func (tok *Token) String() string {
	if tok == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}

// Is reports whether tok is a punctuator or keyword with the given value.
func (tok *Token) Is(value string) bool {
	if tok == nil {
		return false
	}
	switch tok.Type {
	case PUNCTUATOR, KEYWORD:
		return tok.Value == value
	}
	return false
}

// IsIdentifierLike reports whether tok was scanned as an identifier shaped
// word (identifiers, keywords, and the true/false/null literals).
func (tok *Token) IsIdentifierLike() bool {
	if tok == nil {
		return false
	}
	switch tok.Type {
	case IDENTIFIER, KEYWORD, BOOLEAN, NULL:
		return true
	}
	return false
}

// NumberInfo holds metadata for NUMBER tokens.
type NumberInfo struct {
	Base      int
	Legacy    bool // C-style octal such as 017
	Malformed bool
}

// StringInfo holds metadata for STRING tokens.
type StringInfo struct {
	Quote     rune
	Unclosed  bool
	StartLine int
	StartCol  int
}

// RegExpInfo holds metadata for REGEXP tokens.
type RegExpInfo struct {
	Body      string
	Flags     string
	Malformed bool
}

// TemplateInfo holds metadata for the four template token types.
type TemplateInfo struct {
	// Depth is the number of open template literals when the token was
	// scanned, including the one the token belongs to.
	Depth int
	// Context identifies the lexer context entry the token belongs to.
	Context   int
	Unclosed  bool
	StartLine int
	StartCol  int
}

// CommentKind classifies special comments.
type CommentKind string

const (
	CommentPlain        CommentKind = "plain"
	CommentFallsThrough CommentKind = "falls through"
	CommentJSHint       CommentKind = "jshint"
	CommentJSLint       CommentKind = "jslint"
	CommentMembers      CommentKind = "members"
	CommentGlobals      CommentKind = "globals"
	CommentExported     CommentKind = "exported"
)

// CommentInfo holds metadata for COMMENT tokens.
type CommentInfo struct {
	Kind      CommentKind
	Body      string
	Special   bool
	Multiline bool
	Malformed bool
}

type Type uint

// Type constants used by the lexer.
const (
	INVALID Type = iota
	EOF
	ENDLINE
	FATAL

	IDENTIFIER
	KEYWORD
	PUNCTUATOR

	// Literals
	NUMBER
	STRING
	BOOLEAN
	NULL
	REGEXP

	COMMENT

	// Template literals
	TEMPLATE_HEAD
	TEMPLATE_MIDDLE
	TEMPLATE_TAIL
	NO_SUBST_TEMPLATE

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:           "invalid",
		EOF:               "(end)",
		ENDLINE:           "(endline)",
		FATAL:             "(fatal)",
		IDENTIFIER:        "(identifier)",
		KEYWORD:           "(keyword)",
		PUNCTUATOR:        "(punctuator)",
		NUMBER:            "(number)",
		STRING:            "(string)",
		BOOLEAN:           "(boolean)",
		NULL:              "(null)",
		REGEXP:            "(regexp)",
		COMMENT:           "(comment)",
		TEMPLATE_HEAD:     "(template)",
		TEMPLATE_MIDDLE:   "(template middle)",
		TEMPLATE_TAIL:     "(template tail)",
		NO_SUBST_TEMPLATE: "(no subst template)",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location is a position in source text.  Line and columns start at 1.
type Location struct {
	File string // a name representing the source stream
	Line int
	Col  int // column just past the end of the token
	From int // column of the first character of the token
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return loc.File
	case loc.From == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.From)
	}
}
