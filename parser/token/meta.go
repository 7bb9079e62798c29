// Copyright © 2024 The ELPS authors

package token

// Meta is the fixed, shared metadata for a punctuator or keyword.  Values in
// the table are never modified; tokens reference them directly.
type Meta struct {
	Value string
	// Reserved words may not be used as identifiers.
	Reserved bool
	// FutureReserved words are reserved only in some language modes.
	FutureReserved bool
	// ES5 marks future reserved words that stay reserved under ES5.
	ES5 bool
	// StrictOnly marks future reserved words only reserved in strict code.
	StrictOnly bool
	// EndsExpression is true for punctuators after which a '/' is division.
	EndsExpression bool
}

// IsReserved reports whether a word with this metadata is reserved.  es5
// and strict describe the current language mode and isProperty is true when
// the word is used as a property name (after a '.').
func (m *Meta) IsReserved(es5, strict, isProperty bool) bool {
	if m == nil || !m.Reserved {
		return false
	}
	if m.FutureReserved && es5 {
		if !m.ES5 {
			return false
		}
		if m.StrictOnly && !strict {
			return false
		}
		if isProperty {
			return false
		}
	}
	return true
}

var metaTable = make(map[string]*Meta)

// Lookup returns the metadata record for a punctuator or keyword value, or
// nil if value has none.
func Lookup(value string) *Meta {
	return metaTable[value]
}

// Keywords is the fixed set of words the lexer scans as KEYWORD tokens.
var Keywords = []string{
	"if", "in", "do", "var", "for", "new",
	"try", "let", "this", "else", "case",
	"void", "with", "enum", "while", "break",
	"catch", "throw", "const", "yield", "class",
	"super", "return", "typeof", "delete",
	"switch", "export", "import", "default",
	"finally", "extends", "function", "continue",
	"debugger", "instanceof",
}

// Punctuators lists every punctuator the lexer can produce.
var Punctuators = []string{
	"{", "}", "(", ")", "[", "]", ";", ",", ":", "~", "?", "#", ".", "...",
	">>>=", "===", "!==", ">>>", "<<=", ">>=", "=>",
	"++", "--", "<<", ">>", "&&", "||",
	"<=", ">=", "==", "!=", "+=", "-=", "*=", "%=", "&=", "|=", "^=", "/=",
	"<", ">", "=", "!", "+", "-", "*", "%", "&", "|", "^", "/",
}

var futureReserved = []Meta{
	{Value: "abstract"},
	{Value: "boolean"},
	{Value: "byte"},
	{Value: "char"},
	{Value: "class", ES5: true},
	{Value: "double"},
	{Value: "enum", ES5: true},
	{Value: "export", ES5: true},
	{Value: "extends", ES5: true},
	{Value: "final"},
	{Value: "float"},
	{Value: "goto"},
	{Value: "implements", ES5: true, StrictOnly: true},
	{Value: "import", ES5: true},
	{Value: "int"},
	{Value: "interface", ES5: true, StrictOnly: true},
	{Value: "long"},
	{Value: "native"},
	{Value: "package", ES5: true, StrictOnly: true},
	{Value: "private", ES5: true, StrictOnly: true},
	{Value: "protected", ES5: true, StrictOnly: true},
	{Value: "public", ES5: true, StrictOnly: true},
	{Value: "short"},
	{Value: "static", ES5: true, StrictOnly: true},
	{Value: "super", ES5: true},
	{Value: "synchronized"},
	{Value: "transient"},
	{Value: "volatile"},
}

func init() {
	for _, p := range Punctuators {
		m := &Meta{Value: p}
		switch p {
		case ".", ")", "~", "#", "]", "++", "--":
			m.EndsExpression = true
		}
		metaTable[p] = m
	}
	for _, kw := range Keywords {
		metaTable[kw] = &Meta{Value: kw, Reserved: true}
	}
	for i := range futureReserved {
		m := futureReserved[i]
		m.Reserved = true
		m.FutureReserved = true
		metaTable[m.Value] = &m
	}
	// let and yield are contextual in practice
	metaTable["let"].Reserved = false
	metaTable["yield"].Reserved = false
}
