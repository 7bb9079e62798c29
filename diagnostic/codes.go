// Copyright © 2024 The ELPS authors

package diagnostic

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Code is a stable diagnostic identifier such as "E011" or "W117".  The
// first letter fixes the severity: E for errors, W for warnings and I for
// informational messages.
type Code string

// Codes emitted by the lexer, the scope manager and the driver.
const (
	BadOption           Code = "E001"
	BadOptionValue      Code = "E002"
	AlreadyDeclared     Code = "E011"
	ConstOverride       Code = "E013"
	UnclosedRegExp      Code = "E015"
	InvalidRegExp       Code = "E016"
	UnclosedComment     Code = "E017"
	UnbegunComment      Code = "E018"
	UnexpectedChar      Code = "E024"
	UnclosedString      Code = "E029"
	BadSmallInteger     Code = "E032"
	Unrecoverable       Code = "E041"
	TooManyErrors       Code = "E043"
	UnclosedTemplate    Code = "E052"
	UsedBeforeDeclared  Code = "E056"
	IEOverwrite         Code = "W002"
	UsedBeforeDefined   Code = "W003"
	AlreadyDefined      Code = "W004"
	ReadOnly            Code = "W020"
	Reassignment        Code = "W021"
	UsedOutOfScope      Code = "W038"
	AvoidEOLEscape      Code = "W042"
	BadEOLEscape        Code = "W043"
	BadNumber           Code = "W045"
	RegExpControlChar   Code = "W048"
	RegExpEscapedChar   Code = "W049"
	UnexpectedEscape    Code = "W052"
	Unused              Code = "W098"
	UnsafeChar          Code = "W100"
	LineTooLong         Code = "W101"
	SingleQuote         Code = "W108"
	UnclosedStringLine  Code = "W112"
	ControlChar         Code = "W113"
	Avoid               Code = "W114"
	StrictOctal         Code = "W115"
	Undefined           Code = "W117"
	ESVersionFeature    Code = "W119"
	OuterShadow         Code = "W123"
	NonBreakingSpace    Code = "W125"
	ES5Default          Code = "I003"
)

//go:embed messages.toml
var messagesTOML string

var catalog = loadCatalog(messagesTOML)

func loadCatalog(src string) map[Code]string {
	var doc struct {
		Messages map[string]string `toml:"messages"`
	}
	if _, err := toml.Decode(src, &doc); err != nil {
		panic(fmt.Sprintf("diagnostic: invalid message catalog: %v", err))
	}
	m := make(map[Code]string, len(doc.Messages))
	for k, v := range doc.Messages {
		m[Code(k)] = v
	}
	return m
}

// Severity returns the fixed severity of the code.
func (c Code) Severity() Severity {
	if len(c) == 0 {
		return SeverityError
	}
	switch c[0] {
	case 'W':
		return SeverityWarning
	case 'I':
		return SeverityNote
	default:
		return SeverityError
	}
}

// Known reports whether c has a message in the catalog.
func (c Code) Known() bool {
	_, ok := catalog[c]
	return ok
}

// Template returns the uninterpolated message template for c.
func (c Code) Template() string {
	return catalog[c]
}

// Format interpolates data into the message template for c.  Placeholders
// without a corresponding value are left untouched.
func (c Code) Format(data ...string) string {
	msg, ok := catalog[c]
	if !ok {
		return string(c)
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for i, d := range data {
		if i >= 26 {
			break
		}
		pairs = append(pairs, "{"+string(rune('a'+i))+"}", d)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// AllCodes returns every catalogued code in sorted order.
func AllCodes() []Code {
	codes := make([]Code, 0, len(catalog))
	for c := range catalog {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
