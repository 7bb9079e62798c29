// Copyright © 2024 The ELPS authors

package state

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// StrictMode controls how strict mode is applied to a file.
type StrictMode string

const (
	StrictOff     StrictMode = ""
	StrictOn      StrictMode = "true"
	StrictImplied StrictMode = "implied"
	StrictGlobal  StrictMode = "global"
)

// ShadowMode controls redeclaration and shadowing warnings.
type ShadowMode string

const (
	// ShadowInner warns only about redeclarations inside the same scope.
	ShadowInner ShadowMode = "inner"
	// ShadowOuter additionally warns when an outer binding is shadowed.
	ShadowOuter ShadowMode = "outer"
	// ShadowAllow disables redeclaration warnings.
	ShadowAllow ShadowMode = "true"
)

// UnusedMode selects which unused bindings are reported.
type UnusedMode string

const (
	UnusedOff       UnusedMode = ""
	UnusedVars      UnusedMode = "vars"
	UnusedLastParam UnusedMode = "last-param"
	UnusedStrict    UnusedMode = "strict"
)

// LatedefMode controls use-before-definition warnings.
type LatedefMode string

const (
	LatedefOff    LatedefMode = ""
	LatedefOn     LatedefMode = "true"
	LatedefNoFunc LatedefMode = "nofunc"
)

// DefaultMaxLenException matches comment lines that consist of a single
// unbreakable word (typically a URL) and are exempt from maxlen.
var DefaultMaxLenException = regexp.MustCompile(`^(?:(?://|/\*|\*) ?)?[^ ]+$`)

// Options is the option surface read by the lexer and scope manager.
type Options struct {
	Indent          int
	MaxLen          int
	MaxLenException *regexp.Regexp
	MaxErr          int
	ESVersion       int
	Moz             bool
	Strict          StrictMode
	Module          bool
	Shadow          ShadowMode
	Unused          UnusedMode
	FuncScope       bool
	Latedef         LatedefMode
	Nonbsp          bool
	Multistr        bool
	Node            bool
	Undef           bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Indent:    4,
		MaxErr:    50,
		ESVersion: 5,
		Shadow:    ShadowInner,
		Unused:    UnusedLastParam,
		Undef:     true,
	}
}

// Set assigns a single option from its textual form, as found in a config
// file or a /*jshint key:value */ directive.  Unknown keys produce an error.
func (o *Options) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "indent", "maxlen", "maxerr":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		switch key {
		case "indent":
			if n == 0 {
				n = 4
			}
			o.Indent = n
		case "maxlen":
			o.MaxLen = n
		case "maxerr":
			o.MaxErr = n
		}
	case "esversion":
		n, err := strconv.Atoi(value)
		if err != nil || (n != 3 && n < 5) {
			return fmt.Errorf("bad option value: esversion:%s", value)
		}
		o.ESVersion = n
	case "esnext":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		if b {
			o.ESVersion = 6
		}
	case "moz":
		return setBool(&o.Moz, key, value)
	case "module":
		return setBool(&o.Module, key, value)
	case "funcscope":
		return setBool(&o.FuncScope, key, value)
	case "nonbsp":
		return setBool(&o.Nonbsp, key, value)
	case "multistr":
		return setBool(&o.Multistr, key, value)
	case "node":
		return setBool(&o.Node, key, value)
	case "undef":
		return setBool(&o.Undef, key, value)
	case "strict":
		switch value {
		case "true":
			o.Strict = StrictOn
		case "false":
			o.Strict = StrictOff
		case "implied":
			o.Strict = StrictImplied
		case "global":
			o.Strict = StrictGlobal
		default:
			return fmt.Errorf("bad option value: strict:%s", value)
		}
	case "shadow":
		mode, err := ParseShadow(value)
		if err != nil {
			return err
		}
		o.Shadow = mode
	case "unused":
		mode, err := ParseUnused(value)
		if err != nil {
			return err
		}
		o.Unused = mode
	case "latedef":
		switch value {
		case "true":
			o.Latedef = LatedefOn
		case "false":
			o.Latedef = LatedefOff
		case "nofunc":
			o.Latedef = LatedefNoFunc
		default:
			return fmt.Errorf("bad option value: latedef:%s", value)
		}
	default:
		return fmt.Errorf("bad option: %s", key)
	}
	return nil
}

// ParseShadow converts a textual shadow option value.
func ParseShadow(value string) (ShadowMode, error) {
	switch value {
	case "inner", "false", "":
		return ShadowInner, nil
	case "outer":
		return ShadowOuter, nil
	case "true":
		return ShadowAllow, nil
	}
	return ShadowInner, fmt.Errorf("bad option value: shadow:%s", value)
}

// ParseUnused converts a textual unused option value.
func ParseUnused(value string) (UnusedMode, error) {
	switch value {
	case "true", "last-param":
		return UnusedLastParam, nil
	case "false", "":
		return UnusedOff, nil
	case "vars":
		return UnusedVars, nil
	case "strict":
		return UnusedStrict, nil
	}
	return UnusedOff, fmt.Errorf("bad option value: unused:%s", value)
}

func parsePositive(key, value string) (int, error) {
	if value == "false" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a small integer and got '%s' for %s", value, key)
	}
	return n, nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("bad option value: %s:%s", key, value)
}

func setBool(dst *bool, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
