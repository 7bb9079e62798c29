// Copyright © 2024 The ELPS authors

/*
Package directive parses the bodies of linting directive comments.

A directive body is a comma separated list of entries.

	body  := <entry> (',' <entry>)*
	entry := <key> (':' <value>)?
	key   := <quoted> | /[^\s,:]+/
	value := /[^\s,]+/

Entries are returned in source order.  Empty entries are kept so that
Apply can tell a harmless trailing comma from a stray one.
*/
package directive

import (
	"strings"

	parsec "github.com/prataprc/goparsec"

	"github.com/luthersystems/jsvet/parser/token"
)

// Entry is a single element of a directive body.
type Entry struct {
	Key      string
	Value    string
	HasValue bool
	// Empty is set for an element with no text, as produced by "a,,b".
	Empty bool
	// Malformed is set when the element does not match the entry grammar.
	Malformed bool
}

// Directive is a parsed directive comment.
type Directive struct {
	Kind    token.CommentKind
	Entries []Entry
}

// Parse parses the body of a directive comment of the given kind.
func Parse(kind token.CommentKind, body string) *Directive {
	d := &Directive{Kind: kind}
	p := newEntryParser()
	for _, elem := range strings.Split(body, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			d.Entries = append(d.Entries, Entry{Empty: true})
			continue
		}
		d.Entries = append(d.Entries, parseEntry(p, elem))
	}
	return d
}

// FromToken parses the directive carried by a special comment token.  It
// returns nil for any other token.
func FromToken(tok *token.Token) *Directive {
	if tok == nil || tok.Type != token.COMMENT || tok.Comment == nil || !tok.Comment.Special {
		return nil
	}
	if tok.Comment.Kind == token.CommentFallsThrough {
		return &Directive{Kind: tok.Comment.Kind}
	}
	return Parse(tok.Comment.Kind, tok.Comment.Body)
}

func parseEntry(p parsec.Parser, elem string) Entry {
	s := parsec.NewScanner([]byte(elem))
	node, s := p(s)
	_, s = s.SkipWS()
	e, ok := node.(Entry)
	if !ok || !s.Endof() {
		// Fall back to the key/value split so that the caller can still
		// report the offending key.
		key, value, found := strings.Cut(elem, ":")
		return Entry{
			Key:       strings.TrimSpace(key),
			Value:     strings.TrimSpace(value),
			HasValue:  found,
			Malformed: true,
		}
	}
	return e
}

func newEntryParser() parsec.Parser {
	colon := parsec.Atom(":", "COLON")
	quoted := parsec.Token(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, "QUOTED")
	name := parsec.Token(`[^\s,:]+`, "NAME")
	value := parsec.Token(`[^\s,]+`, "VALUE")

	key := parsec.OrdChoice(first, quoted, name)
	assignment := parsec.And(second, colon, value)
	return parsec.And(newEntry, key, parsec.Maybe(first, assignment))
}

func first(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func second(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) < 2 {
		return nil
	}
	return nodes[1]
}

func newEntry(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	key, ok := nodes[0].(*parsec.Terminal)
	if !ok {
		return nil
	}
	e := Entry{Key: key.GetValue()}
	if len(nodes) > 1 {
		if v, ok := nodes[1].(*parsec.Terminal); ok {
			e.Value = v.GetValue()
			e.HasValue = true
		}
	}
	return e
}

// Unquote strips matching single or double quotes from a member name.
func Unquote(name string) string {
	if len(name) >= 2 {
		c := name[0]
		if (c == '"' || c == '\'') && name[len(name)-1] == c {
			return strings.Replace(name[1:len(name)-1], `\"`, `"`, 1)
		}
	}
	return name
}
