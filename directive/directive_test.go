// Copyright © 2024 The ELPS authors

package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

type recorder struct {
	predefined  map[string]bool
	blacklisted []string
	declared    []string
	exported    []string
	members     []string
	ignoreLine  bool
}

func newRecorder() *recorder {
	return &recorder{predefined: make(map[string]bool)}
}

func (r *recorder) Predefine(name string, writable bool) { r.predefined[name] = writable }
func (r *recorder) Blacklist(name string)                { r.blacklisted = append(r.blacklisted, name) }
func (r *recorder) Declare(name string)                  { r.declared = append(r.declared, name) }
func (r *recorder) Export(name string)                   { r.exported = append(r.exported, name) }
func (r *recorder) Member(name string)                   { r.members = append(r.members, name) }
func (r *recorder) IgnoreLine()                          { r.ignoreLine = true }

func TestParse(t *testing.T) {
	tests := []struct {
		body    string
		entries []Entry
	}{
		{" a, b", []Entry{{Key: "a"}, {Key: "b"}}},
		{" undef:true , esversion: 6 ", []Entry{
			{Key: "undef", Value: "true", HasValue: true},
			{Key: "esversion", Value: "6", HasValue: true},
		}},
		{"-W117,+W098", []Entry{{Key: "-W117"}, {Key: "+W098"}}},
		{"a,,b,", []Entry{{Key: "a"}, {Empty: true}, {Key: "b"}, {Empty: true}}},
		{`"foo bar", 'baz'`, []Entry{{Key: `"foo bar"`}, {Key: `'baz'`}}},
		{"a b:c", []Entry{{Key: "a b", Value: "c", HasValue: true, Malformed: true}}},
	}
	for _, test := range tests {
		d := Parse(token.CommentJSHint, test.body)
		assert.Equal(t, test.entries, d.Entries, test.body)
	}
}

func TestFromToken(t *testing.T) {
	assert.Nil(t, FromToken(&token.Token{Type: token.IDENTIFIER}))
	tok := &token.Token{
		Type:    token.COMMENT,
		Comment: &token.CommentInfo{Kind: token.CommentGlobals, Body: " a:true", Special: true},
	}
	d := FromToken(tok)
	require.NotNil(t, d)
	assert.Equal(t, token.CommentGlobals, d.Kind)
	assert.Equal(t, []Entry{{Key: "a", Value: "true", HasValue: true}}, d.Entries)
}

func TestApplyGlobals(t *testing.T) {
	st := state.New(state.DefaultOptions())
	r := newRecorder()
	problems := Apply(Parse(token.CommentGlobals, " a:true, b, -c,"), st, r)
	assert.Empty(t, problems)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, r.predefined)
	assert.Equal(t, []string{"c"}, r.blacklisted)
	assert.Equal(t, []string{"a", "b"}, r.declared)

	problems = Apply(Parse(token.CommentGlobals, ",a"), st, newRecorder())
	assert.Equal(t, []Problem{{Code: diagnostic.BadOptionValue}}, problems)
}

func TestApplyExportedAndMembers(t *testing.T) {
	st := state.New(state.DefaultOptions())
	r := newRecorder()
	assert.Empty(t, Apply(Parse(token.CommentExported, " foo, bar"), st, r))
	assert.Equal(t, []string{"foo", "bar"}, r.exported)

	assert.Empty(t, Apply(Parse(token.CommentMembers, ` "x", y`), st, r))
	assert.Equal(t, []string{"x", "y"}, r.members)
}

func TestApplyOptions(t *testing.T) {
	st := state.New(state.DefaultOptions())
	r := newRecorder()
	problems := Apply(Parse(token.CommentJSHint, " esversion:6, unused:vars, shadow:outer, maxlen:80, -W117"), st, r)
	assert.Empty(t, problems)
	assert.Equal(t, 6, st.Option.ESVersion)
	assert.Equal(t, state.UnusedVars, st.Option.Unused)
	assert.Equal(t, state.ShadowOuter, st.Option.Shadow)
	assert.Equal(t, 80, st.Option.MaxLen)
	assert.True(t, st.IsIgnored("W117"))

	Apply(Parse(token.CommentJSHint, "+W117"), st, r)
	assert.False(t, st.IsIgnored("W117"))

	problems = Apply(Parse(token.CommentJSHint, " bogus:true"), st, r)
	assert.Equal(t, []Problem{{Code: diagnostic.BadOption, Data: []string{"bogus"}}}, problems)
	assert.Empty(t, Apply(Parse(token.CommentJSLint, " bogus:true"), st, r))

	problems = Apply(Parse(token.CommentJSHint, " maxlen:-3"), st, r)
	assert.Equal(t, []Problem{{Code: diagnostic.BadSmallInteger, Data: []string{"-3"}}}, problems)

	problems = Apply(Parse(token.CommentJSHint, " latedef:maybe"), st, r)
	assert.Equal(t, []Problem{{Code: diagnostic.BadOptionValue}}, problems)

	assert.Empty(t, Apply(Parse(token.CommentJSHint, " ignore:line"), st, r))
	assert.True(t, r.ignoreLine)
}

func TestApplyESVersion(t *testing.T) {
	st := state.New(state.DefaultOptions())
	r := newRecorder()
	problems := Apply(Parse(token.CommentJSHint, " esversion:5"), st, r)
	assert.Equal(t, []Problem{{Code: diagnostic.ES5Default}}, problems)

	assert.Empty(t, Apply(Parse(token.CommentJSHint, " esversion:2015"), st, r))
	assert.Equal(t, 6, st.Option.ESVersion)

	assert.Empty(t, Apply(Parse(token.CommentJSHint, " es3:true"), st, r))
	assert.Equal(t, 3, st.Option.ESVersion)

	problems = Apply(Parse(token.CommentJSHint, " esversion:4"), st, r)
	assert.Equal(t, []Problem{{Code: diagnostic.BadOptionValue}}, problems)
	assert.Equal(t, 3, st.Option.ESVersion)
}
