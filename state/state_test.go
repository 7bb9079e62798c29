// Copyright © 2024 The ELPS authors

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 4, opts.Indent)
	assert.Equal(t, 50, opts.MaxErr)
	assert.Equal(t, 5, opts.ESVersion)
	assert.True(t, opts.Undef)
	assert.Equal(t, UnusedLastParam, opts.Unused)
	assert.Equal(t, ShadowInner, opts.Shadow)
}

func TestOptionsSet(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Set("esversion", "6"))
	require.NoError(t, opts.Set("unused", "vars"))
	require.NoError(t, opts.Set("shadow", "outer"))
	require.NoError(t, opts.Set("latedef", "nofunc"))
	require.NoError(t, opts.Set("strict", "implied"))
	require.NoError(t, opts.Set("maxlen", "80"))
	require.NoError(t, opts.Set("indent", " 2 "))
	require.NoError(t, opts.Set("multistr", "true"))
	require.NoError(t, opts.Set("undef", "false"))

	assert.Equal(t, 6, opts.ESVersion)
	assert.Equal(t, UnusedVars, opts.Unused)
	assert.Equal(t, ShadowOuter, opts.Shadow)
	assert.Equal(t, LatedefNoFunc, opts.Latedef)
	assert.Equal(t, StrictImplied, opts.Strict)
	assert.Equal(t, 80, opts.MaxLen)
	assert.Equal(t, 2, opts.Indent)
	assert.True(t, opts.Multistr)
	assert.False(t, opts.Undef)

	require.NoError(t, opts.Set("maxlen", "false"))
	assert.Equal(t, 0, opts.MaxLen)
	require.NoError(t, opts.Set("unused", "true"))
	assert.Equal(t, UnusedLastParam, opts.Unused)
	require.NoError(t, opts.Set("shadow", "true"))
	assert.Equal(t, ShadowAllow, opts.Shadow)
}

func TestOptionsSetErrors(t *testing.T) {
	opts := DefaultOptions()
	for _, kv := range [][2]string{
		{"nosuchoption", "true"},
		{"esversion", "4"},
		{"esversion", "six"},
		{"maxlen", "-1"},
		{"indent", "wide"},
		{"undef", "maybe"},
		{"strict", "sometimes"},
		{"shadow", "deep"},
		{"unused", "params"},
		{"latedef", "later"},
	} {
		assert.Error(t, opts.Set(kv[0], kv[1]), "%s:%s", kv[0], kv[1])
	}
	assert.Equal(t, DefaultOptions().ESVersion, opts.ESVersion)
}

func TestStateModes(t *testing.T) {
	s := New(DefaultOptions())
	assert.False(t, s.IsStrict())
	assert.False(t, s.InES6(true))
	assert.True(t, s.InES5(false))
	assert.True(t, s.InES5(true))
	assert.Equal(t, "    ", s.Tab())

	s.Directive["use strict"] = true
	assert.True(t, s.IsStrict())

	opts := DefaultOptions()
	opts.Moz = true
	opts.Indent = 0
	s.Reset(opts)
	assert.False(t, s.IsStrict())
	assert.True(t, s.InES6(false))
	assert.False(t, s.InES6(true))
	assert.False(t, s.InES5(true))
	assert.Equal(t, 4, s.Option.Indent)

	opts = DefaultOptions()
	opts.ESVersion = 6
	opts.Module = true
	s.Reset(opts)
	assert.True(t, s.IsStrict())
	assert.True(t, s.InES6(true))

	s.Reset(DefaultOptions())
	s.InClassBody = true
	assert.True(t, s.IsStrict())
}

func TestFunctUnusedOverride(t *testing.T) {
	s := New(DefaultOptions())
	assert.Equal(t, UnusedLastParam, s.UnusedOption())
	s.SetFunctUnused(UnusedOff)
	assert.Equal(t, UnusedOff, s.UnusedOption())
	s.ClearFunctUnused()
	assert.Equal(t, UnusedLastParam, s.UnusedOption())
}

func TestIgnored(t *testing.T) {
	s := New(DefaultOptions())
	assert.False(t, s.IsIgnored("W117"))
	s.Ignored["W117"] = true
	assert.True(t, s.IsIgnored("W117"))
	s.Reset(DefaultOptions())
	assert.False(t, s.IsIgnored("W117"))
}
