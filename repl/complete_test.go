// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolCompleter(t *testing.T) {
	s := NewSession()
	s.Eval(&bytes.Buffer{}, "myGlobal;")
	c := &symbolCompleter{session: s}

	// "Ma" should match Math.
	candidates, offset := c.Do([]rune("x = Ma"), 6)
	assert.Equal(t, 2, offset)
	assert.Contains(t, candidates, []rune("th"))

	// Globals implied by the session are offered too.
	candidates, offset = c.Do([]rune("my"), 2)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("Global")}, candidates)

	// Commands complete at the start of the line.
	candidates, offset = c.Do([]rune(":to"), 3)
	assert.Equal(t, 3, offset)
	assert.Equal(t, [][]rune{[]rune("kens")}, candidates)

	// "zzz" should have no completions.
	candidates, _ = c.Do([]rune("zzz"), 3)
	assert.Empty(t, candidates)
}
