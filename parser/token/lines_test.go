// Copyright © 2018 The ELPS authors

package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		lines []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\rc\n", []string{"a", "b", "c", ""}},
		{"\r\r", []string{"", "", ""}},
	}
	for i, test := range tests {
		assert.Equal(t, test.lines, SplitLines(test.input), "test %d", i)
	}
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("var a;\r\nvar b;"))
	require.NoError(t, err)
	assert.Equal(t, []string{"var a;", "var b;"}, lines)

	_, err = ReadLines(errReader{})
	assert.Error(t, err)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
