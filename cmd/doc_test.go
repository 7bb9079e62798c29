// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDoc(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDoc(&buf, []string{"latedef"}, false))
	assert.Contains(t, buf.String(), "## latedef")
	assert.Contains(t, buf.String(), "nofunc")

	buf.Reset()
	require.NoError(t, writeDoc(&buf, nil, true))
	assert.Contains(t, buf.String(), "shadow\n")

	buf.Reset()
	require.NoError(t, writeDoc(&buf, nil, false))
	assert.Contains(t, buf.String(), "# jsvet options")

	assert.EqualError(t, writeDoc(&buf, []string{"bogus"}, false), "no documentation for bogus; try jsvet doc -l")
}
