package action

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputWriterSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	w := NewOutputWriterAt(path)

	require.NoError(t, w.Set("result", "PASS"))
	require.NoError(t, w.Set("explanation", "line one\nline two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "result=PASS\n" +
		"explanation<<EOF\n" +
		"line one\nline two\n" +
		"EOF\n"
	assert.Equal(t, expected, string(data))
}

func TestOutputWriterWithoutPath(t *testing.T) {
	w := NewOutputWriterAt("")
	assert.NoError(t, w.Set("result", "PASS"))
}
