package validator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cdoc/internal/cdoc"
	"github.com/example/cdoc/internal/extractor"
	"github.com/example/cdoc/internal/render"
)

const sample = `///
// Add two numbers.
//
// @a: first operand
// @b: second operand
// @return: the sum
//
// Wraps on overflow.
int add(int a, int b);

/// A counter.

///
// Notes.
`

func dump(t *testing.T, format render.Format) []byte {
	t.Helper()
	docs, err := cdoc.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	files := []extractor.File{{Path: "add.c", Records: docs}, {Path: "empty.c"}}
	require.NoError(t, render.Write(&buf, format, files))
	return buf.Bytes()
}

func TestValidateDumpRoundTrip(t *testing.T) {
	for _, format := range []render.Format{render.FormatJSON, render.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			sum, err := ValidateDumpBytes(dump(t, format))
			require.NoError(t, err)
			assert.Equal(t, 2, sum.Files)
			assert.Equal(t, 3, sum.Records)
			assert.Equal(t, map[cdoc.Kind]int{
				cdoc.KindFunction:   1,
				cdoc.KindSingleLine: 1,
				cdoc.KindBareBlock:  1,
			}, sum.Kinds)
		})
	}
}

func TestValidateDumpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, dump(t, render.FormatJSON), 0o644))

	sum, err := ValidateDump(path)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Records)

	_, err = ValidateDump(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateDumpInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"not a list", `{"path": "a.c"}`, "parse"},
		{"missing path", `[{"records": []}]`, "'path'"},
		{"bad kind", `[{"path": "a.c", "records": [{"kind": "func"}]}]`, "'kind'"},
		{
			"function without declaration",
			`[{"path": "a.c", "records": [{"kind": "function"}]}]`,
			"without 'declaration'",
		},
		{
			"bare block with declaration",
			`[{"path": "a.c", "records": [{"kind": "bare-block", "declaration": {"line": 3, "text": "int x"}}]}]`,
			"has 'declaration'",
		},
		{
			"single line with tags",
			`[{"path": "a.c", "records": [{"kind": "single-line", "tags": [{"line": 1, "name": "a", "text": ""}]}]}]`,
			"has 'tags'",
		},
		{
			"tags out of order",
			`[{"path": "a.c", "records": [{"kind": "bare-block", "tags": [
                {"line": 4, "name": "a", "text": ""},
                {"line": 3, "name": "b", "text": ""}]}]}]`,
			"out of order",
		},
		{
			"description before tags",
			`[{"path": "a.c", "records": [{"kind": "bare-block",
                "tags": [{"line": 4, "name": "a", "text": ""}],
                "description": {"line": 3, "lines": ["x"]}}]}]`,
			"before the last tag",
		},
		{
			"bad line",
			`[{"path": "a.c", "records": [{"kind": "bare-block", "short": {"line": 0, "text": "x"}}]}]`,
			"'line'",
		},
		{
			"empty description",
			`[{"path": "a.c", "records": [{"kind": "bare-block", "description": {"line": 3, "lines": []}}]}]`,
			"'lines'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateDumpBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDump)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
