package docs_test

import (
	"bytes"
	"testing"

	"github.com/ayangd/jsonapi-factory/internal/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocModel() *docs.DocModel {
	return &docs.DocModel{
		Version: "1.0.0",
		Types: []docs.TypeInfo{
			{
				Type:   "book",
				IDKind: "number",
				Fields: []docs.FieldInfo{
					{Name: "title", Kind: "attribute", Position: 1},
					{Name: "author", Kind: "relationship", Position: 2},
				},
			},
			{Type: "tag"},
		},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   any
	}{
		{"markdown", &docs.MarkdownFormatter{}},
		{"md", &docs.MarkdownFormatter{}},
		{"HTML", &docs.HTMLFormatter{}},
		{"asciidoc", &docs.AsciiDocFormatter{}},
		{"adoc", &docs.AsciiDocFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := docs.NewFormatter(tt.format)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}

	_, err := docs.NewFormatter("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported docs format")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&docs.MarkdownFormatter{}).Format(&buf, sampleDocModel()))

	out := buf.String()
	assert.Contains(t, out, "# Schema Reference")
	assert.Contains(t, out, "**Schema Version:** `1.0.0`")
	assert.Contains(t, out, "## book")
	assert.Contains(t, out, "| 1 | `title` | attribute |")
	assert.Contains(t, out, "| 2 | `author` | relationship |")
	assert.Contains(t, out, "No fields besides `id` and `type`.")
	assert.NotContains(t, out, "```yaml")
}

func TestMarkdownFormatter_CustomTitle(t *testing.T) {
	model := sampleDocModel()
	model.Title = "Library API"

	var buf bytes.Buffer
	require.NoError(t, (&docs.MarkdownFormatter{}).Format(&buf, model))
	assert.Contains(t, buf.String(), "# Library API")
}

func TestMarkdownFormatter_WithExamples(t *testing.T) {
	model := sampleDocModel()
	model.IncludeExamples = true

	var buf bytes.Buffer
	require.NoError(t, (&docs.MarkdownFormatter{}).Format(&buf, model))
	assert.Contains(t, buf.String(), "```yaml\nid: 1\ntype: book\ntitle: \"\"\n")
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&docs.MarkdownFormatter{}).Format(&buf, &docs.DocModel{}))

	out := buf.String()
	assert.Contains(t, out, "**Types:** 0")
	assert.NotContains(t, out, "## Overview")
}

func TestHTMLFormatter(t *testing.T) {
	model := sampleDocModel()
	model.IncludeExamples = true

	var buf bytes.Buffer
	require.NoError(t, (&docs.HTMLFormatter{}).Format(&buf, model))

	out := buf.String()
	assert.Contains(t, out, "<title>Schema Reference</title>")
	assert.Contains(t, out, "<h2>book</h2>")
	assert.Contains(t, out, "<code>title</code>")
	assert.Contains(t, out, "<pre><code>id: 1")
}

func TestAsciiDocFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&docs.AsciiDocFormatter{}).Format(&buf, sampleDocModel()))

	out := buf.String()
	assert.Contains(t, out, "= Schema Reference")
	assert.Contains(t, out, "== book")
	assert.Contains(t, out, "| `author`")
	assert.Contains(t, out, "|===")
}
