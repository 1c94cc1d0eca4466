package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Stdout(t *testing.T) {
	_, schemaPath, inputPath := fixtures(t)

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, inputPath)
	require.NoError(t, err)
	assert.JSONEq(t, bookDocument, stdout)
}

func TestNormalize_Stdin(t *testing.T) {
	_, schemaPath, _ := fixtures(t)

	stdout, _, err := executeCommandWithInput(bookInput, "normalize", "-s", schemaPath, "-")
	require.NoError(t, err)
	assert.JSONEq(t, bookDocument, stdout)
}

func TestNormalize_Compact(t *testing.T) {
	_, schemaPath, inputPath := fixtures(t)

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, "--compact", inputPath)
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(stdout))
	assert.JSONEq(t, bookDocument, stdout)
}

func TestNormalize_YAML(t *testing.T) {
	_, schemaPath, inputPath := fixtures(t)

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, "--format", "yaml", inputPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "data:\n")
	assert.Contains(t, stdout, "included:\n")
	assert.Contains(t, stdout, `id: "7"`)
}

func TestNormalize_OutputFile(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	out := filepath.Join(dir, "out", "book.json")

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, "-o", out, inputPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out) //nolint:gosec // test output
	require.NoError(t, err)
	assert.JSONEq(t, bookDocument, string(data))
}

func TestNormalize_OutputDir(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	second := writeFile(t, dir, "people.yaml", "- id: 1\n  type: person\n  name: Ann\n  age: 30\n")
	outDir := filepath.Join(dir, "out")

	_, _, err := executeCommand("normalize", "-s", schemaPath, "--output-dir", outDir,
		"--format", "yaml", "--workers", "2", inputPath, second)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "book.yaml"))

	people, err := os.ReadFile(filepath.Join(outDir, "people.yaml")) //nolint:gosec // test output
	require.NoError(t, err)
	assert.Contains(t, string(people), "name: Ann")
}

func TestNormalize_OutputDirNameClash(t *testing.T) {
	dir, schemaPath, _ := fixtures(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o750))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o750))

	first := writeFile(t, filepath.Join(dir, "a"), "book.yaml", bookInput)
	second := writeFile(t, filepath.Join(dir, "b"), "book.yaml", "null\n")
	outDir := filepath.Join(dir, "out")

	tests := []struct {
		name   string
		inputs []string
	}{
		{"same base name", []string{first, second}},
		{"stdin twice", []string{"-", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"normalize", "-s", schemaPath, "--output-dir", outDir}, tt.inputs...)

			_, _, err := executeCommand(args...)
			assert.Equal(t, ExitUsage, exitCode(t, err))
			assert.Contains(t, err.Error(), "would both be written to")
			assert.NoDirExists(t, outDir)
		})
	}
}

func TestNormalize_Validate(t *testing.T) {
	_, schemaPath, inputPath := fixtures(t)

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, "--validate", inputPath)
	require.NoError(t, err)
	assert.JSONEq(t, bookDocument, stdout)
}

func TestNormalize_Errors(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no inputs",
			args:     []string{"normalize", "-s", schemaPath},
			wantCode: ExitFailure,
		},
		{
			name:     "missing schema",
			args:     []string{"normalize", inputPath},
			wantCode: ExitUsage,
			wantErr:  "--schema (-s) is required",
		},
		{
			name:     "invalid schema file",
			args:     []string{"normalize", "-s", writeFile(t, dir, "bad-schema.yaml", "types: [{attributes: [a]}]\n"), inputPath},
			wantCode: ExitUsage,
			wantErr:  "loading schema",
		},
		{
			name:     "unknown field order",
			args:     []string{"normalize", "-s", schemaPath, "--field-order", "loose", inputPath},
			wantCode: ExitUsage,
		},
		{
			name:     "several inputs without output dir",
			args:     []string{"normalize", "-s", schemaPath, inputPath, inputPath},
			wantCode: ExitUsage,
			wantErr:  "--output-dir is required",
		},
		{
			name:     "output and output dir",
			args:     []string{"normalize", "-s", schemaPath, "-o", "x.json", "--output-dir", dir, inputPath},
			wantCode: ExitUsage,
			wantErr:  "mutually exclusive",
		},
		{
			name:     "missing input file",
			args:     []string{"normalize", "-s", schemaPath, filepath.Join(dir, "missing.yaml")},
			wantCode: ExitFailure,
			wantErr:  "reading input",
		},
		{
			name:     "unknown type",
			args:     []string{"normalize", "-s", schemaPath, writeFile(t, dir, "tag.yaml", "id: 1\ntype: tag\n")},
			wantCode: ExitNormalize,
			wantErr:  "unknown type",
		},
		{
			name:     "missing attribute",
			args:     []string{"normalize", "-s", schemaPath, writeFile(t, dir, "short.yaml", "id: 1\ntype: person\nname: Ann\n")},
			wantCode: ExitNormalize,
			wantErr:  "missing age",
		},
		{
			name:     "missing id",
			args:     []string{"normalize", "-s", schemaPath, writeFile(t, dir, "noid.yaml", "type: person\nname: Ann\nage: 1\n")},
			wantCode: ExitNormalize,
			wantErr:  "not serializable",
		},
		{
			name:     "scalar root",
			args:     []string{"normalize", "-s", schemaPath, writeFile(t, dir, "scalar.yaml", "42\n")},
			wantCode: ExitNormalize,
			wantErr:  "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			assert.Equal(t, tt.wantCode, exitCode(t, err))

			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNormalize_CyclicAnchors(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", `types:
  - id: number
    type: node
    attributes: [label]
    relationships: [next]
`)
	input := writeFile(t, dir, "ring.yaml", `&a
id: 1
type: node
label: first
next:
  id: 2
  type: node
  label: second
  next: *a
`)

	stdout, _, err := executeCommand("normalize", "-s", schemaPath, input)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "data": {"id": "1", "type": "node", "attributes": {"label": "first"},
           "relationships": {"next": {"data": {"id": "2", "type": "node"}}}},
  "included": [
    {"id": "2", "type": "node", "attributes": {"label": "second"},
     "relationships": {"next": {"data": {"id": "1", "type": "node"}}}}
  ]
}`, stdout)
}

func countLines(s string) int {
	n := 0

	for _, r := range s {
		if r == '\n' {
			n++
		}
	}

	return n
}
