package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayangd/jsonapi-factory/internal/diff"
)

const renamedAuthorDocument = `{
  "data": {
    "id": "1",
    "type": "book",
    "attributes": {"title": "Dune"},
    "relationships": {"author": {"data": {"id": "7", "type": "person"}}}
  },
  "included": [
    {"id": "7", "type": "person", "attributes": {"name": "F. Herbert", "age": 65}}
  ]
}`

func TestDiff_NoDifferences(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	existing := writeFile(t, dir, "existing.json", bookDocument)

	stdout, _, err := executeCommand("diff", "-s", schemaPath, "--existing", existing, "--exit-code", inputPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No differences found.")
}

func TestDiff_Unified(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	existing := writeFile(t, dir, "existing.json", renamedAuthorDocument)

	stdout, _, err := executeCommand("--no-color", "diff", "-s", schemaPath, "--existing", existing, inputPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "--- "+existing)
	assert.Contains(t, stdout, "+++ "+inputPath)
	assert.Regexp(t, `(?m)^-.*"F\. Herbert"`, stdout)
	assert.Regexp(t, `(?m)^\+.*"Frank"`, stdout)
	assert.Contains(t, stdout, "~ person[7]: changed attributes.name")
	assert.NotContains(t, stdout, "\033[")
}

func TestDiff_JSONReport(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	existing := writeFile(t, dir, "existing.json", renamedAuthorDocument)

	stdout, _, err := executeCommand("diff", "-s", schemaPath, "--existing", existing, "--report", "json", inputPath)
	require.NoError(t, err)

	var changes []diff.ResourceChange
	require.NoError(t, json.Unmarshal([]byte(stdout), &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, diff.ChangeModified, changes[0].Type)
	assert.Equal(t, "person[7]", changes[0].Key)
}

func TestDiff_ExitCodeOnDifferences(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	existing := writeFile(t, dir, "existing.json", renamedAuthorDocument)

	_, _, err := executeCommand("diff", "-s", schemaPath, "--existing", existing, "--exit-code", inputPath)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "documents differ")
}

func TestDiff_Errors(t *testing.T) {
	dir, schemaPath, inputPath := fixtures(t)
	existing := writeFile(t, dir, "existing.json", bookDocument)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no args", []string{"diff"}, ExitFailure, ""},
		{"missing existing", []string{"diff", "-s", schemaPath, inputPath}, ExitUsage, "--existing flag is required"},
		{"bad report", []string{"diff", "-s", schemaPath, "--existing", existing, "--report", "html", inputPath}, ExitUsage, "unsupported report format"},
		{"malformed existing", []string{"diff", "-s", schemaPath, "--existing", writeFile(t, dir, "bad.json", "[1, 2]"), inputPath}, ExitValidation, ""},
		{"bad input", []string{"diff", "-s", schemaPath, "--existing", existing, writeFile(t, dir, "tag.yaml", "id: 1\ntype: tag\n")}, ExitNormalize, "unknown type"},
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
