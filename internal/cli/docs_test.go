package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocs_Markdown(t *testing.T) {
	_, schemaPath, _ := fixtures(t)

	stdout, _, err := executeCommand("docs", "-s", schemaPath, "--title", "Library", "--examples")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Library")
	assert.Contains(t, stdout, "**Schema Version:** `1.0.0`")
	assert.Contains(t, stdout, "## book")
	assert.Contains(t, stdout, "| 2 | `author` | relationship |")
	assert.Contains(t, stdout, "```yaml\nid: 1\ntype: book\n")
}

func TestDocs_HTMLToFile(t *testing.T) {
	dir, schemaPath, _ := fixtures(t)
	out := filepath.Join(dir, "types.html")

	stdout, _, err := executeCommand("docs", "-s", schemaPath, "--format", "html", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out) //nolint:gosec // test output
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h2>person</h2>")
}

func TestDocs_Errors(t *testing.T) {
	_, schemaPath, _ := fixtures(t)

	_, _, err := executeCommand("docs", "-s", schemaPath, "--format", "pdf")
	assert.Equal(t, ExitUsage, exitCode(t, err))
	assert.Contains(t, err.Error(), "unsupported docs format")

	_, _, err = executeCommand("docs")
	assert.Equal(t, ExitUsage, exitCode(t, err))

	_, _, err = executeCommand("docs", "-s", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitFailure, exitCode(t, err))
}
