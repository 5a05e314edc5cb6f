package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project-manifest.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_ValidManifest(t *testing.T) {
	path := writeManifest(t, `# Project Manifest

Some prose about the plan.

<!-- SPLIT_MANIFEST
01-backend
02-frontend
03-shared-types
END_MANIFEST -->
`)

	p := Parse(path)
	assert.True(t, p.Valid())
	assert.Equal(t, []string{"01-backend", "02-frontend", "03-shared-types"}, p.Splits)
}

func TestParse_MissingFile(t *testing.T) {
	p := Parse(filepath.Join(t.TempDir(), "nope.md"))
	assert.False(t, p.Valid())
	assert.Contains(t, p.Errors[0], "not found")
}

func TestParse_NoBlock(t *testing.T) {
	p := Parse(writeManifest(t, "# Just prose, no manifest block\n"))
	assert.False(t, p.Valid())
	assert.Contains(t, p.Errors[0], "No SPLIT_MANIFEST block")
}

func TestParse_EmptyBlock(t *testing.T) {
	p := Parse(writeManifest(t, "<!-- SPLIT_MANIFEST\n\nEND_MANIFEST -->\n"))
	assert.False(t, p.Valid())
	assert.Contains(t, p.Errors[0], "empty")
}

func TestParse_InvalidNames(t *testing.T) {
	p := Parse(writeManifest(t, `<!-- SPLIT_MANIFEST
01-backend
2-frontend
03-Bad-Case
END_MANIFEST -->
`))
	assert.False(t, p.Valid())
	assert.Equal(t, []string{"01-backend"}, p.Splits)
	assert.Len(t, p.Errors, 2)
}

func TestParse_DuplicateIndices(t *testing.T) {
	p := Parse(writeManifest(t, `<!-- SPLIT_MANIFEST
01-backend
01-frontend
END_MANIFEST -->
`))
	assert.False(t, p.Valid())
	require.Len(t, p.Errors, 1)
	assert.Contains(t, p.Errors[0], "Duplicate index 01")
}

func TestParse_NonSequentialIndices(t *testing.T) {
	p := Parse(writeManifest(t, `<!-- SPLIT_MANIFEST
01-backend
03-frontend
END_MANIFEST -->
`))
	assert.False(t, p.Valid())
	require.Len(t, p.Errors, 1)
	assert.Contains(t, p.Errors[0], "sequential")
	assert.Equal(t, []string{"01-backend", "03-frontend"}, p.Splits)
}

func TestParse_WhitespaceTolerant(t *testing.T) {
	p := Parse(writeManifest(t, `<!-- SPLIT_MANIFEST
  01-backend

  02-frontend
END_MANIFEST -->
`))
	assert.True(t, p.Valid())
	assert.Equal(t, []string{"01-backend", "02-frontend"}, p.Splits)
}
