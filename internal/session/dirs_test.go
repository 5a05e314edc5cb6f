package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/deepsplit/internal/config"
	dserrors "github.com/randalmurphal/deepsplit/internal/errors"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	content := "# Manifest\n\n<!-- SPLIT_MANIFEST\n" + body + "\nEND_MANIFEST -->\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.ManifestFileName), []byte(content), 0o644))
}

func TestCreateSplitDirs(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "01-backend\n02-frontend\n03-infra")

	res := CreateSplitDirs(dir)
	require.True(t, res.Success, "error: %s", res.Error)
	assert.Equal(t, []string{"01-backend", "02-frontend", "03-infra"}, res.Created)
	assert.Empty(t, res.Skipped)

	for _, name := range res.Created {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestCreateSplitDirs_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "01-backend\n02-frontend")

	res := CreateSplitDirs(dir)
	require.True(t, res.Success)

	// A file placed in an existing split survives the re-run.
	keep := filepath.Join(dir, "01-backend", "notes.md")
	require.NoError(t, os.WriteFile(keep, []byte("keep me"), 0o644))

	res = CreateSplitDirs(dir)
	require.True(t, res.Success)
	assert.Empty(t, res.Created)
	assert.Equal(t, []string{"01-backend", "02-frontend"}, res.Skipped)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestCreateSplitDirs_InvalidManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "01-backend\nbad name here")

	res := CreateSplitDirs(dir)
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeManifestInvalid, res.Code)
	assert.NotEmpty(t, res.Errors)

	// Nothing is created when the manifest is rejected.
	_, err := os.Stat(filepath.Join(dir, "01-backend"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateSplitDirs_MissingManifest(t *testing.T) {
	res := CreateSplitDirs(t.TempDir())
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeManifestInvalid, res.Code)
}

func TestCreateSplitDirs_MissingPlanningDir(t *testing.T) {
	res := CreateSplitDirs(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, res.Success)
	assert.Equal(t, dserrors.CodeInputInvalid, res.Code)
}
