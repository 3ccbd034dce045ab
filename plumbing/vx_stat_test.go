package plumbing

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexengine/VexEngine/utils/constants"
)

func TestStatEntry(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile("notes.txt", []byte("hello"), 0o644))

	ie, err := StatEntry("./notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", ie.Filename) // cleaned and slash-normalized
	assert.Equal(t, uint32(constants.ModeFile), ie.Mode)
	assert.Equal(t, uint32(5), ie.FileSize)
	assert.NotZero(t, ie.Ino)
	assert.NotZero(t, ie.Mtime)
	assert.Zero(t, ie.SHA1) // hash is the caller's job
}

func TestStatEntryExecutable(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile("run.sh", []byte("#!/bin/sh\n"), 0o755))

	ie, err := StatEntry("run.sh")
	require.NoError(t, err)
	assert.Equal(t, uint32(constants.ModeExecutable), ie.Mode)
}

func TestStatEntrySymlink(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile("target.txt", []byte("x"), 0o644))
	require.NoError(t, os.Symlink("target.txt", "link.txt"))

	ie, err := StatEntry("link.txt")
	require.NoError(t, err)
	assert.Equal(t, uint32(constants.ModeSymlink), ie.Mode)
}

func TestStatEntryRejectsAbsolutePaths(t *testing.T) {
	t.Parallel()

	_, err := StatEntry("/etc/hostname")
	require.Error(t, err)
}

func TestMetadataMatches(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, os.WriteFile("file.txt", []byte("v1"), 0o644))

	staged, err := StatEntry("file.txt")
	require.NoError(t, err)

	fresh, err := StatEntry("file.txt")
	require.NoError(t, err)
	assert.True(t, MetadataMatches(&staged, &fresh))

	// Growing the file is visible in the stat data alone
	require.NoError(t, os.WriteFile("file.txt", []byte("version two"), 0o644))
	changed, err := StatEntry("file.txt")
	require.NoError(t, err)
	assert.False(t, MetadataMatches(&staged, &changed))
}
