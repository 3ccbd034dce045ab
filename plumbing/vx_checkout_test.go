package plumbing

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexengine/VexEngine/utils/types"
)

// stageFile writes the file to the worktree, hashes it into the object
// database, and records it in idx.
func stageFile(t *testing.T, idx *Index, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o644))

	sha, err := WriteObject(types.BlobObject, content)
	require.NoError(t, err)

	ie, err := NewEntryFromStat(path, sha)
	require.NoError(t, err)
	idx.Add(ie)
}

func TestCheckoutToTreeSHA(t *testing.T) {
	chdirRepo(t)

	// Commit state A: two files
	idx := NewIndex()
	stageFile(t, idx, "keep.txt", []byte("original"))
	stageFile(t, idx, "drop.txt", []byte("goes away"))
	require.NoError(t, idx.StoreDefault())

	treeA, err := WriteTree(BuildTreeFromIndex(idx.Entries()))
	require.NoError(t, err)

	// Mutate the worktree and index away from A
	require.NoError(t, os.WriteFile("keep.txt", []byte("scribbled over"), 0o644))
	idx2, err := LoadIndex()
	require.NoError(t, err)
	stageFile(t, idx2, "extra.txt", []byte("tracked newcomer"))
	require.NoError(t, idx2.StoreDefault())

	// Checking out A restores its content and drops the tracked extra
	require.NoError(t, CheckoutToTreeSHA(treeA, "ref: refs/heads/master\n"))

	got, err := os.ReadFile("keep.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	_, err = os.Stat("extra.txt")
	assert.True(t, os.IsNotExist(err))

	// The rebuilt index matches the tree and carries fresh stat data
	restored, err := LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())

	ie, ok := restored.Get("keep.txt", 0)
	require.True(t, ok)
	assert.Equal(t, uint32(len("original")), ie.FileSize)
	assert.NotZero(t, ie.Ino)

	head, err := os.ReadFile(".git/HEAD")
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/master\n", string(head))
}
