package plumbing

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// chdirRepo moves the test into a throwaway repository layout. The
// plumbing resolves everything relative to the working directory, the
// same way the commands run.
func chdirRepo(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(".git/objects", constants.DefaultDirPerm))
	require.NoError(t, os.MkdirAll(".git/refs/heads", constants.DefaultDirPerm))
	require.NoError(t, os.WriteFile(".git/HEAD", []byte(constants.Head), constants.DefaultFilePerm))
}

func TestHashObjectKnownDigest(t *testing.T) {
	t.Parallel()

	// The empty blob has a well-known id in this object format.
	sha := HashObject(types.BlobObject, nil)
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", hex.EncodeToString(sha[:]))
}

func TestObjectRoundTrip(t *testing.T) {
	chdirRepo(t)

	content := []byte("package main\n\nfunc main() {}\n")
	sha, err := WriteObject(types.BlobObject, content)
	require.NoError(t, err)

	objType, got, err := ReadObject(hex.EncodeToString(sha[:]))
	require.NoError(t, err)
	assert.Equal(t, types.BlobObject, objType)
	assert.Equal(t, content, got)

	// Content addressing: a rewrite is a no-op with the same id
	again, err := WriteObject(types.BlobObject, content)
	require.NoError(t, err)
	assert.Equal(t, sha, again)
}

func TestReadObjectRejectsBadIds(t *testing.T) {
	chdirRepo(t)

	_, _, err := ReadObject("tooshort")
	require.Error(t, err)

	_, _, err = ReadObject("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")
	require.Error(t, err) // valid shape, nothing stored
}

func TestTreeRoundTripFromIndex(t *testing.T) {
	chdirRepo(t)

	idx := NewIndex()
	for _, p := range []string{"README.md", "src/main.go", "src/util/helper.go"} {
		blobSHA, err := WriteObject(types.BlobObject, []byte("content of "+p))
		require.NoError(t, err)

		ie := testEntry(p)
		ie.SHA1 = blobSHA
		idx.Add(ie)
	}

	treeSHA, err := WriteTree(BuildTreeFromIndex(idx.Entries()))
	require.NoError(t, err)

	flat, err := FlattenTree(treeSHA)
	require.NoError(t, err)

	// Blobs land under their full paths; intermediate trees show up too
	for _, p := range []string{"README.md", "src/main.go", "src/util/helper.go"} {
		te, ok := flat[p]
		require.True(t, ok, p)
		assert.Equal(t, types.BlobObject, te.Type)
	}
	assert.Equal(t, types.TreeObject, flat["src"].Type)
	assert.Equal(t, types.TreeObject, flat["src/util"].Type)
}

func TestTreeSkipsConflictStages(t *testing.T) {
	chdirRepo(t)

	idx := NewIndex()
	idx.Add(testEntry("kept.txt"))
	conflicted := testEntry("conflicted.txt")
	conflicted.SetStage(1)
	idx.Add(conflicted)

	root := BuildTreeFromIndex(idx.Entries())
	assert.Contains(t, root.Files, "kept.txt")
	assert.NotContains(t, root.Files, "conflicted.txt")
}

func TestCommitRoundTrip(t *testing.T) {
	chdirRepo(t)

	blobSHA, err := WriteObject(types.BlobObject, []byte("hello\n"))
	require.NoError(t, err)

	idx := NewIndex()
	ie := testEntry("hello.txt")
	ie.SHA1 = blobSHA
	idx.Add(ie)

	treeSHA, err := WriteTree(BuildTreeFromIndex(idx.Entries()))
	require.NoError(t, err)

	author := types.Author{Name: "Ada Lovelace", Email: "ada@example.com"}
	commitSHA, err := WriteCommit(treeSHA, nil, author, "initial commit")
	require.NoError(t, err)

	commit, err := ReadCommit(commitSHA)
	require.NoError(t, err)
	assert.Equal(t, treeSHA, commit.TreeSHA)
	assert.Empty(t, commit.ParentsSHA)
	assert.Equal(t, author, commit.Author)
	assert.Equal(t, "initial commit\n", commit.Message)

	// A child commit records its parent
	childSHA, err := WriteCommit(treeSHA, [][20]byte{commitSHA}, author, "second")
	require.NoError(t, err)
	child, err := ReadCommit(childSHA)
	require.NoError(t, err)
	require.Len(t, child.ParentsSHA, 1)
	assert.Equal(t, commitSHA, child.ParentsSHA[0])
}

func TestResolveCommitish(t *testing.T) {
	chdirRepo(t)

	author := types.Author{Name: "Ada", Email: "ada@example.com"}
	blobSHA, err := WriteObject(types.BlobObject, []byte("x"))
	require.NoError(t, err)

	idx := NewIndex()
	ie := testEntry("x.txt")
	ie.SHA1 = blobSHA
	idx.Add(ie)
	treeSHA, err := WriteTree(BuildTreeFromIndex(idx.Entries()))
	require.NoError(t, err)

	first, err := WriteCommit(treeSHA, nil, author, "first")
	require.NoError(t, err)
	second, err := WriteCommit(treeSHA, [][20]byte{first}, author, "second")
	require.NoError(t, err)
	require.NoError(t, UpdateBranch("master", second))

	for name, want := range map[string][20]byte{
		"HEAD":   second,
		"HEAD~1": first,
		"HEAD^":  first,
		"HEAD^1": first,
		"master": second,
	} {
		got, err := ResolveCommitish(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	// Raw commit id resolves to itself
	got, err := ResolveCommitish(hex.EncodeToString(first[:]))
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = ResolveCommitish("HEAD~5")
	require.Error(t, err)
}
