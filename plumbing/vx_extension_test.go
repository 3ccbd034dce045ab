package plumbing

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cacheTreePayload builds a TREE extension payload: per node a
// NUL-terminated name, "<entries> <subtrees>\n", and the tree SHA when
// the node is valid.
func cacheTreePayload(nodes ...[]byte) []byte {
	var buf bytes.Buffer
	for _, n := range nodes {
		buf.Write(n)
	}
	return buf.Bytes()
}

func cacheTreeNode(name string, counts string, sha byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.WriteString(counts)
	buf.WriteByte('\n')
	if sha != 0 {
		buf.Write(bytes.Repeat([]byte{sha}, 20))
	}
	return buf.Bytes()
}

func TestParseCacheTree(t *testing.T) {
	t.Parallel()

	// Root (3 files, 1 subtree), then its subtree "lib" (2 files)
	payload := cacheTreePayload(
		cacheTreeNode("", "3 1", 0x11),
		cacheTreeNode("lib", "2 0", 0x22),
	)

	idx := NewIndex()
	require.NoError(t, parseCacheTree(idx, payload))

	ct := idx.CacheTree()
	require.Len(t, ct, 2)

	assert.Equal(t, "", ct[0].Path)
	assert.Equal(t, 3, ct[0].EntryCount)
	assert.Equal(t, 1, ct[0].SubtreeCount)
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 20), ct[0].SHA[:])

	assert.Equal(t, "lib", ct[1].Path)
	assert.Equal(t, 2, ct[1].EntryCount)
	assert.Equal(t, 0, ct[1].SubtreeCount)
}

func TestParseCacheTreeNestedPaths(t *testing.T) {
	t.Parallel()

	// Root -> a -> a/b, then back out to root's second subtree c
	payload := cacheTreePayload(
		cacheTreeNode("", "4 2", 0x01),
		cacheTreeNode("a", "2 1", 0x02),
		cacheTreeNode("b", "1 0", 0x03),
		cacheTreeNode("c", "1 0", 0x04),
	)

	idx := NewIndex()
	require.NoError(t, parseCacheTree(idx, payload))

	var paths []string
	for _, e := range idx.CacheTree() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"", "a", "a/b", "c"}, paths)
}

func TestParseCacheTreeInvalidatedSubtree(t *testing.T) {
	t.Parallel()

	// An invalidated node (entry count -1) carries no SHA
	payload := cacheTreePayload(
		cacheTreeNode("", "-1 1", 0),
		cacheTreeNode("pkg", "2 0", 0x33),
	)

	idx := NewIndex()
	require.NoError(t, parseCacheTree(idx, payload))

	ct := idx.CacheTree()
	require.Len(t, ct, 2)
	assert.Equal(t, -1, ct[0].EntryCount)
	assert.Equal(t, [20]byte{}, ct[0].SHA)
	assert.Equal(t, "pkg", ct[1].Path)
}

func TestParseCacheTreeMalformed(t *testing.T) {
	t.Parallel()

	for name, payload := range map[string][]byte{
		"unterminated path": []byte("no-nul-here"),
		"missing counts":    []byte("lib\x00"),
		"bad entry count":   []byte("lib\x00x 0\n"),
		"bad subtree count": []byte("lib\x000 y\n"),
		"truncated sha":     []byte("lib\x002 0\nshort"),
	} {
		err := parseCacheTree(NewIndex(), payload)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrFormat), name)
	}
}

func TestReadExtensionUnknownSignature(t *testing.T) {
	t.Parallel()

	// "ZZZZ" is nobody's extension: it must be skipped by length with
	// the stream left aligned for whatever follows.
	block := append([]byte("ZZZZ"), 0, 0, 0, 5)
	block = append(block, []byte("junk!")...)
	block = append(block, []byte("rest")...)

	cr := newChecksumReader(bytes.NewReader(block))
	idx := NewIndex()

	remaining := int64(len(block)) + ChecksumSize // pretend a trailer follows
	require.NoError(t, readExtension(cr, idx, remaining))
	assert.Empty(t, idx.CacheTree())

	next, err := cr.Read(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("rest"), next)
}

func TestReadExtensionOversizedLength(t *testing.T) {
	t.Parallel()

	// Declared length runs past the space left before the trailer
	block := append([]byte("ZZZZ"), 0, 0, 1, 0)

	cr := newChecksumReader(bytes.NewReader(block))
	err := readExtension(cr, NewIndex(), int64(len(block))+ChecksumSize)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndOfStream))
}
