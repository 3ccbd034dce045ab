package plumbing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// encodeToBytes runs encodeEntry through a buffer-backed writer.
func encodeToBytes(t *testing.T, ie types.IndexEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encodeEntry(newChecksumWriter(&buf), ie))
	return buf.Bytes()
}

func testEntry(path string) types.IndexEntry {
	ie := types.IndexEntry{
		Ctime:    1700000000,
		CtimeNs:  123456789,
		Mtime:    1700000100,
		MtimeNs:  987654321,
		Dev:      64769,
		Ino:      8675309,
		Mode:     constants.ModeFile,
		Uid:      1000,
		Gid:      1000,
		FileSize: 42,
		Filename: path,
	}
	copy(ie.SHA1[:], bytes.Repeat([]byte{0xAB}, 20))
	return ie
}

func TestEntryRoundTrip(t *testing.T) {
	t.Parallel()

	// Path lengths straddling every alignment remainder
	for _, path := range []string{
		"a",
		"ab",
		"a/b.txt",
		"exactly8",
		"dir/subdir/file.go",
		strings.Repeat("n", 100),
	} {
		in := testEntry(path)
		in.SetStage(0)
		raw := encodeToBytes(t, in)

		// Alignment invariant: total entry length is a multiple of the stride
		assert.Zero(t, len(raw)%entryAlign, "entry for %q is not aligned", path)

		out, err := decodeEntry(newChecksumReader(bytes.NewReader(raw)))
		require.NoError(t, err, "path %q", path)

		// The flags field is recomputed on encode; compare it via Stage
		assert.Equal(t, in.Filename, out.Filename)
		assert.Equal(t, in.SHA1, out.SHA1)
		assert.Equal(t, in.Mode, out.Mode)
		assert.Equal(t, in.FileSize, out.FileSize)
		assert.Equal(t, in.Mtime, out.Mtime)
		assert.Equal(t, in.MtimeNs, out.MtimeNs)
		assert.Equal(t, in.Stage(), out.Stage())
	}
}

func TestEntryStageBitsSurvive(t *testing.T) {
	t.Parallel()

	for stage := 0; stage <= 3; stage++ {
		in := testEntry("conflicted.txt")
		in.SetStage(stage)

		out, err := decodeEntry(newChecksumReader(bytes.NewReader(encodeToBytes(t, in))))
		require.NoError(t, err)
		assert.Equal(t, stage, out.Stage())
	}
}

func TestEntryLongPathBeyondFlagBits(t *testing.T) {
	t.Parallel()

	// Longer than the 12 length bits can express: the encoded flags
	// saturate but the full path is written and scanned back.
	longPath := strings.Repeat("d/", 2100) + "leaf"
	require.Greater(t, len(longPath), types.FlagNameMask)

	in := testEntry(longPath)
	out, err := decodeEntry(newChecksumReader(bytes.NewReader(encodeToBytes(t, in))))
	require.NoError(t, err)
	assert.Equal(t, longPath, out.Filename)
}

func TestEntryUnterminatedPath(t *testing.T) {
	t.Parallel()

	raw := encodeToBytes(t, testEntry("never/terminated.txt"))

	// Drop the terminator and padding entirely
	cut := bytes.IndexByte(raw[entryPrefixSize:], 0)
	require.GreaterOrEqual(t, cut, 0)

	_, err := decodeEntry(newChecksumReader(bytes.NewReader(raw[:entryPrefixSize+cut])))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndOfStream))
}

func TestEntryNonZeroPadding(t *testing.T) {
	t.Parallel()

	raw := encodeToBytes(t, testEntry("ab"))

	// Corrupt the final padding byte. Path "ab" ends well before the
	// stride, so the last byte is guaranteed padding.
	require.Zero(t, raw[len(raw)-1])
	raw[len(raw)-1] = 0x7F

	_, err := decodeEntry(newChecksumReader(bytes.NewReader(raw)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestEntryEncodeRejectsBadPaths(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := encodeEntry(newChecksumWriter(&buf), testEntry(""))
	assert.True(t, errors.Is(err, ErrFormat))

	err = encodeEntry(newChecksumWriter(&buf), testEntry("embedded\x00null"))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestEntryTruncatedPrefix(t *testing.T) {
	t.Parallel()

	raw := encodeToBytes(t, testEntry("file.txt"))

	_, err := decodeEntry(newChecksumReader(bytes.NewReader(raw[:entryPrefixSize-1])))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndOfStream))
}
