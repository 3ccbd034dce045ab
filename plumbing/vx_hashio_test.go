package plumbing

import (
	"bytes"
	"crypto/sha1"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumReaderExactRead(t *testing.T) {
	t.Parallel()

	cr := newChecksumReader(bytes.NewReader([]byte("abcdef")))

	got, err := cr.Read(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), got)
	assert.Equal(t, int64(4), cr.Consumed())

	// Asking for more than remains is an end-of-stream failure
	_, err = cr.Read(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndOfStream))
}

func TestChecksumReaderVerify(t *testing.T) {
	t.Parallel()

	payload := []byte("some index bytes")
	sum := sha1.Sum(payload)
	stream := append(append([]byte{}, payload...), sum[:]...)

	cr := newChecksumReader(bytes.NewReader(stream))
	_, err := cr.Read(len(payload))
	require.NoError(t, err)
	require.NoError(t, cr.Verify())
}

func TestChecksumReaderVerifyMismatch(t *testing.T) {
	t.Parallel()

	payload := []byte("some index bytes")
	sum := sha1.Sum(payload)
	sum[0] ^= 0xFF
	stream := append(append([]byte{}, payload...), sum[:]...)

	cr := newChecksumReader(bytes.NewReader(stream))
	_, err := cr.Read(len(payload))
	require.NoError(t, err)

	err = cr.Verify()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))
}

func TestChecksumReaderVerifyTruncatedTrailer(t *testing.T) {
	t.Parallel()

	cr := newChecksumReader(bytes.NewReader([]byte("short")))
	_, err := cr.Read(5)
	require.NoError(t, err)

	err = cr.Verify()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndOfStream))
}

func TestChecksumWriterRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := newChecksumWriter(&buf)

	_, err := cw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = cw.Write([]byte("index"))
	require.NoError(t, err)
	require.NoError(t, cw.Finalize())

	// What the writer produced must verify on the way back in
	cr := newChecksumReader(bytes.NewReader(buf.Bytes()))
	got, err := cr.Read(len("hello index"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello index"), got)
	require.NoError(t, cr.Verify())
}
