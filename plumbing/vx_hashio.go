package plumbing

import (
	"bytes"
	"crypto/sha1"
	"hash"
	"io"

	"github.com/pkg/errors"
)

// ChecksumSize is the size of the SHA-1 trailer at the end of the index file.
const ChecksumSize = sha1.Size

// checksumReader wraps a byte source and folds every byte it hands out
// into a running SHA-1. The index checksum is only meaningful over a
// strictly forward, single-pass traversal, so there is no seeking: the
// reader just counts what it has consumed so the caller can tell when
// only the trailer remains.
type checksumReader struct {
	r        io.Reader
	digest   hash.Hash
	consumed int64
}

func newChecksumReader(r io.Reader) *checksumReader {
	return &checksumReader{r: r, digest: sha1.New()}
}

// Read returns exactly n bytes or fails with ErrEndOfStream. Every
// byte returned is folded into the running digest.
func (cr *checksumReader) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, errors.Wrapf(ErrEndOfStream, "short read: wanted %d bytes: %v", n, err)
	}

	// Fold into the running digest. Hash writes never fail.
	cr.digest.Write(buf)
	cr.consumed += int64(n)
	return buf, nil
}

// Consumed reports how many bytes have been read and digested so far.
func (cr *checksumReader) Consumed() int64 {
	return cr.consumed
}

// Verify reads the fixed-size trailer (NOT folded into the digest) and
// compares it against the digest accumulated over all prior reads.
func (cr *checksumReader) Verify() error {

	// Snapshot the digest before touching the trailer bytes.
	want := cr.digest.Sum(nil)

	trailer := make([]byte, ChecksumSize)
	if _, err := io.ReadFull(cr.r, trailer); err != nil {
		return errors.Wrapf(ErrEndOfStream, "short read: checksum trailer: %v", err)
	}
	cr.consumed += ChecksumSize

	if !bytes.Equal(want, trailer) {
		return errors.Wrapf(ErrIntegrity, "computed %x, stored %x", want, trailer)
	}
	return nil
}

// checksumWriter mirrors checksumReader for serialization: every byte
// written is folded into a running SHA-1, and Finalize appends the
// digest as the trailer.
type checksumWriter struct {
	w      io.Writer
	digest hash.Hash
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w, digest: sha1.New()}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.digest.Write(p[:n])
	if err != nil {
		return n, errors.Wrap(err, "writing index bytes")
	}
	return n, nil
}

// Finalize appends the accumulated digest as the checksum trailer.
// The writer must not be used again afterwards.
func (cw *checksumWriter) Finalize() error {
	if _, err := cw.w.Write(cw.digest.Sum(nil)); err != nil {
		return errors.Wrap(err, "writing checksum trailer")
	}
	return nil
}
