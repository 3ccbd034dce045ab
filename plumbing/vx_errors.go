package plumbing

import "github.com/pkg/errors"

// Index load failures. All three abort the load entirely and leave the
// in-memory index cleared; retrying a read of the same bytes cannot
// change the outcome, so none are retried internally.
//
// Note that ErrIntegrity is frequently a symptom of a misparse further
// up the stream rather than of damaged bytes: once entry parsing
// consumes the wrong number of bytes (bad header count, unhandled
// format variant), every later offset is wrong, including which 20
// bytes get treated as the trailer, and the mismatch only surfaces at
// the very end. The recovery path in either case is to discard the
// index and regenerate it from the working tree and object database.
var (
	// ErrFormat marks malformed structural bytes: a bad signature or
	// version, an unterminated path, non-zero padding, unsorted entries.
	ErrFormat = errors.New("malformed index")

	// ErrEndOfStream marks fewer bytes available than a field declares.
	ErrEndOfStream = errors.New("unexpected end of index stream")

	// ErrIntegrity marks a checksum trailer mismatch.
	ErrIntegrity = errors.New("index checksum mismatch")

	// ErrIndexLocked marks a concurrent writer holding the index lock.
	ErrIndexLocked = errors.New("index lock file exists")
)
