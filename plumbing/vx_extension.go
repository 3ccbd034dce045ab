package plumbing

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/types"
)

// extHeaderSize is the 4-byte signature plus the 4-byte big-endian
// payload length that starts every extension block.
const extHeaderSize = 8

// extensionParser consumes one extension payload and merges its result
// into the index.
type extensionParser func(idx *Index, payload []byte) error

// extensionParsers is an open registry: signatures not present here are
// skipped by length, NOT rejected. Peer implementations of the format
// write extensions we have no use for (untracked cache, split index,
// end-of-index markers), and treating them as fatal would make every
// index written by a more capable peer unreadable.
var extensionParsers = map[string]extensionParser{
	"TREE": parseCacheTree,
}

// readExtension consumes exactly one extension block: signature,
// length, and length payload bytes, keeping the stream aligned for the
// next block or the trailer. remaining is the byte count left in the
// file including the trailer, used to reject lengths that run past it.
func readExtension(cr *checksumReader, idx *Index, remaining int64) error {
	header, err := cr.Read(extHeaderSize)
	if err != nil {
		return errors.Wrap(err, "extension header")
	}

	signature := string(header[:4])
	length := binary.BigEndian.Uint32(header[4:])

	if int64(length) > remaining-extHeaderSize-ChecksumSize {
		return errors.Wrapf(ErrEndOfStream,
			"extension %q declares %d bytes but only %d remain before the trailer",
			signature, length, remaining-extHeaderSize-ChecksumSize)
	}

	payload, err := cr.Read(int(length))
	if err != nil {
		return errors.Wrapf(err, "extension %q payload", signature)
	}

	if parse, known := extensionParsers[signature]; known {
		return parse(idx, payload)
	}

	// Unknown signature: the payload bytes are already consumed (and
	// digested), so the stream stays aligned and the block is dropped.
	return nil
}

// parseCacheTree parses the "TREE" extension into CacheTreeEntry
// annotations. The payload is a pre-order walk of subtrees: for each
// node a NUL-terminated path component (empty for the root), an ASCII
// entry count, a space, an ASCII subtree count, a newline, and - only
// when the entry count is not -1 - the 20-byte SHA of the cached tree
// object. Full paths are rebuilt from the walk.
func parseCacheTree(idx *Index, payload []byte) error {

	// Stack of enclosing subtrees still expecting children.
	type frame struct {
		prefix    string
		remaining int
	}
	var stack []frame

	rest := payload
	for len(rest) > 0 {
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return errors.Wrap(ErrFormat, "cache-tree: unterminated path component")
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return errors.Wrap(ErrFormat, "cache-tree: missing counts line")
		}
		counts := string(rest[:nl])
		rest = rest[nl+1:]

		// "<entry_count> <subtree_count>"
		sp := strings.IndexByte(counts, ' ')
		if sp < 0 {
			return errors.Wrapf(ErrFormat, "cache-tree: malformed counts %q", counts)
		}
		entryCount, err := strconv.Atoi(counts[:sp])
		if err != nil {
			return errors.Wrapf(ErrFormat, "cache-tree: bad entry count %q", counts[:sp])
		}
		subtreeCount, err := strconv.Atoi(counts[sp+1:])
		if err != nil || subtreeCount < 0 {
			return errors.Wrapf(ErrFormat, "cache-tree: bad subtree count %q", counts[sp+1:])
		}

		// Invalidated subtrees (entry count -1) carry no SHA.
		var sha [20]byte
		if entryCount >= 0 {
			if len(rest) < len(sha) {
				return errors.Wrap(ErrFormat, "cache-tree: truncated tree SHA")
			}
			copy(sha[:], rest[:len(sha)])
			rest = rest[len(sha):]
		}

		path := name
		if len(stack) > 0 {
			if prefix := stack[len(stack)-1].prefix; prefix != "" {
				path = prefix + "/" + name
			}
			stack[len(stack)-1].remaining--
		}

		idx.cacheTree = append(idx.cacheTree, types.CacheTreeEntry{
			Path:         path,
			EntryCount:   entryCount,
			SubtreeCount: subtreeCount,
			SHA:          sha,
		})

		if subtreeCount > 0 {
			stack = append(stack, frame{prefix: path, remaining: subtreeCount})
		}
		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 {
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}
