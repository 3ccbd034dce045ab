package plumbing

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/types"
)

const (
	// entryPrefixSize is the fixed metadata prefix of a version 2 entry:
	// ctime s/ns, mtime s/ns, dev, ino, mode, uid, gid, size (10 x 4
	// bytes), the 20-byte SHA-1, and the 2-byte flags field.
	entryPrefixSize = 62

	// entryAlign is the stride each entry is padded to with NUL bytes,
	// measured from the entry start. The padding exists purely so the
	// reference format can memory-map entries at a fixed stride; the
	// bytes carry no data.
	entryAlign = 8
)

// decodeEntry reads one entry from a reader positioned at its start.
// The fixed prefix is length-known; the path is not (the 12 length bits
// in the flags field saturate at 0xFFF, so they cannot be trusted for
// long paths). The portable strategy is to scan for the NUL terminator:
// read up to the next alignment boundary, then in alignment-sized
// blocks, until a block contains a NUL. Whatever follows the terminator
// inside the consumed blocks is the entry's padding and must be zero.
func decodeEntry(cr *checksumReader) (types.IndexEntry, error) {
	prefix, err := cr.Read(entryPrefixSize)
	if err != nil {
		return types.IndexEntry{}, errors.Wrap(err, "entry prefix")
	}

	// Read fixed-size fields
	var ie types.IndexEntry
	ie.Ctime = binary.BigEndian.Uint32(prefix[0:])
	ie.CtimeNs = binary.BigEndian.Uint32(prefix[4:])
	ie.Mtime = binary.BigEndian.Uint32(prefix[8:])
	ie.MtimeNs = binary.BigEndian.Uint32(prefix[12:])
	ie.Dev = binary.BigEndian.Uint32(prefix[16:])
	ie.Ino = binary.BigEndian.Uint32(prefix[20:])
	ie.Mode = binary.BigEndian.Uint32(prefix[24:])
	ie.Uid = binary.BigEndian.Uint32(prefix[28:])
	ie.Gid = binary.BigEndian.Uint32(prefix[32:])
	ie.FileSize = binary.BigEndian.Uint32(prefix[36:])
	copy(ie.SHA1[:], prefix[40:60])
	ie.Flags = binary.BigEndian.Uint16(prefix[60:])

	// Scan for the path terminator in alignment-sized blocks. The first
	// block is shorter so every later block lands on the stride.
	chunk := entryAlign - entryPrefixSize%entryAlign
	var path []byte
	for {
		blk, err := cr.Read(chunk)
		if err != nil {
			return types.IndexEntry{}, errors.Wrap(err, "unterminated entry path")
		}
		path = append(path, blk...)
		if bytes.IndexByte(blk, 0) >= 0 {
			break
		}
		chunk = entryAlign
	}

	nul := bytes.IndexByte(path, 0)
	if nul == 0 {
		return types.IndexEntry{}, errors.Wrap(ErrFormat, "empty entry path")
	}

	// Everything past the terminator is padding and must be zero.
	for _, b := range path[nul+1:] {
		if b != 0 {
			return types.IndexEntry{}, errors.Wrap(ErrFormat, "non-zero entry padding")
		}
	}

	ie.Filename = string(path[:nul])
	return ie, nil
}

// encodeEntry mirrors decodeEntry: fixed prefix, path bytes, NUL
// terminator, then padding computed from this entry's own byte length
// up to the alignment stride.
func encodeEntry(cw *checksumWriter, ie types.IndexEntry) error {
	if strings.IndexByte(ie.Filename, 0) >= 0 {
		return errors.Wrapf(ErrFormat, "path %q contains a NUL byte", ie.Filename)
	}
	if ie.Filename == "" {
		return errors.Wrap(ErrFormat, "empty entry path")
	}

	buf := make([]byte, 0, entryPrefixSize+len(ie.Filename)+entryAlign)

	// 40 bytes of metadata
	buf = binary.BigEndian.AppendUint32(buf, ie.Ctime)
	buf = binary.BigEndian.AppendUint32(buf, ie.CtimeNs)
	buf = binary.BigEndian.AppendUint32(buf, ie.Mtime)
	buf = binary.BigEndian.AppendUint32(buf, ie.MtimeNs)
	buf = binary.BigEndian.AppendUint32(buf, ie.Dev)
	buf = binary.BigEndian.AppendUint32(buf, ie.Ino)
	buf = binary.BigEndian.AppendUint32(buf, ie.Mode)
	buf = binary.BigEndian.AppendUint32(buf, ie.Uid)
	buf = binary.BigEndian.AppendUint32(buf, ie.Gid)
	buf = binary.BigEndian.AppendUint32(buf, ie.FileSize)

	// 20 bytes SHA-1
	buf = append(buf, ie.SHA1[:]...)

	// The 12 length bits saturate at 0xFFF; the stage and assume-valid
	// bits pass through untouched. The full path is always written, the
	// scan-for-NUL decode never relies on the capped length.
	nameLen := len(ie.Filename)
	if nameLen > types.FlagNameMask {
		nameLen = types.FlagNameMask
	}
	flags := ie.Flags&^types.FlagNameMask | uint16(nameLen)
	buf = binary.BigEndian.AppendUint16(buf, flags)

	// Path, terminator, padding to the alignment stride
	buf = append(buf, ie.Filename...)
	buf = append(buf, 0x00)
	if pad := len(buf) % entryAlign; pad != 0 {
		buf = append(buf, make([]byte, entryAlign-pad)...)
	}

	_, err := cw.Write(buf)
	return err
}
