package plumbing

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// HashObject computes the SHA-1 of an object WITHOUT writing it to
// disk. It hashes the canonical loose-object form "<type> <size>\0<content>".
func HashObject(objType types.ObjectType, content []byte) [20]byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(content))
	store := append([]byte(header), content...)
	return sha1.Sum(store)
}

// WriteObject writes an object (blob, tree, or commit) to .git/objects.
// If the object already exists, it is NOT rewritten.
func WriteObject(objType types.ObjectType, content []byte) ([20]byte, error) {

	sha := HashObject(objType, content)

	// aa/bbbb... fan-out under .git/objects
	hexSha := hex.EncodeToString(sha[:])
	dir := filepath.Join(".git", "objects", hexSha[:2])
	objPath := filepath.Join(dir, hexSha[2:])

	// Objects are content-addressed: an existing file is already correct.
	if _, err := os.Stat(objPath); err == nil {
		return sha, nil
	} else if !os.IsNotExist(err) {
		return [20]byte{}, errors.Wrapf(err, "stating object %s", hexSha)
	}

	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return [20]byte{}, errors.Wrap(err, "creating object directory")
	}

	// "<type> <size>\0<content>", zlib-deflated
	header := fmt.Sprintf("%s %d\x00", objType, len(content))
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(header)); err != nil {
		return [20]byte{}, errors.Wrap(err, "compressing object header")
	}
	if _, err := w.Write(content); err != nil {
		return [20]byte{}, errors.Wrap(err, "compressing object content")
	}
	if err := w.Close(); err != nil {
		return [20]byte{}, errors.Wrap(err, "flushing object")
	}

	if err := os.WriteFile(objPath, buf.Bytes(), constants.DefaultFilePerm); err != nil {
		return [20]byte{}, errors.Wrapf(err, "writing object %s", hexSha)
	}
	return sha, nil
}

// ReadObject reads and inflates an object from .git/objects. It returns
// the object type (blob/tree/commit) and the raw content WITHOUT the header.
func ReadObject(shaHex string) (types.ObjectType, []byte, error) {
	if len(shaHex) != 40 {
		return "", nil, errors.Errorf("invalid object id %q", shaHex)
	}

	objPath := filepath.Join(".git", "objects", shaHex[:2], shaHex[2:])
	f, err := os.Open(objPath)
	if err != nil {
		return "", nil, errors.Wrapf(err, "opening object %s", shaHex)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, errors.Wrapf(err, "inflating object %s", shaHex)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "reading object %s", shaHex)
	}

	// Split "<type> <size>\0" from the content
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return "", nil, errors.Errorf("corrupt object %s: missing header terminator", shaHex)
	}
	header := string(data[:nullIdx])
	content := data[nullIdx+1:]

	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return "", nil, errors.Errorf("corrupt object %s: bad header %q", shaHex, header)
	}
	return types.ObjectType(parts[0]), content, nil
}
