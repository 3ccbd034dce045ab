package plumbing

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// CheckoutToTreeSHA materializes the given tree into the working
// directory, rewrites the index to match it, and points HEAD at
// headContent (a symbolic ref line or a detached SHA line).
//
// Files tracked by the current index but absent from the target tree
// are removed from the worktree; untracked files are left alone. The
// rebuilt index records fresh stat data for every written file so a
// following status reports a clean tree.
func CheckoutToTreeSHA(treeSHA [20]byte, headContent string) error {

	treeEntries, err := FlattenTree(treeSHA)
	if err != nil {
		return errors.Wrap(err, "reading target tree")
	}

	oldIdx, err := LoadIndex()
	if err != nil {
		return errors.Wrap(err, "loading index")
	}

	// Drop tracked files that the target tree no longer has
	for path := range oldIdx.ToMap() {
		if _, keep := treeEntries[path]; keep {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", path)
		}
	}

	// Write every blob of the target tree and restage it
	newIdx := NewIndex()
	for path, te := range treeEntries {
		if te.Type != types.BlobObject {
			continue
		}

		_, content, err := ReadObject(hex.EncodeToString(te.SHA[:]))
		if err != nil {
			return errors.Wrapf(err, "reading blob for %s", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), constants.DefaultDirPerm); err != nil {
			return errors.Wrapf(err, "creating directories for %s", path)
		}

		perm := os.FileMode(constants.DefaultFilePerm)
		if te.Mode == constants.ModeExecutable {
			perm = constants.DefaultDirPerm // rwxr-xr-x
		}
		if err := os.WriteFile(path, content, perm); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}

		ie, err := NewEntryFromStat(path, te.SHA)
		if err != nil {
			return err
		}
		ie.Mode = te.Mode
		newIdx.Add(ie)
	}

	if err := newIdx.StoreDefault(); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(".git", "HEAD"), []byte(headContent), constants.DefaultFilePerm)
}
