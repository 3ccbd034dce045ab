package plumbing

import (
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// StatEntry builds a stage-0 index entry for path from the live
// filesystem metadata. The SHA field is left zero; callers hash the
// content and fill it in (or use NewEntryFromStat).
func StatEntry(path string) (types.IndexEntry, error) {

	// Clean the path to use as the entry's filename
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		return types.IndexEntry{}, errors.New("absolute paths are not supported in index entries")
	}
	cleanPath = filepath.ToSlash(cleanPath) // Use forward slashes

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return types.IndexEntry{}, errors.Wrapf(err, "lstat %s", path)
	}

	mode := uint32(constants.ModeFile)
	switch {
	case st.Mode&unix.S_IFMT == unix.S_IFLNK:
		mode = constants.ModeSymlink
	case st.Mode&0o111 != 0:
		mode = constants.ModeExecutable
	}

	return types.IndexEntry{
		Ctime:    uint32(st.Ctim.Sec),
		CtimeNs:  uint32(st.Ctim.Nsec),
		Mtime:    uint32(st.Mtim.Sec),
		MtimeNs:  uint32(st.Mtim.Nsec),
		Dev:      uint32(st.Dev),
		Ino:      uint32(st.Ino),
		Mode:     mode,
		Uid:      st.Uid,
		Gid:      st.Gid,
		FileSize: uint32(st.Size),
		Filename: cleanPath,
	}, nil
}

// NewEntryFromStat creates a fully populated index entry from the
// current filesystem state of the given path and the blob SHA already
// computed for its content.
func NewEntryFromStat(path string, sha [20]byte) (types.IndexEntry, error) {
	ie, err := StatEntry(path)
	if err != nil {
		return types.IndexEntry{}, err
	}
	ie.SHA1 = sha
	return ie, nil
}

// MetadataMatches reports whether the stat-derived fields of a fresh
// entry agree with the staged one, meaning the file can be assumed
// unchanged without rehashing its content.
func MetadataMatches(staged, fresh *types.IndexEntry) bool {
	return staged.Dev == fresh.Dev &&
		staged.Ino == fresh.Ino &&
		staged.Mode == fresh.Mode &&
		staged.FileSize == fresh.FileSize &&
		staged.Mtime == fresh.Mtime &&
		staged.MtimeNs == fresh.MtimeNs &&
		staged.Ctime == fresh.Ctime &&
		staged.CtimeNs == fresh.CtimeNs
}
