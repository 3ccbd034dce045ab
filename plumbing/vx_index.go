package plumbing

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

const (
	indexSignature = "DIRC"
	indexVersion   = 2
	headerSize     = 12 // 4-byte signature + 4-byte version + 4-byte entry count
)

// IndexFilePath returns the on-disk location of the index, relative to
// the repository root (the current working directory).
func IndexFilePath() string {
	return filepath.Join(".git", "index")
}

// Index is the in-memory staging area: the exclusive owner of the
// ordered entry collection for one checkout. Entries are kept sorted by
// (path, stage) at all times so lookup is a binary search and
// serialization is deterministic.
//
// Loading and storing are single-pass and all-or-nothing: a failed load
// leaves the index cleared, and a store writes a complete fresh file
// image through the lock file rather than patching in place.
type Index struct {
	entries   []types.IndexEntry
	cacheTree []types.CacheTreeEntry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// LoadIndex reads .git/index in the current repository. A missing file
// is not an error: staging into a fresh repository starts empty.
func LoadIndex() (*Index, error) {
	idx := NewIndex()
	if err := idx.Load(IndexFilePath()); err != nil {
		return nil, err
	}
	return idx, nil
}

// entryLess orders entries by (path, stage).
func entryLess(a, b *types.IndexEntry) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	return a.Stage() < b.Stage()
}

// Load reads, validates and checksums the index file at path. On any
// failure the index is left cleared - no partially populated index is
// ever exposed to callers.
func (idx *Index) Load(path string) error {
	idx.Clear()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil // No index file yet
	}
	if err != nil {
		return errors.Wrap(err, "opening index")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stating index")
	}
	if info.Size() < headerSize+ChecksumSize {
		return errors.Wrapf(ErrFormat, "index file is too short (%d bytes)", info.Size())
	}

	if err := idx.load(newChecksumReader(bufio.NewReader(f)), info.Size()); err != nil {
		idx.Clear()
		return err
	}
	return nil
}

// load drives the read state machine: header, count entries, extension
// blocks until only the trailer remains, then checksum verification.
func (idx *Index) load(cr *checksumReader, size int64) error {

	// 12-byte header: signature + version + entry count
	header, err := cr.Read(headerSize)
	if err != nil {
		return errors.Wrap(err, "index header")
	}
	if string(header[:4]) != indexSignature {
		return errors.Wrapf(ErrFormat, "bad signature %q", header[:4])
	}
	if version := binary.BigEndian.Uint32(header[4:8]); version != indexVersion {
		return errors.Wrapf(ErrFormat, "unsupported index version %d", version)
	}
	count := binary.BigEndian.Uint32(header[8:12])

	// Exactly count entries follow. A count larger than what is really
	// there makes this loop eat extension bytes as entries; that
	// misparse is caught below, at the latest by the checksum.
	for i := uint32(0); i < count; i++ {
		ie, err := decodeEntry(cr)
		if err != nil {
			return errors.Wrapf(err, "entry %d of %d", i+1, count)
		}
		if n := len(idx.entries); n > 0 && !entryLess(&idx.entries[n-1], &ie) {
			return errors.Wrapf(ErrFormat, "entries out of order at %q", ie.Filename)
		}
		idx.entries = append(idx.entries, ie)
	}

	// Whatever sits between the entries and the trailer is extension
	// blocks, recognized or not.
	for size-cr.Consumed() > ChecksumSize {
		if err := readExtension(cr, idx, size-cr.Consumed()); err != nil {
			return err
		}
	}

	return cr.Verify()
}

// Store serializes the index to path: header, entries sorted by
// (path, stage), checksum trailer. The bytes go to <path>.lock, created
// exclusively so it doubles as the write lock against concurrent
// processes, and the lock is renamed over the index only after the
// trailer is down. Extension blocks read from a peer implementation are
// NOT rewritten: the cache-tree annotations are derived data and
// dropping them is safe.
func (idx *Index) Store(path string) (err error) {
	lockPath := path + ".lock"

	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.DefaultFilePerm)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrIndexLocked, "%s: another process may be writing the index", lockPath)
		}
		return errors.Wrap(err, "creating index lock")
	}

	// Abandon the lock on any failure so a retry is possible.
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(lockPath)
		}
	}()

	sort.Slice(idx.entries, func(i, j int) bool {
		return entryLess(&idx.entries[i], &idx.entries[j])
	})

	bw := bufio.NewWriter(f)
	cw := newChecksumWriter(bw)

	// 12-byte header: "DIRC" + version + entry count
	header := make([]byte, 0, headerSize)
	header = append(header, indexSignature...)
	header = binary.BigEndian.AppendUint32(header, indexVersion)
	header = binary.BigEndian.AppendUint32(header, uint32(len(idx.entries)))
	if _, err = cw.Write(header); err != nil {
		return err
	}

	for i := range idx.entries {
		if err = encodeEntry(cw, idx.entries[i]); err != nil {
			return errors.Wrapf(err, "entry %q", idx.entries[i].Filename)
		}
	}

	if err = cw.Finalize(); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing index")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing index lock")
	}

	if err = os.Rename(lockPath, path); err != nil {
		os.Remove(lockPath)
		return errors.Wrap(err, "replacing index")
	}
	return nil
}

// StoreDefault writes the index to .git/index.
func (idx *Index) StoreDefault() error {
	return idx.Store(IndexFilePath())
}

// Clear empties the index, including any cache-tree annotations.
func (idx *Index) Clear() {
	idx.entries = nil
	idx.cacheTree = nil
}

// Len returns the number of entries across all stages.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// search locates the insertion point for (path, stage) and whether an
// entry with exactly that key is already present.
func (idx *Index) search(path string, stage int) (int, bool) {
	key := types.IndexEntry{Filename: path}
	key.SetStage(stage)
	i := sort.Search(len(idx.entries), func(i int) bool {
		return !entryLess(&idx.entries[i], &key)
	})
	found := i < len(idx.entries) &&
		idx.entries[i].Filename == path && idx.entries[i].Stage() == stage
	return i, found
}

// Add inserts the entry at its sorted position. An existing entry with
// the same (path, stage) is replaced wholesale, never merged: re-staging
// a path always records a complete fresh snapshot of its metadata.
func (idx *Index) Add(ie types.IndexEntry) {
	i, found := idx.search(ie.Filename, ie.Stage())
	if found {
		idx.entries[i] = ie
		return
	}
	idx.entries = slices.Insert(idx.entries, i, ie)
}

// Remove drops the entry for (path, stage), reporting whether one existed.
func (idx *Index) Remove(path string, stage int) bool {
	i, found := idx.search(path, stage)
	if !found {
		return false
	}
	idx.entries = slices.Delete(idx.entries, i, i+1)
	return true
}

// RemoveAll drops every stage of path, reporting whether any existed.
// Staging a resolved file uses this to clear its conflict stages.
func (idx *Index) RemoveAll(path string) bool {
	removed := false
	for stage := 0; stage <= 3; stage++ {
		if idx.Remove(path, stage) {
			removed = true
		}
	}
	return removed
}

// Get returns the entry for (path, stage).
func (idx *Index) Get(path string, stage int) (types.IndexEntry, bool) {
	i, found := idx.search(path, stage)
	if !found {
		return types.IndexEntry{}, false
	}
	return idx.entries[i], true
}

// Entries exposes the ordered entry collection for iteration. Callers
// must not mutate it; staging goes through Add/Remove.
func (idx *Index) Entries() []types.IndexEntry {
	return idx.entries
}

// CacheTree returns the cache-tree annotations parsed from the TREE
// extension, in the pre-order the writer emitted them. Empty unless the
// loaded file carried the extension.
func (idx *Index) CacheTree() []types.CacheTreeEntry {
	return idx.cacheTree
}

// ToMap flattens the stage-0 entries into a path-keyed map for the
// status and add walks. Conflict stages are deliberately absent: a
// conflicted path shows up as not staged.
func (idx *Index) ToMap() map[string]types.IndexEntry {
	indexMap := make(map[string]types.IndexEntry, len(idx.entries))
	for _, ie := range idx.entries {
		if ie.Stage() == 0 {
			indexMap[ie.Filename] = ie
		}
	}
	return indexMap
}
