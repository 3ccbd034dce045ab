package types

// Flags field bit layout (high to low): assume-valid (1 bit),
// extended (1 bit, must be 0 in version 2), stage (2 bits),
// path length capped at 0xFFF (12 bits).
const (
	FlagStageShift = 12
	FlagStageMask  = 0x3000
	FlagNameMask   = 0x0FFF
)

// IndexEntry represents a single entry in the index (staging area).
type IndexEntry struct {
	Ctime    uint32   // seconds since epoch
	CtimeNs  uint32   // nanoseconds
	Mtime    uint32   // seconds since epoch
	MtimeNs  uint32   // nanoseconds
	Dev      uint32   // device
	Ino      uint32   // inode
	Mode     uint32   // file mode - 0100644 for regular file
	Uid      uint32   // user id
	Gid      uint32   // group id
	FileSize uint32   // size in bytes
	SHA1     [20]byte // SHA-1 hash of the file content
	Flags    uint16   // assume-valid, stage and name-length bits
	Filename string   // slash-separated path, relative to the repo root
}

// Stage returns the merge stage: 0 for a normally staged file, 1-3 for
// the sides of an unresolved merge conflict.
func (ie *IndexEntry) Stage() int {
	return int(ie.Flags&FlagStageMask) >> FlagStageShift
}

// SetStage stores the merge stage in the flags field.
func (ie *IndexEntry) SetStage(stage int) {
	ie.Flags = ie.Flags&^FlagStageMask | uint16(stage)<<FlagStageShift&FlagStageMask
}

// CacheTreeEntry is one record of the cache-tree ("TREE") index
// extension: a directory whose tree object is already known, so commit
// can skip rehashing it. EntryCount is -1 when the subtree has been
// invalidated by a staged change, in which case SHA is not present.
type CacheTreeEntry struct {
	Path         string
	EntryCount   int
	SubtreeCount int
	SHA          [20]byte
}
