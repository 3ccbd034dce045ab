package types

// CommitNode represents a parsed commit object.
type CommitNode struct {
	TreeSHA    [20]byte   // root tree SHA
	ParentsSHA [][20]byte // parent commit SHAs, can be multiple for merges
	Author     Author     // author info
	Committer  string     // raw committer line
	Message    string     // commit message
}

type Author struct {
	Name  string
	Email string
}
