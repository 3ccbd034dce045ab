package plumbing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// BuildTreeFromIndex builds an in-memory tree structure from the stage-0
// index entries.
func BuildTreeFromIndex(entries []types.IndexEntry) *types.TreeNode {

	root := &types.TreeNode{
		Files: make(map[string]types.IndexEntry),
		Dirs:  make(map[string]*types.TreeNode),
	}

	for _, entry := range entries {
		if entry.Stage() != 0 {
			continue // unresolved conflict stages never reach a tree
		}
		parts := strings.Split(entry.Filename, "/")

		currNode := root
		// Traverse or create directories
		for i := 0; i < len(parts)-1; i++ {
			dir := parts[i]
			if currNode.Dirs[dir] == nil {
				currNode.Dirs[dir] = &types.TreeNode{
					Files: make(map[string]types.IndexEntry),
					Dirs:  make(map[string]*types.TreeNode),
				}
			}
			currNode = currNode.Dirs[dir]
		}

		// Add the file to the current directory node
		file := parts[len(parts)-1]
		currNode.Files[file] = entry
	}
	return root
}

// WriteTree recursively writes tree objects to the object database and
// returns the SHA of the root tree.
func WriteTree(node *types.TreeNode) ([20]byte, error) {
	var entries []types.TreeEntry

	// Subtrees first (recursion)
	for name, child := range node.Dirs {
		sha, err := WriteTree(child)
		if err != nil {
			return [20]byte{}, err
		}
		entries = append(entries, types.TreeEntry{
			Mode: constants.ModeTree,
			Name: name,
			SHA:  sha,
			Type: types.TreeObject,
		})
	}

	// Files
	for name, ie := range node.Files {
		entries = append(entries, types.TreeEntry{
			Mode: ie.Mode,
			Name: name,
			SHA:  ie.SHA1,
			Type: types.BlobObject,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	var content bytes.Buffer

	// Tree content: repeated "<mode> <name>\0" + raw 20-byte SHA
	for _, e := range entries {
		fmt.Fprintf(&content, "%o %s\x00", e.Mode, e.Name)
		content.Write(e.SHA[:])
	}

	return WriteObject(types.TreeObject, content.Bytes())
}

// ReadTreeCurrentLevel reads one tree object and decodes its immediate
// entries, without recursing.
func ReadTreeCurrentLevel(shaHex string) ([]types.TreeEntry, error) {
	objType, content, err := ReadObject(shaHex)
	if err != nil {
		return nil, err
	}
	if objType != types.TreeObject {
		return nil, errors.Errorf("object %s is not a tree", shaHex)
	}

	entries := []types.TreeEntry{}
	i := 0
	for i < len(content) {
		// Find the NUL separating "<mode> <name>" from the SHA
		nullIdx := bytes.IndexByte(content[i:], 0)
		if nullIdx == -1 {
			return nil, errors.Errorf("corrupt tree object %s", shaHex)
		}

		header := string(content[i : i+nullIdx])
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid tree entry header %q", header)
		}

		mode, err := utils.ParseModeStr(parts[0])
		if err != nil {
			return nil, err
		}

		// Raw SHA is the next 20 bytes
		shaStart := i + nullIdx + 1
		shaEnd := shaStart + 20
		if shaEnd > len(content) {
			return nil, errors.Errorf("truncated tree object %s", shaHex)
		}
		var sha [20]byte
		copy(sha[:], content[shaStart:shaEnd])

		entryType := types.BlobObject
		if mode == constants.ModeTree {
			entryType = types.TreeObject
		}

		entries = append(entries, types.TreeEntry{
			Name: parts[1],
			Mode: mode,
			SHA:  sha,
			Type: entryType,
		})
		i = shaEnd
	}
	return entries, nil
}

// FlattenTree recursively walks a tree object and returns a flat map of
// path to entry. Both blobs and subtrees appear in the map; callers
// that want the index shape filter for blobs.
func FlattenTree(treeSHA [20]byte) (map[string]types.TreeEntry, error) {
	out := make(map[string]types.TreeEntry)
	err := flattenTreeRecur(treeSHA, "", out)
	return out, err
}

func flattenTreeRecur(treeSHA [20]byte, prefix string, out map[string]types.TreeEntry) error {
	entries, err := ReadTreeCurrentLevel(hex.EncodeToString(treeSHA[:]))
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}

		out[path] = types.TreeEntry{
			Name: path,
			Type: e.Type,
			SHA:  e.SHA,
			Mode: e.Mode,
		}

		if e.Type == types.TreeObject {
			if err := flattenTreeRecur(e.SHA, path, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadHEADTreeSHA returns the tree SHA pointed to by HEAD. If no
// commits exist yet, the second return is false.
func ReadHEADTreeSHA() ([20]byte, bool, error) {
	headInfo, err := ReadHEADInfo()
	if err != nil {
		return [20]byte{}, false, err
	}

	var commitSHA [20]byte
	if headInfo.Detached {
		commitSHA = headInfo.SHA
	} else {
		sha, exists := ReadBranchRef(headInfo.Branch)
		if !exists {
			return [20]byte{}, false, nil // no commits yet
		}
		commitSHA = sha
	}

	commit, err := ReadCommit(commitSHA)
	if err != nil {
		return [20]byte{}, false, err
	}
	return commit.TreeSHA, true, nil
}

// ResolveTreeish resolves a tree-ish string (commit-ish, HEAD^{tree},
// or a tree SHA) to the tree it names.
func ResolveTreeish(treeIsh string) ([20]byte, error) {

	// A commit-ish names its root tree.
	if commitSHA, err := ResolveCommitish(treeIsh); err == nil {
		commit, err := ReadCommit(commitSHA)
		if err != nil {
			return [20]byte{}, err
		}
		return commit.TreeSHA, nil
	}

	if treeIsh == "HEAD^{tree}" {
		treeSHA, ok, err := ReadHEADTreeSHA()
		if err != nil {
			return [20]byte{}, err
		}
		if !ok {
			return [20]byte{}, errors.New("no commits yet")
		}
		return treeSHA, nil
	}

	// Otherwise it must be a raw tree SHA.
	objType, _, err := ReadObject(treeIsh)
	if err != nil {
		return [20]byte{}, err
	}
	if objType != types.TreeObject {
		return [20]byte{}, errors.Errorf("object %s is not tree-ish", treeIsh)
	}

	shaBytes, err := hex.DecodeString(treeIsh)
	if err != nil {
		return [20]byte{}, errors.Wrapf(err, "decoding tree id %q", treeIsh)
	}
	var sha [20]byte
	copy(sha[:], shaBytes)
	return sha, nil
}
