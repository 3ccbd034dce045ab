package porcelain

import (
	"fmt"
	"os"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. ReadTreeToIndex handles the 'vex read-tree' command to read a tree-ish object into the index.
func ReadTreeToIndex(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("read-tree",
		"Reads the tree information given by <tree-ish> into the index, but does not actually update any of the files it 'caches'.",
		"vex read-tree <tree-ish>")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()
	if len(pos) != 1 {
		fmt.Println("usage: vex read-tree <tree-ish>")
		os.Exit(1)
	}

	treeSHA, err := plumbing.ResolveTreeish(pos[0])
	if err != nil {
		fmt.Printf("Error resolving tree-ish object %s: %s\n", pos[0], err)
		os.Exit(1)
	}

	treeEntries, err := plumbing.FlattenTree(treeSHA)
	if err != nil {
		fmt.Println("Error fetching tree contents:", err)
		os.Exit(1)
	}

	// The tree replaces the index wholesale. Entries carry no stat data
	// (read-tree touches nothing on disk), so status will rehash them.
	idx := plumbing.NewIndex()
	for _, te := range treeEntries {
		if te.Type != types.BlobObject {
			continue
		}
		idx.Add(types.IndexEntry{
			Filename: te.Name,
			SHA1:     te.SHA,
			Mode:     te.Mode,
		})
	}

	if err := idx.StoreDefault(); err != nil {
		fmt.Println("Error updating index:", err)
		os.Exit(1)
	}
}
