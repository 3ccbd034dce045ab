package porcelain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. LSTree handles the 'vex ls-tree' command to list the contents of a tree object.
func LSTree(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("ls-tree",
		"Lists the contents of a given tree-ish object (commit or tree).",
		"vex ls-tree [-d] [-r] [-t] <tree-ish>")
	d := fls.Bool("d", false, "Show only the named tree entry itself, not its children.")
	r := fls.Bool("r", false, "Recurse into sub-trees.")
	t := fls.Bool("t", false, "Show tree entries even when going to recurse them. Has no effect if -r was not passed. -d implies -t.")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()
	if len(pos) != 1 {
		fmt.Println("usage: vex ls-tree [-d] [-r] [-t] <tree-ish>")
		os.Exit(1)
	}

	treeSHA, err := plumbing.ResolveTreeish(pos[0])
	if err != nil {
		fmt.Printf("Error resolving tree object %s: %s\n", pos[0], err)
		os.Exit(1)
	}

	// Flatten once, then filter per the flags
	treeEntries, err := plumbing.FlattenTree(treeSHA)
	if err != nil {
		fmt.Printf("Error flattening tree object %s: %s\n", pos[0], err)
		os.Exit(1)
	}

	resultEntries := []types.TreeEntry{}
	for path, te := range treeEntries {
		topLevel := filepath.Base(path) == path

		switch {
		case *r && *d:
			// Only trees, recursively
			if te.Type == types.TreeObject {
				resultEntries = append(resultEntries, te)
			}
		case *r && *t:
			// Everything, recursively, trees included
			resultEntries = append(resultEntries, te)
		case *r:
			// Everything recursively except trees
			if te.Type != types.TreeObject {
				resultEntries = append(resultEntries, te)
			}
		case *d:
			// Trees at the current level only
			if te.Type == types.TreeObject && topLevel {
				resultEntries = append(resultEntries, te)
			}
		default:
			// Current level only
			if topLevel {
				resultEntries = append(resultEntries, te)
			}
		}
	}

	sort.Slice(resultEntries, func(i, j int) bool {
		return resultEntries[i].Name < resultEntries[j].Name
	})

	for _, e := range resultEntries {
		fmt.Printf("%06o %s %x\t%s\n", e.Mode, e.Type, e.SHA, e.Name)
	}
}
