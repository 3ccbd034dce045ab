package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
)

// Invoked from main.go. WriteTreeFromIndex handles the 'vex write-tree' command to create a tree object from the current index.
func WriteTreeFromIndex(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("write-tree",
		"Creates a tree object using the current index. The name of the new tree object is printed to standard output.",
		"vex write-tree")

	// Parse flags from args
	fls.Parse(args[1:])

	if len(fls.Args()) != 0 {
		fmt.Println("usage: vex write-tree")
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading .git/index:", err)
		os.Exit(1)
	}
	if idx.Len() == 0 {
		fmt.Println("Error: index should not be empty")
		os.Exit(1)
	}

	treeNode := plumbing.BuildTreeFromIndex(idx.Entries())
	treeSHA, err := plumbing.WriteTree(treeNode)
	if err != nil {
		fmt.Println("Error writing tree:", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(treeSHA[:]))
}
