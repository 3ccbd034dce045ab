package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. CatFileRepoObject handles the 'vex cat-file' command to display the type, size or content of a repository object.
func CatFileRepoObject(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("cat-file",
		"Output the contents or other properties such as size or type of one repository object.",
		"vex cat-file (-p | -t | -s) <object>")
	pp := fls.Bool("p", false, "Pretty-print the contents of <object> based on its type.")
	size := fls.Bool("s", false, "Instead of the content, show the object size identified by <object>.")
	ty := fls.Bool("t", false, "Instead of the content, show the object type identified by <object>.")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()

	// Exactly one of -p, -t, -s
	flagsSet := 0
	for _, set := range []bool{*pp, *size, *ty} {
		if set {
			flagsSet++
		}
	}
	if len(pos) != 1 || flagsSet != 1 {
		fmt.Println("usage: vex cat-file (-p | -t | -s) <object>")
		os.Exit(1)
	}

	// Resolve commit-ish first, then tree-ish, then fall back to the raw id
	shaHex := pos[0]
	if sha, err := plumbing.ResolveCommitish(pos[0]); err == nil {
		shaHex = hex.EncodeToString(sha[:])
	} else if sha, err := plumbing.ResolveTreeish(pos[0]); err == nil {
		shaHex = hex.EncodeToString(sha[:])
	}

	objType, content, err := plumbing.ReadObject(shaHex)
	if err != nil {
		fmt.Println("fatal: not a valid object name:", pos[0])
		os.Exit(1)
	}

	switch {
	case *size:
		fmt.Println(len(content))
	case *ty:
		fmt.Println(objType)
	case *pp:
		if objType != types.TreeObject {
			fmt.Print(string(content))
			return
		}
		// Trees are binary; pretty-print entry per line
		entries, err := plumbing.ReadTreeCurrentLevel(shaHex)
		if err != nil {
			fmt.Println("Error reading tree:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%06o %s %s\t%s\n", e.Mode, e.Type, hex.EncodeToString(e.SHA[:]), e.Name)
		}
	}
}
