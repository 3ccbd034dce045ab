package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. ShowDiff handles the 'vex diff' command: content differences between the staged blobs and the working tree.
func ShowDiff(args []string) {

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}

	// With paths given, diff only those; otherwise every staged file
	targets := map[string]bool{}
	for _, path := range args[1:] {
		targets[filepath.ToSlash(filepath.Clean(path))] = true
	}

	dmp := diffmatchpatch.New()
	header := color.New(color.Bold)

	for _, ie := range idx.Entries() {
		if ie.Stage() != 0 {
			continue
		}
		if len(targets) > 0 && !targets[ie.Filename] {
			continue
		}

		// Staged side comes from the object database
		objType, stagedContent, err := plumbing.ReadObject(hex.EncodeToString(ie.SHA1[:]))
		if err != nil || objType != types.BlobObject {
			fmt.Println("Error reading staged blob for", ie.Filename)
			continue
		}

		// Working side comes from disk; a missing file diffs as empty
		workContent, err := os.ReadFile(ie.Filename)
		if err != nil && !os.IsNotExist(err) {
			fmt.Println("Error reading file:", err)
			continue
		}

		diffs := dmp.DiffMain(string(stagedContent), string(workContent), false)
		if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
			continue // unchanged
		}

		header.Printf("diff --vex a/%s b/%s\n", ie.Filename, ie.Filename)
		fmt.Print(dmp.DiffPrettyText(diffs))
		fmt.Println()
	}
}
