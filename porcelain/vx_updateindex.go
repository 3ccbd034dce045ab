package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. RegisterFileAndUpdateIndex handles the 'vex update-index' command to register file contents in the working tree to the index.
func RegisterFileAndUpdateIndex(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("update-index",
		"Register file contents in the working tree to the index using mode, object sha, and file path. With --stage the entry is recorded at a merge conflict stage (1-3).",
		"vex update-index --cacheinfo <mode> <object> <file>")
	cacheInfo := fls.Bool("cacheinfo", false, "Directly insert the specified <mode>, <object> and <file> into the index.")
	stage := fls.Int("stage", 0, "Merge stage for the entry: 0 (normal) or 1-3 (conflict sides).")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()
	if !*cacheInfo || len(pos) != 3 {
		fmt.Println("usage: vex update-index --cacheinfo <mode> <object> <file>")
		os.Exit(1)
	}
	if *stage < 0 || *stage > 3 {
		fmt.Println("error: stage must be between 0 and 3")
		os.Exit(1)
	}

	mode, shaHex, fp := pos[0], pos[1], pos[2]
	if len(shaHex) != 40 {
		fmt.Println("error: invalid object id")
		os.Exit(1)
	}

	sha, err := hex.DecodeString(shaHex)
	if err != nil {
		fmt.Println("error: invalid object id")
		os.Exit(1)
	}

	uint32Mode, err := utils.ParseModeStr(mode)
	if err != nil {
		fmt.Println("Error parsing mode string:", err)
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}

	// Replace or insert: Add overwrites an existing (path, stage)
	// wholesale, which is exactly the cacheinfo semantics.
	ie := types.IndexEntry{
		SHA1:     [20]byte(sha),
		Mode:     uint32Mode,
		Filename: filepath.ToSlash(filepath.Clean(fp)),
	}
	ie.SetStage(*stage)
	idx.Add(ie)

	if err := idx.StoreDefault(); err != nil {
		fmt.Println("Error updating index:", err)
		os.Exit(1)
	}
}
