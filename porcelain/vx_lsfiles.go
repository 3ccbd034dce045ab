package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
)

// Invoked from main.go. ListFiles handles the 'vex ls-files' command: the staged paths, in index order.
func ListFiles(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("ls-files",
		"Show information about files in the index. With --stage, show the staged mode, object id and merge stage alongside each path.",
		"vex ls-files [--stage]")
	showStage := fls.Bool("stage", false, "Show staged contents' mode, object name and stage number.")

	// Parse flags from args
	fls.Parse(args[1:])

	if len(fls.Args()) != 0 {
		fmt.Println("usage: vex ls-files [--stage]")
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}

	for _, ie := range idx.Entries() {
		if *showStage {
			fmt.Printf("%06o %s %d\t%s\n", ie.Mode, hex.EncodeToString(ie.SHA1[:]), ie.Stage(), ie.Filename)
		} else {
			fmt.Println(ie.Filename)
		}
	}
}
