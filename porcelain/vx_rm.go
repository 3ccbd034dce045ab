package porcelain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
)

// Invoked from main.go. RemoveFiles handles the 'vex rm' command to unstage files, optionally leaving the working copy in place.
func RemoveFiles(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("rm",
		"Remove files from the index, and optionally from the working tree. With --cached the working copy is left untouched and only the staged entry is dropped.",
		"vex rm [--cached] <file> [<file> ...]")
	cached := fls.Bool("cached", false, "Unstage only; keep the file in the working tree.")

	// Parse flags from args
	fls.Parse(args[1:])

	pos := fls.Args()
	if len(pos) == 0 {
		fmt.Println("usage: vex rm [--cached] <file> [<file> ...]")
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}

	for _, path := range pos {
		cleanPath := filepath.ToSlash(filepath.Clean(path))

		if !idx.RemoveAll(cleanPath) {
			fmt.Printf("fatal: pathspec '%s' did not match any staged files\n", path)
			os.Exit(1)
		}

		if !*cached {
			if err := os.Remove(cleanPath); err != nil && !os.IsNotExist(err) {
				fmt.Println("Error removing file:", err)
				os.Exit(1)
			}
		}
		fmt.Printf("rm '%s'\n", cleanPath)
	}

	if err := idx.StoreDefault(); err != nil {
		fmt.Println("Error writing to .git/index file:", err)
		os.Exit(1)
	}
}
