package porcelain

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils/types"
)

// addOrUpdatePath stages path into idx, skipping the content hash when
// the stat metadata says the staged entry is already current.
func addOrUpdatePath(path string, idx *plumbing.Index, workingSet map[string]bool, trackWorkingSet bool) {

	fresh, err := plumbing.StatEntry(path)
	if err != nil {
		return
	}
	if trackWorkingSet {
		workingSet[fresh.Filename] = true
	}

	// Unchanged metadata on a stage-0 entry means nothing to do
	if existing, tracked := idx.Get(fresh.Filename, 0); tracked {
		if plumbing.MetadataMatches(&existing, &fresh) {
			return
		}
	}

	// Hash the content into the object database
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Error reading file:", err)
		return
	}
	hash, err := plumbing.WriteObject(types.BlobObject, data)
	if err != nil {
		fmt.Println("Error hashing file object:", err)
		return
	}
	fresh.SHA1 = hash

	// Staging a path resolves it: drop any lingering conflict stages
	idx.RemoveAll(fresh.Filename)
	idx.Add(fresh)
}

// Invoked from main.go. AddFiles handles the 'vex add' command to add files to the staging area.
func AddFiles(args []string) {

	if len(args) < 2 {
		fmt.Println("usage: vex add . | <file> [<file> ...]")
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}

	// Keep track of files in the working directory if '.' is specified
	workingSet := map[string]bool{}
	isAddAll := slices.Contains(args[1:], ".")

	if isAddAll {
		_ = filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				fmt.Println("Error accessing path:", err)
				return nil
			}
			if path == "." {
				return nil
			}

			// Never walk into the repository metadata
			if d.IsDir() && d.Name() == ".git" {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}

			addOrUpdatePath(path, idx, workingSet, true)
			return nil
		})

		// 'add .' also stages deletions: entries gone from the working set
		for path := range idx.ToMap() {
			if !workingSet[path] {
				idx.RemoveAll(path)
			}
		}
	} else {
		for _, path := range args[1:] {
			addOrUpdatePath(filepath.ToSlash(filepath.Clean(path)), idx, workingSet, false)
		}
	}

	if err := idx.StoreDefault(); err != nil {
		fmt.Println("Error writing to .git/index file:", err)
		os.Exit(1)
	}
}
