package porcelain

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. ShowStatus handles the 'vex status' command to show the working tree status.
func ShowStatus(args []string) {

	if len(args) != 1 {
		fmt.Println("usage: vex status")
		os.Exit(1)
	}

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}
	indexMap := idx.ToMap()

	// Conflicted paths carry stage 1-3 entries
	unmergedSet := map[string]bool{}
	for _, ie := range idx.Entries() {
		if ie.Stage() != 0 {
			unmergedSet[ie.Filename] = true
		}
	}

	workingSet := map[string]bool{}
	staged, untracked := []string{}, []string{}
	unstaged := map[string]types.StatusType{}

	// Walk the working directory to find all files
	_ = filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Println("Error accessing path:", err)
			return nil
		}
		if path == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}

		fresh, err := plumbing.StatEntry(path)
		if err != nil {
			return nil
		}
		workingSet[fresh.Filename] = true

		if unmergedSet[fresh.Filename] {
			return nil // reported separately
		}

		existing, isTracked := indexMap[fresh.Filename]
		switch {
		case !isTracked:
			untracked = append(untracked, fresh.Filename)
		case plumbing.MetadataMatches(&existing, &fresh):
			staged = append(staged, fresh.Filename)
		default:
			unstaged[fresh.Filename] = types.ModifiedStatus
		}
		return nil
	})

	// Staged entries missing from the working set are deletions
	for filename := range indexMap {
		if !workingSet[filename] && !unmergedSet[filename] {
			unstaged[filename] = types.DeletedStatus
		}
	}

	unmerged := make([]string, 0, len(unmergedSet))
	for filename := range unmergedSet {
		unmerged = append(unmerged, filename)
	}

	// Sort the lists for consistent output
	sort.Strings(staged)
	sort.Strings(untracked)
	sort.Strings(unmerged)

	branch := "master"
	if headInfo, err := plumbing.ReadHEADInfo(); err == nil && !headInfo.Detached {
		branch = headInfo.Branch
	}
	fmt.Printf("On branch %s\n", branch)

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if len(staged) > 0 {
		fmt.Println("\nChanges to be committed:")
		for _, f := range staged {
			green.Printf("\tstaged:     %s\n", f)
		}
	}
	if len(unmerged) > 0 {
		fmt.Println("\nUnmerged paths:")
		for _, f := range unmerged {
			red.Printf("\tboth modified:  %s\n", f)
		}
	}
	if len(unstaged) > 0 {
		fmt.Println("\nChanges not staged for commit:")
		for _, f := range utils.SortedKeys(unstaged) {
			if unstaged[f] == types.DeletedStatus {
				red.Printf("\tdeleted:    %s\n", f)
			} else {
				red.Printf("\tmodified:   %s\n", f)
			}
		}
	}
	if len(untracked) > 0 {
		fmt.Println("\nUntracked files:")
		for _, f := range untracked {
			red.Printf("\t%s\n", f)
		}
	}
}
