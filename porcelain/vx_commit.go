package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/vexengine/VexEngine/plumbing"
)

// Invoked from main.go. CommitChanges handles the 'vex commit' command: it creates a commit from the current index and advances the current branch to point to it.
func CommitChanges(args []string) {

	if len(args) != 3 || args[1] != "-m" {
		fmt.Println("usage: vex commit -m <message>")
		os.Exit(1)
	}
	message := args[2]

	idx, err := plumbing.LoadIndex()
	if err != nil {
		fmt.Println("Error loading index:", err)
		os.Exit(1)
	}
	if idx.Len() == 0 {
		fmt.Println("Error: nothing to commit")
		os.Exit(1)
	}

	// Conflicted entries must be resolved before committing
	for _, ie := range idx.Entries() {
		if ie.Stage() != 0 {
			fmt.Printf("error: path '%s' is unmerged\n", ie.Filename)
			os.Exit(1)
		}
	}

	// Build and write the tree objects from the index
	root := plumbing.BuildTreeFromIndex(idx.Entries())
	treeSHA, err := plumbing.WriteTree(root)
	if err != nil {
		fmt.Println("Error writing tree object:", err)
		os.Exit(1)
	}

	// Parent commit, if any
	parentsSHA := [][20]byte{}
	if parentSHA, err := plumbing.ResolveCommitish("HEAD"); err == nil {
		parentsSHA = append(parentsSHA, parentSHA)
	}

	author, err := getAuthorInfo()
	if err != nil {
		fmt.Println("Error fetching author info from .git/config:", err)
		os.Exit(1)
	}

	commitSHA, err := plumbing.WriteCommit(treeSHA, parentsSHA, author, message)
	if err != nil {
		fmt.Println("Error writing commit object:", err)
		os.Exit(1)
	}

	// Advance the current branch (or HEAD itself when detached)
	headInfo, err := plumbing.ReadHEADInfo()
	if err != nil {
		fmt.Println("Error reading .git/HEAD:", err)
		os.Exit(1)
	}
	if headInfo.Detached {
		err = plumbing.UpdateHEADDetached(commitSHA)
	} else {
		err = plumbing.UpdateBranch(headInfo.Branch, commitSHA)
	}
	if err != nil {
		fmt.Println("Error updating ref:", err)
		os.Exit(1)
	}

	commitHex := hex.EncodeToString(commitSHA[:])
	fmt.Printf("[%s] %s\n", commitHex[:7], strings.Split(message, "\n")[0])
}
