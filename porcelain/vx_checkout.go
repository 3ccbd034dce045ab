package porcelain

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vexengine/VexEngine/plumbing"
	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/constants"
)

// Invoked from main.go. CheckoutCommit handles the 'vex checkout' command to switch branches or restore working tree files.
func CheckoutCommit(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("checkout",
		"Switch branches with 'vex checkout <branch>', detach onto a commit with 'vex checkout <commit-ish>', or restore staged file versions with 'vex checkout <commit-ish> <path>...'.",
		"vex checkout [-b <new-branch>] <commit-ish> [<path> ...]")
	b := fls.String("b", "", "Create a new branch named <new-branch> starting at <commit-ish> (defaults to HEAD) and check it out.")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()

	switch {
	case *b != "":
		startPoint := "HEAD"
		switch len(pos) {
		case 0:
		case 1:
			startPoint = pos[0]
		default:
			fmt.Println("usage: vex checkout [-b <new-branch>] <commit-ish> [<path> ...]")
			os.Exit(1)
		}

		commitSHA, err := plumbing.ResolveCommitish(startPoint)
		if err != nil {
			fmt.Printf("Error resolving commit-ish '%s': %s\n", startPoint, err)
			os.Exit(1)
		}

		if err := plumbing.CreateBranchRef(*b, commitSHA); err != nil {
			fmt.Println("Error creating branch:", err)
			os.Exit(1)
		}

		commit, err := plumbing.ReadCommit(commitSHA)
		if err != nil {
			fmt.Println("Error reading commit:", err)
			os.Exit(1)
		}

		headContent := "ref: refs/heads/" + *b + "\n"
		if err := plumbing.CheckoutToTreeSHA(commit.TreeSHA, headContent); err != nil {
			fmt.Println("Error checking out tree:", err)
			os.Exit(1)
		}
		fmt.Printf("Switched to a new branch '%s'\n", *b)

	case len(pos) == 1:
		commitIsh := pos[0]

		// A branch name keeps HEAD symbolic; anything else detaches it
		var commitSHA [20]byte
		branchSHA, isBranch := plumbing.ReadBranchRef(commitIsh)
		if isBranch {
			commitSHA = branchSHA
		} else {
			sha, err := plumbing.ResolveCommitish(commitIsh)
			if err != nil {
				fmt.Println("Error resolving commit-ish:", err)
				os.Exit(1)
			}
			commitSHA = sha
		}

		commit, err := plumbing.ReadCommit(commitSHA)
		if err != nil {
			fmt.Println("Error reading commit:", err)
			os.Exit(1)
		}

		headContent := hex.EncodeToString(commitSHA[:]) + "\n"
		if isBranch {
			headContent = "ref: refs/heads/" + commitIsh + "\n"
		}

		if err := plumbing.CheckoutToTreeSHA(commit.TreeSHA, headContent); err != nil {
			fmt.Println("Error checking out tree:", err)
			os.Exit(1)
		}
		if isBranch {
			fmt.Printf("Switched to branch '%s'\n", commitIsh)
		} else {
			fmt.Printf("HEAD is now at %s\n", hex.EncodeToString(commitSHA[:])[:7])
		}

	case len(pos) >= 2:
		// Restore individual paths from a commit without moving HEAD
		commitSHA, err := plumbing.ResolveCommitish(pos[0])
		if err != nil {
			fmt.Println("Error resolving commit-ish:", err)
			os.Exit(1)
		}
		commit, err := plumbing.ReadCommit(commitSHA)
		if err != nil {
			fmt.Println("Error reading commit:", err)
			os.Exit(1)
		}
		treeEntries, err := plumbing.FlattenTree(commit.TreeSHA)
		if err != nil {
			fmt.Println("Error reading commit tree:", err)
			os.Exit(1)
		}

		idx, err := plumbing.LoadIndex()
		if err != nil {
			fmt.Println("Error loading index:", err)
			os.Exit(1)
		}

		for _, fPath := range pos[1:] {
			cleanPath := filepath.ToSlash(filepath.Clean(fPath))

			te, inTree := treeEntries[cleanPath]
			if !inTree {
				// Not in the commit: drop from index and worktree
				idx.RemoveAll(cleanPath)
				if err := os.Remove(cleanPath); err != nil && !os.IsNotExist(err) {
					fmt.Printf("Error deleting %s from worktree: %s\n", cleanPath, err)
					os.Exit(1)
				}
				continue
			}

			_, content, err := plumbing.ReadObject(hex.EncodeToString(te.SHA[:]))
			if err != nil {
				fmt.Printf("Error reading blob for '%s': %s\n", cleanPath, err)
				os.Exit(1)
			}

			if err := os.MkdirAll(filepath.Dir(cleanPath), constants.DefaultDirPerm); err != nil {
				fmt.Println("Error creating directories:", err)
				os.Exit(1)
			}
			if err := os.WriteFile(cleanPath, content, constants.DefaultFilePerm); err != nil {
				fmt.Printf("Error writing to file '%s': %s\n", cleanPath, err)
				os.Exit(1)
			}

			ie, err := plumbing.NewEntryFromStat(cleanPath, te.SHA)
			if err != nil {
				fmt.Println("Error staging restored file:", err)
				os.Exit(1)
			}
			ie.Mode = te.Mode
			idx.RemoveAll(cleanPath)
			idx.Add(ie)
		}

		if err := idx.StoreDefault(); err != nil {
			fmt.Println("Error updating index:", err)
			os.Exit(1)
		}

	default:
		fmt.Println("usage: vex checkout [-b <new-branch>] <commit-ish> [<path> ...]")
		os.Exit(1)
	}
}
