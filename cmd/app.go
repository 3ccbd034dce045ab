package main

import (
	"fmt"
	"os"

	"github.com/vexengine/VexEngine/porcelain"
)

// Entry point of the application - Check for all commands.
func main() {

	// When you create a build, the first argument is always the name of the executable.
	if len(os.Args) == 1 {
		fmt.Printf("vex: command cannot be empty. See 'vex help' for available commands.\n")
		fmt.Println("usage: vex <command> [<args>]")
		os.Exit(0)
	}

	switch os.Args[1] {
	case "init":
		// Initialize a new repository
		porcelain.InitRepo(os.Args[1:])
	case "add":
		// Add files to the staging area / index
		porcelain.AddFiles(os.Args[1:])
	case "rm":
		// Remove files from the index (and optionally the worktree)
		porcelain.RemoveFiles(os.Args[1:])
	case "status":
		// Show the working tree status
		porcelain.ShowStatus(os.Args[1:])
	case "diff":
		// Show content changes between the index and the working tree
		porcelain.ShowDiff(os.Args[1:])
	case "commit":
		// Commit changes to the repository
		porcelain.CommitChanges(os.Args[1:])
	case "checkout":
		// Switch branches or restore working tree files
		porcelain.CheckoutCommit(os.Args[1:])
	case "config":
		// Get or set keys in .git/config
		porcelain.GetOrSetConfig(os.Args[1:])
	case "cat-file":
		// Show type, size and content for repository objects
		porcelain.CatFileRepoObject(os.Args[1:])
	case "hash-object":
		// Compute object id from a file
		porcelain.HashAndWriteObject(os.Args[1:])
	case "update-index":
		// Register file contents in the working tree to the index
		porcelain.RegisterFileAndUpdateIndex(os.Args[1:])
	case "ls-files":
		// Show staged paths and their index metadata
		porcelain.ListFiles(os.Args[1:])
	case "write-tree":
		// Create a tree object from the current index
		porcelain.WriteTreeFromIndex(os.Args[1:])
	case "ls-tree":
		// List the contents of a tree object
		porcelain.LSTree(os.Args[1:])
	case "read-tree":
		// Read tree information into the index
		porcelain.ReadTreeToIndex(os.Args[1:])
	default:
		// Command not found
		fmt.Printf("vex: '%s' is not a vex command. See 'vex help' for available commands.\n", os.Args[1])
		fmt.Println("usage: vex <command> [<args>]")
	}
}
