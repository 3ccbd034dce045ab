package porcelain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/constants"
)

// Invoked from main.go. InitRepo handles the 'vex init' command to initialize a new repository.
func InitRepo(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("init",
		"This command creates an empty repository or reinitializes it - a .git directory with subdirectories for objects, refs/heads, refs/tags, plus HEAD and config files. An initial branch without any commits will be created.",
		"vex init [<directory>]")
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()

	var repoPath string

	// Determine repository path
	switch len(pos) {
	case 0:
		repoPath = "."
	case 1:
		repoPath = pos[0]
		if err := os.MkdirAll(repoPath, constants.DefaultDirPerm); err != nil {
			fmt.Println("Error creating directory:", err)
			os.Exit(1)
		}
	default:
		fmt.Println("usage: vex init [<directory>]")
		os.Exit(1)
	}

	// Resolve absolute path BEFORE chdir
	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		fmt.Println("Error resolving path:", err)
		os.Exit(1)
	}

	if err := os.Chdir(absRepoPath); err != nil {
		fmt.Println("Error changing directory:", err)
		os.Exit(1)
	}

	// Check whether .git already exists
	reinitialize := false
	if _, err := os.Stat(".git"); err == nil {
		reinitialize = true
	}

	if err := createGitDirs(); err != nil {
		fmt.Println("Error initializing repository:", err)
		os.Exit(1)
	}

	gitDirPath := filepath.Join(absRepoPath, ".git")
	if reinitialize {
		fmt.Printf("Reinitialized existing repository in %s\n", gitDirPath)
	} else {
		fmt.Printf("Initialized empty repository in %s\n", gitDirPath)
	}
}

// createGitDirs initializes a fresh .git directory structure. It assumes
// the repository directory already exists and is the current working directory.
func createGitDirs() error {

	for _, path := range constants.Dir_paths {
		if err := os.MkdirAll(path, constants.DefaultDirPerm); err != nil {
			return err
		}
	}

	// HEAD points at the default branch
	if err := os.WriteFile(".git/HEAD", []byte(constants.Head), constants.DefaultFilePerm); err != nil {
		return err
	}

	// Default config
	return os.WriteFile(".git/config", []byte(constants.Config), constants.DefaultFilePerm)
}
