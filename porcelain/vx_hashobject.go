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

// Invoked from main.go. HashAndWriteObject computes the object id for the contents of the named file, optionally writing the object into the object database.
func HashAndWriteObject(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("hash-object",
		"Computes the object ID value for an object with specified type with the contents of the named file, and optionally writes the resulting object into the object database.",
		"vex hash-object [-w] [-t <type>] <file>")
	objType := fls.String("t", "blob", "Specify the type of object to be created (default: \"blob\"). Possible values are commit, tree, blob.")
	write := fls.Bool("w", false, "Actually write the object into the object database.")

	// Parse flags from args
	fls.Parse(args[1:])

	rest := fls.Args()
	if len(rest) != 1 {
		fmt.Println("usage: vex hash-object [-w] [-t <type>] <file>")
		os.Exit(1)
	}

	cleanPath := filepath.ToSlash(filepath.Clean(rest[0]))
	switch types.ObjectType(*objType) {
	case types.BlobObject, types.TreeObject, types.CommitObject:
	default:
		fmt.Printf("Error: unsupported object type: %s\n", *objType)
		os.Exit(1)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		fmt.Println("Error reading file:", err)
		os.Exit(1)
	}

	var sha [20]byte
	if *write {
		sha, err = plumbing.WriteObject(types.ObjectType(*objType), data)
		if err != nil {
			fmt.Println("Error writing object:", err)
			os.Exit(1)
		}
	} else {
		sha = plumbing.HashObject(types.ObjectType(*objType), data)
	}

	fmt.Println(hex.EncodeToString(sha[:]))
}
