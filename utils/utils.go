package utils

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// Utility function to create a new flag set, Will be used once per command.
func CreateCommandFlagSet(name, desc, usage string) *flag.FlagSet {
	// Define flagset
	fls := flag.NewFlagSet(name, flag.ExitOnError)
	fls.Usage = func() {
		bold := color.New(color.Bold)
		bold.Fprintf(os.Stderr, "\nDescription:\n\n")
		fmt.Fprintf(os.Stderr, "\t%s\n\n", desc)
		bold.Fprint(os.Stderr, "Usage: ")
		color.New(color.Bold, color.FgGreen).Fprintf(os.Stderr, "%s\n\n", usage)
		fls.PrintDefaults()
	}
	return fls
}

// Sort based on keys
func SortedKeys(m map[string]types.StatusType) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseModeStr parses an octal mode string ("100644", "100755", "120000",
// "40000") into its numeric form, rejecting modes the index cannot hold.
func ParseModeStr(mode string) (uint32, error) {
	parsed, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid mode %q", mode)
	}

	switch uint32(parsed) {
	case constants.ModeFile, constants.ModeExecutable, constants.ModeSymlink, constants.ModeTree:
		return uint32(parsed), nil
	default:
		return 0, errors.Errorf("unsupported mode %q", mode)
	}
}
