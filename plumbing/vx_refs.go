package plumbing

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

// ReadHEADInfo reads .git/HEAD and determines whether HEAD is detached.
func ReadHEADInfo() (*types.HeadInfo, error) {
	data, err := os.ReadFile(filepath.Join(".git", "HEAD"))
	if err != nil {
		return nil, errors.Wrap(err, "reading HEAD")
	}

	// Symbolic ref
	line := strings.TrimSpace(string(data))
	if strings.HasPrefix(line, "ref: refs/heads/") {
		return &types.HeadInfo{
			Branch:   strings.TrimPrefix(line, "ref: refs/heads/"),
			Detached: false,
		}, nil
	}

	// Detached HEAD
	shaBytes, err := hex.DecodeString(line)
	if err != nil || len(shaBytes) != 20 {
		return nil, errors.New("invalid HEAD contents")
	}

	var sha [20]byte
	copy(sha[:], shaBytes)
	return &types.HeadInfo{
		SHA:      sha,
		Detached: true,
	}, nil
}

// ReadBranchRef reads a branch ref (e.g. master). The second return is
// false if the branch does not exist yet.
func ReadBranchRef(branch string) ([20]byte, bool) {
	data, err := os.ReadFile(filepath.Join(".git", "refs", "heads", branch))
	if err != nil {
		return [20]byte{}, false
	}

	line := strings.TrimSpace(string(data))
	shaBytes, err := hex.DecodeString(line)
	if err != nil || len(shaBytes) != 20 {
		return [20]byte{}, false
	}

	var sha [20]byte
	copy(sha[:], shaBytes)
	return sha, true
}

// UpdateBranch updates a branch ref to point to the given SHA. This is
// used during commit when HEAD is not detached.
func UpdateBranch(branch string, sha [20]byte) error {
	refPath := filepath.Join(".git", "refs", "heads", branch)

	if err := os.MkdirAll(filepath.Dir(refPath), constants.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating refs directory")
	}

	return os.WriteFile(
		refPath,
		[]byte(fmt.Sprintf("%x\n", sha)),
		constants.DefaultFilePerm,
	)
}

// CreateBranchRef creates a new branch under .git/refs/heads/<name>
// pointing to the given commit SHA. It fails if the branch already exists.
func CreateBranchRef(branch string, sha [20]byte) error {
	if _, exists := ReadBranchRef(branch); exists {
		return errors.Errorf("a branch named %q already exists", branch)
	}

	refPath := filepath.Join(".git", "refs", "heads", branch)
	if err := os.MkdirAll(filepath.Dir(refPath), constants.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating refs directory")
	}

	hexSHA := hex.EncodeToString(sha[:]) + "\n"
	return os.WriteFile(refPath, []byte(hexSHA), constants.DefaultFilePerm)
}

// UpdateHEADDetached moves HEAD directly to a commit SHA. Used ONLY
// when HEAD is detached.
func UpdateHEADDetached(sha [20]byte) error {
	return os.WriteFile(
		filepath.Join(".git", "HEAD"),
		[]byte(fmt.Sprintf("%x\n", sha)),
		constants.DefaultFilePerm,
	)
}
