package plumbing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vexengine/VexEngine/utils/types"
)

// WriteCommit creates a commit object, writes it to the object
// database, and returns the commit SHA.
func WriteCommit(treeSHA [20]byte, parentsSHA [][20]byte, author types.Author, message string) ([20]byte, error) {
	var content bytes.Buffer

	// Tree line: "tree <sha_hex>\n"
	content.WriteString("tree ")
	content.WriteString(hex.EncodeToString(treeSHA[:]))
	content.WriteByte('\n')

	// One parent line per parent (merges have several)
	for _, parentSHA := range parentsSHA {
		content.WriteString("parent ")
		content.WriteString(hex.EncodeToString(parentSHA[:]))
		content.WriteByte('\n')
	}

	// Timestamp with timezone, git style: "<unix> +hhmm"
	now := time.Now()
	_, offset := now.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	tz := fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60)

	fmt.Fprintf(&content, "author %s <%s> %d %s\n", author.Name, author.Email, now.Unix(), tz)
	fmt.Fprintf(&content, "committer %s <%s> %d %s\n", author.Name, author.Email, now.Unix(), tz)

	// Blank line, then the message (must end with a newline)
	content.WriteByte('\n')
	content.WriteString(message)
	content.WriteByte('\n')

	return WriteObject(types.CommitObject, content.Bytes())
}

// ReadCommit reads and parses a commit object from the object database.
func ReadCommit(sha [20]byte) (*types.CommitNode, error) {
	objType, data, err := ReadObject(hex.EncodeToString(sha[:]))
	if err != nil {
		return nil, err
	}
	if objType != types.CommitObject {
		return nil, errors.Errorf("object %x is not a commit", sha)
	}

	lines := strings.Split(string(data), "\n")
	var c types.CommitNode
	i := 0

	// Headers end at the first blank line
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}

		switch {
		case strings.HasPrefix(line, "tree "):
			hash, _ := hex.DecodeString(line[5:])
			copy(c.TreeSHA[:], hash)

		case strings.HasPrefix(line, "parent "):
			hash, _ := hex.DecodeString(line[7:])
			var p [20]byte
			copy(p[:], hash)
			c.ParentsSHA = append(c.ParentsSHA, p)

		case strings.HasPrefix(line, "author "):
			// "author Name <email> <unix> <tz>"
			open := strings.IndexByte(line, '<')
			end := strings.IndexByte(line, '>')
			if open > 7 && end > open {
				c.Author = types.Author{
					Name:  strings.TrimSpace(line[7:open]),
					Email: line[open+1 : end],
				}
			}

		case strings.HasPrefix(line, "committer "):
			c.Committer = line[10:]
		}
	}

	// Remaining lines are the commit message
	c.Message = strings.Join(lines[i:], "\n")
	return &c, nil
}

// ResolveCommitish resolves a commit-ish string (HEAD, a branch name,
// a commit SHA, optionally followed by ^/~ ancestry suffixes) to the
// commit it names.
func ResolveCommitish(commitIsh string) ([20]byte, error) {

	var resultSHA [20]byte

	// Split "<base>[(^~)<suffix>]..." at the first suffix operator
	base := commitIsh
	idx := strings.IndexAny(commitIsh, "^~")
	if idx == -1 {
		idx = len(commitIsh)
	} else {
		base = commitIsh[:idx]
	}

	switch {
	case base == "HEAD":
		headInfo, err := ReadHEADInfo()
		if err != nil {
			return [20]byte{}, err
		}
		if headInfo.Detached {
			resultSHA = headInfo.SHA
		} else {
			sha, exists := ReadBranchRef(headInfo.Branch)
			if !exists {
				return [20]byte{}, errors.Errorf("branch %q has no commits", headInfo.Branch)
			}
			resultSHA = sha
		}

	default:
		// A branch name, or failing that a raw commit SHA
		if sha, exists := ReadBranchRef(base); exists {
			resultSHA = sha
			break
		}
		objType, _, err := ReadObject(base)
		if err != nil || objType != types.CommitObject {
			return [20]byte{}, errors.Errorf("invalid object name %q", base)
		}
		shaBytes, err := hex.DecodeString(base)
		if err != nil {
			return [20]byte{}, errors.Wrapf(err, "decoding commit id %q", base)
		}
		copy(resultSHA[:], shaBytes)
	}

	// Walk the ^/~ suffixes
	for idx < len(commitIsh) {
		sign := commitIsh[idx]
		idx++

		// Optional count after the operator
		num := 1
		start := idx
		for idx < len(commitIsh) && commitIsh[idx] != '^' && commitIsh[idx] != '~' {
			idx++
		}
		if start < idx {
			n, err := strconv.Atoi(commitIsh[start:idx])
			if err != nil {
				return [20]byte{}, errors.Errorf("%q is not a valid suffix after %c", commitIsh[start:idx], sign)
			}
			num = n
		}

		switch sign {
		case '~':
			// num(th) first-parent ancestor
			for i := 0; i < num; i++ {
				commit, err := ReadCommit(resultSHA)
				if err != nil {
					return [20]byte{}, err
				}
				if len(commit.ParentsSHA) == 0 {
					return [20]byte{}, errors.Errorf("invalid object name %q", commitIsh)
				}
				resultSHA = commit.ParentsSHA[0]
			}
		case '^':
			// num(th) direct parent
			commit, err := ReadCommit(resultSHA)
			if err != nil {
				return [20]byte{}, err
			}
			if num < 1 || num > len(commit.ParentsSHA) {
				return [20]byte{}, errors.Errorf("invalid object name %q", commitIsh)
			}
			resultSHA = commit.ParentsSHA[num-1]
		}
	}

	return resultSHA, nil
}
