package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexengine/VexEngine/utils/constants"
	"github.com/vexengine/VexEngine/utils/types"
)

func TestParseModeStr(t *testing.T) {
	t.Parallel()

	valid := map[string]uint32{
		"100644": constants.ModeFile,
		"100755": constants.ModeExecutable,
		"120000": constants.ModeSymlink,
		"40000":  constants.ModeTree,
	}
	for in, want := range valid {
		got, err := ParseModeStr(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "100645", "777", "0x1ff"} {
		_, err := ParseModeStr(in)
		assert.Error(t, err, in)
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	m := map[string]types.StatusType{
		"b.txt": types.ModifiedStatus,
		"a.txt": types.AddedStatus,
		"c.txt": types.DeletedStatus,
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, SortedKeys(m))
}
