package versioning

import (
	"strings"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedPatch(t *testing.T) {
	from := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"}
	to := []string{"1", "two", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15", "16"}

	patch, err := UnifiedPatch("a/old", "b/new", EditScript(from, to), 2)
	require.NoError(t, err)

	fd, err := diff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	assert.Equal(t, "a/old", fd.OrigName)
	assert.Equal(t, "b/new", fd.NewName)
	require.Len(t, fd.Hunks, 2, "changes far apart produce separate hunks")

	first := fd.Hunks[0]
	assert.EqualValues(t, 1, first.OrigStartLine)
	assert.EqualValues(t, 4, first.OrigLines)
	assert.EqualValues(t, 1, first.NewStartLine)
	assert.EqualValues(t, 4, first.NewLines)
	assert.Equal(t, " 1\n-2\n+two\n 3\n 4\n", string(first.Body))

	second := fd.Hunks[1]
	assert.EqualValues(t, 14, second.OrigStartLine)
	assert.EqualValues(t, 2, second.OrigLines)
	assert.EqualValues(t, 14, second.NewStartLine)
	assert.EqualValues(t, 3, second.NewLines)
	assert.Equal(t, " 14\n 15\n+16\n", string(second.Body))
}

func TestUnifiedPatch_MergesNearbyChanges(t *testing.T) {
	from := []string{"a", "b", "c", "d", "e"}
	to := []string{"A", "b", "c", "d", "E"}

	patch, err := UnifiedPatch("a/x", "b/x", EditScript(from, to), 3)
	require.NoError(t, err)

	fd, err := diff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	require.Len(t, fd.Hunks, 1)
	assert.EqualValues(t, 5, fd.Hunks[0].OrigLines)
	assert.EqualValues(t, 5, fd.Hunks[0].NewLines)
}

func TestUnifiedPatch_ReversedScriptPrintsRemovalsFirst(t *testing.T) {
	forward := EditScript([]string{"intro", "A", "outro"}, []string{"intro", "B", "outro"})
	reversed := InvertEdits(forward)
	require.Equal(t, "insert", string(reversed[1].Op), "a mirrored script lists the insertion first")

	patch, err := UnifiedPatch("a/x", "b/x", reversed, 3)
	require.NoError(t, err)

	fd, err := diff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, " intro\n-B\n+A\n outro\n", string(fd.Hunks[0].Body))
	assert.EqualValues(t, 1, fd.Hunks[0].OrigStartLine)
	assert.EqualValues(t, 3, fd.Hunks[0].OrigLines)
	assert.EqualValues(t, 1, fd.Hunks[0].NewStartLine)
	assert.EqualValues(t, 3, fd.Hunks[0].NewLines)
}

func TestUnifiedPatch_ReversedScriptAtStart(t *testing.T) {
	reversed := InvertEdits(EditScript([]string{"A"}, []string{"B"}))

	patch, err := UnifiedPatch("a/x", "b/x", reversed, 3)
	require.NoError(t, err)

	fd, err := diff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, "-B\n+A\n", string(fd.Hunks[0].Body))
	assert.EqualValues(t, 1, fd.Hunks[0].OrigStartLine)
	assert.EqualValues(t, 1, fd.Hunks[0].NewStartLine)
}

func TestUnifiedPatch_AddedSection(t *testing.T) {
	patch, err := UnifiedPatch("a/x", "b/x", EditScript(nil, []string{"Ny paragraf."}), 0)
	require.NoError(t, err)

	fd, err := diff.ParseFileDiff([]byte(patch))
	require.NoError(t, err)
	require.Len(t, fd.Hunks, 1)
	assert.EqualValues(t, 0, fd.Hunks[0].OrigStartLine)
	assert.EqualValues(t, 0, fd.Hunks[0].OrigLines)
	assert.EqualValues(t, 1, fd.Hunks[0].NewStartLine)
	assert.True(t, strings.Contains(patch, "+Ny paragraf.\n"))
}

func TestUnifiedPatch_NoChanges(t *testing.T) {
	patch, err := UnifiedPatch("a/x", "b/x", EditScript([]string{"a"}, []string{"a"}), 3)
	require.NoError(t, err)
	assert.Empty(t, patch)
}
