package versioning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// apply replays an edit script against from and returns the resulting lines.
func apply(t *testing.T, from []string, edits []domain.LineEdit) []string {
	t.Helper()
	out := []string{}
	for _, e := range edits {
		switch e.Op {
		case domain.EditEqual:
			require.Equal(t, from[e.FromStart:e.FromEnd], e.Lines)
			out = append(out, e.Lines...)
		case domain.EditDelete:
			require.Equal(t, from[e.FromStart:e.FromEnd], e.Lines)
		case domain.EditInsert:
			require.Equal(t, len(out), e.ToStart)
			out = append(out, e.Lines...)
		}
	}
	return out
}

func split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "|")
}

func TestEditScript(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		wantOps   string
		wantAdded int
		wantRem   int
	}{
		{"identical", "a|b|c", "a|b|c", "=", 0, 0},
		{"replace single", "A", "B", "-+", 1, 1},
		{"insert middle", "a|c", "a|b|c", "=+=", 1, 0},
		{"delete tail", "a|b|c", "a", "=-", 0, 2},
		{"from empty", "", "a|b", "+", 2, 0},
		{"to empty", "a|b", "", "-", 0, 2},
		{"both empty", "", "", "", 0, 0},
		{"interleaved", "a|b|c|d", "a|x|c|y", "=-+=-+", 2, 2},
	}

	symbols := map[domain.EditOp]string{domain.EditEqual: "=", domain.EditInsert: "+", domain.EditDelete: "-"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := split(tt.from), split(tt.to)
			edits := EditScript(from, to)

			var ops strings.Builder
			for _, e := range edits {
				ops.WriteString(symbols[e.Op])
			}
			assert.Equal(t, tt.wantOps, ops.String())

			added, removed := countChanges(edits)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRem, removed)
			assert.Equal(t, to, apply(t, from, edits))
		})
	}
}

func TestInvertEdits(t *testing.T) {
	from := []string{"a", "b", "c", "d"}
	to := []string{"a", "x", "c", "y", "z"}

	edits := EditScript(from, to)
	inverted := InvertEdits(edits)

	assert.Equal(t, from, apply(t, to, inverted))
	assert.Equal(t, edits, InvertEdits(inverted))

	added, removed := countChanges(edits)
	invAdded, invRemoved := countChanges(inverted)
	assert.Equal(t, added, invRemoved)
	assert.Equal(t, removed, invAdded)

	assert.Nil(t, InvertEdits(nil))
}
