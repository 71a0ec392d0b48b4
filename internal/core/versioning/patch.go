package versioning

import (
	"bytes"
	"fmt"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// DefaultPatchContext is the number of unchanged lines around each hunk.
const DefaultPatchContext = 3

type patchLine struct {
	op       domain.EditOp
	text     string
	fromLine int // zero-based position in the from side before this line
	toLine   int
}

// UnifiedPatch renders an edit script as a unified diff. It returns an empty
// string when the script has no insertions or deletions.
func UnifiedPatch(origName, newName string, edits []domain.LineEdit, context int) (string, error) {
	if context <= 0 {
		context = DefaultPatchContext
	}

	var lines []patchLine
	for _, e := range edits {
		for k, text := range e.Lines {
			pl := patchLine{op: e.Op, text: text, fromLine: e.FromStart, toLine: e.ToStart}
			switch e.Op {
			case domain.EditEqual:
				pl.fromLine += k
				pl.toLine += k
			case domain.EditDelete:
				pl.fromLine += k
			case domain.EditInsert:
				pl.toLine += k
			}
			lines = append(lines, pl)
		}
	}
	deletionsFirst(lines)

	var changed []int
	for i, l := range lines {
		if l.op != domain.EditEqual {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return "", nil
	}

	fd := &diff.FileDiff{OrigName: origName, NewName: newName}
	start := 0
	for k := 1; k <= len(changed); k++ {
		if k < len(changed) && changed[k]-changed[k-1]-1 <= 2*context {
			continue
		}
		lo := max(0, changed[start]-context)
		hi := min(len(lines), changed[k-1]+context+1)
		fd.Hunks = append(fd.Hunks, buildHunk(lines[lo:hi]))
		start = k
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("print patch: %w", err)
	}
	return string(out), nil
}

// deletionsFirst reorders each run of changed lines so removals print before
// additions. Mirrored scripts list insertions first; the script itself is
// left untouched and only the rendering is conventional.
func deletionsFirst(lines []patchLine) {
	for i := 0; i < len(lines); {
		if lines[i].op == domain.EditEqual {
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].op != domain.EditEqual {
			j++
		}
		run := lines[i:j]
		f, t := run[0].fromLine, run[0].toLine
		sorted := make([]patchLine, 0, len(run))
		for _, op := range []domain.EditOp{domain.EditDelete, domain.EditInsert} {
			for _, l := range run {
				if l.op != op {
					continue
				}
				l.fromLine, l.toLine = f, t
				if op == domain.EditDelete {
					f++
				} else {
					t++
				}
				sorted = append(sorted, l)
			}
		}
		copy(run, sorted)
		i = j
	}
}

func buildHunk(lines []patchLine) *diff.Hunk {
	h := &diff.Hunk{
		OrigStartLine: int32(lines[0].fromLine) + 1,
		NewStartLine:  int32(lines[0].toLine) + 1,
	}

	var body bytes.Buffer
	for _, l := range lines {
		switch l.op {
		case domain.EditEqual:
			h.OrigLines++
			h.NewLines++
			body.WriteByte(' ')
		case domain.EditDelete:
			h.OrigLines++
			body.WriteByte('-')
		case domain.EditInsert:
			h.NewLines++
			body.WriteByte('+')
		}
		body.WriteString(l.text)
		body.WriteByte('\n')
	}

	// An empty side is addressed by the line before it.
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}
	h.Body = body.Bytes()
	return h
}
