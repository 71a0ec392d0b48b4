package versioning

import "github.com/custodia-labs/statute-core/internal/core/domain"

// EditScript computes a longest-common-subsequence edit script turning from
// into to. Consecutive lines sharing an operation are grouped into one
// LineEdit. Within a changed block deletions come before insertions.
func EditScript(from, to []string) []domain.LineEdit {
	m, n := len(from), len(to)

	// lcs[i][j] is the LCS length of from[i:] and to[j:]
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if from[i] == to[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var edits []domain.LineEdit
	push := func(op domain.EditOp, i, j int, line string) {
		k := len(edits) - 1
		if k < 0 || edits[k].Op != op {
			edits = append(edits, domain.LineEdit{Op: op, FromStart: i, FromEnd: i, ToStart: j, ToEnd: j})
			k++
		}
		e := &edits[k]
		switch op {
		case domain.EditEqual:
			e.FromEnd, e.ToEnd = i+1, j+1
		case domain.EditDelete:
			e.FromEnd = i + 1
		case domain.EditInsert:
			e.ToEnd = j + 1
		}
		e.Lines = append(e.Lines, line)
	}

	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && from[i] == to[j]:
			push(domain.EditEqual, i, j, from[i])
			i++
			j++
		case i < m && (j == n || lcs[i+1][j] >= lcs[i][j+1]):
			push(domain.EditDelete, i, j, from[i])
			i++
		default:
			push(domain.EditInsert, i, j, to[j])
			j++
		}
	}
	return edits
}

// InvertEdits returns the script that turns to back into from: deletions
// become insertions and the two sides' ranges swap.
func InvertEdits(edits []domain.LineEdit) []domain.LineEdit {
	if edits == nil {
		return nil
	}
	out := make([]domain.LineEdit, len(edits))
	for k, e := range edits {
		inv := domain.LineEdit{
			Op:        e.Op,
			FromStart: e.ToStart,
			FromEnd:   e.ToEnd,
			ToStart:   e.FromStart,
			ToEnd:     e.FromEnd,
			Lines:     append([]string(nil), e.Lines...),
		}
		switch e.Op {
		case domain.EditInsert:
			inv.Op = domain.EditDelete
		case domain.EditDelete:
			inv.Op = domain.EditInsert
		}
		out[k] = inv
	}
	return out
}

// countChanges returns the number of inserted and deleted lines.
func countChanges(edits []domain.LineEdit) (added, removed int) {
	for _, e := range edits {
		switch e.Op {
		case domain.EditInsert:
			added += len(e.Lines)
		case domain.EditDelete:
			removed += len(e.Lines)
		}
	}
	return added, removed
}
