// Package versioning reconstructs statutes as they stood on a given date and
// compares reconstructed versions. Everything here is a pure function of its
// inputs: no I/O, no clock reads, no shared mutable state.
package versioning

import (
	"sort"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// Timeline is the deterministic application order of a document's amendments.
// Dated amendments are ordered by effective date, then sequence, then id.
// Undated amendments are never applied and are kept apart.
type Timeline struct {
	dated   []domain.Amendment
	undated []domain.Amendment
	index   map[string]int // amendment id -> position in dated, or -1 for undated
}

// NewTimeline orders amendments. The input slice is not modified.
func NewTimeline(amendments []domain.Amendment) *Timeline {
	t := &Timeline{index: make(map[string]int, len(amendments))}

	for _, a := range amendments {
		if a.EffectiveDate != nil {
			a.EffectiveDate = domain.DatePtr(*a.EffectiveDate)
			t.dated = append(t.dated, a)
		} else {
			t.undated = append(t.undated, a)
		}
	}

	sort.SliceStable(t.dated, func(i, j int) bool {
		return amendmentLess(&t.dated[i], &t.dated[j])
	})
	sort.SliceStable(t.undated, func(i, j int) bool {
		a, b := &t.undated[i], &t.undated[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.ID < b.ID
	})

	for i, a := range t.dated {
		t.index[a.ID] = i
	}
	for _, a := range t.undated {
		t.index[a.ID] = -1
	}
	return t
}

func amendmentLess(a, b *domain.Amendment) bool {
	if !a.EffectiveDate.Equal(*b.EffectiveDate) {
		return a.EffectiveDate.Before(*b.EffectiveDate)
	}
	if a.Sequence != b.Sequence {
		return a.Sequence < b.Sequence
	}
	return a.ID < b.ID
}

// Ordered returns the dated amendments in application order.
func (t *Timeline) Ordered() []domain.Amendment {
	return cloneAmendments(t.dated)
}

// Undated returns amendments with no effective date, whose status is unknown.
func (t *Timeline) Undated() []domain.Amendment {
	return cloneAmendments(t.undated)
}

// Len returns the number of dated amendments.
func (t *Timeline) Len() int {
	return len(t.dated)
}

// cut returns the number of dated amendments in force on d.
func (t *Timeline) cut(d time.Time) int {
	d = domain.Day(d)
	return sort.Search(len(t.dated), func(i int) bool {
		return t.dated[i].EffectiveDate.After(d)
	})
}

// Applied returns the prefix of the timeline with effective date on or before d.
func (t *Timeline) Applied(d time.Time) []domain.Amendment {
	return cloneAmendments(t.dated[:t.cut(d)])
}

// Pending returns the suffix of the timeline with effective date after d.
func (t *Timeline) Pending(d time.Time) []domain.Amendment {
	return cloneAmendments(t.dated[t.cut(d):])
}

// LastApplied returns the most recent amendment in force on d.
func (t *Timeline) LastApplied(d time.Time) (domain.Amendment, bool) {
	n := t.cut(d)
	if n == 0 {
		return domain.Amendment{}, false
	}
	return t.dated[n-1], true
}

// NextPending returns the earliest amendment not yet in force on d.
func (t *Timeline) NextPending(d time.Time) (domain.Amendment, bool) {
	n := t.cut(d)
	if n == len(t.dated) {
		return domain.Amendment{}, false
	}
	return t.dated[n], true
}

// Get looks up an amendment by id, dated or not.
func (t *Timeline) Get(id string) (domain.Amendment, bool) {
	pos, ok := t.index[id]
	if !ok {
		return domain.Amendment{}, false
	}
	if pos < 0 {
		for _, a := range t.undated {
			if a.ID == id {
				return a, true
			}
		}
		return domain.Amendment{}, false
	}
	return t.dated[pos], true
}

// position returns the application position of a dated amendment.
func (t *Timeline) position(id string) (int, bool) {
	pos, ok := t.index[id]
	if !ok || pos < 0 {
		return 0, false
	}
	return pos, true
}

// Dates returns the distinct effective dates, oldest first.
func (t *Timeline) Dates() []time.Time {
	var out []time.Time
	for _, a := range t.dated {
		if len(out) == 0 || !out[len(out)-1].Equal(*a.EffectiveDate) {
			out = append(out, *a.EffectiveDate)
		}
	}
	return out
}

func cloneAmendments(in []domain.Amendment) []domain.Amendment {
	out := make([]domain.Amendment, len(in))
	copy(out, in)
	return out
}
