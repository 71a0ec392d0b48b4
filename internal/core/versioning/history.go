package versioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// keyedChange is a section change together with its amendment's place in the timeline.
type keyedChange struct {
	amendment domain.Amendment
	position  int
	change    domain.SectionChange
}

func (c *keyedChange) effective() time.Time {
	return *c.amendment.EffectiveDate
}

// sectionTimeline holds the resolved interval list of one section key.
type sectionTimeline struct {
	key       domain.SectionKey
	heading   string
	canonical *domain.CanonicalSection
	changes   []keyedChange // dated changes in application order
	intervals []domain.Interval
	current   int // interval holding on the reference day
}

// resolve builds the interval list by walking backward from the current
// state. The state before a MODIFIED or REPEALED change is the prior text the
// change captured, or Unavailable when none was captured. The state before an
// INSERTED change is Absent. In preview mode pending changes are then applied
// forward from the current state using their resulting text.
func (s *sectionTimeline) resolve(now time.Time, mode domain.VersionMode) error {
	split := sort.Search(len(s.changes), func(i int) bool {
		return s.changes[i].effective().After(now)
	})
	applied, pending := s.changes[:split], s.changes[split:]

	current, err := s.currentState(applied, pending)
	if err != nil {
		return err
	}

	states := make([]domain.SectionText, len(applied)+1)
	states[len(applied)] = current
	for i := len(applied) - 1; i >= 0; i-- {
		before, err := stateBefore(&applied[i].change)
		if err != nil {
			return err
		}
		states[i] = before
	}

	preview := mode == domain.ModePreview && len(pending) > 0
	intervals := make([]domain.Interval, 0, len(states)+len(pending))

	for i, text := range states {
		iv := domain.Interval{Text: text}
		if i > 0 {
			c := &applied[i-1]
			iv.From = domain.DatePtr(c.effective())
			iv.AmendmentID = c.amendment.ID
			iv.Kind = c.change.Kind
		}
		if i < len(applied) {
			iv.To = domain.DatePtr(applied[i].effective())
		} else if preview {
			iv.To = domain.DatePtr(pending[0].effective())
		}
		intervals = append(intervals, iv)
	}
	s.current = len(intervals) - 1

	if preview {
		for j := range pending {
			c := &pending[j]
			state, err := stateAfter(&c.change)
			if err != nil {
				return err
			}
			iv := domain.Interval{
				From:        domain.DatePtr(c.effective()),
				Text:        state,
				AmendmentID: c.amendment.ID,
				Kind:        c.change.Kind,
				Pending:     true,
			}
			if j+1 < len(pending) {
				iv.To = domain.DatePtr(pending[j+1].effective())
			}
			intervals = append(intervals, iv)
		}
	}

	s.intervals = intervals
	return nil
}

// currentState is the section's state on the reference day. Canonical text
// is current by definition. Without it, the last applied change decides.
func (s *sectionTimeline) currentState(applied, pending []keyedChange) (domain.SectionText, error) {
	if s.canonical != nil {
		return domain.Present(s.canonical.Text), nil
	}
	if len(applied) > 0 {
		return stateAfter(&applied[len(applied)-1].change)
	}
	if len(pending) > 0 {
		return stateBefore(&pending[0].change)
	}
	return domain.Absent(), nil
}

// stateBefore is the section's state immediately before c took effect.
func stateBefore(c *domain.SectionChange) (domain.SectionText, error) {
	switch c.Kind {
	case domain.ChangeInserted:
		return domain.Absent(), nil
	case domain.ChangeModified, domain.ChangeRepealed:
		if c.PriorText == nil || *c.PriorText == "" {
			return domain.Unavailable(), nil
		}
		return domain.Present(*c.PriorText), nil
	default:
		return domain.SectionText{}, fmt.Errorf("%w: %q", domain.ErrUnknownChangeKind, c.Kind)
	}
}

// stateAfter is the section's state immediately after c took effect.
func stateAfter(c *domain.SectionChange) (domain.SectionText, error) {
	switch c.Kind {
	case domain.ChangeInserted, domain.ChangeModified:
		if !c.HasNewText() {
			return domain.Unavailable(), nil
		}
		return domain.Present(*c.NewText), nil
	case domain.ChangeRepealed:
		return domain.Absent(), nil
	default:
		return domain.SectionText{}, fmt.Errorf("%w: %q", domain.ErrUnknownChangeKind, c.Kind)
	}
}

// lookup returns the index of the interval covering d. Zero-length
// intervals left by amendments sharing an effective date are never selected.
func (s *sectionTimeline) lookup(d time.Time) int {
	i := sort.Search(len(s.intervals), func(i int) bool {
		from := s.intervals[i].From
		return from != nil && from.After(d)
	})
	return i - 1
}

// appliedIDs returns the amendments that shaped the section up to interval idx.
func (s *sectionTimeline) appliedIDs(idx int) []string {
	var ids []string
	for _, iv := range s.intervals[1 : idx+1] {
		ids = append(ids, iv.AmendmentID)
	}
	return ids
}

// history returns the interval list without zero-length intervals.
func (s *sectionTimeline) history() []domain.Interval {
	out := make([]domain.Interval, 0, len(s.intervals))
	for _, iv := range s.intervals {
		if iv.From != nil && iv.To != nil && !iv.From.Before(*iv.To) {
			continue
		}
		out = append(out, iv)
	}
	return out
}
