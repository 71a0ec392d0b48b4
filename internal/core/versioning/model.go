package versioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// Input is everything the store knows about one base document.
type Input struct {
	Document   domain.BaseDocument
	Canonical  []domain.CanonicalSection
	Amendments []domain.Amendment
	Changes    []domain.SectionChange
}

// Options fixes the reference day and the reconstruction mode.
type Options struct {
	// Now is the day that separates applied from pending amendments.
	// It is required; the engine never reads the system clock.
	Now  time.Time
	Mode domain.VersionMode
}

// Model is the resolved history of one document for one reference day and
// mode. It is immutable once built and safe for concurrent use.
type Model struct {
	doc         domain.BaseDocument
	now         time.Time
	mode        domain.VersionMode
	timeline    *Timeline
	sections    map[domain.SectionKey]*sectionTimeline
	keys        []domain.SectionKey
	byAmendment map[string][]domain.SectionChange
	undated     []domain.UndatedAmendment
}

// Build validates the input and resolves every section's interval list.
func Build(in Input, opts Options) (*Model, error) {
	if opts.Now.IsZero() {
		return nil, fmt.Errorf("%w: reference day is required", domain.ErrInvalidInput)
	}
	mode, err := domain.ParseVersionMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(in.Amendments))
	for _, a := range in.Amendments {
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate amendment %q", domain.ErrInvalidInput, a.ID)
		}
		seen[a.ID] = struct{}{}
	}

	m := &Model{
		doc:         in.Document,
		now:         domain.Day(opts.Now),
		mode:        mode,
		timeline:    NewTimeline(in.Amendments),
		sections:    make(map[domain.SectionKey]*sectionTimeline),
		byAmendment: make(map[string][]domain.SectionChange),
	}

	for i := range in.Canonical {
		c := in.Canonical[i]
		key, err := domain.NewSectionKey(c.Chapter, c.Section)
		if err != nil {
			return nil, fmt.Errorf("canonical section %q/%q: %w", c.Chapter, c.Section, err)
		}
		c.Chapter, c.Section = key.Chapter, key.Section
		st := m.section(key)
		st.canonical = &c
		st.heading = c.Heading
	}

	if err := m.addChanges(in.Changes); err != nil {
		return nil, err
	}

	for key, st := range m.sections {
		sort.SliceStable(st.changes, func(i, j int) bool {
			return st.changes[i].position < st.changes[j].position
		})
		if err := st.resolve(m.now, m.mode); err != nil {
			return nil, fmt.Errorf("section %s: %w", key, err)
		}
		m.keys = append(m.keys, key)
	}
	sort.Slice(m.keys, func(i, j int) bool { return m.keys[i].Less(m.keys[j]) })

	for _, a := range m.timeline.Undated() {
		entry := domain.UndatedAmendment{AmendmentRef: a.Ref(), Sections: []domain.SectionKey{}}
		for _, c := range m.byAmendment[a.ID] {
			entry.Sections = append(entry.Sections, c.Key())
		}
		m.undated = append(m.undated, entry)
	}
	return m, nil
}

// addChanges validates change rows and attaches dated ones to their section.
// A repeated (amendment, section) pair keeps the last row.
func (m *Model) addChanges(changes []domain.SectionChange) error {
	type rowKey struct {
		amendment string
		key       domain.SectionKey
	}
	rows := make(map[rowKey]int, len(changes))
	var kept []domain.SectionChange

	for _, c := range changes {
		if !c.Kind.Valid() {
			return fmt.Errorf("amendment %s section %s/%s: %w: %q",
				c.AmendmentID, c.Chapter, c.Section, domain.ErrUnknownChangeKind, c.Kind)
		}
		if _, ok := m.timeline.Get(c.AmendmentID); !ok {
			return fmt.Errorf("%w: change references unknown amendment %q", domain.ErrInvalidInput, c.AmendmentID)
		}
		key, err := domain.NewSectionKey(c.Chapter, c.Section)
		if err != nil {
			return fmt.Errorf("amendment %s: %w", c.AmendmentID, err)
		}
		c.Chapter, c.Section = key.Chapter, key.Section

		rk := rowKey{amendment: c.AmendmentID, key: key}
		if i, dup := rows[rk]; dup {
			kept[i] = c
			continue
		}
		rows[rk] = len(kept)
		kept = append(kept, c)
	}

	for _, c := range kept {
		m.byAmendment[c.AmendmentID] = append(m.byAmendment[c.AmendmentID], c)

		pos, dated := m.timeline.position(c.AmendmentID)
		if !dated {
			continue
		}
		a, _ := m.timeline.Get(c.AmendmentID)
		st := m.section(c.Key())
		st.changes = append(st.changes, keyedChange{amendment: a, position: pos, change: c})
	}

	for id := range m.byAmendment {
		list := m.byAmendment[id]
		sort.Slice(list, func(i, j int) bool { return list[i].Key().Less(list[j].Key()) })
	}
	return nil
}

func (m *Model) section(key domain.SectionKey) *sectionTimeline {
	st, ok := m.sections[key]
	if !ok {
		st = &sectionTimeline{key: key}
		m.sections[key] = st
	}
	return st
}

// Document returns the base document.
func (m *Model) Document() domain.BaseDocument { return m.doc }

// Now returns the reference day.
func (m *Model) Now() time.Time { return m.now }

// Mode returns the reconstruction mode.
func (m *Model) Mode() domain.VersionMode { return m.mode }

// Timeline returns the amendment application order.
func (m *Model) Timeline() *Timeline { return m.timeline }

// Keys returns every known section key in natural order.
func (m *Model) Keys() []domain.SectionKey {
	out := make([]domain.SectionKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// boundary is the last day whose amendments may be applied for a version at d.
func (m *Model) boundary(d time.Time) time.Time {
	if m.mode == domain.ModeHistorical && d.After(m.now) {
		return m.now
	}
	return d
}

// VersionAt reconstructs the document as it stood on d. It returns a
// *domain.NotYetInForceError when d precedes the enactment date.
func (m *Model) VersionAt(d time.Time) (*domain.ReconstructedVersion, error) {
	d = domain.Day(d)
	if !m.doc.InForceOn(d) {
		return nil, &domain.NotYetInForceError{
			DocumentID:    m.doc.ID,
			EnactmentDate: domain.Day(*m.doc.EnactmentDate),
			Requested:     d,
		}
	}

	v := &domain.ReconstructedVersion{
		DocumentID:         m.doc.ID,
		Title:              m.doc.Title,
		AsOf:               d,
		Now:                m.now,
		Mode:               m.mode,
		Status:             domain.DocumentInForce,
		Sections:           make([]domain.SectionVersion, 0, len(m.keys)),
		Applied:            []domain.AmendmentRef{},
		SectionsAddedLater: []domain.SectionKey{},
	}

	limit := m.boundary(d)
	for _, a := range m.timeline.Applied(limit) {
		v.Applied = append(v.Applied, a.Ref())
	}
	if a, ok := m.timeline.LastApplied(limit); ok {
		ref := a.Ref()
		v.LastApplied = &ref
	}
	if a, ok := m.timeline.NextPending(limit); ok {
		ref := a.Ref()
		v.NextPending = &ref
	}
	v.UnknownStatus = m.unknownStatus()

	existing, repealed := 0, false
	for _, key := range m.keys {
		st := m.sections[key]
		idx := st.lookup(d)
		iv := st.intervals[idx]

		sv := domain.SectionVersion{
			Chapter:           key.Chapter,
			Section:           key.Section,
			Display:           key.Display(),
			Text:              iv.Text,
			AmendmentID:       iv.AmendmentID,
			EffectiveFrom:     iv.From,
			Pending:           iv.Pending,
			AppliedAmendments: st.appliedIDs(idx),
		}
		if idx == st.current && iv.Text.IsPresent() {
			sv.Heading = st.heading
		}
		v.Sections = append(v.Sections, sv)

		switch {
		case iv.Text.Exists():
			existing++
			if iv.Text.IsUnavailable() {
				v.HasGaps = true
			}
		case iv.Kind == domain.ChangeRepealed:
			repealed = true
		}

		if d.Before(m.now) && !iv.Text.Exists() && st.intervals[st.current].Text.Exists() {
			v.SectionsAddedLater = append(v.SectionsAddedLater, key)
		}
	}

	if existing == 0 && repealed {
		v.Status = domain.DocumentRepealed
	}
	return v, nil
}

func (m *Model) unknownStatus() []domain.UndatedAmendment {
	if len(m.undated) == 0 {
		return nil
	}
	out := make([]domain.UndatedAmendment, len(m.undated))
	for i, u := range m.undated {
		out[i] = domain.UndatedAmendment{
			AmendmentRef: u.AmendmentRef,
			Sections:     append([]domain.SectionKey(nil), u.Sections...),
		}
	}
	return out
}

// SectionHistory returns the chronological interval list of one section.
func (m *Model) SectionHistory(key domain.SectionKey) (*domain.SectionHistory, error) {
	st, ok := m.sections[key]
	if !ok {
		return nil, fmt.Errorf("section %s: %w", key.Display(), domain.ErrNotFound)
	}
	return &domain.SectionHistory{
		DocumentID: m.doc.ID,
		Key:        key,
		Display:    key.Display(),
		Intervals:  st.history(),
	}, nil
}

// AmendmentHistory lists every amendment with its section change counts,
// newest first, undated last.
func (m *Model) AmendmentHistory() *domain.AmendmentHistory {
	h := &domain.AmendmentHistory{
		DocumentID: m.doc.ID,
		Title:      m.doc.Title,
		Now:        m.now,
		Amendments: []domain.AmendmentHistoryEntry{},
	}

	ordered := m.timeline.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		h.Amendments = append(h.Amendments, m.historyEntry(ordered[i]))
	}
	for _, a := range m.timeline.Undated() {
		h.Amendments = append(h.Amendments, m.historyEntry(a))
	}
	return h
}

func (m *Model) historyEntry(a domain.Amendment) domain.AmendmentHistoryEntry {
	e := domain.AmendmentHistoryEntry{
		AmendmentRef: a.Ref(),
		Status:       a.StatusOn(m.now),
		Sequence:     a.Sequence,
		Sections:     []domain.SectionKey{},
	}
	for _, c := range m.byAmendment[a.ID] {
		e.SectionCount++
		e.Sections = append(e.Sections, c.Key())
		switch c.Kind {
		case domain.ChangeInserted:
			e.Inserted++
		case domain.ChangeModified:
			e.Modified++
		case domain.ChangeRepealed:
			e.Repealed++
		}
	}
	return e
}

// VersionDates returns the distinct amendment effective dates, newest first.
func (m *Model) VersionDates() []time.Time {
	dates := m.timeline.Dates()
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

// DiffByDate reconstructs the document on two dates and compares them.
func (m *Model) DiffByDate(from, to time.Time, opts domain.DiffOptions) (*domain.DiffResult, error) {
	a, err := m.VersionAt(from)
	if err != nil {
		return nil, err
	}
	b, err := m.VersionAt(to)
	if err != nil {
		return nil, err
	}
	return Diff(a, b, opts)
}

// Reconstruct builds a model and returns the version on d.
func Reconstruct(in Input, opts Options, d time.Time) (*domain.ReconstructedVersion, error) {
	m, err := Build(in, opts)
	if err != nil {
		return nil, err
	}
	return m.VersionAt(d)
}

// DiffByDate builds a model and compares the versions on two dates.
func DiffByDate(in Input, opts Options, from, to time.Time, diffOpts domain.DiffOptions) (*domain.DiffResult, error) {
	m, err := Build(in, opts)
	if err != nil {
		return nil, err
	}
	return m.DiffByDate(from, to, diffOpts)
}
