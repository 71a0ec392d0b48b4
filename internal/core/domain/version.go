package domain

import (
	"fmt"
	"strings"
	"time"
)

// VersionMode selects which amendments a reconstruction may apply.
type VersionMode string

const (
	// ModeHistorical applies only amendments in force on the reference day
	ModeHistorical VersionMode = "historical"
	// ModePreview additionally applies known future-dated amendments
	ModePreview VersionMode = "preview"
)

// ParseVersionMode parses a mode, defaulting to historical when empty.
func ParseVersionMode(s string) (VersionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeHistorical):
		return ModeHistorical, nil
	case string(ModePreview), "future", "future-preview":
		return ModePreview, nil
	}
	return "", fmt.Errorf("%w: mode %q", ErrInvalidInput, s)
}

// DocumentStatus is the whole-document state of a reconstructed version.
// NOT_YET_ENACTED is not a status value; it is reported as NotYetInForceError.
type DocumentStatus string

const (
	DocumentInForce  DocumentStatus = "in_force"
	DocumentRepealed DocumentStatus = "repealed" // every known section absent, at least one by repeal
)

// SectionVersion is one section of a reconstructed version
type SectionVersion struct {
	Chapter           string      `json:"chapter"`
	Section           string      `json:"section"`
	Display           string      `json:"display"`
	Heading           string      `json:"heading,omitempty"`
	Text              SectionText `json:"text"`
	AmendmentID       string      `json:"amendment_id,omitempty"` // Amendment that produced this state; empty for the original text
	EffectiveFrom     *time.Time  `json:"effective_from,omitempty"`
	Pending           bool        `json:"pending,omitempty"` // State comes from a not yet in force amendment (preview mode)
	AppliedAmendments []string    `json:"applied_amendments,omitempty"`
}

// Key returns the section key.
func (s *SectionVersion) Key() SectionKey {
	return SectionKey{Chapter: s.Chapter, Section: s.Section}
}

// UndatedAmendment is an amendment whose status cannot be determined
type UndatedAmendment struct {
	AmendmentRef
	Sections []SectionKey `json:"sections"`
}

// ReconstructedVersion is a document as it stood on one date.
// It is never mutated once produced.
type ReconstructedVersion struct {
	DocumentID         string             `json:"document_id"`
	Title              string             `json:"title"`
	AsOf               time.Time          `json:"as_of"`
	Now                time.Time          `json:"now"`
	Mode               VersionMode        `json:"mode"`
	Status             DocumentStatus     `json:"status"`
	Sections           []SectionVersion   `json:"sections"` // Every known key, natural order, absent ones included
	Applied            []AmendmentRef     `json:"applied"`  // Amendments in force for this version, application order
	LastApplied        *AmendmentRef      `json:"last_applied,omitempty"`
	NextPending        *AmendmentRef      `json:"next_pending,omitempty"`
	UnknownStatus      []UndatedAmendment `json:"unknown_status,omitempty"`
	HasGaps            bool               `json:"has_gaps"`             // At least one section is unavailable
	SectionsAddedLater []SectionKey       `json:"sections_added_later"` // Absent at AsOf, present today
}

// Section looks up one section by key.
func (v *ReconstructedVersion) Section(key SectionKey) (SectionVersion, bool) {
	for _, s := range v.Sections {
		if s.Chapter == key.Chapter && s.Section == key.Section {
			return s, true
		}
	}
	return SectionVersion{}, false
}

// ExistingSections returns the sections that existed at AsOf.
func (v *ReconstructedVersion) ExistingSections() []SectionVersion {
	out := make([]SectionVersion, 0, len(v.Sections))
	for _, s := range v.Sections {
		if s.Text.Exists() {
			out = append(out, s)
		}
	}
	return out
}

// Interval is one span of a section's history: Text holds on [From, To).
// A nil From is open toward the past and a nil To toward the future.
type Interval struct {
	From        *time.Time  `json:"from,omitempty"`
	To          *time.Time  `json:"to,omitempty"`
	Text        SectionText `json:"text"`
	AmendmentID string      `json:"amendment_id,omitempty"` // Amendment that started the interval
	Kind        ChangeKind  `json:"kind,omitempty"`
	Pending     bool        `json:"pending,omitempty"`
}

// Covers reports whether d falls inside the interval.
func (iv *Interval) Covers(d time.Time) bool {
	d = Day(d)
	if iv.From != nil && d.Before(*iv.From) {
		return false
	}
	if iv.To != nil && !d.Before(*iv.To) {
		return false
	}
	return true
}

// SectionHistory is the chronological interval list of one section
type SectionHistory struct {
	DocumentID string     `json:"document_id"`
	Key        SectionKey `json:"key"`
	Display    string     `json:"display"`
	Intervals  []Interval `json:"intervals"`
}

// AmendmentHistoryEntry is one amendment with its section change counts
type AmendmentHistoryEntry struct {
	AmendmentRef
	Status       AmendmentStatus `json:"status"`
	Sequence     int             `json:"sequence"`
	SectionCount int             `json:"section_count"`
	Inserted     int             `json:"inserted"`
	Modified     int             `json:"modified"`
	Repealed     int             `json:"repealed"`
	Sections     []SectionKey    `json:"sections"`
}

// AmendmentHistory is the amendment timeline of a document
type AmendmentHistory struct {
	DocumentID string                  `json:"document_id"`
	Title      string                  `json:"title"`
	Now        time.Time               `json:"now"`
	Amendments []AmendmentHistoryEntry `json:"amendments"` // Newest first, undated last
}
