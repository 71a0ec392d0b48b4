package domain

import (
	"fmt"
	"strings"
	"time"
)

// BaseDocument is a statute whose current, in-force text is canonical
type BaseDocument struct {
	ID            string     `json:"id"` // Normalized official number, e.g. "1977:1160"
	Title         string     `json:"title"`
	EnactmentDate *time.Time `json:"enactment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InForceOn reports whether the document exists as law on date d.
// Documents without a known enactment date are treated as always in force.
func (d *BaseDocument) InForceOn(date time.Time) bool {
	if d.EnactmentDate == nil {
		return true
	}
	return !Day(date).Before(Day(*d.EnactmentDate))
}

// CanonicalSection is the current in-force text of one section
type CanonicalSection struct {
	DocumentID string `json:"document_id"`
	Chapter    string `json:"chapter"`
	Section    string `json:"section"`
	Heading    string `json:"heading,omitempty"`
	Text       string `json:"text"`
}

// Key returns the section key of the canonical section.
func (s *CanonicalSection) Key() SectionKey {
	return SectionKey{Chapter: s.Chapter, Section: s.Section}
}

// Amendment is one enacting instrument that modifies a base document
type Amendment struct {
	ID            string     `json:"id"` // Official number of the amending act
	DocumentID    string     `json:"document_id"`
	Title         string     `json:"title"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"` // nil when not yet decided or unknown
	Sequence      int        `json:"sequence"`                 // Publication order, breaks ties between equal dates
}

// Dated reports whether the amendment has a known effective date.
func (a *Amendment) Dated() bool {
	return a.EffectiveDate != nil
}

// Ref returns a lightweight reference to the amendment.
func (a *Amendment) Ref() AmendmentRef {
	return AmendmentRef{ID: a.ID, Title: a.Title, EffectiveDate: a.EffectiveDate}
}

// AmendmentRef identifies an amendment in derived results
type AmendmentRef struct {
	ID            string     `json:"id"`
	Title         string     `json:"title,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

// ChangeKind is how an amendment affected one section.
// The set is closed; every switch over it must list all three kinds.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "INSERTED"
	ChangeModified ChangeKind = "MODIFIED"
	ChangeRepealed ChangeKind = "REPEALED"
)

// ChangeKinds lists every change kind in a stable order.
var ChangeKinds = []ChangeKind{ChangeInserted, ChangeModified, ChangeRepealed}

// Valid reports whether k is one of the known kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case ChangeInserted, ChangeModified, ChangeRepealed:
		return true
	}
	return false
}

// ParseChangeKind accepts the canonical names plus the labels used by
// upstream ingestion ("NEW", "AMENDED"), case-insensitively.
func ParseChangeKind(s string) (ChangeKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INSERTED", "NEW":
		return ChangeInserted, nil
	case "MODIFIED", "AMENDED":
		return ChangeModified, nil
	case "REPEALED":
		return ChangeRepealed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChangeKind, s)
}

// SectionChange records how one amendment affected one section
type SectionChange struct {
	AmendmentID string     `json:"amendment_id"`
	Chapter     string     `json:"chapter"`
	Section     string     `json:"section"`
	Kind        ChangeKind `json:"kind"`
	NewText     *string    `json:"new_text,omitempty"`   // Text after the change; nil if extraction failed, always nil for REPEALED
	PriorText   *string    `json:"prior_text,omitempty"` // Text immediately before the change, when captured at ingestion
}

// Key returns the section key the change applies to.
func (c *SectionChange) Key() SectionKey {
	return SectionKey{Chapter: c.Chapter, Section: c.Section}
}

// HasNewText reports whether resulting text is available.
func (c *SectionChange) HasNewText() bool {
	return c.NewText != nil && *c.NewText != ""
}

// AmendmentStatus describes an amendment relative to a reference date
type AmendmentStatus string

const (
	AmendmentInForce AmendmentStatus = "in_force"
	AmendmentPending AmendmentStatus = "pending"
	AmendmentUnknown AmendmentStatus = "unknown" // no effective date recorded
)

// StatusOn classifies the amendment on date d.
func (a *Amendment) StatusOn(d time.Time) AmendmentStatus {
	if a.EffectiveDate == nil {
		return AmendmentUnknown
	}
	if Day(*a.EffectiveDate).After(Day(d)) {
		return AmendmentPending
	}
	return AmendmentInForce
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
