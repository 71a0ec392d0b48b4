package domain

import "time"

// ChangeType classifies a section in a diff.
type ChangeType string

const (
	SectionAdded     ChangeType = "added"
	SectionRemoved   ChangeType = "removed"
	SectionModified  ChangeType = "modified"
	SectionUnchanged ChangeType = "unchanged"
)

// EditOp is one operation of a line edit script.
type EditOp string

const (
	EditEqual  EditOp = "equal"
	EditInsert EditOp = "insert"
	EditDelete EditOp = "delete"
)

// LineEdit is a run of lines sharing one operation.
// Ranges are zero-based and half-open over the normalized lines of each side.
type LineEdit struct {
	Op        EditOp   `json:"op"`
	FromStart int      `json:"from_start"`
	FromEnd   int      `json:"from_end"`
	ToStart   int      `json:"to_start"`
	ToEnd     int      `json:"to_end"`
	Lines     []string `json:"lines"`
}

// SectionDiff is the comparison of one section key
type SectionDiff struct {
	Chapter           string         `json:"chapter"`
	Section           string         `json:"section"`
	Display           string         `json:"display"`
	Change            ChangeType     `json:"change"`
	TextUnavailable   bool           `json:"text_unavailable"`
	FromUnavailable   bool           `json:"from_unavailable,omitempty"`
	ToUnavailable     bool           `json:"to_unavailable,omitempty"`
	FromText          *string        `json:"from_text,omitempty"`
	ToText            *string        `json:"to_text,omitempty"`
	Edits             []LineEdit     `json:"edits,omitempty"`
	LinesAdded        int            `json:"lines_added"`
	LinesRemoved      int            `json:"lines_removed"`
	AmendmentsBetween []AmendmentRef `json:"amendments_between,omitempty"`
	Patch             string         `json:"patch,omitempty"`
}

// Key returns the section key.
func (d *SectionDiff) Key() SectionKey {
	return SectionKey{Chapter: d.Chapter, Section: d.Section}
}

// DiffSummary counts sections per classification
type DiffSummary struct {
	Added        int `json:"added"`
	Removed      int `json:"removed"`
	Modified     int `json:"modified"`
	Unchanged    int `json:"unchanged"`
	Unavailable  int `json:"unavailable"`
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
}

// DiffResult is the section-aligned comparison of two versions
type DiffResult struct {
	DocumentID        string         `json:"document_id"`
	From              time.Time      `json:"from"`
	To                time.Time      `json:"to"`
	FromMode          VersionMode    `json:"from_mode"`
	ToMode            VersionMode    `json:"to_mode"`
	Summary           DiffSummary    `json:"summary"`
	Sections          []SectionDiff  `json:"sections"`
	AmendmentsBetween []AmendmentRef `json:"amendments_between"`
}

// DiffOptions tunes diff output.
type DiffOptions struct {
	ChangedOnly  bool // Drop unchanged sections that have no unavailable side
	IncludePatch bool // Render a unified patch for modified sections
	Context      int  // Patch context lines; 0 uses the default of 3
}
