package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// VersionService answers what a statute said on a date and what changed between dates.
// Document ids may be given in any accepted form ("SFS 1977:1160", "1977:1160");
// malformed ids fail with domain.ErrInvalidDocumentID before any lookup.
type VersionService interface {
	// Version reconstructs a document as it stood on date.
	// Returns a *domain.NotYetInForceError if date precedes enactment.
	Version(ctx context.Context, documentID string, date time.Time, mode domain.VersionMode) (*domain.ReconstructedVersion, error)

	// History lists a document's amendments with section change counts
	History(ctx context.Context, documentID string) (*domain.AmendmentHistory, error)

	// SectionHistory returns the interval list of one section, pending intervals included
	SectionHistory(ctx context.Context, documentID, chapter, section string) (*domain.SectionHistory, error)

	// Diff compares the document on two dates, in either order
	Diff(ctx context.Context, documentID string, from, to time.Time, mode domain.VersionMode, opts domain.DiffOptions) (*domain.DiffResult, error)

	// VersionDates lists the dates on which the document changed, newest first
	VersionDates(ctx context.Context, documentID string) ([]time.Time, error)

	// Invalidate drops every cached result of a document
	Invalidate(ctx context.Context, documentID string) (int, error)

	// Prewarm fills the cache for the given targets
	Prewarm(ctx context.Context, targets []PrewarmTarget) (*PrewarmResult, error)
}

// PrewarmTarget is one document and the dates to precompute for it.
// No dates means today plus every version date.
type PrewarmTarget struct {
	DocumentID string
	Dates      []time.Time
	Mode       domain.VersionMode
}

// PrewarmResult summarizes a prewarm run
type PrewarmResult struct {
	Warmed  int      `json:"warmed"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"` // documents another instance was already warming
	Errors  []string `json:"errors,omitempty"`
}
