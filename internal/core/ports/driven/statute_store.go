package driven

import (
	"context"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// StatuteStore is read access to one document's statute records (PostgreSQL).
// Document ids are already normalized by the caller.
type StatuteStore interface {
	// GetDocument retrieves a base document. Returns domain.ErrDocumentNotFound if unknown.
	GetDocument(ctx context.Context, documentID string) (*domain.BaseDocument, error)

	// GetCanonicalSections retrieves the current in-force sections of a document
	GetCanonicalSections(ctx context.Context, documentID string) ([]domain.CanonicalSection, error)

	// GetAmendments retrieves every amendment of a document, in any order
	GetAmendments(ctx context.Context, documentID string) ([]domain.Amendment, error)

	// GetSectionChanges retrieves every section change of a document's amendments
	GetSectionChanges(ctx context.Context, documentID string) ([]domain.SectionChange, error)

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error
}

// StatuteWriter persists statute records produced by ingestion.
type StatuteWriter interface {
	// SaveDocument creates or updates a base document
	SaveDocument(ctx context.Context, doc *domain.BaseDocument) error

	// ReplaceCanonicalSections swaps the full set of canonical sections of a document
	ReplaceCanonicalSections(ctx context.Context, documentID string, sections []domain.CanonicalSection) error

	// SaveAmendment creates or updates an amendment together with its section changes.
	// Existing changes of the amendment are replaced.
	SaveAmendment(ctx context.Context, amendment *domain.Amendment, changes []domain.SectionChange) error
}
