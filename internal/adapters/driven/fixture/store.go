package fixture

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
	"github.com/custodia-labs/statute-core/internal/core/versioning"
)

// Verify interface compliance
var _ driven.StatuteStore = (*Store)(nil)

// Store serves bundles as a read-only StatuteStore
type Store struct {
	mu   sync.RWMutex
	docs map[string]versioning.Input
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{docs: make(map[string]versioning.Input)}
}

// LoadStore reads every bundle file into a new Store
func LoadStore(paths ...string) (*Store, error) {
	s := NewStore()
	for _, p := range paths {
		b, err := Load(p)
		if err != nil {
			return nil, err
		}
		if err := s.Add(b); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return s, nil
}

// Add registers a bundle. A second bundle for the same document fails.
func (s *Store) Add(b *Bundle) error {
	in, err := b.Input()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[in.Document.ID]; ok {
		return fmt.Errorf("%w: document %s", domain.ErrAlreadyExists, in.Document.ID)
	}
	s.docs[in.Document.ID] = in
	return nil
}

// Documents lists the stored document ids
func (s *Store) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) get(documentID string) (versioning.Input, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.docs[documentID]
	if !ok {
		return in, domain.ErrDocumentNotFound
	}
	return in, nil
}

func (s *Store) GetDocument(ctx context.Context, documentID string) (*domain.BaseDocument, error) {
	in, err := s.get(documentID)
	if err != nil {
		return nil, err
	}
	doc := in.Document
	return &doc, nil
}

func (s *Store) GetCanonicalSections(ctx context.Context, documentID string) ([]domain.CanonicalSection, error) {
	in, err := s.get(documentID)
	if err != nil {
		return nil, err
	}
	return append([]domain.CanonicalSection(nil), in.Canonical...), nil
}

func (s *Store) GetAmendments(ctx context.Context, documentID string) ([]domain.Amendment, error) {
	in, err := s.get(documentID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Amendment(nil), in.Amendments...), nil
}

func (s *Store) GetSectionChanges(ctx context.Context, documentID string) ([]domain.SectionChange, error) {
	in, err := s.get(documentID)
	if err != nil {
		return nil, err
	}
	return append([]domain.SectionChange(nil), in.Changes...), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Seed writes a bundle through a StatuteWriter
func Seed(ctx context.Context, w driven.StatuteWriter, b *Bundle) error {
	in, err := b.Input()
	if err != nil {
		return err
	}
	if err := w.SaveDocument(ctx, &in.Document); err != nil {
		return fmt.Errorf("save document %s: %w", in.Document.ID, err)
	}
	if err := w.ReplaceCanonicalSections(ctx, in.Document.ID, in.Canonical); err != nil {
		return fmt.Errorf("save sections %s: %w", in.Document.ID, err)
	}

	byAmendment := make(map[string][]domain.SectionChange, len(in.Amendments))
	for _, c := range in.Changes {
		byAmendment[c.AmendmentID] = append(byAmendment[c.AmendmentID], c)
	}
	for i := range in.Amendments {
		a := &in.Amendments[i]
		if err := w.SaveAmendment(ctx, a, byAmendment[a.ID]); err != nil {
			return fmt.Errorf("save amendment %s: %w", a.ID, err)
		}
	}
	return nil
}
