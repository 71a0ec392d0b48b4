package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// MockStatuteStore is an in-memory StatuteStore and StatuteWriter for testing
type MockStatuteStore struct {
	mu         sync.RWMutex
	documents  map[string]*domain.BaseDocument
	canonical  map[string][]domain.CanonicalSection
	amendments map[string]map[string]domain.Amendment       // documentID -> amendmentID -> amendment
	changes    map[string][]domain.SectionChange             // amendmentID -> changes
	owner      map[string]string                             // amendmentID -> documentID

	// Reads counts Get* calls, for asserting cache behavior
	Reads int

	// Custom behavior hooks (optional)
	PingFn func() error
	ErrFn  func(method string) error
}

// NewMockStatuteStore creates a new MockStatuteStore
func NewMockStatuteStore() *MockStatuteStore {
	return &MockStatuteStore{
		documents:  make(map[string]*domain.BaseDocument),
		canonical:  make(map[string][]domain.CanonicalSection),
		amendments: make(map[string]map[string]domain.Amendment),
		changes:    make(map[string][]domain.SectionChange),
		owner:      make(map[string]string),
	}
}

func (m *MockStatuteStore) fail(method string) error {
	if m.ErrFn != nil {
		return m.ErrFn(method)
	}
	return nil
}

func (m *MockStatuteStore) GetDocument(ctx context.Context, documentID string) (*domain.BaseDocument, error) {
	if err := m.fail("GetDocument"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	doc, ok := m.documents[documentID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *MockStatuteStore) GetCanonicalSections(ctx context.Context, documentID string) ([]domain.CanonicalSection, error) {
	if err := m.fail("GetCanonicalSections"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CanonicalSection(nil), m.canonical[documentID]...), nil
}

func (m *MockStatuteStore) GetAmendments(ctx context.Context, documentID string) ([]domain.Amendment, error) {
	if err := m.fail("GetAmendments"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Amendment
	for _, a := range m.amendments[documentID] {
		out = append(out, a)
	}
	return out, nil
}

func (m *MockStatuteStore) GetSectionChanges(ctx context.Context, documentID string) ([]domain.SectionChange, error) {
	if err := m.fail("GetSectionChanges"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SectionChange
	for id := range m.amendments[documentID] {
		out = append(out, m.changes[id]...)
	}
	return out, nil
}

func (m *MockStatuteStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn()
	}
	return nil
}

func (m *MockStatuteStore) SaveDocument(ctx context.Context, doc *domain.BaseDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.documents[doc.ID] = &cp
	return nil
}

func (m *MockStatuteStore) ReplaceCanonicalSections(ctx context.Context, documentID string, sections []domain.CanonicalSection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[documentID]; !ok {
		return domain.ErrDocumentNotFound
	}
	m.canonical[documentID] = append([]domain.CanonicalSection(nil), sections...)
	return nil
}

func (m *MockStatuteStore) SaveAmendment(ctx context.Context, amendment *domain.Amendment, changes []domain.SectionChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[amendment.DocumentID]; !ok {
		return domain.ErrDocumentNotFound
	}
	if owner, ok := m.owner[amendment.ID]; ok && owner != amendment.DocumentID {
		return domain.ErrAlreadyExists
	}
	if m.amendments[amendment.DocumentID] == nil {
		m.amendments[amendment.DocumentID] = make(map[string]domain.Amendment)
	}
	m.amendments[amendment.DocumentID][amendment.ID] = *amendment
	m.owner[amendment.ID] = amendment.DocumentID
	m.changes[amendment.ID] = append([]domain.SectionChange(nil), changes...)
	return nil
}

// ReadCount returns the number of document reads so far
func (m *MockStatuteStore) ReadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Reads
}
