package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.StatuteStore  = (*StatuteStore)(nil)
	_ driven.StatuteWriter = (*StatuteStore)(nil)
)

// StatuteStore implements driven.StatuteStore and driven.StatuteWriter using PostgreSQL
type StatuteStore struct {
	db *DB
}

// NewStatuteStore creates a new StatuteStore
func NewStatuteStore(db *DB) *StatuteStore {
	return &StatuteStore{db: db}
}

// GetDocument retrieves a base document by its normalized id
func (s *StatuteStore) GetDocument(ctx context.Context, documentID string) (*domain.BaseDocument, error) {
	query := `
		SELECT id, title, enactment_date, created_at, updated_at
		FROM statute_documents
		WHERE id = $1
	`

	var doc domain.BaseDocument
	var enacted sql.NullTime
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.Title,
		&enacted,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	doc.EnactmentDate = dayPtr(enacted)
	return &doc, nil
}

// GetCanonicalSections returns the current text of every section
func (s *StatuteStore) GetCanonicalSections(ctx context.Context, documentID string) ([]domain.CanonicalSection, error) {
	query := `
		SELECT document_id, chapter, section, heading, text
		FROM canonical_sections
		WHERE document_id = $1
		ORDER BY chapter, section
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("get canonical sections %s: %w", documentID, err)
	}
	defer rows.Close()

	var sections []domain.CanonicalSection
	for rows.Next() {
		var cs domain.CanonicalSection
		if err := rows.Scan(&cs.DocumentID, &cs.Chapter, &cs.Section, &cs.Heading, &cs.Text); err != nil {
			return nil, err
		}
		sections = append(sections, cs)
	}
	return sections, rows.Err()
}

// GetAmendments returns every amendment of a document, dated or not
func (s *StatuteStore) GetAmendments(ctx context.Context, documentID string) ([]domain.Amendment, error) {
	query := `
		SELECT id, document_id, title, effective_date, sequence
		FROM amendments
		WHERE document_id = $1
		ORDER BY sequence, id
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("get amendments %s: %w", documentID, err)
	}
	defer rows.Close()

	var amendments []domain.Amendment
	for rows.Next() {
		var a domain.Amendment
		var effective sql.NullTime
		if err := rows.Scan(&a.ID, &a.DocumentID, &a.Title, &effective, &a.Sequence); err != nil {
			return nil, err
		}
		a.EffectiveDate = dayPtr(effective)
		amendments = append(amendments, a)
	}
	return amendments, rows.Err()
}

// GetSectionChanges returns the section changes of every amendment of a document
func (s *StatuteStore) GetSectionChanges(ctx context.Context, documentID string) ([]domain.SectionChange, error) {
	query := `
		SELECT c.amendment_id, c.chapter, c.section, c.kind, c.new_text, c.prior_text
		FROM section_changes c
		JOIN amendments a ON a.id = c.amendment_id
		WHERE a.document_id = $1
		ORDER BY a.sequence, c.amendment_id, c.chapter, c.section
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("get section changes %s: %w", documentID, err)
	}
	defer rows.Close()

	var changes []domain.SectionChange
	for rows.Next() {
		var c domain.SectionChange
		var kind string
		var newText, priorText sql.NullString
		if err := rows.Scan(&c.AmendmentID, &c.Chapter, &c.Section, &kind, &newText, &priorText); err != nil {
			return nil, err
		}
		c.Kind = domain.ChangeKind(kind)
		c.NewText = textPtr(newText)
		c.PriorText = textPtr(priorText)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Ping checks if the database is reachable
func (s *StatuteStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// SaveDocument creates or updates a base document
func (s *StatuteStore) SaveDocument(ctx context.Context, doc *domain.BaseDocument) error {
	query := `
		INSERT INTO statute_documents (id, title, enactment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			enactment_date = EXCLUDED.enactment_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, doc.ID, doc.Title, nullDay(doc.EnactmentDate), time.Now())
	return mapError(err)
}

// ReplaceCanonicalSections makes sections the complete current text of a document.
// Sections no longer listed are removed.
func (s *StatuteStore) ReplaceCanonicalSections(ctx context.Context, documentID string, sections []domain.CanonicalSection) error {
	keys := make([]string, len(sections))
	for i, cs := range sections {
		keys[i] = cs.Chapter + ":" + cs.Section
	}

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM canonical_sections
			WHERE document_id = $1 AND NOT (chapter || ':' || section = ANY($2))
		`, documentID, pq.Array(keys))
		if err != nil {
			return mapError(err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO canonical_sections (document_id, chapter, section, heading, text)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (document_id, chapter, section) DO UPDATE SET
				heading = EXCLUDED.heading,
				text = EXCLUDED.text
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, cs := range sections {
			if _, err := stmt.ExecContext(ctx, documentID, cs.Chapter, cs.Section, cs.Heading, cs.Text); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// SaveAmendment stores an amendment and replaces its section changes.
// An amendment id already registered on another document fails with ErrAlreadyExists.
func (s *StatuteStore) SaveAmendment(ctx context.Context, amendment *domain.Amendment, changes []domain.SectionChange) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO amendments (id, document_id, title, effective_date, sequence)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				effective_date = EXCLUDED.effective_date,
				sequence = EXCLUDED.sequence
			WHERE amendments.document_id = EXCLUDED.document_id
		`, amendment.ID, amendment.DocumentID, amendment.Title, nullDay(amendment.EffectiveDate), amendment.Sequence)
		if err != nil {
			return mapError(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: amendment %s belongs to another document", domain.ErrAlreadyExists, amendment.ID)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM section_changes WHERE amendment_id = $1`, amendment.ID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO section_changes (id, amendment_id, chapter, section, kind, new_text, prior_text)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range changes {
			_, err := stmt.ExecContext(ctx,
				uuid.New(),
				amendment.ID,
				c.Chapter,
				c.Section,
				string(c.Kind),
				nullText(c.NewText),
				nullText(c.PriorText),
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}
