package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/statute-core/internal/core/versioning"
)

var sample = filepath.Join("testdata", "arbetsmiljolag.yaml")

func TestLoad(t *testing.T) {
	b, err := Load(sample)
	require.NoError(t, err)

	in, err := b.Input()
	require.NoError(t, err)

	assert.Equal(t, "1977:1160", in.Document.ID)
	require.NotNil(t, in.Document.EnactmentDate)
	assert.Equal(t, "1977-12-19", domain.FormatDate(*in.Document.EnactmentDate))

	require.Len(t, in.Canonical, 3)
	assert.Equal(t, "1", in.Canonical[0].Chapter, "chapter references are normalized")
	assert.Equal(t, "1", in.Canonical[0].Section)

	require.Len(t, in.Amendments, 4)
	assert.Nil(t, in.Amendments[3].EffectiveDate, "no effective date means unknown status")

	require.Len(t, in.Changes, 4)
	assert.Equal(t, domain.ChangeInserted, in.Changes[2].Kind, "NEW is read as INSERTED")
	assert.Equal(t, domain.ChangeModified, in.Changes[3].Kind)
	assert.Nil(t, in.Changes[1].NewText)
	require.NotNil(t, in.Changes[1].PriorText)
	assert.Equal(t, "Gammal paragraf.", *in.Changes[1].PriorText)
}

func TestLoad_ReconstructsWithEngine(t *testing.T) {
	b, err := Load(sample)
	require.NoError(t, err)
	in, err := b.Input()
	require.NoError(t, err)

	v, err := versioning.Reconstruct(in, versioning.Options{Now: domain.MustDate("2024-06-01")}, domain.MustDate("2010-01-01"))
	require.NoError(t, err)

	sv, ok := v.Section(domain.SectionKey{Chapter: "4", Section: "3"})
	require.True(t, ok)
	assert.Equal(t, domain.Present("A"), sv.Text)
	require.Len(t, v.UnknownStatus, 1)
	assert.Equal(t, "2099:1", v.UnknownStatus[0].ID)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "document: [unclosed"},
		{"missing id", "document:\n  title: x\n"},
		{"malformed id", "document:\n  id: \"abc\"\n"},
		{"bad enactment date", "document:\n  id: \"1977:1160\"\n  enacted: \"19 dec 1977\"\n"},
		{"unknown kind", `
document:
  id: "1977:1160"
amendments:
  - id: "2013:100"
    effective: "2013-07-01"
    changes:
      - section: "3"
        kind: RENUMBERED
`},
		{"amendment without changes", `
document:
  id: "1977:1160"
amendments:
  - id: "2013:100"
    effective: "2013-07-01"
`},
		{"section without label", `
document:
  id: "1977:1160"
sections:
  - chapter: "1"
    text: "x"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.yaml"))
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	s, err := LoadStore(sample)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, []string{"1977:1160"}, s.Documents())

	doc, err := s.GetDocument(ctx, "1977:1160")
	require.NoError(t, err)
	assert.Equal(t, "Arbetsmiljölag (1977:1160)", doc.Title)

	changes, err := s.GetSectionChanges(ctx, "1977:1160")
	require.NoError(t, err)
	assert.Len(t, changes, 4)

	_, err = s.GetDocument(ctx, "1982:80")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	b, err := Load(sample)
	require.NoError(t, err)
	assert.True(t, errors.Is(s.Add(b), domain.ErrAlreadyExists))
}

func TestSeed(t *testing.T) {
	b, err := Load(sample)
	require.NoError(t, err)

	store := mocks.NewMockStatuteStore()
	require.NoError(t, Seed(context.Background(), store, b))

	amendments, err := store.GetAmendments(context.Background(), "1977:1160")
	require.NoError(t, err)
	assert.Len(t, amendments, 4)

	changes, err := store.GetSectionChanges(context.Background(), "1977:1160")
	require.NoError(t, err)
	assert.Len(t, changes, 4)
}
