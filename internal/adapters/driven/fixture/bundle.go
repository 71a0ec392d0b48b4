// Package fixture reads statute bundles from YAML files. A bundle holds one
// document with its canonical sections and amendments. Bundles seed the
// database and back the offline CLI commands.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/versioning"
)

// Bundle is the YAML shape of one statute and its amendment history
type Bundle struct {
	Document   DocumentSpec    `yaml:"document"`
	Sections   []SectionSpec   `yaml:"sections" validate:"dive"`
	Amendments []AmendmentSpec `yaml:"amendments" validate:"dive"`
}

// DocumentSpec describes the base document
type DocumentSpec struct {
	ID      string `yaml:"id" validate:"required,docid"`
	Title   string `yaml:"title"`
	Enacted string `yaml:"enacted" validate:"omitempty,isodate"`
}

// SectionSpec is one canonical section
type SectionSpec struct {
	Chapter string `yaml:"chapter"`
	Section string `yaml:"section" validate:"required"`
	Heading string `yaml:"heading"`
	Text    string `yaml:"text"`
}

// AmendmentSpec is one amending act with the sections it touched.
// An empty effective date records an amendment of unknown status.
type AmendmentSpec struct {
	ID        string       `yaml:"id" validate:"required"`
	Title     string       `yaml:"title"`
	Effective string       `yaml:"effective" validate:"omitempty,isodate"`
	Sequence  int          `yaml:"sequence" validate:"gte=0"`
	Changes   []ChangeSpec `yaml:"changes" validate:"required,min=1,dive"`
}

// ChangeSpec is one section change of an amendment. Texts are pointers so
// that an omitted prior text stays distinguishable from an empty one.
type ChangeSpec struct {
	Chapter   string  `yaml:"chapter"`
	Section   string  `yaml:"section" validate:"required"`
	Kind      string  `yaml:"kind" validate:"required,changekind"`
	NewText   *string `yaml:"new_text"`
	PriorText *string `yaml:"prior_text"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("changekind", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseChangeKind(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
		_, err := domain.NormalizeDocumentID(fl.Field().String())
		return err == nil
	})
	return v
}

// Load reads and validates a bundle file
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a bundle
func Parse(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: decode bundle: %v", domain.ErrInvalidInput, err)
	}
	if err := validate.Struct(&b); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describe(err))
	}
	return &b, nil
}

// describe flattens validator errors into one line
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

// Input converts the bundle into engine input with normalized ids and keys.
func (b *Bundle) Input() (versioning.Input, error) {
	var in versioning.Input

	id, err := domain.NormalizeDocumentID(b.Document.ID)
	if err != nil {
		return in, err
	}
	in.Document = domain.BaseDocument{ID: id, Title: b.Document.Title}
	if b.Document.Enacted != "" {
		d, err := domain.ParseDate(b.Document.Enacted)
		if err != nil {
			return in, err
		}
		in.Document.EnactmentDate = &d
	}

	for _, s := range b.Sections {
		key, err := domain.NewSectionKey(s.Chapter, s.Section)
		if err != nil {
			return in, err
		}
		in.Canonical = append(in.Canonical, domain.CanonicalSection{
			DocumentID: id,
			Chapter:    key.Chapter,
			Section:    key.Section,
			Heading:    s.Heading,
			Text:       s.Text,
		})
	}

	for _, a := range b.Amendments {
		amendment := domain.Amendment{ID: strings.TrimSpace(a.ID), DocumentID: id, Title: a.Title, Sequence: a.Sequence}
		if a.Effective != "" {
			d, err := domain.ParseDate(a.Effective)
			if err != nil {
				return in, fmt.Errorf("amendment %s: %w", a.ID, err)
			}
			amendment.EffectiveDate = &d
		}
		in.Amendments = append(in.Amendments, amendment)

		for _, c := range a.Changes {
			key, err := domain.NewSectionKey(c.Chapter, c.Section)
			if err != nil {
				return in, fmt.Errorf("amendment %s: %w", a.ID, err)
			}
			kind, err := domain.ParseChangeKind(c.Kind)
			if err != nil {
				return in, fmt.Errorf("amendment %s: %w", a.ID, err)
			}
			in.Changes = append(in.Changes, domain.SectionChange{
				AmendmentID: amendment.ID,
				Chapter:     key.Chapter,
				Section:     key.Section,
				Kind:        kind,
				NewText:     c.NewText,
				PriorText:   c.PriorText,
			})
		}
	}
	return in, nil
}
