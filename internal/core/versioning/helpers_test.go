package versioning

import (
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

var (
	enacted1977 = domain.MustDate("1977-01-01")
	today       = domain.MustDate("2024-06-01")
)

func date(s string) time.Time { return domain.MustDate(s) }

func datePtr(s string) *time.Time {
	d := domain.MustDate(s)
	return &d
}

func text(s string) *string { return &s }

func key(chapter, section string) domain.SectionKey {
	return domain.SectionKey{Chapter: chapter, Section: section}
}

func baseDocument() domain.BaseDocument {
	enacted := enacted1977
	return domain.BaseDocument{ID: "1977:1160", Title: "Arbetsmiljölag", EnactmentDate: &enacted}
}

func canonical(chapter, section, body string) domain.CanonicalSection {
	return domain.CanonicalSection{DocumentID: "1977:1160", Chapter: chapter, Section: section, Text: body}
}

func amendment(id, effective string, seq int) domain.Amendment {
	a := domain.Amendment{ID: id, DocumentID: "1977:1160", Title: "Lag om ändring " + id, Sequence: seq}
	if effective != "" {
		a.EffectiveDate = datePtr(effective)
	}
	return a
}

// modification4_3 is a document whose section 4:3 changed from "A" to "B" on 2013-07-01.
func modification4_3() Input {
	return Input{
		Document: baseDocument(),
		Canonical: []domain.CanonicalSection{
			canonical("4", "1", "Arbetsgivaren ska planera verksamheten."),
			canonical("4", "3", "B"),
		},
		Amendments: []domain.Amendment{amendment("2013:100", "2013-07-01", 1)},
		Changes: []domain.SectionChange{
			{AmendmentID: "2013:100", Chapter: "4", Section: "3", Kind: domain.ChangeModified, NewText: text("B"), PriorText: text("A")},
		},
	}
}

// richHistory covers insertion, repeal, a missing prior text, a pending and an undated amendment.
func richHistory() Input {
	return Input{
		Document: baseDocument(),
		Canonical: []domain.CanonicalSection{
			canonical("1", "1", "Lagens ändamål är att förebygga ohälsa."),
			canonical("1", "2", "Lagen gäller varje verksamhet."),
			canonical("1", "2a", "Ny paragraf om distansarbete."),
			canonical("2", "10", "Skyddsombud utses av arbetstagarna."),
		},
		Amendments: []domain.Amendment{
			amendment("2030:5", "2030-01-01", 9),
			amendment("2019:200", "2019-01-01", 3),
			amendment("2010:50", "2010-07-01", 1),
			amendment("2018:10", "2018-01-01", 2),
			amendment("2099:1", "", 10),
		},
		Changes: []domain.SectionChange{
			{AmendmentID: "2019:200", Chapter: "1", Section: "2a", Kind: domain.ChangeInserted, NewText: text("Ny paragraf om distansarbete.")},
			{AmendmentID: "2018:10", Chapter: "1", Section: "3", Kind: domain.ChangeRepealed, PriorText: text("Upphävd paragraf.")},
			{AmendmentID: "2010:50", Chapter: "2", Section: "10", Kind: domain.ChangeModified, NewText: text("Skyddsombud utses av arbetstagarna.")},
			{AmendmentID: "2030:5", Chapter: "1", Section: "1", Kind: domain.ChangeModified, NewText: text("Lagens ändamål är att förebygga ohälsa och olycksfall."), PriorText: text("Lagens ändamål är att förebygga ohälsa.")},
			{AmendmentID: "2099:1", Chapter: "1", Section: "2", Kind: domain.ChangeModified, NewText: text("Okänd framtida lydelse.")},
		},
	}
}

func build(in Input, mode domain.VersionMode) (*Model, error) {
	return Build(in, Options{Now: today, Mode: mode})
}
