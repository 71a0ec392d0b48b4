package versioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// Diff compares two versions of the same document section by section.
// The comparison always runs from the older version to the newer one and is
// mirrored when a is the newer, so Diff(a, b) and Diff(b, a) are exact inverses.
func Diff(a, b *domain.ReconstructedVersion, opts domain.DiffOptions) (*domain.DiffResult, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: both versions are required", domain.ErrInvalidInput)
	}
	if a.DocumentID != b.DocumentID {
		return nil, fmt.Errorf("%w: cannot compare %s with %s", domain.ErrInvalidInput, a.DocumentID, b.DocumentID)
	}

	older, newer, swapped := a, b, false
	if newerThan(a, b) {
		older, newer, swapped = b, a, true
	}

	result := &domain.DiffResult{
		DocumentID:        a.DocumentID,
		From:              a.AsOf,
		To:                b.AsOf,
		FromMode:          a.Mode,
		ToMode:            b.Mode,
		Sections:          []domain.SectionDiff{},
		AmendmentsBetween: amendmentsBetween(older, newer),
	}

	refs := make(map[string]domain.AmendmentRef, len(newer.Applied))
	for _, r := range newer.Applied {
		refs[r.ID] = r
	}

	for _, key := range unionKeys(older, newer) {
		from, _ := older.Section(key)
		to, _ := newer.Section(key)

		sd, ok := compareSection(key, from, to)
		if !ok {
			continue
		}
		sd.AmendmentsBetween = sectionAmendmentsBetween(from.AppliedAmendments, to.AppliedAmendments, refs)
		if swapped {
			sd = invertSection(sd)
		}
		if opts.ChangedOnly && sd.Change == domain.SectionUnchanged && !sd.TextUnavailable {
			continue
		}
		if opts.IncludePatch && len(sd.Edits) > 0 && sd.Change != domain.SectionUnchanged {
			patch, err := UnifiedPatch(
				patchName("a", result.DocumentID, key, result.From),
				patchName("b", result.DocumentID, key, result.To),
				sd.Edits, opts.Context)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", key, err)
			}
			sd.Patch = patch
		}
		result.Sections = append(result.Sections, sd)
	}

	summarize(result)
	return result, nil
}

// newerThan orders versions by date, then historical before preview.
func newerThan(a, b *domain.ReconstructedVersion) bool {
	if !a.AsOf.Equal(b.AsOf) {
		return a.AsOf.After(b.AsOf)
	}
	return a.Mode == domain.ModePreview && b.Mode != domain.ModePreview
}

func unionKeys(a, b *domain.ReconstructedVersion) []domain.SectionKey {
	set := make(map[domain.SectionKey]struct{}, len(a.Sections)+len(b.Sections))
	for _, v := range []*domain.ReconstructedVersion{a, b} {
		for i := range v.Sections {
			set[v.Sections[i].Key()] = struct{}{}
		}
	}
	keys := make([]domain.SectionKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// compareSection classifies one key going from older to newer. It reports
// false when the section exists on neither side. A missing SectionVersion
// has a zero SectionText, which counts as absent.
func compareSection(key domain.SectionKey, fromVer, toVer domain.SectionVersion) (domain.SectionDiff, bool) {
	from, to := fromVer.Text, toVer.Text
	sd := domain.SectionDiff{
		Chapter:         key.Chapter,
		Section:         key.Section,
		Display:         key.Display(),
		FromUnavailable: from.IsUnavailable(),
		ToUnavailable:   to.IsUnavailable(),
	}
	sd.TextUnavailable = sd.FromUnavailable || sd.ToUnavailable
	if from.IsPresent() {
		sd.FromText = domain.StringPtr(from.Text)
	}
	if to.IsPresent() {
		sd.ToText = domain.StringPtr(to.Text)
	}

	fromExists, toExists := from.Exists(), to.Exists()
	switch {
	case !fromExists && !toExists:
		return sd, false
	case !fromExists:
		sd.Change = domain.SectionAdded
	case !toExists:
		sd.Change = domain.SectionRemoved
	case sd.TextUnavailable:
		// Without text on a side, only an unbroken interval proves nothing changed.
		if sameSource(fromVer, toVer) {
			sd.Change = domain.SectionUnchanged
		} else {
			sd.Change = domain.SectionModified
		}
		return sd, true
	}

	if sd.TextUnavailable {
		return sd, true
	}

	var fromLines, toLines []string
	if from.IsPresent() {
		fromLines = LogicalLines(from.Text)
	}
	if to.IsPresent() {
		toLines = LogicalLines(to.Text)
	}

	if sd.Change == "" {
		if equalLines(fromLines, toLines) {
			sd.Change = domain.SectionUnchanged
			return sd, true
		}
		sd.Change = domain.SectionModified
	}

	sd.Edits = EditScript(fromLines, toLines)
	sd.LinesAdded, sd.LinesRemoved = countChanges(sd.Edits)
	return sd, true
}

func sameSource(a, b domain.SectionVersion) bool {
	if a.AmendmentID != b.AmendmentID || a.Text.State != b.Text.State {
		return false
	}
	if a.EffectiveFrom == nil || b.EffectiveFrom == nil {
		return a.EffectiveFrom == nil && b.EffectiveFrom == nil
	}
	return a.EffectiveFrom.Equal(*b.EffectiveFrom)
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// invertSection mirrors a section diff computed from older to newer.
func invertSection(sd domain.SectionDiff) domain.SectionDiff {
	switch sd.Change {
	case domain.SectionAdded:
		sd.Change = domain.SectionRemoved
	case domain.SectionRemoved:
		sd.Change = domain.SectionAdded
	}
	sd.FromUnavailable, sd.ToUnavailable = sd.ToUnavailable, sd.FromUnavailable
	sd.FromText, sd.ToText = sd.ToText, sd.FromText
	sd.LinesAdded, sd.LinesRemoved = sd.LinesRemoved, sd.LinesAdded
	sd.Edits = InvertEdits(sd.Edits)
	return sd
}

// amendmentsBetween lists amendments applied in newer but not in older.
func amendmentsBetween(older, newer *domain.ReconstructedVersion) []domain.AmendmentRef {
	seen := make(map[string]struct{}, len(older.Applied))
	for _, r := range older.Applied {
		seen[r.ID] = struct{}{}
	}
	out := []domain.AmendmentRef{}
	for _, r := range newer.Applied {
		if _, ok := seen[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func sectionAmendmentsBetween(older, newer []string, refs map[string]domain.AmendmentRef) []domain.AmendmentRef {
	seen := make(map[string]struct{}, len(older))
	for _, id := range older {
		seen[id] = struct{}{}
	}
	var out []domain.AmendmentRef
	for _, id := range newer {
		if _, ok := seen[id]; ok {
			continue
		}
		ref, ok := refs[id]
		if !ok {
			ref = domain.AmendmentRef{ID: id}
		}
		out = append(out, ref)
	}
	return out
}

func summarize(r *domain.DiffResult) {
	for _, sd := range r.Sections {
		switch sd.Change {
		case domain.SectionAdded:
			r.Summary.Added++
		case domain.SectionRemoved:
			r.Summary.Removed++
		case domain.SectionModified:
			r.Summary.Modified++
		case domain.SectionUnchanged:
			r.Summary.Unchanged++
		}
		if sd.TextUnavailable {
			r.Summary.Unavailable++
		}
		r.Summary.LinesAdded += sd.LinesAdded
		r.Summary.LinesRemoved += sd.LinesRemoved
	}
}

func patchName(side, documentID string, key domain.SectionKey, d time.Time) string {
	return fmt.Sprintf("%s/%s/%s@%s", side, documentID, key, domain.FormatDate(d))
}
