package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// NoChapter is the chapter value for documents that are not divided into chapters.
const NoChapter = ""

// SectionKey identifies a section across time, independent of its text.
type SectionKey struct {
	Chapter string `json:"chapter"`
	Section string `json:"section"`
}

// NewSectionKey builds a key from raw chapter and section references,
// normalizing both. It fails with ErrInvalidSectionKey on malformed input.
func NewSectionKey(chapter, section string) (SectionKey, error) {
	c, err := NormalizeChapterRef(chapter)
	if err != nil {
		return SectionKey{}, err
	}
	s, err := NormalizeSectionRef(section)
	if err != nil {
		return SectionKey{}, err
	}
	return SectionKey{Chapter: c, Section: s}, nil
}

// ParseSectionKey parses the "chapter:section" form produced by String.
func ParseSectionKey(s string) (SectionKey, error) {
	chapter, section, ok := strings.Cut(s, ":")
	if !ok {
		return NewSectionKey(NoChapter, s)
	}
	if strings.Contains(section, ":") {
		return SectionKey{}, fmt.Errorf("%w: %q", ErrInvalidSectionKey, s)
	}
	return NewSectionKey(chapter, section)
}

// String returns "chapter:section", with an empty chapter for unchaptered documents.
func (k SectionKey) String() string {
	return k.Chapter + ":" + k.Section
}

// Display renders the key the way statutes cite it, e.g. "4 kap. 3 a §".
func (k SectionKey) Display() string {
	section := labelSplit.ReplaceAllString(k.Section, "$1 $2")
	if k.Chapter == NoChapter {
		return section + " §"
	}
	return k.Chapter + " kap. " + section + " §"
}

// Less orders keys chapter first, then section, both numeric-aware.
func (k SectionKey) Less(other SectionKey) bool {
	return CompareSectionKeys(k, other) < 0
}

var (
	labelPattern = regexp.MustCompile(`^[0-9]+[a-z]{0,2}$`)
	labelSplit   = regexp.MustCompile(`^([0-9]+)([a-z]+)$`)
	chapterNoise = regexp.MustCompile(`(?i)\b(kapitel|kap\.?|chapter|ch\.)`)
	sectionNoise = regexp.MustCompile(`(?i)(§|\bsection\b|\bsec\.)`)
)

// NormalizeSectionRef turns a section reference such as "2 a §" or "12 B"
// into its canonical label ("2a", "12b").
func NormalizeSectionRef(ref string) (string, error) {
	label := sectionNoise.ReplaceAllString(ref, "")
	label = strings.ToLower(strings.Join(strings.Fields(label), ""))
	if !labelPattern.MatchString(label) {
		return "", fmt.Errorf("%w: section %q", ErrInvalidSectionKey, ref)
	}
	return trimLeadingZeros(label), nil
}

// NormalizeChapterRef turns a chapter reference such as "4 kap." into "4".
// An empty reference yields NoChapter.
func NormalizeChapterRef(ref string) (string, error) {
	label := chapterNoise.ReplaceAllString(ref, "")
	label = strings.ToLower(strings.Join(strings.Fields(label), ""))
	if label == "" {
		return NoChapter, nil
	}
	if !labelPattern.MatchString(label) {
		return "", fmt.Errorf("%w: chapter %q", ErrInvalidSectionKey, ref)
	}
	return trimLeadingZeros(label), nil
}

func trimLeadingZeros(label string) string {
	i := 0
	for i < len(label)-1 && label[i] == '0' && label[i+1] >= '0' && label[i+1] <= '9' {
		i++
	}
	return label[i:]
}

// CompareSectionKeys orders keys by chapter then section label. Unchaptered
// keys sort first. Labels compare by their numeric prefix, then suffix, so
// "2" < "10" and "3" < "3a" < "3b" < "4".
func CompareSectionKeys(a, b SectionKey) int {
	if c := compareChapter(a.Chapter, b.Chapter); c != 0 {
		return c
	}
	return CompareLabels(a.Section, b.Section)
}

func compareChapter(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == NoChapter:
		return -1
	case b == NoChapter:
		return 1
	}
	return CompareLabels(a, b)
}

// CompareLabels is the numeric-aware label comparison used for chapters and sections.
func CompareLabels(a, b string) int {
	an, as := splitLabel(a)
	bn, bs := splitLabel(b)

	switch {
	case an != "" && bn == "":
		return -1
	case an == "" && bn != "":
		return 1
	case an != "" && bn != "":
		if c := compareDigits(an, bn); c != 0 {
			return c
		}
	}
	return strings.Compare(as, bs)
}

func splitLabel(label string) (digits, rest string) {
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	return label[:i], label[i:]
}

// compareDigits compares two decimal strings without converting them, so
// labels of any length order correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
