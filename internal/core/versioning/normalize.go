package versioning

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	softHyphenBreak = regexp.MustCompile("\u00ad[ \t]*\n[ \t]*")
	lineBreakHyphen = regexp.MustCompile(`([\p{L}\p{N}])-[ \t]*\n[ \t]*([\p{L}\p{N}]+)`)
	paragraphBreak  = regexp.MustCompile(`\n[ \t]*\n`)
	listMarker      = regexp.MustCompile(`^([0-9]+[a-z]?[.)]|[a-zåäö][.)]|[-\x{2013}\x{2014}\x{2022}*])\s`)
	spaceRun        = regexp.MustCompile(`[ \t\f\v\x{00a0}\x{2007}\x{202f}]+`)

	quoteReplacer = strings.NewReplacer(
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u00ab", `"`, "\u00bb", `"`,
		"\u2018", "'", "\u2019", "'", "\u201a", "'",
		"\u200b", "", "\ufeff", "",
	)
)

// Words after a line-break hyphen that mark a suspended compound,
// as in "import- och exportavgifter".
var conjunctions = map[string]bool{
	"och": true, "eller": true, "samt": true, "resp": true, "respektive": true,
	"till": true, "and": true, "or": true, "to": true,
}

// NormalizeText applies the comparison normalization and joins the logical
// lines with "\n". Both sides of a comparison must go through it.
func NormalizeText(s string) string {
	return strings.Join(LogicalLines(s), "\n")
}

// LogicalLines removes text extraction artifacts and splits the result into
// logical lines. Paragraphs separated by blank lines and list items stay
// separate; lines wrapped inside a paragraph are joined. Hyphens that are not
// at a line break are never touched, so compounds such as "EU-rätten" survive.
func LogicalLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = softHyphenBreak.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\u00ad", "")
	s = quoteReplacer.Replace(s)
	s = joinHyphenation(s)

	var lines []string
	for _, para := range paragraphBreak.Split(s, -1) {
		var current []string
		flush := func() {
			if line := collapse(strings.Join(current, " ")); line != "" {
				lines = append(lines, line)
			}
			current = current[:0]
		}
		for _, raw := range strings.Split(para, "\n") {
			line := collapse(raw)
			if line == "" {
				continue
			}
			if len(current) > 0 && listMarker.MatchString(line) {
				flush()
			}
			current = append(current, line)
		}
		flush()
	}
	return lines
}

// joinHyphenation repairs words split across a line break. Lowercase halves
// are joined without the hyphen. The hyphen is kept when either half starts
// or ends with an uppercase letter or digit ("EU-\nrätten"), and a
// conjunction after the break keeps the suspended compound ("import- och").
func joinHyphenation(s string) string {
	return lineBreakHyphen.ReplaceAllStringFunc(s, func(m string) string {
		parts := lineBreakHyphen.FindStringSubmatch(m)
		prev, next := parts[1], parts[2]

		switch {
		case conjunctions[strings.ToLower(next)]:
			return prev + "- " + next
		case isLowerRune(lastRune(prev)) && isLowerRune(firstRune(next)):
			return prev + next
		default:
			return prev + "-" + next
		}
	})
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isLowerRune(r rune) bool {
	return unicode.IsLower(r)
}
