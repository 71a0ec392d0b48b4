package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "Lagen gäller.", []string{"Lagen gäller."}},
		{"empty", "", nil},
		{"only whitespace", " \n\t\n ", nil},
		{"wrapped line is joined", "Arbetsgivaren ska\nvidta åtgärder.", []string{"Arbetsgivaren ska vidta åtgärder."}},
		{"crlf", "Första\r\nraden.", []string{"Första raden."}},
		{"bare cr", "Första\rraden.", []string{"Första raden."}},
		{"paragraphs stay separate", "Första stycket.\n\nAndra stycket.", []string{"Första stycket.", "Andra stycket."}},
		{"blank line with spaces", "Ett.\n   \nTvå.", []string{"Ett.", "Två."}},
		{"numbered list", "Följande gäller:\n1. ett\n2. två", []string{"Följande gäller:", "1. ett", "2. två"}},
		{"lettered list", "Med arbetstagare avses\na) anställda\nb) elever", []string{"Med arbetstagare avses", "a) anställda", "b) elever"}},
		{"dash list", "Villkor:\n– skriftligt\n– undertecknat", []string{"Villkor:", "– skriftligt", "– undertecknat"}},
		{"whitespace runs", "  Lagen \t gäller alla. ", []string{"Lagen gäller alla."}},
		{"curly quotes", "Ordet \u201dsyssla\u201d och \u2019x\u2019", []string{`Ordet "syssla" och 'x'`}},
		{"zero width", "Lag\u200bstiftning", []string{"Lagstiftning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogicalLines(tt.in))
		})
	}
}

func TestNormalizeText_Hyphenation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line-break hyphen is joined", "lag-\nstiftning", "lagstiftning"},
		{"line-break hyphen with spaces", "lag- \n  stiftning", "lagstiftning"},
		{"soft hyphen", "lag\u00adstiftning", "lagstiftning"},
		{"soft hyphen at line break", "lag\u00ad\nstiftning", "lagstiftning"},
		{"compound mid-line is kept", "sjukpenning-grundande inkomst", "sjukpenning-grundande inkomst"},
		{"abbreviation compound mid-line is kept", "EU-rätten gäller", "EU-rätten gäller"},
		{"abbreviation compound across a break keeps its hyphen", "EU-\nrätten gäller", "EU-rätten gäller"},
		{"digit compound across a break keeps its hyphen", "2-\nårig", "2-årig"},
		{"proper noun after a break keeps the hyphen", "svensk-\nEU", "svensk-EU"},
		{"suspended compound with och", "import-\noch exportavgifter", "import- och exportavgifter"},
		{"suspended compound with eller", "arbets-\neller studietid", "arbets- eller studietid"},
		{"suspended compound on one line", "import- och exportavgifter", "import- och exportavgifter"},
		{"dash between words is untouched", "1977 - 2013", "1977 - 2013"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeText_SameTransformForBothSides(t *testing.T) {
	clean := "Arbetsgivaren ska vidta alla åtgärder som behövs.\n\nAndra stycket."
	artifacts := "Arbetsgivaren ska vid-\nta alla  åtgärder\r\nsom be\u00adhövs.\r\n\r\nAndra  stycket. "

	assert.Equal(t, NormalizeText(clean), NormalizeText(artifacts))
	assert.Equal(t, NormalizeText(clean), NormalizeText(NormalizeText(clean)), "normalization is idempotent")
}

func TestNormalizeText_KeepsSubstantiveChanges(t *testing.T) {
	assert.NotEqual(t, NormalizeText("tre månader"), NormalizeText("sex månader"))
	assert.NotEqual(t, NormalizeText("Första.\n\nAndra."), NormalizeText("Första. Andra."), "paragraph structure is substantive")
	assert.NotEqual(t, NormalizeText("EU-rätten"), NormalizeText("EUrätten"))
}
