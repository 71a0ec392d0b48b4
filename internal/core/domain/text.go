package domain

// TextState says whether a section's text is known at some point in time.
type TextState string

const (
	// TextPresent means the section existed and its text is known
	TextPresent TextState = "present"
	// TextAbsent means the section did not exist (not yet inserted, or repealed)
	TextAbsent TextState = "absent"
	// TextUnavailable means the section existed but its text could not be resolved
	TextUnavailable TextState = "unavailable"
)

// SectionText is the three-state value of a section at a point in time.
// Text is only meaningful when State is TextPresent; an empty string is a
// valid present text and is never conflated with absence.
type SectionText struct {
	State TextState `json:"state"`
	Text  string    `json:"text,omitempty"`
}

// Present wraps known text.
func Present(text string) SectionText {
	return SectionText{State: TextPresent, Text: text}
}

// Absent marks a section that does not exist.
func Absent() SectionText {
	return SectionText{State: TextAbsent}
}

// Unavailable marks a section whose text is unknown.
func Unavailable() SectionText {
	return SectionText{State: TextUnavailable}
}

// TextOrUnavailable returns Present(*text) when text is non-nil, Unavailable otherwise.
func TextOrUnavailable(text *string) SectionText {
	if text == nil {
		return Unavailable()
	}
	return Present(*text)
}

func (t SectionText) IsPresent() bool     { return t.State == TextPresent }
func (t SectionText) IsAbsent() bool      { return t.State == TextAbsent }
func (t SectionText) IsUnavailable() bool { return t.State == TextUnavailable }

// Exists reports whether the section existed, with or without known text.
func (t SectionText) Exists() bool {
	return t.State == TextPresent || t.State == TextUnavailable
}
