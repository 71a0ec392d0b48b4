package domain

import (
	"errors"
	"testing"
)

func TestParseChangeKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ChangeKind
		wantErr bool
	}{
		{"INSERTED", ChangeInserted, false},
		{"new", ChangeInserted, false},
		{"MODIFIED", ChangeModified, false},
		{" amended ", ChangeModified, false},
		{"Repealed", ChangeRepealed, false},
		{"RENUMBERED", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChangeKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownChangeKind) {
					t.Errorf("expected ErrUnknownChangeKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestChangeKindValid(t *testing.T) {
	for _, k := range ChangeKinds {
		if !k.Valid() {
			t.Errorf("expected %s to be valid", k)
		}
	}
	if ChangeKind("MOVED").Valid() {
		t.Error("expected MOVED to be invalid")
	}
}

func TestAmendmentStatusOn(t *testing.T) {
	eff := MustDate("2013-07-01")
	a := &Amendment{ID: "2013:100", EffectiveDate: &eff}

	if got := a.StatusOn(MustDate("2013-06-30")); got != AmendmentPending {
		t.Errorf("expected pending the day before, got %s", got)
	}
	if got := a.StatusOn(MustDate("2013-07-01")); got != AmendmentInForce {
		t.Errorf("expected in_force on the effective day, got %s", got)
	}

	undated := &Amendment{ID: "2030:1"}
	if got := undated.StatusOn(MustDate("2013-07-01")); got != AmendmentUnknown {
		t.Errorf("expected unknown for undated amendment, got %s", got)
	}
}

func TestBaseDocumentInForceOn(t *testing.T) {
	enacted := MustDate("1977-01-01")
	doc := &BaseDocument{ID: "1977:1160", EnactmentDate: &enacted}

	if doc.InForceOn(MustDate("1976-12-31")) {
		t.Error("expected not in force before enactment")
	}
	if !doc.InForceOn(enacted) {
		t.Error("expected in force on enactment day")
	}

	undated := &BaseDocument{ID: "1900:1"}
	if !undated.InForceOn(MustDate("1800-01-01")) {
		t.Error("expected document without enactment date to always be in force")
	}
}

func TestSectionChangeHasNewText(t *testing.T) {
	tests := []struct {
		name   string
		change SectionChange
		want   bool
	}{
		{"nil", SectionChange{Kind: ChangeModified}, false},
		{"empty", SectionChange{Kind: ChangeModified, NewText: StringPtr("")}, false},
		{"text", SectionChange{Kind: ChangeModified, NewText: StringPtr("B")}, true},
	}
	for _, tt := range tests {
		if got := tt.change.HasNewText(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSectionText(t *testing.T) {
	empty := Present("")
	if !empty.IsPresent() || !empty.Exists() {
		t.Error("empty present text must still be present")
	}
	if Absent().Exists() {
		t.Error("absent must not exist")
	}
	if !Unavailable().Exists() {
		t.Error("unavailable means the section existed")
	}
	if got := TextOrUnavailable(nil); !got.IsUnavailable() {
		t.Errorf("expected unavailable for nil text, got %v", got)
	}
	if got := TextOrUnavailable(StringPtr("A")); got != Present("A") {
		t.Errorf("expected present A, got %v", got)
	}
}

func TestParseVersionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    VersionMode
		wantErr bool
	}{
		{"", ModeHistorical, false},
		{"historical", ModeHistorical, false},
		{"PREVIEW", ModePreview, false},
		{"future-preview", ModePreview, false},
		{"draft", "", true},
	}
	for _, tt := range tests {
		got, err := ParseVersionMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("%q: expected ErrInvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestIntervalCovers(t *testing.T) {
	from := MustDate("2013-07-01")
	to := MustDate("2019-01-01")
	iv := Interval{From: &from, To: &to, Text: Present("B")}

	if iv.Covers(MustDate("2013-06-30")) {
		t.Error("expected interval to exclude the day before From")
	}
	if !iv.Covers(from) {
		t.Error("expected interval to include From")
	}
	if iv.Covers(to) {
		t.Error("expected interval to exclude To")
	}

	open := Interval{Text: Absent()}
	if !open.Covers(MustDate("1066-10-14")) {
		t.Error("expected open interval to cover any date")
	}
}
