package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2013-07-01", "2013-07-01", false},
		{" 1977-01-01 ", "1977-01-01", false},
		{"", "", true},
		{"2013-13-01", "", true},
		{"2013/07/01", "", true},
		{"01-07-2013", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if FormatDate(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, FormatDate(got))
			}
			if got.Location() != time.UTC {
				t.Errorf("expected UTC, got %v", got.Location())
			}
		})
	}
}

func TestDay(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	in := time.Date(2020, 3, 1, 0, 30, 0, 0, cet)

	got := Day(in)
	if FormatDate(got) != "2020-02-29" {
		t.Errorf("expected UTC day 2020-02-29, got %s", FormatDate(got))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestDayIn(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	in := time.Date(2029, 12, 31, 23, 30, 0, 0, time.UTC)

	if got := FormatDate(DayIn(in, cet)); got != "2030-01-01" {
		t.Errorf("expected local day 2030-01-01, got %s", got)
	}
	if got := DayIn(in, cet); got.Location() != time.UTC || got.Hour() != 0 {
		t.Errorf("expected UTC midnight, got %v", got)
	}
	if got := FormatDate(DayIn(in, nil)); got != "2029-12-31" {
		t.Errorf("nil location is UTC, got %s", got)
	}
}

func TestDatePtr(t *testing.T) {
	p := DatePtr(time.Date(2019, 1, 1, 15, 0, 0, 0, time.UTC))
	if p == nil || !p.Equal(MustDate("2019-01-01")) {
		t.Errorf("expected 2019-01-01, got %v", p)
	}
}
