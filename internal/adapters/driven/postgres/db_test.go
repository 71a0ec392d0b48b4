package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pq.Error{Code: codeUniqueViolation, Constraint: "amendments_pkey"}, domain.ErrAlreadyExists},
		{"foreign key violation", &pq.Error{Code: codeForeignKeyViolation, Constraint: "amendments_document_id_fkey"}, domain.ErrDocumentNotFound},
		{"check violation", &pq.Error{Code: codeCheckViolation, Constraint: "section_changes_kind_check"}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}

	other := &pq.Error{Code: "42P01"}
	if got := mapError(other); got != error(other) {
		t.Errorf("unmapped codes pass through, got %v", got)
	}
	if mapError(nil) != nil {
		t.Error("nil stays nil")
	}
}

func TestForeignKeyViolationIsNotFound(t *testing.T) {
	err := mapError(&pq.Error{Code: codeForeignKeyViolation})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNullDateRoundTrip(t *testing.T) {
	if nullDay(nil).Valid {
		t.Error("nil date should be NULL")
	}
	if dayPtr(nullDay(nil)) != nil {
		t.Error("NULL should map back to nil")
	}

	d := time.Date(2013, 7, 1, 15, 4, 5, 0, time.FixedZone("CEST", 2*3600))
	got := dayPtr(nullDay(&d))
	if got == nil || domain.FormatDate(*got) != "2013-07-01" {
		t.Errorf("dayPtr(nullDay()) = %v, want 2013-07-01", got)
	}
}

func TestNullTextKeepsEmptyString(t *testing.T) {
	empty := ""
	ns := nullText(&empty)
	if !ns.Valid {
		t.Fatal("empty text is present, not NULL")
	}
	if got := textPtr(ns); got == nil || *got != "" {
		t.Errorf("textPtr(nullText(\"\")) = %v, want empty string", got)
	}
	if textPtr(nullText(nil)) != nil {
		t.Error("NULL should map back to nil")
	}
}

func TestConnectRejectsMalformedURL(t *testing.T) {
	_, err := Connect(context.Background(), DefaultConfig("postgres://user@localhost:notaport/statutes"))
	if err == nil {
		t.Fatal("expected an error for a malformed url")
	}
}

func TestHashLockName(t *testing.T) {
	a := hashLockName("statute:prewarm:1977:1160")
	if a != hashLockName("statute:prewarm:1977:1160") {
		t.Error("hash must be stable")
	}
	if a == hashLockName("statute:prewarm:1982:80") {
		t.Error("different names should hash differently")
	}
}
