package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentNotFound indicates no base document exists for the identifier.
	// It matches ErrNotFound under errors.Is.
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

	// ErrNotYetInForce indicates the requested date precedes the document's enactment
	ErrNotYetInForce = errors.New("document not yet in force")

	// ErrInvalidDate indicates a date that could not be parsed
	ErrInvalidDate = fmt.Errorf("%w: date", ErrInvalidInput)

	// ErrInvalidSectionKey indicates a malformed chapter or section label
	ErrInvalidSectionKey = fmt.Errorf("%w: section key", ErrInvalidInput)

	// ErrInvalidDocumentID indicates a malformed official document number
	ErrInvalidDocumentID = fmt.Errorf("%w: document id", ErrInvalidInput)

	// ErrUnknownChangeKind indicates a section change with an unrecognized kind
	ErrUnknownChangeKind = errors.New("unknown change kind")

	// ErrDataIntegrity indicates stored statute records the engine cannot use
	ErrDataIntegrity = errors.New("inconsistent statute data")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NotYetInForceError is returned when a version is requested for a date before
// the document was enacted. It carries the enactment date so callers can say
// when the document does come into force.
type NotYetInForceError struct {
	DocumentID    string
	EnactmentDate time.Time
	Requested     time.Time
}

func (e *NotYetInForceError) Error() string {
	return fmt.Sprintf("document %s not yet in force on %s (enacted %s)",
		e.DocumentID, FormatDate(e.Requested), FormatDate(e.EnactmentDate))
}

// Is reports whether target is ErrNotYetInForce.
func (e *NotYetInForceError) Is(target error) bool {
	return target == ErrNotYetInForce
}
