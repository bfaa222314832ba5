package scheme

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed matches every structural failure: a missing or ill-shaped
	// field, a bad entry or weight, or an unparsable document.
	ErrMalformed = errors.New("malformed schema")

	// ErrUnknownVacancy matches a skill referencing a vacancy that is not in
	// the catalog.
	ErrUnknownVacancy = errors.New("unknown vacancy")

	// ErrDuplicateName matches a vacancy, skill or weighted vacancy key that
	// appears more than once. The first occurrence is the one that counts.
	ErrDuplicateName = errors.New("duplicate name")
)

// Kind classifies a SchemaError.
type Kind int

const (
	// KindIO is a failure reading the byte source.
	KindIO Kind = iota + 1
	// KindStructure is a document that does not have the expected shape.
	KindStructure
	// KindReference is a broken skill → vacancy reference.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindStructure:
		return "structure"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SchemaError is the single error returned when a scheme cannot be built.
//
// Path is a dotted location inside the document ("skills.go.backend").
// Name is the offending vacancy or skill name when there is one.
// Line and Column are 1-based and zero when unknown.
type SchemaError struct {
	Kind        Kind
	Path        string
	Name        string
	Description string
	Line        int
	Column      int
	Err         error
}

func (e *SchemaError) Error() string {
	var msg string
	switch e.Kind {
	case KindIO:
		msg = "cannot read schema"
	case KindReference:
		msg = "broken vacancy reference"
	default:
		msg = "malformed schema"
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d, column %d)", e.Line, e.Column)
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil && !isSentinel(e.Err) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func isSentinel(err error) bool {
	return err == ErrMalformed || err == ErrUnknownVacancy || err == ErrDuplicateName
}

// Unwrap returns the underlying cause.
func (e *SchemaError) Unwrap() error { return e.Err }

// Is reports kind-level matches so callers can test errors.Is(err, ErrMalformed)
// without caring about the underlying cause.
func (e *SchemaError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == KindStructure
	case ErrUnknownVacancy:
		return e.Kind == KindReference
	}
	return false
}

// IsKind reports whether err is a *SchemaError of kind k.
func IsKind(err error, k Kind) bool {
	var se *SchemaError
	return errors.As(err, &se) && se.Kind == k
}
