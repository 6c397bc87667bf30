package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when the source does not know the requested location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrMalformedPayload is returned when a source payload is not valid JSON for its record type.
	ErrMalformedPayload = errors.New("malformed weather payload")
)

// MissingFieldError reports a required field absent from a raw record.
// Field is the dotted JSON path, e.g. "main.humidity".
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidTimestampError reports a timestamp that cannot be decoded to a calendar time.
type InvalidTimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidTimestampError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timestamp %s=%q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid timestamp %s=%q", e.Field, e.Value)
}

func (e *InvalidTimestampError) Unwrap() error {
	return e.Err
}

// InvalidValueError reports a present field whose value violates the record's range rules.
type InvalidValueError struct {
	Field string
	Value any
	Rule  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v (want %s)", e.Field, e.Value, e.Rule)
}

// IsNormalizationError reports whether err came from validating or decoding a raw record
// rather than from reaching the source.
func IsNormalizationError(err error) bool {
	var (
		missing *MissingFieldError
		badTS   *InvalidTimestampError
		badVal  *InvalidValueError
	)
	return errors.As(err, &missing) ||
		errors.As(err, &badTS) ||
		errors.As(err, &badVal) ||
		errors.Is(err, ErrMalformedPayload)
}
