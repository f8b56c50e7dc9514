package datalogger

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	UnrecognizedFormat ErrorKind = "unrecognized_format"
	NoValidData        ErrorKind = "no_valid_data"
	// MalformedCell is only used to count dropped rows; it is never returned.
	MalformedCell ErrorKind = "malformed_cell"
)

var (
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	ErrNoValidData        = errors.New("no valid rows")
)

// ExtractionError reports why a sheet could not be turned into a table.
type ExtractionError struct {
	Kind    ErrorKind
	Layout  LayoutTag
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *ExtractionError) Is(target error) bool {
	switch target {
	case ErrUnrecognizedFormat:
		return e.Kind == UnrecognizedFormat
	case ErrNoValidData:
		return e.Kind == NoValidData
	}
	return false
}

// NewExtractionError builds an ExtractionError with a formatted message.
func NewExtractionError(kind ErrorKind, layout LayoutTag, format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{
		Kind:    kind,
		Layout:  layout,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsExtractionError unwraps err into an ExtractionError when it is one.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr, true
	}
	return nil, false
}
