package ach

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel causes wrapped by FieldValidationError.
var (
	ErrTooLong      = errors.New("value does not fit the field width")
	ErrNotNumeric   = errors.New("value must contain digits only")
	ErrNotPrintable = errors.New("value must contain printable ASCII only")
	ErrCheckDigit   = errors.New("routing number check digit mismatch")
	ErrUnknownCode  = errors.New("code is not part of the accepted set")
	ErrBadDate      = errors.New("value is not a valid date")
	ErrUnsupported  = errors.New("value type is not supported by the field")
	ErrUnknownField = errors.New("field is not part of the record")
	ErrPrenote      = errors.New("prenotification entries must have a zero amount")
	ErrServiceClass = errors.New("entry direction is not allowed by the batch service class")
)

// MissingRequiredFieldError reports required fields absent when a record is
// constructed.
type MissingRequiredFieldError struct {
	Record string
	Fields []string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Record, strings.Join(e.Fields, ", "))
}

// FieldValidationError reports a value rejected by its field type.
type FieldValidationError struct {
	Record string
	Field  string
	Value  any
	Err    error
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: invalid value %v: %v", e.Record, e.Field, e.Value, e.Err)
}

func (e *FieldValidationError) Unwrap() error { return e.Err }

// NoBatchForTransactionError is returned when an entry targets the current
// batch but no batch has been added yet.
type NoBatchForTransactionError struct{}

func (*NoBatchForTransactionError) Error() string {
	return "no batch to add the transaction to: add a batch first"
}

// BatchIndexError is returned when an explicit batch index does not name an
// existing batch. It is never collected by lenient adds.
type BatchIndexError struct {
	Index int
	Count int
}

func (e *BatchIndexError) Error() string {
	return fmt.Sprintf("batch index %d out of range [0:%d]", e.Index, e.Count)
}

// MalformedRecordError reports raw text that does not form a valid record
// line, or a line out of its structural place.
type MalformedRecordError struct {
	Line   int // 1-based physical line number, 0 when unknown.
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed record on line %d: %s", e.Line, msg)
	}
	return "malformed record: " + msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ControlMismatchError reports a control record total that disagrees with
// the value recomputed from the records it controls.
type ControlMismatchError struct {
	Record   string // batch_control or file_control
	Batch    int    // 1-based batch position, 0 for the file control.
	Field    string
	Stated   string
	Computed string
}

func (e *ControlMismatchError) Error() string {
	where := e.Record
	if e.Batch > 0 {
		where = fmt.Sprintf("%s of batch %d", e.Record, e.Batch)
	}
	return fmt.Sprintf("%s: %s is %q, computed %q", where, e.Field, e.Stated, e.Computed)
}
