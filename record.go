package ach

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gitexel/ach-file/date"
)

// Values maps field names to caller values.
type Values map[string]any

// Record is one line of an ACH file: a record type and the formatted text
// of each of its fields.
type Record struct {
	typ   *RecordType
	text  []string
	auto  map[int]AutoDate // fields resolved against clock when read
	clock date.Clock
}

// NewRecord validates values against rt and returns the record.
//
// Fields absent from values take their default. A required field without a
// default must be present and, for strings, non-empty. AutoDate values (or
// their names, e.g. "TOMORROW") in date and time fields are kept unresolved
// until the record is rendered.
func NewRecord(rt *RecordType, values Values, clock date.Clock) (*Record, error) {
	if clock == nil {
		clock = date.System
	}
	var missing []string
	for _, d := range rt.RequiredInputs() {
		if isAbsent(values[d.Name]) {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRequiredFieldError{Record: rt.Name(), Fields: missing}
	}
	var unknown []string
	for name := range values {
		if rt.index(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &FieldValidationError{Record: rt.Name(), Field: unknown[0], Value: values[unknown[0]], Err: ErrUnknownField}
	}

	r := &Record{typ: rt, text: make([]string, len(rt.fields)), clock: clock}
	for i, d := range rt.fields {
		v, ok := values[d.Name]
		switch {
		case i == 0, !ok, v == nil, d.Required && isAbsent(v):
			v = d.Default
		}
		if v == nil {
			v = ""
		}
		if a, ok := autoDate(d, v); ok {
			if _, err := d.Format(a.Resolve(clock)); err != nil {
				return nil, &FieldValidationError{Record: rt.Name(), Field: d.Name, Value: v, Err: err}
			}
			if r.auto == nil {
				r.auto = map[int]AutoDate{}
			}
			r.auto[i] = a
			continue
		}
		s, err := d.Format(v)
		if err != nil {
			return nil, &FieldValidationError{Record: rt.Name(), Field: d.Name, Value: v, Err: err}
		}
		r.text[i] = s
	}
	return r, nil
}

// decodeRecord slices a 94 character line into the fields of rt and checks
// each of them.
func decodeRecord(rt *RecordType, line string) (*Record, error) {
	if len(line) != RecordLength {
		return nil, fmt.Errorf("line is %d characters, want %d", len(line), RecordLength)
	}
	r := &Record{typ: rt, text: make([]string, len(rt.fields))}
	for i, d := range rt.fields {
		s := line[rt.offsets[i] : rt.offsets[i]+d.Width]
		if _, err := d.Type.Value(s); err != nil {
			return nil, &FieldValidationError{Record: rt.Name(), Field: d.Name, Value: s, Err: err}
		}
		r.text[i] = s
	}
	return r, nil
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func autoDate(d FieldDefinition, v any) (AutoDate, bool) {
	switch d.Type.(type) {
	case DateField, TimeField:
	default:
		return 0, false
	}
	switch x := v.(type) {
	case AutoDate:
		return x, true
	case string:
		return ParseAutoDate(x)
	}
	return 0, false
}

// Type returns the record type of r.
func (r *Record) Type() *RecordType { return r.typ }

// Kind returns the record kind of r.
func (r *Record) Kind() RecordKind { return r.typ.kind }

// Field returns the formatted text of field name, or "" if r has no such field.
func (r *Record) Field(name string) string {
	i := r.typ.index(name)
	if i < 0 {
		return ""
	}
	return r.field(i)
}

func (r *Record) field(i int) string {
	if a, ok := r.auto[i]; ok {
		s, err := r.typ.fields[i].Format(a.Resolve(r.clock))
		if err != nil {
			return strings.Repeat(" ", r.typ.fields[i].Width)
		}
		return s
	}
	return r.text[i]
}

// Line renders r as a 94 character line.
func (r *Record) Line() string {
	var b strings.Builder
	b.Grow(RecordLength)
	for i := range r.typ.fields {
		b.WriteString(r.field(i))
	}
	return b.String()
}

func (r *Record) String() string { return r.Line() }

// FieldValues returns the caller-facing values of r: every field a builder
// caller may set, as accepted back by NewRecord. The record type code and
// the fields the builder always computes are left out.
func (r *Record) FieldValues() Values {
	out := Values{}
	for i, d := range r.typ.fields {
		if i == 0 || d.Fill == FillAlways {
			continue
		}
		s := r.field(i)
		if v, err := d.Type.Value(s); err == nil {
			s = v
		}
		out[d.Name] = s
	}
	return out
}

// dict returns every field, formatted and untrimmed.
func (r *Record) dict() map[string]any {
	out := make(map[string]any, len(r.typ.fields))
	for i, d := range r.typ.fields {
		out[d.Name] = r.field(i)
	}
	return out
}

// number reads a numeric field, returning 0 when it does not hold digits.
func (r *Record) number(name string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(r.Field(name)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Tagged is one of FileHeader, BatchHeader, EntryDetail, Addenda,
// BatchControl or FileControl.
type Tagged interface {
	Kind() RecordKind
	Line() string
	tagged()
}

// FileHeader is the first record of a file.
type FileHeader struct{ *Record }

// BatchHeader opens a batch.
type BatchHeader struct{ *Record }

// EntryDetail is one debit or credit.
type EntryDetail struct{ *Record }

// Addenda carries extra payment information for the preceding entry.
type Addenda struct{ *Record }

// BatchControl closes a batch with its totals.
type BatchControl struct{ *Record }

// FileControl closes the file with its totals.
type FileControl struct{ *Record }

func (FileHeader) tagged()   {}
func (BatchHeader) tagged()  {}
func (EntryDetail) tagged()  {}
func (Addenda) tagged()      {}
func (BatchControl) tagged() {}
func (FileControl) tagged()  {}

// Tag wraps r in the variant of its kind.
func Tag(r *Record) Tagged {
	switch r.Kind() {
	case FileHeaderKind:
		return FileHeader{r}
	case BatchHeaderKind:
		return BatchHeader{r}
	case EntryDetailKind:
		return EntryDetail{r}
	case AddendaKind:
		return Addenda{r}
	case BatchControlKind:
		return BatchControl{r}
	case FileControlKind:
		return FileControl{r}
	}
	panic(fmt.Sprintf("record of unknown kind %v", r.Kind()))
}

// BlockingFactor returns the number of lines per block, 10 when unset.
func (h FileHeader) BlockingFactor() int {
	if n := h.number("blocking_factor"); n > 0 {
		return int(n)
	}
	return 10
}

// ODFI returns the eight digit originating bank identifier derived from the
// destination routing number.
func (h FileHeader) ODFI() string {
	s := strings.TrimSpace(h.Field("destination_routing"))
	if len(s) < 8 {
		return ""
	}
	return s[:8]
}

func (h BatchHeader) BatchNumber() int { return int(h.number("batch_number")) }

// ServiceClass returns the service class code, 200 when unreadable.
func (h BatchHeader) ServiceClass() ServiceClassCode {
	c, err := ParseServiceClassCode(h.Field("service_class_code"))
	if err != nil {
		return MixedDebitsAndCredits
	}
	return c
}

func (e EntryDetail) TransactionCode() TransactionCode {
	return TransactionCode(e.number("transaction_code"))
}

func (e EntryDetail) Amount() Amount { return Cents(e.number("amount")) }

// SequenceNumber returns the trace sequence number within the batch.
func (e EntryDetail) SequenceNumber() int { return int(e.number("trace_sequence_number")) }

func (e EntryDetail) HasAddenda() bool { return e.Field("addenda_record_indicator") == "1" }

// HashPrefix returns the first eight digits of the receiving routing number,
// the entry's contribution to the entry hash.
func (e EntryDetail) HashPrefix() int64 {
	s := strings.TrimSpace(e.Field("rdfi_routing"))
	if len(s) > 8 {
		s = s[:8]
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// TraceNumber returns the fifteen digit trace number of the entry.
func (e EntryDetail) TraceNumber() string {
	return e.Field("trace_odfi_identifier") + e.Field("trace_sequence_number")
}

func (a Addenda) SequenceNumber() int { return int(a.number("addenda_sequence_number")) }

// EntrySequenceNumber returns the trace sequence number of the entry the
// addenda belongs to.
func (a Addenda) EntrySequenceNumber() int { return int(a.number("entry_detail_sequence_number")) }
