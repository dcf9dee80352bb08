package ach

import (
	"fmt"
	"strings"
)

// RecordLength is the fixed width of every ACH line.
const RecordLength = 94

// FillerLine pads a file to a whole number of blocks.
var FillerLine = strings.Repeat("9", RecordLength)

// RecordKind is the one character record type code leading every line.
type RecordKind byte

const (
	FileHeaderKind   RecordKind = '1'
	BatchHeaderKind  RecordKind = '5'
	EntryDetailKind  RecordKind = '6'
	AddendaKind      RecordKind = '7'
	BatchControlKind RecordKind = '8'
	FileControlKind  RecordKind = '9'
)

var recordKindNames = map[RecordKind]string{
	FileHeaderKind:   "file_header",
	BatchHeaderKind:  "batch_header",
	EntryDetailKind:  "entry_detail",
	AddendaKind:      "addenda",
	BatchControlKind: "batch_control",
	FileControlKind:  "file_control",
}

func (k RecordKind) String() string {
	if n, ok := recordKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("record(%q)", byte(k))
}

// Valid reports whether k is one of the six record kinds.
func (k RecordKind) Valid() bool {
	_, ok := recordKindNames[k]
	return ok
}

// ParseRecordKind accepts a record kind name such as "file_header".
func ParseRecordKind(name string) (RecordKind, error) {
	for k, n := range recordKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q", name)
}

// Fill tells who provides a field value when a builder constructs a record.
type Fill int

const (
	FillCaller   Fill = iota // the caller, or the field default
	FillIfAbsent             // the builder, unless the caller supplied it
	FillAlways               // the builder, always
)

// FieldDefinition describes one positional field of a record.
type FieldDefinition struct {
	Name     string
	Type     FieldType
	Width    int
	Required bool
	Default  any // static value or AutoDate; nil for none
	Fill     Fill
}

// Format renders v at the field width.
func (d FieldDefinition) Format(v any) (string, error) {
	s, err := d.Type.Format(v, d.Width)
	if err != nil {
		return "", err
	}
	if len(s) != d.Width {
		return "", fmt.Errorf("%w: field type %s rendered %d characters for width %d", ErrTooLong, d.Type.Name(), len(s), d.Width)
	}
	return s, nil
}

// Fields is an ordered list of field definitions.
type Fields []FieldDefinition

// Names returns the field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, d := range f {
		names[i] = d.Name
	}
	return names
}

// Get returns the definition named name.
func (f Fields) Get(name string) (FieldDefinition, bool) {
	for _, d := range f {
		if d.Name == name {
			return d, true
		}
	}
	return FieldDefinition{}, false
}

const recordTypeCodeField = "record_type_code"

// RecordType is the immutable field table of one record kind.
type RecordType struct {
	kind    RecordKind
	fields  Fields
	offsets []int
}

func newRecordType(kind RecordKind, defs ...FieldDefinition) (*RecordType, error) {
	code := FieldDefinition{Name: recordTypeCodeField, Type: NumericType, Width: 1, Required: true, Default: string(rune(kind))}
	rt := &RecordType{kind: kind, fields: append(Fields{code}, defs...)}
	pos := 0
	seen := map[string]bool{}
	for _, d := range rt.fields {
		if seen[d.Name] {
			return nil, fmt.Errorf("%s: duplicate field %q", kind, d.Name)
		}
		seen[d.Name] = true
		if d.Type == nil || d.Width <= 0 {
			return nil, fmt.Errorf("%s: field %q needs a type and a positive width", kind, d.Name)
		}
		rt.offsets = append(rt.offsets, pos)
		pos += d.Width
	}
	if pos != RecordLength {
		return nil, fmt.Errorf("%s: fields span %d characters, want %d", kind, pos, RecordLength)
	}
	return rt, nil
}

func mustRecordType(kind RecordKind, defs ...FieldDefinition) *RecordType {
	rt, err := newRecordType(kind, defs...)
	if err != nil {
		panic(err)
	}
	return rt
}

// Kind returns the record kind described by rt.
func (rt *RecordType) Kind() RecordKind { return rt.kind }

// Name returns the record kind name, e.g. "entry_detail".
func (rt *RecordType) Name() string { return rt.kind.String() }

// AllFields returns every field in declaration order.
func (rt *RecordType) AllFields() Fields { return append(Fields(nil), rt.fields...) }

// RequiredFields returns the fields that must hold a value in a rendered record.
func (rt *RecordType) RequiredFields() Fields {
	return rt.filter(func(d FieldDefinition) bool { return d.Required })
}

// RequiredInputs returns the required fields without a default, which must
// be supplied when constructing a record. Builder populated fields are
// included.
func (rt *RecordType) RequiredInputs() Fields {
	return rt.filter(func(d FieldDefinition) bool {
		return d.Required && d.Default == nil && d.Name != recordTypeCodeField
	})
}

// CallerFields returns the schema a builder caller sees: every field, or
// when onlyRequired is set, the required inputs the builder does not fill.
func (rt *RecordType) CallerFields(onlyRequired bool) Fields {
	if !onlyRequired {
		return rt.AllFields()
	}
	return rt.filter(func(d FieldDefinition) bool {
		return d.Required && d.Default == nil && d.Name != recordTypeCodeField && d.Fill == FillCaller
	})
}

func (rt *RecordType) filter(keep func(FieldDefinition) bool) Fields {
	var out Fields
	for _, d := range rt.fields {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func (rt *RecordType) index(name string) int {
	for i, d := range rt.fields {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func (rt *RecordType) withFieldType(name string, t FieldType) (*RecordType, error) {
	i := rt.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%s: unknown field %q", rt.kind, name)
	}
	if i == 0 {
		return nil, fmt.Errorf("%s: the record type code cannot be overridden", rt.kind)
	}
	defs := rt.AllFields()
	defs[i].Type = t
	return newRecordType(rt.kind, defs[1:]...)
}

// Schema holds the record types a builder or parser works with. A Schema is
// immutable; customization returns a new value.
type Schema struct {
	types map[RecordKind]*RecordType
}

var standardSchema = &Schema{types: map[RecordKind]*RecordType{
	FileHeaderKind: mustRecordType(FileHeaderKind,
		FieldDefinition{Name: "priority_code", Type: NumericType, Width: 2, Required: true, Default: "01"},
		FieldDefinition{Name: "destination_routing", Type: RoutingNumberType, Width: 10, Required: true},
		FieldDefinition{Name: "origin_id", Type: RoutingNumberType, Width: 10, Required: true},
		FieldDefinition{Name: "file_creation_date", Type: DateType, Width: 6, Required: true, Default: AutoToday},
		FieldDefinition{Name: "file_creation_time", Type: TimeType, Width: 4, Default: AutoToday},
		FieldDefinition{Name: "file_id_modifier", Type: AlphanumericType, Width: 1, Required: true, Default: "A"},
		FieldDefinition{Name: "record_size", Type: NumericType, Width: 3, Required: true, Default: "094"},
		FieldDefinition{Name: "blocking_factor", Type: NumericType, Width: 2, Required: true, Default: "10"},
		FieldDefinition{Name: "format_code", Type: NumericType, Width: 1, Required: true, Default: "1"},
		FieldDefinition{Name: "destination_name", Type: AlphanumericType, Width: 23, Required: true},
		FieldDefinition{Name: "origin_name", Type: AlphanumericType, Width: 23, Required: true},
		FieldDefinition{Name: "reference_code", Type: AlphanumericType, Width: 8},
	),
	BatchHeaderKind: mustRecordType(BatchHeaderKind,
		FieldDefinition{Name: "service_class_code", Type: ServiceClassType, Width: 3, Required: true, Default: MixedDebitsAndCredits},
		FieldDefinition{Name: "company_name", Type: AlphanumericType, Width: 16, Required: true},
		FieldDefinition{Name: "company_discretionary_data", Type: AlphanumericType, Width: 20},
		FieldDefinition{Name: "company_identification", Type: AlphanumericType, Width: 10, Required: true},
		FieldDefinition{Name: "standard_entry_class_code", Type: EntryClassType, Width: 3, Required: true, Default: PPD},
		FieldDefinition{Name: "company_entry_description", Type: AlphanumericType, Width: 10, Required: true},
		FieldDefinition{Name: "company_descriptive_date", Type: AlphanumericType, Width: 6},
		FieldDefinition{Name: "effective_entry_date", Type: DateType, Width: 6, Required: true, Default: AutoTomorrow},
		FieldDefinition{Name: "settlement_date", Type: AlphanumericType, Width: 3},
		FieldDefinition{Name: "originator_status_code", Type: AlphanumericType, Width: 1, Required: true, Default: "1"},
		FieldDefinition{Name: "odfi_identification", Type: NumericType, Width: 8, Required: true, Fill: FillIfAbsent},
		FieldDefinition{Name: "batch_number", Type: NumericType, Width: 7, Required: true, Fill: FillIfAbsent},
	),
	EntryDetailKind: mustRecordType(EntryDetailKind,
		FieldDefinition{Name: "transaction_code", Type: TransactionCodeType, Width: 2, Required: true},
		FieldDefinition{Name: "rdfi_routing", Type: RoutingNumberType, Width: 9, Required: true},
		FieldDefinition{Name: "rdfi_account_number", Type: AccountNumberType, Width: 17, Required: true},
		FieldDefinition{Name: "amount", Type: NumericType, Width: 10, Required: true},
		FieldDefinition{Name: "individual_identification_number", Type: AlphanumericType, Width: 15},
		FieldDefinition{Name: "individual_name", Type: AlphanumericType, Width: 22, Required: true},
		FieldDefinition{Name: "discretionary_data", Type: AlphanumericType, Width: 2},
		FieldDefinition{Name: "addenda_record_indicator", Type: NumericType, Width: 1, Required: true, Default: 0, Fill: FillAlways},
		FieldDefinition{Name: "trace_odfi_identifier", Type: NumericType, Width: 8, Required: true, Fill: FillIfAbsent},
		FieldDefinition{Name: "trace_sequence_number", Type: NumericType, Width: 7, Required: true, Fill: FillAlways},
	),
	AddendaKind: mustRecordType(AddendaKind,
		FieldDefinition{Name: "addenda_type_code", Type: NumericType, Width: 2, Required: true, Default: "05"},
		FieldDefinition{Name: "payment_related_information", Type: AlphanumericType, Width: 80},
		FieldDefinition{Name: "addenda_sequence_number", Type: NumericType, Width: 4, Required: true, Default: 1, Fill: FillAlways},
		FieldDefinition{Name: "entry_detail_sequence_number", Type: NumericType, Width: 7, Required: true, Fill: FillAlways},
	),
	BatchControlKind: mustRecordType(BatchControlKind,
		FieldDefinition{Name: "service_class_code", Type: ServiceClassType, Width: 3, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "entry_and_addenda_count", Type: NumericType, Width: 6, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "entry_hash", Type: NumericType, Width: 10, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "total_debit_amount", Type: NumericType, Width: 12, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "total_credit_amount", Type: NumericType, Width: 12, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "company_identification", Type: AlphanumericType, Width: 10, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "message_authentication_code", Type: AlphanumericType, Width: 19},
		FieldDefinition{Name: "reserved", Type: AlphanumericType, Width: 6},
		FieldDefinition{Name: "odfi_identification", Type: NumericType, Width: 8, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "batch_number", Type: NumericType, Width: 7, Required: true, Fill: FillAlways},
	),
	FileControlKind: mustRecordType(FileControlKind,
		FieldDefinition{Name: "batch_count", Type: NumericType, Width: 6, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "block_count", Type: NumericType, Width: 6, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "entry_and_addenda_count", Type: NumericType, Width: 8, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "entry_hash", Type: NumericType, Width: 10, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "total_debit_amount", Type: NumericType, Width: 12, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "total_credit_amount", Type: NumericType, Width: 12, Required: true, Fill: FillAlways},
		FieldDefinition{Name: "reserved", Type: AlphanumericType, Width: 39},
	),
}}

// StandardSchema returns the shared NACHA layout.
func StandardSchema() *Schema { return standardSchema }

// Record returns the record type of kind k.
func (s *Schema) Record(k RecordKind) *RecordType { return s.types[k] }

func (s *Schema) FileHeader() *RecordType   { return s.types[FileHeaderKind] }
func (s *Schema) BatchHeader() *RecordType  { return s.types[BatchHeaderKind] }
func (s *Schema) EntryDetail() *RecordType  { return s.types[EntryDetailKind] }
func (s *Schema) Addenda() *RecordType      { return s.types[AddendaKind] }
func (s *Schema) BatchControl() *RecordType { return s.types[BatchControlKind] }
func (s *Schema) FileControl() *RecordType  { return s.types[FileControlKind] }

// WithFieldType returns a copy of s where field of record kind k uses t.
// The field keeps its width, so the record length is unchanged.
func (s *Schema) WithFieldType(k RecordKind, field string, t FieldType) (*Schema, error) {
	rt, ok := s.types[k]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %v", k)
	}
	nrt, err := rt.withFieldType(field, t)
	if err != nil {
		return nil, err
	}
	ns := &Schema{types: make(map[RecordKind]*RecordType, len(s.types))}
	for kind, t := range s.types {
		ns.types[kind] = t
	}
	ns.types[k] = nrt
	return ns, nil
}

// FileSettingFields lists the file header fields of a builder.
func (s *Schema) FileSettingFields(onlyRequired bool) Fields {
	return s.FileHeader().CallerFields(onlyRequired)
}

// BatchFields lists the batch header fields of a builder.
func (s *Schema) BatchFields(onlyRequired bool) Fields {
	return s.BatchHeader().CallerFields(onlyRequired)
}

// EntryFields lists the entry detail fields of a builder.
func (s *Schema) EntryFields(onlyRequired bool) Fields {
	return s.EntryDetail().CallerFields(onlyRequired)
}

// AddendaFields lists the addenda fields of a builder.
func (s *Schema) AddendaFields(onlyRequired bool) Fields {
	return s.Addenda().CallerFields(onlyRequired)
}
