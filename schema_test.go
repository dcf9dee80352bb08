package ach

import (
	"reflect"
	"strings"
	"testing"
)

func TestSchemaFieldLists(t *testing.T) {
	s := StandardSchema()
	tests := []struct {
		name     string
		all      Fields
		required Fields
		inputs   Fields
		wantAll  []string
		wantReq  []string
		wantIn   []string
	}{
		{
			name:     "file header",
			all:      s.FileSettingFields(false),
			required: s.FileSettingFields(true),
			inputs:   s.FileHeader().RequiredInputs(),
			wantAll: []string{
				"record_type_code", "priority_code", "destination_routing", "origin_id",
				"file_creation_date", "file_creation_time", "file_id_modifier", "record_size",
				"blocking_factor", "format_code", "destination_name", "origin_name", "reference_code",
			},
			wantReq: []string{"destination_routing", "origin_id", "destination_name", "origin_name"},
			wantIn:  []string{"destination_routing", "origin_id", "destination_name", "origin_name"},
		},
		{
			name:     "batch header",
			all:      s.BatchFields(false),
			required: s.BatchFields(true),
			inputs:   s.BatchHeader().RequiredInputs(),
			wantAll: []string{
				"record_type_code", "service_class_code", "company_name", "company_discretionary_data",
				"company_identification", "standard_entry_class_code", "company_entry_description",
				"company_descriptive_date", "effective_entry_date", "settlement_date",
				"originator_status_code", "odfi_identification", "batch_number",
			},
			wantReq: []string{"company_name", "company_identification", "company_entry_description"},
			wantIn:  []string{"company_name", "company_identification", "company_entry_description", "odfi_identification", "batch_number"},
		},
		{
			name:     "entry detail",
			all:      s.EntryFields(false),
			required: s.EntryFields(true),
			inputs:   s.EntryDetail().RequiredInputs(),
			wantAll: []string{
				"record_type_code", "transaction_code", "rdfi_routing", "rdfi_account_number", "amount",
				"individual_identification_number", "individual_name", "discretionary_data",
				"addenda_record_indicator", "trace_odfi_identifier", "trace_sequence_number",
			},
			wantReq: []string{"transaction_code", "rdfi_routing", "rdfi_account_number", "amount", "individual_name"},
			wantIn: []string{
				"transaction_code", "rdfi_routing", "rdfi_account_number", "amount", "individual_name",
				"trace_odfi_identifier", "trace_sequence_number",
			},
		},
		{
			name:     "addenda",
			all:      s.AddendaFields(false),
			required: s.AddendaFields(true),
			inputs:   s.Addenda().RequiredInputs(),
			wantAll: []string{
				"record_type_code", "addenda_type_code", "payment_related_information",
				"addenda_sequence_number", "entry_detail_sequence_number",
			},
			wantReq: nil,
			wantIn:  []string{"entry_detail_sequence_number"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.all.Names(); !reflect.DeepEqual(got, tt.wantAll) {
				t.Errorf("all fields = %v, want %v", got, tt.wantAll)
			}
			if got := tt.required.Names(); len(got) != len(tt.wantReq) || (len(got) > 0 && !reflect.DeepEqual(got, tt.wantReq)) {
				t.Errorf("caller required fields = %v, want %v", got, tt.wantReq)
			}
			if got := tt.inputs.Names(); !reflect.DeepEqual(got, tt.wantIn) {
				t.Errorf("required inputs = %v, want %v", got, tt.wantIn)
			}
		})
	}
}

func TestSchemaRecordWidths(t *testing.T) {
	s := StandardSchema()
	for _, k := range []RecordKind{FileHeaderKind, BatchHeaderKind, EntryDetailKind, AddendaKind, BatchControlKind, FileControlKind} {
		rt := s.Record(k)
		width := 0
		for _, d := range rt.AllFields() {
			width += d.Width
		}
		if width != RecordLength {
			t.Errorf("%s spans %d characters", k, width)
		}
		if rt.Kind() != k || rt.AllFields()[0].Default != string(rune(k)) {
			t.Errorf("%s record type code is wrong", k)
		}
		if len(rt.RequiredFields()) == 0 {
			t.Errorf("%s has no required field", k)
		}
	}
}

func TestSchemaWithFieldType(t *testing.T) {
	base := StandardSchema()
	s, err := base.WithFieldType(FileHeaderKind, "origin_id", AlphanumericType)
	if err != nil {
		t.Fatalf("WithFieldType() error = %v", err)
	}
	d, _ := s.FileHeader().AllFields().Get("origin_id")
	if d.Type != AlphanumericType || d.Width != 10 {
		t.Errorf("origin_id = %+v", d)
	}
	if d, _ := base.FileHeader().AllFields().Get("origin_id"); d.Type != RoutingNumberType {
		t.Errorf("base schema was modified")
	}
	if s.BatchHeader() != base.BatchHeader() {
		t.Errorf("untouched record types should be shared")
	}

	if _, err := base.WithFieldType(FileHeaderKind, "nickname", AlphanumericType); err == nil {
		t.Errorf("unknown field accepted")
	}
	if _, err := base.WithFieldType(EntryDetailKind, "record_type_code", AlphanumericType); err == nil {
		t.Errorf("record type code override accepted")
	}
	if _, err := base.WithFieldType(RecordKind('4'), "amount", NumericType); err == nil {
		t.Errorf("unknown record kind accepted")
	}
}

func TestLoadOverrides(t *testing.T) {
	doc := `
file_header:
  origin_id: alphanumeric
entry_detail:
  rdfi_account_number: alphanumeric
`
	s, err := LoadOverrides(strings.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	if d, _ := s.FileHeader().AllFields().Get("origin_id"); d.Type != AlphanumericType {
		t.Errorf("origin_id type = %s", d.Type.Name())
	}
	if d, _ := s.EntryDetail().AllFields().Get("rdfi_account_number"); d.Type != AlphanumericType {
		t.Errorf("rdfi_account_number type = %s", d.Type.Name())
	}

	empty, err := LoadOverrides(strings.NewReader(""), nil)
	if err != nil || empty != StandardSchema() {
		t.Errorf("empty overrides = %v, %v", empty, err)
	}

	bad := []string{
		"header:\n  origin_id: alphanumeric\n",
		"file_header:\n  origin_id: hexadecimal\n",
		"file_header:\n  nickname: alphanumeric\n",
		"file_header: [1, 2]\n",
	}
	for _, b := range bad {
		if _, err := LoadOverrides(strings.NewReader(b), nil); err == nil {
			t.Errorf("LoadOverrides(%q) succeeded", b)
		}
	}
}
