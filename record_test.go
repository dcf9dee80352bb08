package ach

import (
	"errors"
	"testing"
)

func TestNewRecord(t *testing.T) {
	rt := StandardSchema().Addenda()
	r, err := NewRecord(rt, Values{
		"payment_related_information": "INVOICE 42",
		"entry_detail_sequence_number": 12,
	}, testClock)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	want := "705INVOICE 42                                                                      00010000012"
	if got := r.Line(); got != want {
		t.Errorf("Line() =\n%q, want\n%q", got, want)
	}
	if got := r.Field("addenda_sequence_number"); got != "0001" {
		t.Errorf("default addenda_sequence_number = %q", got)
	}
	if got := r.Field("nickname"); got != "" {
		t.Errorf("Field(nickname) = %q", got)
	}
	values := r.FieldValues()
	if _, ok := values["record_type_code"]; ok {
		t.Errorf("FieldValues() has the record type code")
	}
	if _, ok := values["entry_detail_sequence_number"]; ok {
		t.Errorf("FieldValues() has a builder computed field")
	}
	if got := values["payment_related_information"]; got != "INVOICE 42" {
		t.Errorf("payment_related_information = %q", got)
	}
}

func TestNewRecordRequiredAndBlank(t *testing.T) {
	rt := StandardSchema().EntryDetail()
	_, err := NewRecord(rt, Values{"transaction_code": 22}, testClock)
	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("NewRecord() error = %v", err)
	}
	want := []string{"rdfi_routing", "rdfi_account_number", "amount", "individual_name", "trace_odfi_identifier", "trace_sequence_number"}
	if len(missing.Fields) != len(want) {
		t.Fatalf("missing = %v, want %v", missing.Fields, want)
	}
	for i := range want {
		if missing.Fields[i] != want[i] {
			t.Errorf("missing[%d] = %s, want %s", i, missing.Fields[i], want[i])
		}
	}

	// An explicit blank in an optional field with a default stays blank.
	h, err := NewRecord(StandardSchema().FileHeader(), Values{
		"destination_routing": "021000021", "origin_id": "011000015",
		"destination_name": "A", "origin_name": "B", "file_creation_time": "",
	}, testClock)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if got := h.Field("file_creation_time"); got != "    " {
		t.Errorf("file_creation_time = %q", got)
	}
	if got := h.Field("file_creation_date"); got != "261018" {
		t.Errorf("file_creation_date = %q", got)
	}
}

func TestNewRecordCheckOrder(t *testing.T) {
	tests := []struct {
		name        string
		rt          *RecordType
		values      Values
		wantMissing bool
	}{
		{
			name:        "missing and unknown",
			rt:          StandardSchema().FileHeader(),
			values:      Values{"destination_routing": "021000021", "bogus": "x"},
			wantMissing: true,
		},
		{
			name:   "unknown only",
			rt:     StandardSchema().Addenda(),
			values: Values{"payment_related_information": "INVOICE 42", "entry_detail_sequence_number": 12, "nickname": "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.rt, tt.values, testClock)
			var missing *MissingRequiredFieldError
			if got := errors.As(err, &missing); got != tt.wantMissing {
				t.Errorf("NewRecord() error = %v, want MissingRequiredFieldError: %v", err, tt.wantMissing)
			}
			if !tt.wantMissing && !errors.Is(err, ErrUnknownField) {
				t.Errorf("NewRecord() error = %v, want ErrUnknownField", err)
			}
		})
	}
}

func TestTag(t *testing.T) {
	c := mustParse(t, readFixture(t, "ppd.ach"))
	records := []*Record{
		c.FileHeader.Record, c.Batches[0].Header.Record, c.Batches[0].Transactions[1].Entry.Record,
		c.Batches[0].Transactions[1].Addendas[0].Record, c.Batches[0].Control.Record, c.FileControl.Record,
	}
	for _, r := range records {
		var kind RecordKind
		switch Tag(r).(type) {
		case FileHeader:
			kind = FileHeaderKind
		case BatchHeader:
			kind = BatchHeaderKind
		case EntryDetail:
			kind = EntryDetailKind
		case Addenda:
			kind = AddendaKind
		case BatchControl:
			kind = BatchControlKind
		case FileControl:
			kind = FileControlKind
		}
		if kind != r.Kind() {
			t.Errorf("Tag(%v) has the wrong variant", r.Kind())
		}
	}
}
