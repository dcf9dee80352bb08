package ach

import (
	"errors"
	"testing"
	"time"

	"github.com/gitexel/ach-file/date"
	"github.com/goccy/go-json"
)

func TestFieldFormat(t *testing.T) {
	tests := []struct {
		name    string
		typ     FieldType
		width   int
		value   any
		want    string
		wantErr error
	}{
		{"numeric int", NumericType, 6, 42, "000042", nil},
		{"numeric string", NumericType, 6, "300", "000300", nil},
		{"numeric blank", NumericType, 3, "", "000", nil},
		{"numeric json number", NumericType, 4, json.Number("12"), "0012", nil},
		{"numeric amount", NumericType, 10, Dollars(70.25), "0000007025", nil},
		{"numeric too long", NumericType, 3, 1234, "", ErrTooLong},
		{"numeric letters", NumericType, 5, "12a", "", ErrNotNumeric},
		{"numeric negative", NumericType, 5, -1, "", ErrNotNumeric},
		{"numeric float", NumericType, 5, 1.5, "", ErrUnsupported},
		{"alphanumeric", AlphanumericType, 8, "ACME", "ACME    ", nil},
		{"alphanumeric keeps case", AlphanumericType, 6, "Test", "Test  ", nil},
		{"alphanumeric too long", AlphanumericType, 3, "ACME", "", ErrTooLong},
		{"alphanumeric control char", AlphanumericType, 5, "a\tb", "", ErrNotPrintable},
		{"alphanumeric non ascii", AlphanumericType, 5, "café", "", ErrNotPrintable},
		{"account number", AccountNumberType, 17, "65656565", "65656565         ", nil},
		{"account number masked", AccountNumberType, 17, "****6565", "", ErrNotNumeric},
		{"routing padded", RoutingNumberType, 10, "021000021", " 021000021", nil},
		{"routing exact", RoutingNumberType, 9, "091000019", "091000019", nil},
		{"routing int", RoutingNumberType, 9, 11000015, "011000015", nil},
		{"routing check digit", RoutingNumberType, 9, "123456789", "", ErrCheckDigit},
		{"routing short", RoutingNumberType, 9, "0210000", "", ErrNotNumeric},
		{"date compact", DateType, 6, "261019", "261019", nil},
		{"date iso", DateType, 6, "2026-10-19", "261019", nil},
		{"date value", DateType, 6, date.New(2026, time.March, 4), "260304", nil},
		{"date invalid", DateType, 6, "261340", "", ErrBadDate},
		{"time", TimeType, 4, time.Date(2026, 1, 1, 7, 5, 0, 0, time.UTC), "0705", nil},
		{"time blank", TimeType, 4, "", "    ", nil},
		{"time invalid", TimeType, 4, "2561", "", ErrBadDate},
		{"transaction code constant", TransactionCodeType, 2, CheckingCredit, "22", nil},
		{"transaction code name", TransactionCodeType, 2, "checking_debit", "27", nil},
		{"transaction code string", TransactionCodeType, 2, "37", "37", nil},
		{"transaction code remittance", TransactionCodeType, 2, 39, "", ErrUnknownCode},
		{"service class", ServiceClassType, 3, "CREDITS_ONLY", "220", nil},
		{"service class unknown", ServiceClassType, 3, 210, "", ErrUnknownCode},
		{"entry class", EntryClassType, 3, "ccd", "CCD", nil},
		{"entry class unknown", EntryClassType, 3, "XYZ", "", ErrUnknownCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Format(tt.value, tt.width)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Format(%v) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format(%v) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.value, got, tt.want)
			}
			// Value reads the formatted text back to an equivalent input.
			v, err := tt.typ.Value(got)
			if err != nil {
				t.Fatalf("Value(%q) error = %v", got, err)
			}
			again, err := tt.typ.Format(v, tt.width)
			if err != nil || again != got {
				t.Errorf("Format(Value(%q)) = %q, %v", got, again, err)
			}
		})
	}
}

func TestCheckRoutingNumber(t *testing.T) {
	for _, s := range []string{"021000021", "011000015", "091000019", "121042882"} {
		if err := CheckRoutingNumber(s); err != nil {
			t.Errorf("CheckRoutingNumber(%s) = %v", s, err)
		}
	}
	for _, s := range []string{"021000022", "12345678", "0210000a1", ""} {
		if err := CheckRoutingNumber(s); err == nil {
			t.Errorf("CheckRoutingNumber(%q) accepted", s)
		}
	}
}

func TestFieldTypeByName(t *testing.T) {
	for _, typ := range fieldTypes {
		got, err := FieldTypeByName(typ.Name())
		if err != nil || got != typ {
			t.Errorf("FieldTypeByName(%s) = %v, %v", typ.Name(), got, err)
		}
	}
	if _, err := FieldTypeByName("binary"); err == nil {
		t.Errorf("FieldTypeByName(binary) succeeded")
	}
}
