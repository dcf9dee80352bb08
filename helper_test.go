package ach

import (
	"os"
	"testing"
	"time"

	"github.com/gitexel/ach-file/date"
)

// testClock is a Sunday morning; auto dates resolve to 261018 (today, 1030)
// and 261019 (tomorrow and the next business day).
var testClock = date.Fixed(time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC))

func testFileHeader() Values {
	return Values{
		"destination_routing": "021000021",
		"origin_id":           "011000015",
		"destination_name":    "YOUR BANK",
		"origin_name":         "YOUR FINANCIAL INST",
	}
}

func testBatch(description string, class EntryClass) Values {
	return Values{
		"company_name":              "YOUR COMPANY",
		"company_identification":    "1234567890",
		"company_entry_description": description,
		"effective_entry_date":      AutoTomorrow,
		"standard_entry_class_code": class,
	}
}

// testEntries returns three entries carrying two addendas in total.
func testEntries() []Values {
	return []Values{
		{
			"transaction_code":    CheckingCredit,
			"rdfi_routing":        "091000019",
			"rdfi_account_number": "65656565",
			"amount":              "300",
			"individual_name":     "Janey Test",
		},
		{
			"transaction_code":    27,
			"rdfi_routing":        "091000019",
			"rdfi_account_number": "65656565",
			"amount":              "300",
			"individual_name":     "Janey Test",
			"addendas": []Values{
				{"payment_related_information": "Reversing the last transaction pls and thx"},
			},
		},
		{
			"transaction_code":    22,
			"rdfi_routing":        "021000021",
			"rdfi_account_number": "45656565",
			"amount":              "7000",
			"individual_name":     "Mackey Shawnderson",
			"addendas": []any{
				map[string]any{"payment_related_information": "Where's my money"},
			},
		},
	}
}

// newTestBuilder returns a builder with the test file header and no batch.
func newTestBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(testFileHeader(), append([]Option{WithClock(testClock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func mustRender(t *testing.T, b *Builder) string {
	t.Helper()
	text, err := b.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return text
}

func mustParse(t *testing.T, text string, opts ...Option) *Contents {
	t.Helper()
	c, err := Parse(text, opts...)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return c
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(b)
}
