package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"
)

// fixtureSpec describes ../testdata/ppd.ach without its last entry.
const fixtureSpec = `file_header:
  destination_routing: "021000021"
  origin_id: "011000015"
  destination_name: JPMORGAN CHASE
  origin_name: ACME CORP
  reference_code: REF00001
batches:
  - header:
      company_name: ACME CORP
      company_identification: "1234567890"
      company_entry_description: PAYROLL
    entries:
      - transaction_code: 22
        rdfi_routing: "091000019"
        rdfi_account_number: "123456789"
        amount: 150000
        individual_identification_number: EMP001
        individual_name: ALICE SMITH
      - transaction_code: CHECKING_DEBIT
        rdfi_routing: "021000021"
        rdfi_account_number: "987654321"
        amount: 2500
        individual_name: BOB JONES
        addendas:
          - payment_related_information: MONTHLY FEE
  - header:
      service_class_code: 220
      standard_entry_class_code: CCD
      company_name: ACME CORP
      company_identification: "1234567890"
      company_entry_description: VENDORS
    entries:
      - transaction_code: 32
        rdfi_routing: "011000015"
        rdfi_account_number: "55501234"
        amount: 99999
        individual_identification_number: INV-2026-001
        individual_name: CAROL CORP
`

const entriesHeader = "transaction_code,rdfi_routing,rdfi_account_number,amount,individual_name\n"

// daveRow is the last entry of the fixture, with a dollar amount.
const daveRow = "32,091000019,4400,10.00,DAVE LLC\n"

// badRow fails the routing number check digit.
const badRow = "32,123456789,4400,10.00,EVE LTD\n"

func TestBuildCmd(t *testing.T) {
	fixClock(t)
	spec := writeTemp(t, "ppd.yaml", fixtureSpec)

	tests := []struct {
		name    string
		entries string
		args    []string
		want    subcommands.ExitStatus
	}{
		{"csv entries", entriesHeader + daveRow, nil, subcommands.ExitSuccess},
		{"negative batch is the last", entriesHeader + daveRow, []string{"-batch", "-1"}, subcommands.ExitSuccess},
		{"explicit batch", entriesHeader + daveRow, []string{"-batch", "1"}, subcommands.ExitSuccess},
		{"skip invalid", entriesHeader + badRow + daveRow, []string{"-k"}, subcommands.ExitSuccess},
		{"invalid entry", entriesHeader + badRow + daveRow, nil, subcommands.ExitFailure},
		{"batch out of range", entriesHeader + daveRow, []string{"-batch", "2"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			sheet := writeTemp(t, "entries.csv", tt.entries)
			args := append([]string{"-entries", sheet}, tt.args...)
			status := run(t, &buildCmd{}, append(args, spec)...)
			if status != tt.want {
				t.Fatalf("Execute() = %v, want %v", status, tt.want)
			}
			if status != subcommands.ExitSuccess {
				if out.Len() != 0 {
					t.Errorf("failed build printed %q", out.String())
				}
				return
			}
			if got, want := out.String(), readFile(t, fixture); got != want {
				t.Errorf("build output mismatch.\nGot:\n%s\nWant:\n%s", got, want)
			}
		})
	}
}

func TestBuildCmdSpreadsheet(t *testing.T) {
	fixClock(t)
	spec := writeTemp(t, "ppd.yaml", fixtureSpec)

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Transaction_Code", "RDFI_Routing", "RDFI_Account_Number", "Amount", "Individual_Name", "Addenda"},
		{"32", "091000019", "4400", "1000", "DAVE LLC", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	sheet := filepath.Join(t.TempDir(), "entries.xlsx")
	if err := os.WriteFile(sheet, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "ppd.ach")
	if status := run(t, &buildCmd{}, "-o", out, "-entries", sheet, spec); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v", status)
	}
	if got, want := readFile(t, out), readFile(t, fixture); got != want {
		t.Errorf("build output mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestBuildCmdJSONSpec(t *testing.T) {
	fixClock(t)
	spec := writeTemp(t, "credit.json", `{
  "file_header": {"destination_routing": "021000021", "origin_id": "011000015", "destination_name": "JPMORGAN CHASE", "origin_name": "ACME CORP"},
  "batches": [{
    "header": {"company_name": "ACME CORP", "company_identification": "1234567890", "company_entry_description": "PAYROLL"},
    "entries": [{"transaction_code": 22, "rdfi_routing": "091000019", "rdfi_account_number": "123456789", "amount": 150000, "individual_name": "ALICE SMITH"}]
  }]
}`)
	out := captureStdout(t)
	if status := run(t, &buildCmd{}, spec); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v", status)
	}
	want := "622091000019123456789        0000150000               ALICE SMITH             0021000020000001\n"
	if got := out.String(); len(got) < 3*95 || got[2*95:3*95] != want {
		t.Errorf("entry line mismatch in\n%s", got)
	}
}

func TestDecodeEntries(t *testing.T) {
	entries, err := decodeEntries([]byte(" Amount ,individual_name,addenda\n12.50,ALICE,JULY\n,,\n7,BOB,\n"))
	if err != nil {
		t.Fatalf("decodeEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (blank rows are skipped)", len(entries))
	}
	if _, ok := entries[0]["addendas"]; !ok {
		t.Errorf("addenda column did not produce an addenda: %v", entries[0])
	}
	if _, ok := entries[1]["addendas"]; ok {
		t.Errorf("empty addenda cell produced an addenda: %v", entries[1])
	}
	for _, e := range entries {
		if err := normalizeEntry(e); err != nil {
			t.Fatalf("normalizeEntry() error = %v", err)
		}
	}
	if got := entries[0]["amount"]; got == "12.50" {
		t.Errorf("dollar amount was not converted")
	}
	if got := entries[1]["amount"]; got != "7" {
		t.Errorf("cents amount = %v, want 7", got)
	}
}
