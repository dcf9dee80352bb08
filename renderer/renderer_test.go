package renderer

import (
	"bytes"
	"os"
	"strings"
	"testing"

	ach "github.com/gitexel/ach-file"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func parseFixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("../testdata/ppd.ach")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(b)
}

func TestRenderFile(t *testing.T) {
	c, err := ach.Parse(parseFixture(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := RenderFile(NewFile(c))

	for _, want := range []string{
		"# ACH file REF00001\n",
		"| Origin | ACME CORP (011000015) |\n",
		"| Destination | JPMORGAN CHASE (021000021) |\n",
		"| Created | 2026-10-18 10:30 |\n",
		"| Entries | 4 |\n",
		"| Total credit | $2,509.99 |\n",
		"## Batch 1: ACME CORP, PAYROLL\n",
		"PPD mixed debits and credits batch effective 2026-10-19 with 2 entries, $25.00 debited and $1,500.00 credited.",
		"| 021000020000002 | CHECKING_DEBIT | BOB JONES | 021000021 | *****4321 | $25.00 | MONTHLY FEE |\n",
		"## Batch 2: ACME CORP, VENDORS\n",
		"| 021000020000001 | SAVINGS_CREDIT | CAROL CORP | 011000015 | ****1234 | $999.99 |  |\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary lacks %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "Control mismatches") {
		t.Errorf("summary of a consistent file lists mismatches")
	}
	if strings.Contains(got, "error ") {
		t.Errorf("template failed:\n%s", got)
	}

	// The summary is valid GFM.
	var html bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(got), &html); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n := strings.Count(html.String(), "<table>"); n != 3 {
		t.Errorf("got %d tables, want 3", n)
	}
	if !strings.Contains(html.String(), "<h2>Batch 2: ACME CORP, VENDORS</h2>") {
		t.Errorf("missing batch heading in\n%s", html.String())
	}
}

func TestRenderFileMismatches(t *testing.T) {
	text := strings.Replace(parseFixture(t), "0000150000EMP001", "0000150001EMP001", 1)
	c, err := ach.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := RenderFile(NewFile(c))
	if !strings.Contains(got, "## Control mismatches\n") {
		t.Fatalf("summary lacks the mismatch section:\n%s", got)
	}
	if n := strings.Count(got, "\n- "); n != 2 {
		t.Errorf("got %d mismatch items, want 2", n)
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"1234":      "1234",
		"12345":     "*2345",
		"987654321": "*****4321",
	}
	for in, want := range tests {
		if got := mask(in); got != want {
			t.Errorf("mask(%q) = %q, want %q", in, got, want)
		}
	}
}
