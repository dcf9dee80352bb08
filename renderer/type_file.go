package renderer

import (
	"strings"

	ach "github.com/gitexel/ach-file"
	"github.com/gitexel/ach-file/date"
)

// File is the view of an ACH file used by the summary templates.
type File struct {
	Reference          string
	OriginName         string
	OriginID           string
	DestinationName    string
	DestinationRouting string
	Created            string
	EntryCount         int
	TotalDebit         string
	TotalCredit        string
	EntryHash          string
	Batches            []Batch
	Mismatches         []string
}

// Batch is the view of one batch.
type Batch struct {
	Number       int
	Company      string
	Description  string
	EntryClass   string
	ServiceClass string
	Effective    string
	TotalDebit   string
	TotalCredit  string
	Entries      []Entry
}

// Entry is the view of one entry and its addendas.
type Entry struct {
	Trace   string
	Code    string
	Name    string
	Routing string
	Account string // masked
	Amount  string
	Addenda string
}

// NewFile builds the view of c.
func NewFile(c *ach.Contents) *File {
	h := c.FileHeader.FieldValues()
	f := &File{
		Reference:          text(h["reference_code"]),
		OriginName:         text(h["origin_name"]),
		OriginID:           text(h["origin_id"]),
		DestinationName:    text(h["destination_name"]),
		DestinationRouting: text(h["destination_routing"]),
		Created:            strings.TrimSpace(isoDate(text(h["file_creation_date"])) + " " + hhmm(text(h["file_creation_time"]))),
		EntryCount:         c.EntryCount(),
		TotalDebit:         c.TotalDebit().String(),
		TotalCredit:        c.TotalCredit().String(),
		EntryHash:          c.EntryHash(),
	}
	for _, b := range c.Batches {
		f.Batches = append(f.Batches, newBatch(b))
	}
	for _, m := range c.Mismatches() {
		f.Mismatches = append(f.Mismatches, m.Error())
	}
	return f
}

func newBatch(b *ach.Batch) Batch {
	h := b.Header.FieldValues()
	v := Batch{
		Number:       b.Header.BatchNumber(),
		Company:      text(h["company_name"]),
		Description:  text(h["company_entry_description"]),
		EntryClass:   text(h["standard_entry_class_code"]),
		ServiceClass: strings.ToLower(strings.ReplaceAll(b.Header.ServiceClass().String(), "_", " ")),
		Effective:    isoDate(text(h["effective_entry_date"])),
		TotalDebit:   b.TotalDebit().String(),
		TotalCredit:  b.TotalCredit().String(),
	}
	for _, tx := range b.Transactions {
		e := tx.Entry.FieldValues()
		var info []string
		for _, a := range tx.Addendas {
			if s := text(a.FieldValues()["payment_related_information"]); s != "" {
				info = append(info, s)
			}
		}
		v.Entries = append(v.Entries, Entry{
			Trace:   tx.Entry.TraceNumber(),
			Code:    tx.Entry.TransactionCode().String(),
			Name:    text(e["individual_name"]),
			Routing: text(e["rdfi_routing"]),
			Account: mask(text(e["rdfi_account_number"])),
			Amount:  tx.Entry.Amount().String(),
			Addenda: strings.Join(info, "; "),
		})
	}
	return v
}

// text returns a cell safe string.
func text(v any) string {
	s, _ := v.(string)
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}

// mask hides all but the last four characters of an account number.
func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func isoDate(s string) string {
	d, err := date.ParseCompact(s)
	if err != nil {
		return s
	}
	return d.String()
}

func hhmm(s string) string {
	if len(s) != 4 {
		return s
	}
	return s[:2] + ":" + s[2:]
}
