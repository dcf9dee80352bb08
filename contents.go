package ach

import (
	"errors"
	"strconv"
	"strings"
)

const hashModulus = 10_000_000_000

// Transaction is an entry and its addenda records, in order.
type Transaction struct {
	Entry    EntryDetail
	Addendas []Addenda
}

// Batch is a batch header, its transactions and its control record.
type Batch struct {
	Header       BatchHeader
	Transactions []*Transaction
	Control      BatchControl
}

// Contents is the structured model of an ACH file.
type Contents struct {
	FileHeader  FileHeader
	Batches     []*Batch
	FileControl FileControl

	schema     *Schema
	mismatches []*ControlMismatchError
}

// Schema returns the schema the records of c were built or parsed with.
func (c *Contents) Schema() *Schema {
	if c.schema == nil {
		return standardSchema
	}
	return c.schema
}

// Mismatches returns the control totals that disagree with the records they
// control, as found when c was parsed.
func (c *Contents) Mismatches() []*ControlMismatchError { return c.mismatches }

// Err joins the control mismatches, nil when there are none.
func (c *Contents) Err() error {
	errs := make([]error, len(c.mismatches))
	for i, m := range c.mismatches {
		errs[i] = m
	}
	return errors.Join(errs...)
}

// totals are the figures a control record states about the records it closes.
type totals struct {
	count  int64 // entries and addendas
	hash   int64
	debit  int64 // cents
	credit int64 // cents
}

func (t *totals) add(o totals) {
	t.count += o.count
	t.hash = (t.hash + o.hash) % hashModulus
	t.debit += o.debit
	t.credit += o.credit
}

func (b *Batch) totals() totals {
	var t totals
	for _, tx := range b.Transactions {
		t.count += 1 + int64(len(tx.Addendas))
		t.hash = (t.hash + tx.Entry.HashPrefix()) % hashModulus
		switch code := tx.Entry.TransactionCode(); {
		case code.IsDebit():
			t.debit += tx.Entry.Amount().Cents()
		case code.IsCredit():
			t.credit += tx.Entry.Amount().Cents()
		}
	}
	return t
}

// EntryCount returns the number of entries in b.
func (b *Batch) EntryCount() int { return len(b.Transactions) }

// TotalDebit returns the sum of the debit entries of b.
func (b *Batch) TotalDebit() Amount { return Cents(b.totals().debit) }

// TotalCredit returns the sum of the credit entries of b.
func (b *Batch) TotalCredit() Amount { return Cents(b.totals().credit) }

func (c *Contents) totals() totals {
	var t totals
	for _, b := range c.Batches {
		t.add(b.totals())
	}
	return t
}

// recordCount is the number of lines before padding.
func (c *Contents) recordCount() int {
	n := 2
	for _, b := range c.Batches {
		n += 2
		for _, tx := range b.Transactions {
			n += 1 + len(tx.Addendas)
		}
	}
	return n
}

func (c *Contents) blockCount() int64 {
	bf := c.FileHeader.BlockingFactor()
	return int64((c.recordCount() + bf - 1) / bf)
}

// batchControlValues returns the control record values of b.
func batchControlValues(b *Batch) Values {
	t := b.totals()
	return Values{
		"service_class_code":      b.Header.Field("service_class_code"),
		"entry_and_addenda_count": t.count,
		"entry_hash":              t.hash,
		"total_debit_amount":      t.debit,
		"total_credit_amount":     t.credit,
		"company_identification":  b.Header.Field("company_identification"),
		"odfi_identification":     b.Header.Field("odfi_identification"),
		"batch_number":            b.Header.Field("batch_number"),
	}
}

func (c *Contents) fileControlValues() Values {
	t := c.totals()
	return Values{
		"batch_count":             len(c.Batches),
		"block_count":             c.blockCount(),
		"entry_and_addenda_count": t.count,
		"entry_hash":              t.hash,
		"total_debit_amount":      t.debit,
		"total_credit_amount":     t.credit,
	}
}

// computeControls replaces every control record with the one computed from
// the records it closes.
func (c *Contents) computeControls() error {
	s := c.Schema()
	for _, b := range c.Batches {
		r, err := NewRecord(s.BatchControl(), batchControlValues(b), nil)
		if err != nil {
			return err
		}
		b.Control = BatchControl{r}
	}
	r, err := NewRecord(s.FileControl(), c.fileControlValues(), nil)
	if err != nil {
		return err
	}
	c.FileControl = FileControl{r}
	return nil
}

// checkControls compares the stated control records with the computed ones
// and records every difference.
func (c *Contents) checkControls() {
	c.mismatches = nil
	s := c.Schema()
	for i, b := range c.Batches {
		c.compare(s.BatchControl(), b.Control.Record, batchControlValues(b), i+1)
	}
	c.compare(s.FileControl(), c.FileControl.Record, c.fileControlValues(), 0)
}

func (c *Contents) compare(rt *RecordType, stated *Record, computed Values, batch int) {
	for _, d := range rt.fields {
		v, ok := computed[d.Name]
		if !ok {
			continue
		}
		want, err := d.Format(v)
		if err != nil {
			want = strings.TrimSpace(toString(v))
		}
		if got := stated.Field(d.Name); got != want {
			c.mismatches = append(c.mismatches, &ControlMismatchError{
				Record: rt.Name(), Batch: batch, Field: d.Name, Stated: got, Computed: want,
			})
		}
	}
}

func toString(v any) string {
	if s, err := asText(v); err == nil {
		return s
	}
	return ""
}

// Lines returns every record line in file order, followed by the filler
// lines completing the last block.
func (c *Contents) Lines() []string {
	lines := []string{c.FileHeader.Line()}
	for _, b := range c.Batches {
		lines = append(lines, b.Header.Line())
		for _, tx := range b.Transactions {
			lines = append(lines, tx.Entry.Line())
			for _, a := range tx.Addendas {
				lines = append(lines, a.Line())
			}
		}
		lines = append(lines, b.Control.Line())
	}
	lines = append(lines, c.FileControl.Line())
	bf := c.FileHeader.BlockingFactor()
	for len(lines)%bf != 0 {
		lines = append(lines, FillerLine)
	}
	return lines
}

// RenderFileContents returns the file text: one record per line, each line
// ending with a newline.
func (c *Contents) RenderFileContents() string {
	return strings.Join(c.Lines(), "\n") + "\n"
}

// RenderJSONDict returns the structured form of c. Every leaf is the
// formatted, untrimmed text of a field.
func (c *Contents) RenderJSONDict() map[string]any {
	batches := make([]any, len(c.Batches))
	for i, b := range c.Batches {
		txs := make([]any, len(b.Transactions))
		for j, tx := range b.Transactions {
			addendas := make([]any, len(tx.Addendas))
			for k, a := range tx.Addendas {
				addendas[k] = a.dict()
			}
			txs[j] = map[string]any{"entry": tx.Entry.dict(), "addendas": addendas}
		}
		batches[i] = map[string]any{
			"batch_header":  b.Header.dict(),
			"transactions":  txs,
			"batch_control": b.Control.dict(),
		}
	}
	return map[string]any{
		"file_header":  c.FileHeader.dict(),
		"batches":      batches,
		"file_control": c.FileControl.dict(),
	}
}

// TotalDebit returns the sum of every debit entry of the file.
func (c *Contents) TotalDebit() Amount { return Cents(c.totals().debit) }

// TotalCredit returns the sum of every credit entry of the file.
func (c *Contents) TotalCredit() Amount { return Cents(c.totals().credit) }

// EntryCount returns the number of entries in the file.
func (c *Contents) EntryCount() int {
	n := 0
	for _, b := range c.Batches {
		n += len(b.Transactions)
	}
	return n
}

// EntryHash returns the file entry hash as rendered in the file control.
func (c *Contents) EntryHash() string {
	return padLeft(strconv.FormatInt(c.totals().hash, 10), 10, '0')
}
