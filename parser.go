package ach

import (
	"fmt"
	"strings"
)

// Line is one non-filler record line of a file.
type Line struct {
	Number int // 1-based physical line number
	Kind   RecordKind
	Text   string
}

// Parser reads the text of an ACH file.
type Parser struct {
	text string
	cfg  config
}

// NewParser returns a parser over text.
func NewParser(text string, opts ...Option) *Parser {
	return &Parser{text: text, cfg: newConfig(opts)}
}

// Parse reads text into a Contents. Control mismatches do not fail the
// parse; they are reported by the returned Contents.
func Parse(text string, opts ...Option) (*Contents, error) {
	p := NewParser(text, opts...)
	lines, err := p.ProcessRecordsList()
	if err != nil {
		return nil, err
	}
	return p.ProcessACHFileContents(lines)
}

// splitLines cuts text into physical lines. Text without line breaks is cut
// every RecordLength characters.
func splitLines(text string) []string {
	if !strings.ContainsAny(text, "\r\n") && len(text) > RecordLength && len(text)%RecordLength == 0 {
		var out []string
		for i := 0; i < len(text); i += RecordLength {
			out = append(out, text[i:i+RecordLength])
		}
		return out
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ProcessRecordsList splits the text into record lines, dropping filler
// lines. Every line must be RecordLength characters and start with a known
// record type code.
func (p *Parser) ProcessRecordsList() ([]Line, error) {
	if strings.TrimSpace(p.text) == "" {
		return nil, &MalformedRecordError{Reason: "empty file"}
	}
	var out []Line
	for i, l := range splitLines(p.text) {
		n := i + 1
		if len(l) != RecordLength {
			return nil, &MalformedRecordError{Line: n, Reason: fmt.Sprintf("line is %d characters, want %d", len(l), RecordLength)}
		}
		if l == FillerLine {
			continue
		}
		k := RecordKind(l[0])
		if !k.Valid() {
			return nil, &MalformedRecordError{Line: n, Reason: fmt.Sprintf("unknown record type code %q", l[0])}
		}
		out = append(out, Line{Number: n, Kind: k, Text: l})
	}
	return out, nil
}

// ProcessACHFileContents groups record lines into a Contents.
//
// A structural error (a record out of place, an addenda not matching its
// entry, a field that does not validate) fails the parse. Control totals
// that disagree with the records are collected on the Contents.
func (p *Parser) ProcessACHFileContents(lines []Line) (*Contents, error) {
	c := &Contents{schema: p.cfg.schema}
	var (
		batch   *Batch
		tx      *Transaction
		header  bool
		control bool
	)
	malformed := func(l Line, format string, args ...any) error {
		return &MalformedRecordError{Line: l.Number, Reason: fmt.Sprintf(format, args...)}
	}
	for i, l := range lines {
		rt := p.cfg.schema.Record(l.Kind)
		if rt == nil || len(l.Text) == 0 || RecordKind(l.Text[0]) != l.Kind {
			return nil, malformed(l, "unknown record type code")
		}
		r, err := decodeRecord(rt, l.Text)
		if err != nil {
			return nil, &MalformedRecordError{Line: l.Number, Reason: "invalid " + rt.Name(), Err: err}
		}
		if control {
			return nil, malformed(l, "%s after the file control", rt.Name())
		}
		if i == 0 && l.Kind != FileHeaderKind {
			return nil, malformed(l, "file must start with a file header, got %s", rt.Name())
		}
		switch rec := Tag(r).(type) {
		case FileHeader:
			if header {
				return nil, malformed(l, "second file header")
			}
			header = true
			c.FileHeader = rec
		case BatchHeader:
			if batch != nil {
				return nil, malformed(l, "batch header inside an open batch")
			}
			batch, tx = &Batch{Header: rec}, nil
		case EntryDetail:
			if batch == nil {
				return nil, malformed(l, "entry detail outside a batch")
			}
			tx = &Transaction{Entry: rec}
			batch.Transactions = append(batch.Transactions, tx)
		case Addenda:
			switch {
			case tx == nil:
				return nil, malformed(l, "addenda without an entry")
			case !tx.Entry.HasAddenda():
				return nil, malformed(l, "addenda for entry %d whose addenda indicator is not set", tx.Entry.SequenceNumber())
			case rec.EntrySequenceNumber() != tx.Entry.SequenceNumber():
				return nil, malformed(l, "addenda refers to entry %d, follows entry %d", rec.EntrySequenceNumber(), tx.Entry.SequenceNumber())
			case rec.SequenceNumber() != len(tx.Addendas)+1:
				return nil, malformed(l, "addenda sequence number %d, want %d", rec.SequenceNumber(), len(tx.Addendas)+1)
			}
			tx.Addendas = append(tx.Addendas, rec)
		case BatchControl:
			if batch == nil {
				return nil, malformed(l, "batch control outside a batch")
			}
			batch.Control = rec
			c.Batches = append(c.Batches, batch)
			batch, tx = nil, nil
		case FileControl:
			if batch != nil {
				return nil, malformed(l, "file control inside an open batch")
			}
			control = true
			c.FileControl = rec
		}
	}
	switch {
	case !header:
		return nil, &MalformedRecordError{Reason: "missing file header"}
	case batch != nil:
		return nil, &MalformedRecordError{Reason: "batch without a batch control"}
	case !control:
		return nil, &MalformedRecordError{Reason: "missing file control"}
	}
	for _, b := range c.Batches {
		for _, tx := range b.Transactions {
			if tx.Entry.HasAddenda() && len(tx.Addendas) == 0 {
				return nil, &MalformedRecordError{Reason: fmt.Sprintf("entry %s announces an addenda but has none", tx.Entry.TraceNumber())}
			}
		}
	}
	c.checkControls()
	for _, m := range c.mismatches {
		p.cfg.logger.Warn("control mismatch", "record", m.Record, "batch", m.Batch, "field", m.Field, "stated", m.Stated, "computed", m.Computed)
	}
	return c, nil
}
