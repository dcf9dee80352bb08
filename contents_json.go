package ach

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the fields of r in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for i, d := range r.typ.fields {
		w.Append(d.Name, r.field(i))
	}
	return w.MarshalJSON()
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	addendas := make([][]byte, len(tx.Addendas))
	for i, a := range tx.Addendas {
		b, err := a.MarshalJSON()
		if err != nil {
			return nil, err
		}
		addendas[i] = b
	}
	var w jsonObjectWriter
	w.Append("entry", tx.Entry.Record)
	w.AppendRaw("addendas", jsonArray(addendas))
	return w.MarshalJSON()
}

func (b *Batch) MarshalJSON() ([]byte, error) {
	txs := make([][]byte, len(b.Transactions))
	for i, tx := range b.Transactions {
		raw, err := tx.MarshalJSON()
		if err != nil {
			return nil, err
		}
		txs[i] = raw
	}
	var w jsonObjectWriter
	w.Append("batch_header", b.Header.Record)
	w.AppendRaw("transactions", jsonArray(txs))
	w.Append("batch_control", b.Control.Record)
	return w.MarshalJSON()
}

// MarshalJSON encodes the structured form of c with keys in file order.
// It holds the same data as RenderJSONDict.
func (c *Contents) MarshalJSON() ([]byte, error) {
	batches := make([][]byte, len(c.Batches))
	for i, b := range c.Batches {
		raw, err := b.MarshalJSON()
		if err != nil {
			return nil, err
		}
		batches[i] = raw
	}
	var w jsonObjectWriter
	w.Append("file_header", c.FileHeader.Record)
	w.AppendRaw("batches", jsonArray(batches))
	w.Append("file_control", c.FileControl.Record)
	return w.MarshalJSON()
}

type jsonFields map[string]string

type jsonContents struct {
	FileHeader jsonFields `json:"file_header"`
	Batches    []struct {
		BatchHeader  jsonFields `json:"batch_header"`
		Transactions []struct {
			Entry    jsonFields   `json:"entry"`
			Addendas []jsonFields `json:"addendas"`
		} `json:"transactions"`
		BatchControl jsonFields `json:"batch_control"`
	} `json:"batches"`
	FileControl jsonFields `json:"file_control"`
}

// DecodeJSON rebuilds a Contents from its structured form. The records go
// through the same checks as parsed text.
func DecodeJSON(data []byte, opts ...Option) (*Contents, error) {
	var doc jsonContents
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding ACH JSON: %w", err)
	}
	p := NewParser("", opts...)
	s := p.cfg.schema
	var lines []Line
	add := func(rt *RecordType, f jsonFields, where string) error {
		if f == nil {
			return &MalformedRecordError{Reason: "missing " + where}
		}
		text, err := joinFields(rt, f)
		if err != nil {
			return &MalformedRecordError{Reason: where, Err: err}
		}
		lines = append(lines, Line{Number: len(lines) + 1, Kind: rt.Kind(), Text: text})
		return nil
	}
	if err := add(s.FileHeader(), doc.FileHeader, "file_header"); err != nil {
		return nil, err
	}
	for i, b := range doc.Batches {
		where := fmt.Sprintf("batches[%d]", i)
		if err := add(s.BatchHeader(), b.BatchHeader, where+".batch_header"); err != nil {
			return nil, err
		}
		for j, tx := range b.Transactions {
			where := fmt.Sprintf("%s.transactions[%d]", where, j)
			if err := add(s.EntryDetail(), tx.Entry, where+".entry"); err != nil {
				return nil, err
			}
			for k, a := range tx.Addendas {
				if err := add(s.Addenda(), a, fmt.Sprintf("%s.addendas[%d]", where, k)); err != nil {
					return nil, err
				}
			}
		}
		if err := add(s.BatchControl(), b.BatchControl, where+".batch_control"); err != nil {
			return nil, err
		}
	}
	if err := add(s.FileControl(), doc.FileControl, "file_control"); err != nil {
		return nil, err
	}
	return p.ProcessACHFileContents(lines)
}

// joinFields concatenates formatted field texts into a record line.
func joinFields(rt *RecordType, f jsonFields) (string, error) {
	var b strings.Builder
	for _, d := range rt.fields {
		v, ok := f[d.Name]
		if !ok {
			return "", fmt.Errorf("missing field %q", d.Name)
		}
		if len(v) != d.Width {
			return "", fmt.Errorf("field %q is %d characters, want %d", d.Name, len(v), d.Width)
		}
		b.WriteString(v)
	}
	for name := range f {
		if rt.index(name) < 0 {
			return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return b.String(), nil
}
