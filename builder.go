package ach

import (
	"errors"
	"fmt"
	"maps"
)

// Builder assembles an ACH file from caller values.
//
// Control records, trace sequence numbers, addenda indicators and addenda
// sequence numbers are computed by the builder; the caller supplies the
// file header, then batches, then entries with their addendas.
type Builder struct {
	cfg       config
	contents  *Contents
	lastBatch int64
}

// NewBuilder validates the file header values and returns a builder with no
// batch.
func NewBuilder(fileHeader Values, opts ...Option) (*Builder, error) {
	cfg := newConfig(opts)
	r, err := NewRecord(cfg.schema.FileHeader(), fileHeader, cfg.clock)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:      cfg,
		contents: &Contents{FileHeader: FileHeader{r}, schema: cfg.schema},
	}, nil
}

// AddBatch opens a new batch; subsequent entries go to it by default.
//
// The ODFI identification defaults to the first eight digits of the file
// destination routing number and the batch number to the next sequential
// number. An explicit batch number must exceed every previous one.
//
// AddBatch returns an error rather than the builder, so calls do not chain.
func (b *Builder) AddBatch(fields Values) error {
	v := maps.Clone(fields)
	if v == nil {
		v = Values{}
	}
	if isAbsent(v["odfi_identification"]) {
		if odfi := b.contents.FileHeader.ODFI(); odfi != "" {
			v["odfi_identification"] = odfi
		}
	}
	if isAbsent(v["batch_number"]) {
		v["batch_number"] = b.lastBatch + 1
	}
	r, err := NewRecord(b.cfg.schema.BatchHeader(), v, b.cfg.clock)
	if err != nil {
		return err
	}
	h := BatchHeader{r}
	n := int64(h.BatchNumber())
	if n <= b.lastBatch {
		return &FieldValidationError{
			Record: h.Type().Name(), Field: "batch_number", Value: v["batch_number"],
			Err: fmt.Errorf("batch numbers must increase, previous was %d", b.lastBatch),
		}
	}
	b.lastBatch = n
	b.contents.Batches = append(b.contents.Batches, &Batch{Header: h})
	return nil
}

// AddOption configures an entry addition.
type AddOption func(*addOptions)

type addOptions struct {
	batch    int
	explicit bool
	lenient  bool
}

// InBatch targets the batch at index i (0-based) instead of the last one.
// An index that names no batch, negative ones included, fails the call.
func InBatch(i int) AddOption {
	return func(o *addOptions) { o.batch, o.explicit = i, true }
}

// CollectFailures makes AddEntriesAndAddendas skip the entries that fail
// and return them instead of failing the whole call. It has no effect on
// AddEntryAndAddenda.
func CollectFailures() AddOption { return func(o *addOptions) { o.lenient = true } }

// Failure is an entry specification rejected by a lenient addition.
type Failure struct {
	Entry Values
	Err   error
}

func (b *Builder) batchFor(o addOptions) (*Batch, error) {
	n := len(b.contents.Batches)
	if !o.explicit {
		if n == 0 {
			return nil, &NoBatchForTransactionError{}
		}
		return b.contents.Batches[n-1], nil
	}
	if o.batch < 0 || o.batch >= n {
		return nil, &BatchIndexError{Index: o.batch, Count: n}
	}
	return b.contents.Batches[o.batch], nil
}

// AddEntriesAndAddendas appends entries to a batch, the last one unless
// InBatch says otherwise. Each entry may carry an "addendas" key holding a
// list of addenda values.
//
// By default the call is atomic: the first invalid entry fails it and no
// entry is added. With CollectFailures, valid entries are added and the
// invalid ones returned. An out of range batch index always fails.
func (b *Builder) AddEntriesAndAddendas(entries []Values, opts ...AddOption) ([]Failure, error) {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	batch, err := b.batchFor(o)
	if err != nil {
		var noBatch *NoBatchForTransactionError
		if !o.lenient || !errors.As(err, &noBatch) {
			return nil, err
		}
		failed := make([]Failure, len(entries))
		for i, e := range entries {
			failed[i] = Failure{Entry: e, Err: err}
		}
		b.cfg.logger.Debug("no batch for entries", "count", len(entries))
		return failed, nil
	}

	var (
		failed []Failure
		staged []*Transaction
	)
	seq := len(batch.Transactions)
	for _, e := range entries {
		tx, err := b.newTransaction(batch, e, seq+len(staged)+1)
		if err != nil {
			if !o.lenient {
				return nil, err
			}
			b.cfg.logger.Debug("entry rejected", "err", err)
			failed = append(failed, Failure{Entry: e, Err: err})
			continue
		}
		staged = append(staged, tx)
	}
	batch.Transactions = append(batch.Transactions, staged...)
	return failed, nil
}

// AddEntryAndAddenda appends a single entry. It always fails on an invalid
// entry.
func (b *Builder) AddEntryAndAddenda(entry Values, opts ...AddOption) error {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	var strict []AddOption
	if o.explicit {
		strict = append(strict, InBatch(o.batch))
	}
	_, err := b.AddEntriesAndAddendas([]Values{entry}, strict...)
	return err
}

func (b *Builder) newTransaction(batch *Batch, spec Values, seq int) (*Transaction, error) {
	s := b.cfg.schema
	fields := maps.Clone(spec)
	if fields == nil {
		fields = Values{}
	}
	addendas, err := addendaValues(fields["addendas"])
	if err != nil {
		return nil, &FieldValidationError{Record: s.EntryDetail().Name(), Field: "addendas", Value: fields["addendas"], Err: err}
	}
	delete(fields, "addendas")

	indicator := 0
	if len(addendas) > 0 {
		indicator = 1
	}
	fields["addenda_record_indicator"] = indicator
	fields["trace_sequence_number"] = seq
	if isAbsent(fields["trace_odfi_identifier"]) {
		fields["trace_odfi_identifier"] = batch.Header.Field("odfi_identification")
	}
	r, err := NewRecord(s.EntryDetail(), fields, b.cfg.clock)
	if err != nil {
		return nil, err
	}
	entry := EntryDetail{r}
	if err := checkEntry(batch, entry); err != nil {
		return nil, err
	}
	tx := &Transaction{Entry: entry}
	for i, a := range addendas {
		v := maps.Clone(a)
		if v == nil {
			v = Values{}
		}
		v["addenda_sequence_number"] = i + 1
		v["entry_detail_sequence_number"] = seq
		r, err := NewRecord(s.Addenda(), v, b.cfg.clock)
		if err != nil {
			return nil, err
		}
		tx.Addendas = append(tx.Addendas, Addenda{r})
	}
	return tx, nil
}

// checkEntry applies the rules tying an entry to its batch.
func checkEntry(batch *Batch, e EntryDetail) error {
	code := e.TransactionCode()
	if code.IsPrenote() && !e.Amount().IsZero() {
		return &FieldValidationError{Record: e.Type().Name(), Field: "amount", Value: e.Amount(), Err: ErrPrenote}
	}
	switch class := batch.Header.ServiceClass(); {
	case class == CreditsOnly && code.IsDebit(), class == DebitsOnly && code.IsCredit():
		return &FieldValidationError{Record: e.Type().Name(), Field: "transaction_code", Value: code, Err: fmt.Errorf("%w: %v in a %v batch", ErrServiceClass, code, class)}
	}
	return nil
}

// addendaValues reads the "addendas" entry key.
func addendaValues(v any) ([]Values, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []Values:
		return x, nil
	case []map[string]any:
		out := make([]Values, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, nil
	case []any:
		out := make([]Values, len(x))
		for i, e := range x {
			switch m := e.(type) {
			case Values:
				out[i] = m
			case map[string]any:
				out[i] = m
			default:
				return nil, fmt.Errorf("%w: addenda %d is a %T", ErrUnsupported, i, e)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// Contents returns the file model with its control records computed.
func (b *Builder) Contents() (*Contents, error) {
	if err := b.contents.computeControls(); err != nil {
		return nil, err
	}
	return b.contents, nil
}

// Render returns the file text. Auto dates are resolved now.
func (b *Builder) Render() (string, error) {
	c, err := b.Contents()
	if err != nil {
		return "", err
	}
	b.cfg.logger.Info("rendered ACH file",
		"batches", len(c.Batches), "entries", c.EntryCount(),
		"debit", c.TotalDebit(), "credit", c.TotalCredit())
	return c.RenderFileContents(), nil
}

// Schema returns the schema of b.
func (b *Builder) Schema() *Schema { return b.cfg.schema }

// FileSettingFields lists the file header fields, see Schema.FileSettingFields.
func (b *Builder) FileSettingFields(onlyRequired bool) Fields {
	return b.cfg.schema.FileSettingFields(onlyRequired)
}

func (b *Builder) BatchFields(onlyRequired bool) Fields {
	return b.cfg.schema.BatchFields(onlyRequired)
}

func (b *Builder) EntryFields(onlyRequired bool) Fields {
	return b.cfg.schema.EntryFields(onlyRequired)
}

func (b *Builder) AddendaFields(onlyRequired bool) Fields {
	return b.cfg.schema.AddendaFields(onlyRequired)
}
