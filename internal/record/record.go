// Package record flattens a Config into the tab-delimited line that is
// encoded into a scannable code. Records are output only; there is no decoder.
package record

import (
	"strings"

	"github.com/alfredjeanlab/qrscout/internal/model"
)

// Delimiter separates values in a record.
const Delimiter = "\t"

// Options controls how values without content are written.
type Options struct {
	Unset string // text for fields whose value is absent
	Null  string // text for fields whose value is null
}

// DefaultOptions writes absent values as "undefined" and nulls as "null",
// matching what scanners already ingest.
var DefaultOptions = Options{Unset: "undefined", Null: "null"}

// EmptyOptions writes absent and null values as empty fields.
var EmptyOptions = Options{}

// Encode flattens the current values of cfg using DefaultOptions.
func Encode(cfg *model.Config) string {
	return EncodeWith(cfg, DefaultOptions)
}

// EncodeWith flattens the current values of cfg in section order, then field
// order, joined by Delimiter. There is no header and no trailing delimiter.
func EncodeWith(cfg *model.Config, opts Options) string {
	var b strings.Builder
	first := true
	for i := range cfg.Sections {
		for j := range cfg.Sections[i].Fields {
			if !first {
				b.WriteString(Delimiter)
			}
			first = false
			b.WriteString(text(cfg.Sections[i].Fields[j].Value, opts))
		}
	}
	return b.String()
}

func text(v model.Value, opts Options) string {
	switch v.Kind() {
	case model.KindUnset:
		return opts.Unset
	case model.KindNull:
		return opts.Null
	}
	return v.String()
}

// Header returns the field codes of cfg in record order, joined by Delimiter.
// Ingestion pipelines use it as a column header; it is never part of a record.
func Header(cfg *model.Config) string {
	codes := make([]string, 0, cfg.FieldCount())
	for _, f := range cfg.Fields() {
		codes = append(codes, f.Code)
	}
	return strings.Join(codes, Delimiter)
}
