package ach

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadOverrides applies a YAML document of field type overrides to base.
// The document maps record kinds to fields to field type names:
//
//	file_header:
//	  origin_id: alphanumeric
func LoadOverrides(r io.Reader, base *Schema) (*Schema, error) {
	if base == nil {
		base = standardSchema
	}
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return base, nil
		}
		return nil, fmt.Errorf("reading schema overrides: %w", err)
	}
	kinds := make([]string, 0, len(doc))
	for k := range doc {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	s := base
	for _, name := range kinds {
		kind, err := ParseRecordKind(name)
		if err != nil {
			return nil, err
		}
		fields := make([]string, 0, len(doc[name]))
		for f := range doc[name] {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			t, err := FieldTypeByName(doc[name][f])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, f, err)
			}
			if s, err = s.WithFieldType(kind, f, t); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
