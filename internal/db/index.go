package db

import (
	"errors"
	"strconv"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldKeyword is an exact-match, unanalyzed field.
	IndexFieldKeyword IndexFieldType = iota
	// IndexFieldText is an analyzed full-text field.
	IndexFieldText
	// IndexFieldNumeric is a numeric field.
	IndexFieldNumeric
)

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// Store keeps the original value so searches can return it.
	Store bool
	// Separator joins multi-valued keyword fields when returned as a string.
	Separator string
	// Analyzer overrides the default analyzer of a text field.
	Analyzer string
}

// IndexDefinition is a complete index schema.
type IndexDefinition struct {
	Name   string
	Fields []IndexField
}

// Field returns the field definition by name.
func (idx *IndexDefinition) Field(name string) (IndexField, bool) {
	for _, f := range idx.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return IndexField{}, false
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if f.Name == FieldScore || f.Name == FieldID {
			return errors.New("field name is reserved: " + f.Name)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Separator != "" && f.Type != IndexFieldKeyword {
			return errors.New("separator is only valid for keyword fields: " + f.Name)
		}
		if f.Analyzer != "" && f.Type != IndexFieldText {
			return errors.New("analyzer is only valid for text fields: " + f.Name)
		}
	}

	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
