package db

import "strings"

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Keyword adds a stored exact-match field.
func (b *IndexBuilder) Keyword(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  name,
		Type:  IndexFieldKeyword,
		Store: true,
	})
	return b
}

// KeywordList adds a stored multi-valued exact-match field. Values are joined
// with separator when returned.
func (b *IndexBuilder) KeywordList(name, separator string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:      name,
		Type:      IndexFieldKeyword,
		Store:     true,
		Separator: separator,
	})
	return b
}

// Text adds an analyzed, unstored full-text field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldText,
	})
	return b
}

// TextWithAnalyzer adds an unstored full-text field with a named analyzer.
func (b *IndexBuilder) TextWithAnalyzer(name, analyzer string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:     name,
		Type:     IndexFieldText,
		Analyzer: analyzer,
	})
	return b
}

// Numeric adds a stored numeric field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  name,
		Type:  IndexFieldNumeric,
		Store: true,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a compact debug representation of the schema.
func (idx *IndexDefinition) String() string {
	parts := []string{"INDEX", idx.Name, "SCHEMA"}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name)
		switch f.Type {
		case IndexFieldKeyword:
			parts = append(parts, "KEYWORD")
			if f.Separator != "" {
				parts = append(parts, "SEPARATOR", f.Separator)
			}
		case IndexFieldText:
			parts = append(parts, "TEXT")
			if f.Analyzer != "" {
				parts = append(parts, "ANALYZER", f.Analyzer)
			}
		case IndexFieldNumeric:
			parts = append(parts, "NUMERIC")
		}
		if f.Store {
			parts = append(parts, "STORED")
		}
	}
	return strings.Join(parts, " ")
}
