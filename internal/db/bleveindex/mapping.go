package bleveindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/appdex/internal/db"
)

// buildMapping turns a schema into a strict bleve mapping: only declared
// fields are indexed, nothing is added to the composite _all field.
func buildMapping(def *db.IndexDefinition) (*mapping.IndexMappingImpl, error) {
	dm := bleve.NewDocumentMapping()
	dm.Dynamic = false

	for _, f := range def.Fields {
		var fm *mapping.FieldMapping
		switch f.Type {
		case db.IndexFieldKeyword:
			fm = bleve.NewKeywordFieldMapping()
		case db.IndexFieldText:
			fm = bleve.NewTextFieldMapping()
			if f.Analyzer != "" {
				fm.Analyzer = f.Analyzer
			}
		case db.IndexFieldNumeric:
			fm = bleve.NewNumericFieldMapping()
		default:
			return nil, fmt.Errorf("field %s: unsupported type %d", f.Name, f.Type)
		}
		fm.Store = f.Store
		fm.IncludeInAll = false
		dm.AddFieldMappingsAt(f.Name, fm)
	}

	im := bleve.NewIndexMapping()
	im.DefaultMapping = dm
	im.StoreDynamic = false
	im.IndexDynamic = false
	if err := im.Validate(); err != nil {
		return nil, fmt.Errorf("index %s mapping: %w", def.Name, err)
	}
	return im, nil
}
