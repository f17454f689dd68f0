package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/appdex/internal/domain/batch"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/review"
)

// Catalog is the decoded content of a catalog export. Rows that fail
// validation are reported in Rejected and left out of Documents.
type Catalog struct {
	Documents []document.Document
	Reviews   []review.Stats
	Rejected  []batch.Result
}

// Load reads a catalog export.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog export. Only malformed YAML is an error;
// invalid rows are rejected one by one.
func Parse(data []byte) (Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	var c Catalog
	seen := make(map[string]struct{}, len(f.Documents))
	reviewed := make(map[string]struct{})
	for i, row := range f.Documents {
		if _, dup := seen[row.ID]; dup && row.ID != "" {
			c.Rejected = append(c.Rejected, batch.NewRejected(row.ID, fmt.Errorf("row %d: document %q listed twice", i, row.ID)))
			continue
		}

		doc, err := document.New(row.ID, row.Pkgname, row.fields())
		if err != nil {
			c.Rejected = append(c.Rejected, batch.NewRejected(row.ID, fmt.Errorf("row %d: %w", i, err)))
			continue
		}

		if row.Reviews != nil {
			if _, done := reviewed[row.Pkgname]; !done {
				s, err := review.NewStats(row.Pkgname, row.Reviews.Average, row.Reviews.Count, row.Reviews.Histogram)
				if err != nil {
					c.Rejected = append(c.Rejected, batch.NewRejected(row.ID, fmt.Errorf("row %d: reviews: %w", i, err)))
					continue
				}
				reviewed[row.Pkgname] = struct{}{}
				c.Reviews = append(c.Reviews, s)
			}
		}

		seen[row.ID] = struct{}{}
		c.Documents = append(c.Documents, doc)
	}
	return c, nil
}
