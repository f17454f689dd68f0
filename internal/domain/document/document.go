package document

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.+:-]+$`)

// MaxTextSize is the maximum size of the free-text body in bytes.
const MaxTextSize = 65536

// Document is a catalog record: one application or one plain package (immutable value object).
type Document struct {
	id             string
	pkgName        string
	appName        string
	displayName    string
	summary        string
	text           string
	terms          []string
	archiveChannel string
	origin         string
	component      string
	price          float64
	catalogedTime  int64
}

// Fields groups the optional attributes of a Document.
type Fields struct {
	AppName        string
	DisplayName    string
	Summary        string
	Text           string
	Terms          []string
	ArchiveChannel string
	Origin         string
	Component      string
	Price          float64
	CatalogedTime  int64 // unix seconds, 0 = unknown
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_.+:-]+$, 1-256 chars. PkgName is required.
// Terms are normalized to lower case and deduplicated; the package-name term is always present.
func New(id, pkgName string, f Fields) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID %q contains invalid characters", id)
	}
	if pkgName == "" {
		return Document{}, fmt.Errorf("package name is required for document %q", id)
	}
	if len(f.Text) > MaxTextSize {
		return Document{}, fmt.Errorf("text too large (max %d bytes)", MaxTextSize)
	}
	if f.Price < 0 {
		return Document{}, fmt.Errorf("price must not be negative")
	}

	terms := normalizeTerms(append(slices.Clone(f.Terms), PackageTerm(pkgName)))

	return Document{
		id:             id,
		pkgName:        pkgName,
		appName:        f.AppName,
		displayName:    f.DisplayName,
		summary:        f.Summary,
		text:           f.Text,
		terms:          terms,
		archiveChannel: f.ArchiveChannel,
		origin:         f.Origin,
		component:      f.Component,
		price:          f.Price,
		catalogedTime:  f.CatalogedTime,
	}, nil
}

// Reconstruct creates a Document without validation (index hydration).
func Reconstruct(id, pkgName string, f Fields) Document {
	return Document{
		id:             id,
		pkgName:        pkgName,
		appName:        f.AppName,
		displayName:    f.DisplayName,
		summary:        f.Summary,
		text:           f.Text,
		terms:          f.Terms,
		archiveChannel: f.ArchiveChannel,
		origin:         f.Origin,
		component:      f.Component,
		price:          f.Price,
		catalogedTime:  f.CatalogedTime,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// PkgName returns the package name.
func (d *Document) PkgName() string { return d.pkgName }

// AppName returns the application name (empty for plain packages).
func (d *Document) AppName() string { return d.appName }

// DisplayName returns the name shown to users, falling back to app name and package name.
func (d *Document) DisplayName() string {
	switch {
	case d.displayName != "":
		return d.displayName
	case d.appName != "":
		return d.appName
	default:
		return d.pkgName
	}
}

// Summary returns the one-line summary.
func (d *Document) Summary() string { return d.summary }

// Text returns the free-text body.
func (d *Document) Text() string { return d.text }

// Terms returns the index terms.
func (d *Document) Terms() []string { return d.terms }

// ArchiveChannel returns the archive channel value.
func (d *Document) ArchiveChannel() string { return d.archiveChannel }

// Origin returns the archive origin value.
func (d *Document) Origin() string { return d.origin }

// Component returns the archive component value.
func (d *Document) Component() string { return d.component }

// Price returns the price (0 for free software).
func (d *Document) Price() float64 { return d.price }

// CatalogedTime returns the unix time the document entered the catalog.
func (d *Document) CatalogedTime() int64 { return d.catalogedTime }

// IsApplication reports whether the document carries the application type marker.
func (d *Document) IsApplication() bool { return d.HasTerm(TermApplication) }

// IsPurchasable reports whether the document is offered through the purchase channel.
func (d *Document) IsPurchasable() bool { return d.archiveChannel == PurchaseChannel }

// HasTerm reports whether the document carries the given term.
func (d *Document) HasTerm(term string) bool {
	return slices.Contains(d.terms, strings.ToLower(term))
}

// WithTerm returns a copy of the document carrying term as well.
func (d *Document) WithTerm(term string) Document {
	c := *d
	c.terms = normalizeTerms(append(slices.Clone(d.terms), term))
	return c
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
