package document

import "strings"

// Term prefixes. A term is "<prefix><lower-case value>".
const (
	PrefixPackage  = "pkg:"
	PrefixCategory = "category:"
	PrefixSection  = "section:"
	PrefixType     = "type:"
	PrefixChannel  = "channel:"
	PrefixOrigin   = "origin:"
	PrefixLabel    = "label:"
)

// Marker terms.
const (
	// TermApplication marks documents that describe a front-end application.
	TermApplication = PrefixType + "application"
	// TermDuplicate marks package documents superseded by an application document.
	TermDuplicate = "dup"
)

// PurchaseChannel is the archive channel value of software offered for purchase.
const PurchaseChannel = "for-purchase"

// Value columns stored with each document.
const (
	ValuePkgName        = "pkgname"
	ValueAppName        = "appname"
	ValueDisplayName    = "display_name"
	ValueSummary        = "summary"
	ValueArchiveChannel = "archive_channel"
	ValueOrigin         = "origin"
	ValueComponent      = "component"
	ValuePrice          = "price"
	ValueCatalogedTime  = "cataloged_time"
	// ValueDisplayNameKey holds the locale collation key of the display name.
	ValueDisplayNameKey = "display_name_key"
)

// PackageTerm returns the exact package-name term for name.
func PackageTerm(name string) string { return PrefixPackage + strings.ToLower(name) }

// CategoryTerm returns the category term for name.
func CategoryTerm(name string) string { return PrefixCategory + strings.ToLower(name) }

// SectionTerm returns the archive section term for name.
func SectionTerm(name string) string { return PrefixSection + strings.ToLower(name) }

// TypeTerm returns the document type term for name.
func TypeTerm(name string) string { return PrefixType + strings.ToLower(name) }

// ChannelTerm returns the archive channel term for name.
func ChannelTerm(name string) string { return PrefixChannel + strings.ToLower(name) }

// OriginTerm returns the archive origin term for name.
func OriginTerm(name string) string { return PrefixOrigin + strings.ToLower(name) }

// LabelTerm returns the archive label term for name.
func LabelTerm(name string) string { return PrefixLabel + strings.ToLower(name) }
