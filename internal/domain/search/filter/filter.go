package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/kailas-cloud/appdex/internal/domain/distro"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
)

// StateSource resolves the package-cache view of a document.
type StateSource interface {
	State(doc document.Document) pkginfo.State
}

// Filter is a per-document predicate over facts that are not index terms:
// cache availability, install state, distro support and an explicit allow-list.
// A Filter is mutable; Clone it before handing it to a search that may outlive the caller's changes.
type Filter struct {
	availableOnly    bool
	installedOnly    bool
	notInstalledOnly bool
	supportedOnly    bool
	restricted       map[string]struct{}
}

// New returns a filter with every check disabled.
func New() *Filter {
	return &Filter{}
}

// SetAvailableOnly toggles the available check.
func (f *Filter) SetAvailableOnly(v bool) { f.availableOnly = v }

// SetInstalledOnly toggles the installed check.
func (f *Filter) SetInstalledOnly(v bool) { f.installedOnly = v }

// SetNotInstalledOnly toggles the not-installed check.
func (f *Filter) SetNotInstalledOnly(v bool) { f.notInstalledOnly = v }

// SetSupportedOnly toggles the distro-support check.
func (f *Filter) SetSupportedOnly(v bool) { f.supportedOnly = v }

// SetRestrictedList limits results to the given package names. Nil or empty disables the check.
func (f *Filter) SetRestrictedList(pkgNames []string) {
	if len(pkgNames) == 0 {
		f.restricted = nil
		return
	}
	f.restricted = make(map[string]struct{}, len(pkgNames))
	for _, n := range pkgNames {
		f.restricted[n] = struct{}{}
	}
}

// AvailableOnly reports whether the available check is active.
func (f *Filter) AvailableOnly() bool { return f.availableOnly }

// InstalledOnly reports whether the installed check is active.
func (f *Filter) InstalledOnly() bool { return f.installedOnly }

// NotInstalledOnly reports whether the not-installed check is active.
func (f *Filter) NotInstalledOnly() bool { return f.notInstalledOnly }

// SupportedOnly reports whether the distro-support check is active.
func (f *Filter) SupportedOnly() bool { return f.supportedOnly }

// RestrictedList returns the sorted allow-list (nil when inactive).
func (f *Filter) RestrictedList() []string {
	if f.restricted == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(f.restricted))
}

// Required reports whether any check is active. A nil filter requires nothing.
func (f *Filter) Required() bool {
	if f == nil {
		return false
	}
	return f.availableOnly || f.installedOnly || f.notInstalledOnly ||
		f.supportedOnly || f.restricted != nil
}

// Accept reports whether doc passes every active check. The cache is consulted
// only when a check needs it.
func (f *Filter) Accept(doc document.Document, src StateSource, policy distro.Policy) bool {
	if !f.Required() {
		return true
	}
	if f.restricted != nil {
		if _, ok := f.restricted[doc.PkgName()]; !ok {
			return false
		}
	}
	if !f.availableOnly && !f.installedOnly && !f.notInstalledOnly && !f.supportedOnly {
		return true
	}

	st := src.State(doc)
	available := st.HasCandidate || doc.IsPurchasable()
	if f.availableOnly && !available {
		return false
	}
	if f.installedOnly && !(available && st.Installed) {
		return false
	}
	if f.notInstalledOnly && !(available && !st.Installed) {
		return false
	}
	if f.supportedOnly && !policy.IsSupported(doc, st) {
		return false
	}
	return true
}

// Equal reports whether both filters have the same flags and allow-list.
// A nil filter equals a filter with every check disabled.
func (f *Filter) Equal(other *Filter) bool {
	a, b := f, other
	if a == nil {
		a = New()
	}
	if b == nil {
		b = New()
	}
	return a.availableOnly == b.availableOnly &&
		a.installedOnly == b.installedOnly &&
		a.notInstalledOnly == b.notInstalledOnly &&
		a.supportedOnly == b.supportedOnly &&
		maps.Equal(a.restricted, b.restricted)
}

// Clone returns an independent copy. Cloning nil yields an empty filter.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return New()
	}
	c := *f
	if f.restricted != nil {
		c.restricted = maps.Clone(f.restricted)
	}
	return &c
}

// Reset disables every check.
func (f *Filter) Reset() {
	*f = Filter{}
}

// String renders the active checks for logs.
func (f *Filter) String() string {
	if !f.Required() {
		return "<none>"
	}
	var parts []string
	if f.availableOnly {
		parts = append(parts, "available")
	}
	if f.installedOnly {
		parts = append(parts, "installed")
	}
	if f.notInstalledOnly {
		parts = append(parts, "not-installed")
	}
	if f.supportedOnly {
		parts = append(parts, "supported")
	}
	if f.restricted != nil {
		parts = append(parts, "restricted("+strings.Join(f.RestrictedList(), ",")+")")
	}
	return strings.Join(parts, " ")
}
