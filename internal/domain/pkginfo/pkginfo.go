package pkginfo

// Package is one entry of the live package-metadata cache.
type Package struct {
	Name             string
	CandidateVersion string
	InstalledVersion string
	Origin           string
	Component        string
	Trusted          bool
}

// HasCandidate reports whether the package can be installed or upgraded from an archive.
func (p Package) HasCandidate() bool { return p.CandidateVersion != "" }

// IsInstalled reports whether any version of the package is installed.
func (p Package) IsInstalled() bool { return p.InstalledVersion != "" }

// State is the resolved cache view of one catalog document.
// A package missing from the cache is a valid state (InCache=false), not an error.
type State struct {
	InCache      bool
	HasCandidate bool
	Installed    bool
	Origin       string
	Component    string
	Trusted      bool
}

// StateOf derives the State of a cache entry.
func StateOf(p Package, found bool) State {
	if !found {
		return State{}
	}
	return State{
		InCache:      true,
		HasCandidate: p.HasCandidate(),
		Installed:    p.IsInstalled(),
		Origin:       p.Origin,
		Component:    p.Component,
		Trusted:      p.Trusted,
	}
}
