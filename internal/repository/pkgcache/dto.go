package pkgcache

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
)

// snapshot is the YAML representation of a package-cache dump.
type snapshot struct {
	Packages []packageRow `yaml:"packages"`
}

// packageRow is one package of a snapshot.
type packageRow struct {
	Name      string `yaml:"name"`
	Candidate string `yaml:"candidate"`
	Installed string `yaml:"installed"`
	Origin    string `yaml:"origin"`
	Component string `yaml:"component"`
	// Trusted defaults to true when omitted.
	Trusted *bool `yaml:"trusted"`
}

// parseSnapshot decodes a YAML snapshot into cache entries.
func parseSnapshot(data []byte) ([]pkginfo.Package, error) {
	var s snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse package snapshot: %w", err)
	}

	pkgs := make([]pkginfo.Package, 0, len(s.Packages))
	seen := make(map[string]struct{}, len(s.Packages))
	for i, row := range s.Packages {
		if row.Name == "" {
			return nil, fmt.Errorf("package %d: name is required", i)
		}
		if _, dup := seen[row.Name]; dup {
			return nil, fmt.Errorf("package %q listed twice", row.Name)
		}
		seen[row.Name] = struct{}{}

		trusted := true
		if row.Trusted != nil {
			trusted = *row.Trusted
		}
		pkgs = append(pkgs, pkginfo.Package{
			Name:             row.Name,
			CandidateVersion: row.Candidate,
			InstalledVersion: row.Installed,
			Origin:           row.Origin,
			Component:        row.Component,
			Trusted:          trusted,
		})
	}
	return pkgs, nil
}
