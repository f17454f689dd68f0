package pkginfo

import "testing"

func TestStateOf_Missing(t *testing.T) {
	s := StateOf(Package{Name: "foo", CandidateVersion: "1.0"}, false)
	if s.InCache || s.HasCandidate || s.Installed {
		t.Errorf("missing package produced state %+v", s)
	}
}

func TestStateOf_Found(t *testing.T) {
	p := Package{
		Name:             "foo",
		CandidateVersion: "1.1",
		InstalledVersion: "1.0",
		Origin:           "Ubuntu",
		Component:        "main",
		Trusted:          true,
	}
	s := StateOf(p, true)
	if !s.InCache || !s.HasCandidate || !s.Installed {
		t.Errorf("state = %+v", s)
	}
	if s.Origin != "Ubuntu" || s.Component != "main" || !s.Trusted {
		t.Errorf("origin fields not copied: %+v", s)
	}
}

func TestPackagePredicates(t *testing.T) {
	p := Package{Name: "foo"}
	if p.HasCandidate() || p.IsInstalled() {
		t.Error("empty versions should report false")
	}
}
