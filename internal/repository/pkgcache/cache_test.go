package pkgcache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
)

const snapshotYAML = `
packages:
  - name: gimp
    candidate: "2.10.34-1"
    installed: "2.10.34-1"
    origin: Ubuntu
    component: main
  - name: vlc
    candidate: "3.0.18-2"
    origin: Ubuntu
    component: universe
  - name: local-tool
    installed: "0.1"
    trusted: false
`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeSnapshot(t, snapshotYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	gimp, ok := c.Lookup("gimp")
	if !ok || !gimp.IsInstalled() || !gimp.HasCandidate() || !gimp.Trusted {
		t.Errorf("gimp = %+v, %v", gimp, ok)
	}
	local, _ := c.Lookup("local-tool")
	if local.Trusted {
		t.Error("local-tool should be untrusted")
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("missing package found")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "packages: [", "parse package snapshot"},
		{"no name", "packages:\n  - candidate: '1'\n", "name is required"},
		{"duplicate", "packages:\n  - name: a\n  - name: a\n", "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSnapshot(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestState_MemoizedByDocumentID(t *testing.T) {
	c := New([]pkginfo.Package{{Name: "vlc", CandidateVersion: "3", Trusted: true}})
	doc := document.Reconstruct("app-vlc", "vlc", document.Fields{})

	st := c.State(doc)
	if !st.InCache || !st.HasCandidate || st.Installed {
		t.Errorf("State() = %+v", st)
	}
	if c.Memoized() != 1 {
		t.Errorf("Memoized() = %d, want 1", c.Memoized())
	}

	// Memo survives until Reset, even if the underlying entry is gone.
	c.mu.Lock()
	delete(c.packages, "vlc")
	c.mu.Unlock()
	if !c.State(doc).InCache {
		t.Error("memoized state was not reused")
	}

	c.Reset()
	if c.Memoized() != 0 {
		t.Errorf("Memoized() after Reset = %d", c.Memoized())
	}
	if c.State(doc).InCache {
		t.Error("state not recomputed after Reset")
	}
}

func TestState_MissingPackageIsNotAnError(t *testing.T) {
	c := New(nil)
	st := c.State(document.Reconstruct("pkg-x", "x", document.Fields{}))
	if st != (pkginfo.State{}) {
		t.Errorf("State() = %+v, want zero state", st)
	}
}

func TestReload(t *testing.T) {
	path := writeSnapshot(t, snapshotYAML)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.State(document.Reconstruct("app-gimp", "gimp", document.Fields{}))

	if err := os.WriteFile(path, []byte("packages:\n  - name: emacs\n    candidate: '29'\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := c.Reload(path); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if c.Len() != 1 || c.Memoized() != 0 {
		t.Errorf("after Reload: Len=%d Memoized=%d", c.Len(), c.Memoized())
	}

	if err := os.WriteFile(path, []byte("packages: ["), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := c.Reload(path); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Lookup("emacs"); !ok {
		t.Error("failed reload dropped the current content")
	}
}

func TestState_Concurrent(t *testing.T) {
	c := New([]pkginfo.Package{{Name: "a", CandidateVersion: "1"}})
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.State(document.Reconstruct("d", "a", document.Fields{}))
				if i == 0 {
					c.Reset()
				}
			}
		}()
	}
	wg.Wait()
}
