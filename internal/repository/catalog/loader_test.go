package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/appdex/internal/domain/batch"
	"github.com/kailas-cloud/appdex/internal/domain/document"
)

const sample = `
documents:
  - id: app-gimp
    pkgname: gimp
    appname: GIMP
    display_name: GNU Image Manipulation Program
    summary: Create images and edit photographs
    keywords: [photo, paint]
    type: application
    categories: [Graphics, 2DGraphics]
    section: graphics
    archive_channel: ubuntu
    origin: Ubuntu
    component: main
    cataloged: 2023-11-14T22:13:20Z
    reviews:
      average: 4.2
      count: 3
      histogram: [0, 0, 1, 0, 2]
  - id: pkg-gimp
    pkgname: gimp
    duplicate: true
  - id: game-x
    pkgname: game-x
    archive_channel: for-purchase
    price: 9.99
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Documents) != 3 || len(c.Rejected) != 0 {
		t.Fatalf("documents = %d, rejected = %v", len(c.Documents), c.Rejected)
	}

	gimp := c.Documents[0]
	for _, term := range []string{
		document.TermApplication, "category:graphics", "category:2dgraphics",
		"section:graphics", "channel:ubuntu", "origin:ubuntu", "pkg:gimp",
	} {
		if !gimp.HasTerm(term) {
			t.Errorf("missing term %q in %v", term, gimp.Terms())
		}
	}
	if gimp.CatalogedTime() != 1700000000 {
		t.Errorf("CatalogedTime() = %d", gimp.CatalogedTime())
	}
	if !strings.Contains(gimp.Text(), "photo") {
		t.Errorf("keywords not in text: %q", gimp.Text())
	}

	dup := c.Documents[1]
	if !dup.HasTerm(document.TermDuplicate) {
		t.Error("duplicate marker missing")
	}
	game := c.Documents[2]
	if !game.IsPurchasable() || game.Price() != 9.99 {
		t.Errorf("purchasable = %v, price = %v", game.IsPurchasable(), game.Price())
	}

	if len(c.Reviews) != 1 || c.Reviews[0].PkgName() != "gimp" || c.Reviews[0].Count() != 3 {
		t.Errorf("reviews = %+v", c.Reviews)
	}
}

func TestParse_RejectsInvalidRows(t *testing.T) {
	data := `
documents:
  - id: ok
    pkgname: ok
  - id: ok
    pkgname: again
  - id: "bad id"
    pkgname: x
  - id: nopkg
  - id: badreviews
    pkgname: y
    reviews: {average: 9, count: 1}
`
	c, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Documents) != 1 {
		t.Errorf("documents = %d, want 1", len(c.Documents))
	}
	if len(c.Rejected) != 4 {
		t.Fatalf("rejected = %d, want 4: %v", len(c.Rejected), c.Rejected)
	}
	for _, r := range c.Rejected {
		if r.Status() != batch.StatusRejected || r.Err() == nil {
			t.Errorf("result %q: status %q err %v", r.ID(), r.Status(), r.Err())
		}
	}
	if !strings.Contains(c.Rejected[0].Err().Error(), "listed twice") {
		t.Errorf("first rejection = %v", c.Rejected[0].Err())
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("documents: [")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Documents) != 3 {
		t.Errorf("documents = %d", len(c.Documents))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
