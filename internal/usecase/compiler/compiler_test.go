package compiler

import (
	"testing"

	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

func mustCategory(t *testing.T, name string, q query.Query) *category.Category {
	t.Helper()
	c, err := category.New(name, q, category.Attrs{})
	if err != nil {
		t.Fatalf("category.New: %v", err)
	}
	return &c
}

func assertQueries(t *testing.T, got []query.Query, want ...query.Query) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d queries %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("query[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func textOrPrefix(w string) query.Query {
	return query.Or(query.Text(w), query.Prefix(w))
}

func TestCompile_EmptyWithoutConstraint(t *testing.T) {
	got := New().Compile(Input{Terms: "   "})
	assertQueries(t, got, query.Nothing())
}

func TestCompile_EmptyReturnsConstraintUnmodified(t *testing.T) {
	audio := mustCategory(t, "Audio", query.Term("category:audio"))
	channel := query.Term("channel:partner")

	got := New().Compile(Input{Category: audio})
	assertQueries(t, got, query.Term("category:audio"))

	got = New().Compile(Input{Category: audio, Channel: &channel})
	assertQueries(t, got, query.And(query.Term("category:audio"), channel))
}

func TestCompile_SingleCharacterMatchesAll(t *testing.T) {
	assertQueries(t, New().Compile(Input{Terms: "g"}), query.All())

	audio := mustCategory(t, "Audio", query.Term("category:audio"))
	assertQueries(t, New().Compile(Input{Terms: "g", Category: audio}), query.Term("category:audio"))
}

func TestCompile_PackageAndTextQueries(t *testing.T) {
	got := New().Compile(Input{Terms: "gimp"})
	assertQueries(t, got,
		query.Term("pkg:gimp"),
		textOrPrefix("gimp"),
	)
	if !IsExactPackage(got[0]) {
		t.Error("single-word package query should be exact")
	}
	if IsExactPackage(got[1]) {
		t.Error("text query should not be exact")
	}
}

func TestCompile_ConstraintIsAnded(t *testing.T) {
	graphics := mustCategory(t, "Graphics", query.Term("category:graphics"))
	got := New().Compile(Input{Terms: "image editor", Category: graphics})
	assertQueries(t, got,
		query.And(query.Or(query.Term("pkg:image"), query.Term("pkg:editor")), query.Term("category:graphics")),
		query.And(query.Text("image"), textOrPrefix("editor"), query.Term("category:graphics")),
	)
	if IsExactPackage(got[0]) {
		t.Error("constrained package query is not an exact package query")
	}
}

func TestCompile_SubcategoryUnion(t *testing.T) {
	audio := mustCategory(t, "Audio", query.Term("category:audio"))
	video := mustCategory(t, "Video", query.Term("category:video"))
	parent, err := category.New("Sound & Video", query.Nothing(), category.Attrs{
		Subcategories: []category.Category{*audio, *video},
	})
	if err != nil {
		t.Fatalf("category.New: %v", err)
	}

	got := New().Compile(Input{Category: &parent})
	assertQueries(t, got, query.Or(query.Term("category:audio"), query.Term("category:video")))
}

func TestCompile_Greylist(t *testing.T) {
	tests := []struct {
		name  string
		terms string
		want  []query.Query
	}{
		{
			name:  "generic word dropped",
			terms: "music player app",
			want: []query.Query{
				query.Or(query.Term("pkg:music"), query.Term("pkg:player")),
				query.And(query.Text("music"), textOrPrefix("player")),
			},
		},
		{
			name:  "only generic words kept",
			terms: "Tool",
			want:  []query.Query{query.Term("pkg:tool"), textOrPrefix("Tool")},
		},
		{
			name:  "prefixed term bypasses greylist",
			terms: "mime:application",
			want:  []query.Query{query.Term("mime:application")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertQueries(t, New().Compile(Input{Terms: tt.terms}), tt.want...)
		})
	}
}

func TestCompile_ExactPackageTerm(t *testing.T) {
	got := New().Compile(Input{Terms: "pkg:gimp"})
	assertQueries(t, got, query.Term("pkg:gimp"))
	if !IsExactPackage(got[0]) {
		t.Error("pkg: term should be an exact package query")
	}
}

func TestCompile_CommaSeparatedPackages(t *testing.T) {
	got := New().Compile(Input{Terms: "gimp, inkscape"})
	assertQueries(t, got,
		query.Or(query.Term("pkg:gimp"), query.Term("pkg:inkscape")),
		query.And(query.Text("gimp"), textOrPrefix("inkscape")),
	)
}

func TestCompile_BooleanOperators(t *testing.T) {
	tests := []struct {
		name  string
		terms string
		want  query.Query
	}{
		{
			name:  "or",
			terms: "vim OR emacs",
			want:  query.Or(query.Text("vim"), textOrPrefix("emacs")),
		},
		{
			name:  "explicit and",
			terms: "video AND editor",
			want:  query.And(query.Text("video"), textOrPrefix("editor")),
		},
		{
			name:  "not",
			terms: "editor NOT vim",
			want:  query.AndNot(query.Text("editor"), textOrPrefix("vim")),
		},
		{
			name:  "dangling operator",
			terms: "editor OR",
			want:  textOrPrefix("editor"),
		},
		{
			name:  "lower case is a word",
			terms: "cat or dog",
			want:  query.And(query.Text("cat"), query.Text("or"), textOrPrefix("dog")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Compile(Input{Terms: tt.terms})
			last := got[len(got)-1]
			if !last.Equal(tt.want) {
				t.Errorf("text query = %s, want %s", last, tt.want)
			}
		})
	}
}

func TestCompile_HyphenSplitsWords(t *testing.T) {
	got := New().Compile(Input{Terms: "gimp-data"})
	assertQueries(t, got,
		query.Term("pkg:gimp-data"),
		query.And(query.Text("gimp"), textOrPrefix("data")),
	)
}

func TestCompile_LargeQueryDropsPartial(t *testing.T) {
	got := New(WithMaxPartialLength(2)).Compile(Input{Terms: "one two"})
	want := query.And(query.Text("one"), query.Text("two"))
	if last := got[len(got)-1]; !last.Equal(want) {
		t.Errorf("text query = %s, want %s", last, want)
	}
}

func TestCompile_LeavesApplicationNarrowingToTheEngine(t *testing.T) {
	got := New().Compile(Input{Terms: "gimp"})
	for _, q := range got {
		for _, term := range q.Terms() {
			if term == "type:application" {
				t.Errorf("query %s is narrowed to applications", q)
			}
		}
	}
}

func TestCompile_CustomGreylist(t *testing.T) {
	got := New(WithGreylist([]string{"editor"})).Compile(Input{Terms: "image editor"})
	assertQueries(t, got, query.Term("pkg:image"), textOrPrefix("image"))
}
