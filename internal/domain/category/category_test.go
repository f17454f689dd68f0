package category

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

func mustCategory(t *testing.T, name string, q query.Query, a Attrs) Category {
	t.Helper()
	c, err := New(name, q, a)
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return c
}

func TestRuleCompile_Leaf(t *testing.T) {
	q, err := Rule{Category: "AudioVideo"}.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Equal(query.Term("category:audiovideo")) {
		t.Errorf("got %s", q)
	}
}

func TestRuleCompile_AndWithNot(t *testing.T) {
	r := Rule{And: []Rule{
		{Category: "Game"},
		{Not: []Rule{{Category: "Settings"}, {Section: "oldlibs"}}},
	}}
	q, err := r.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := query.AndNot(
		query.Term("category:game"),
		query.Or(query.Term("category:settings"), query.Term("section:oldlibs")),
	)
	if !q.Equal(want) {
		t.Errorf("got %s, want %s", q, want)
	}
}

func TestRuleCompile_NestedOr(t *testing.T) {
	r := Rule{And: []Rule{
		{Type: "application"},
		{Or: []Rule{{Category: "Audio"}, {Category: "Video"}}},
	}}
	q, err := r.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := query.And(
		query.Term("type:application"),
		query.Or(query.Term("category:audio"), query.Term("category:video")),
	)
	if !q.Equal(want) {
		t.Errorf("got %s, want %s", q, want)
	}
}

func TestRuleCompile_TopLevelNot(t *testing.T) {
	q, err := Rule{Not: []Rule{{Channel: "partner"}}}.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Op() != query.OpAndNot {
		t.Errorf("got %s", q)
	}
}

func TestRuleCompile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{"empty", Rule{}, "empty rule"},
		{"two leaves", Rule{Category: "a", Section: "b"}, "exactly one"},
		{"leaf and group", Rule{Category: "a", Or: []Rule{{Category: "b"}}}, "exactly one"},
		{"nested empty", Rule{And: []Rule{{Category: "a"}, {}}}, "and[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rule.Compile()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", query.Term("a"), Attrs{}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := New("Empty", query.Nothing(), Attrs{}); err == nil {
		t.Error("expected error for category without query and subcategories")
	}
	if _, err := New("X", query.Term("a"), Attrs{SortMode: "bogus"}); err == nil {
		t.Error("expected error for invalid sort mode")
	}
	sub := mustCategory(t, "Sub", query.Term("a"), Attrs{})
	if _, err := New("X", query.Nothing(), Attrs{Subcategories: []Category{sub, sub}}); err == nil {
		t.Error("expected error for duplicate subcategory")
	}
}

func TestEffectiveQuery_UnionOfSubcategories(t *testing.T) {
	audio := mustCategory(t, "Audio", query.Term("category:audio"), Attrs{})
	video := mustCategory(t, "Video", query.Term("category:video"), Attrs{})
	parent := mustCategory(t, "Sound & Video", query.Nothing(), Attrs{Subcategories: []Category{audio, video}})

	want := query.Or(query.Term("category:audio"), query.Term("category:video"))
	if !parent.EffectiveQuery().Equal(want) {
		t.Errorf("EffectiveQuery() = %s, want %s", parent.EffectiveQuery(), want)
	}
	if parent.SortMode() != mode.Unsorted {
		t.Errorf("SortMode() = %q, want default unsorted", parent.SortMode())
	}

	own := mustCategory(t, "Games", query.Term("category:game"), Attrs{Subcategories: []Category{audio}})
	if !own.EffectiveQuery().Equal(query.Term("category:game")) {
		t.Errorf("own query should win: %s", own.EffectiveQuery())
	}
}

func TestTree_Find(t *testing.T) {
	audio := mustCategory(t, "Audio", query.Term("category:audio"), Attrs{})
	parent := mustCategory(t, "Sound & Video", query.Nothing(), Attrs{Subcategories: []Category{audio}})
	hidden := mustCategory(t, "Featured", query.Term("category:featured"), Attrs{Flags: []string{FlagHidden}})
	tree := Tree{parent, hidden}

	if c, ok := tree.Find("sound & video"); !ok || c.Name() != "Sound & Video" {
		t.Errorf("Find(top-level) = %q, %v", c.Name(), ok)
	}
	if c, ok := tree.Find("Sound & Video/Audio"); !ok || c.Name() != "Audio" {
		t.Errorf("Find(path) = %q, %v", c.Name(), ok)
	}
	if c, ok := tree.Find("audio"); !ok || c.Name() != "Audio" {
		t.Errorf("Find(nested by name) = %q, %v", c.Name(), ok)
	}
	if _, ok := tree.Find("Sound & Video/Video"); ok {
		t.Error("expected missing subcategory path to fail")
	}
	if _, ok := tree.Find("Office"); ok {
		t.Error("expected unknown category to fail")
	}

	names := tree.Names()
	if len(names) != 1 || names[0] != "Sound & Video" {
		t.Errorf("Names() = %v", names)
	}
}
