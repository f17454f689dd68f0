package mode

import "testing"

func TestSort_IsValid(t *testing.T) {
	valid := []Sort{Unsorted, Alphabetic, SearchRanking, CatalogRecency, TopRated}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", s)
		}
	}

	invalid := []Sort{"", "rating", "RELEVANCE"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", s)
		}
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	if err != nil || s != Unsorted {
		t.Errorf("ParseSort(\"\") = %q, %v", s, err)
	}
	s, err = ParseSort("top_rated")
	if err != nil || s != TopRated {
		t.Errorf("ParseSort(top_rated) = %q, %v", s, err)
	}
	if _, err := ParseSort("bogus"); err == nil {
		t.Error("expected error for bogus sort")
	}
}

func TestVisibility(t *testing.T) {
	for _, v := range []Visibility{AlwaysVisible, MaybeVisible, NeverVisible} {
		if !v.IsValid() {
			t.Errorf("%q.IsValid() = false", v)
		}
	}
	v, err := ParseVisibility("")
	if err != nil || v != MaybeVisible {
		t.Errorf("ParseVisibility(\"\") = %q, %v", v, err)
	}
	if _, err := ParseVisibility("sometimes"); err == nil {
		t.Error("expected error for invalid visibility")
	}
}

func TestOrder_String(t *testing.T) {
	tests := []struct {
		o    Order
		want string
	}{
		{OrderRelevance, "relevance"},
		{OrderPackageName, "pkgname"},
		{OrderRecency, "recency"},
		{OrderDisplayName, "display_name"},
		{OrderIndex, "index"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Order(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}
