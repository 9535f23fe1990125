package domain

import (
	"reflect"
	"testing"
)

func TestTagList_RoundTrip(t *testing.T) {
	var r Recipe
	r.SetTagList([]string{"chicken", "quick", "asian"})
	got := r.TagList()
	if !reflect.DeepEqual(got, []string{"chicken", "quick", "asian"}) {
		t.Fatalf("TagList = %#v", got)
	}
}

func TestTagList_EmptyAndNil(t *testing.T) {
	var r Recipe
	if got := r.TagList(); len(got) != 0 {
		t.Fatalf("empty column should yield empty slice, got %#v", got)
	}
	r.SetTagList(nil)
	if r.Tags != "[]" {
		t.Fatalf("nil tags should store empty JSON array, got %q", r.Tags)
	}
	if got := r.TagList(); len(got) != 0 {
		t.Fatalf("nil round trip yielded %#v", got)
	}
}

func TestTagList_MalformedJSON(t *testing.T) {
	r := Recipe{Tags: "{not json"}
	if got := r.TagList(); len(got) != 0 {
		t.Fatalf("malformed column should yield empty slice, got %#v", got)
	}
}

func TestValidators(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	if ValidCategory("beverages") {
		t.Error("unknown category accepted")
	}
	for _, u := range []string{UnitGram, UnitMl, UnitUnit} {
		if !ValidUnit(u) {
			t.Errorf("unit %q should be valid", u)
		}
	}
	if ValidUnit("cups") {
		t.Error("unknown unit accepted")
	}
	for _, m := range []string{MealBreakfast, MealLunch, MealDinner} {
		if !ValidMealType(m) {
			t.Errorf("meal type %q should be valid", m)
		}
	}
	if ValidMealType("brunch") {
		t.Error("unknown meal type accepted")
	}
}

func TestNameKeyOf(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Flour", "flour"},
		{"  flour  ", "flour"},
		{"CHICKEN Breast", "chicken breast"},
		{"Crème Fraîche", "crème fraîche"},
	}
	for _, tc := range cases {
		if got := NameKeyOf(tc.in); got != tc.want {
			t.Errorf("NameKeyOf(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if NameKeyOf("Flour") != NameKeyOf("fLoUr ") {
		t.Error("case variants should produce the same key")
	}
}
