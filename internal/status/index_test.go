package status

import (
	"testing"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

func day(s string) lodge.Date {
	v, err := lodge.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		label string
		want  Category
		ok    bool
	}{
		{"Licença", CategoryOnLeave, true},
		{"LICENCA", CategoryOnLeave, true},
		{"  on leave ", CategoryOnLeave, true},
		{"On-Leave", CategoryOnLeave, true},
		{"Suspenso", CategorySuspended, true},
		{"suspensão", CategorySuspended, true},
		{"Excluído", CategoryExcluded, true},
		{"Ex-Officio", CategoryExOfficio, true},
		{"ex officio", CategoryExOfficio, true},
		{"IRREGULAR", CategoryIrregular, true},
		{"Benemérito", CategoryOther, false},
		{"", CategoryOther, false},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.label)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Normalize(%q) = %v,%v want %v,%v", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet([]string{"suspended", "Irregular", "ex_officio"})
	if err != nil {
		t.Fatalf("ParseSet: %v", err)
	}
	if !s.Has(CategorySuspended) || !s.Has(CategoryIrregular) || !s.Has(CategoryExOfficio) {
		t.Errorf("missing categories in %v", s)
	}
	if s.Has(CategoryOnLeave) {
		t.Errorf("on_leave should not be in %v", s)
	}
	if _, err := ParseSet([]string{"retired"}); err == nil {
		t.Error("expected error for unknown category")
	}
	if Blocking.Without(CategoryOnLeave).Has(CategoryOnLeave) {
		t.Error("Without did not remove category")
	}
}

func TestLookup_Boundaries(t *testing.T) {
	ix := NewIndex([]lodge.StatusInterval{
		{MemberID: "m1", Category: "Suspenso", Start: day("2022-03-01"), End: day("2022-05-31"), Active: true},
		{MemberID: "m2", Category: "irregular", Start: day("2022-03-01"), Active: true},
	})
	cases := []struct {
		member string
		on     string
		want   bool
	}{
		{"m1", "2022-02-28", false},
		{"m1", "2022-03-01", true},
		{"m1", "2022-04-15", true},
		{"m1", "2022-05-31", true},
		{"m1", "2022-06-01", false},
		{"m2", "2022-03-02", true},
		{"m2", "2031-01-01", true},
	}
	for _, tc := range cases {
		_, got := ix.Lookup(tc.member, day(tc.on), Blocking)
		if got != tc.want {
			t.Errorf("Lookup(%s, %s) = %v, want %v", tc.member, tc.on, got, tc.want)
		}
	}
}

func TestLookup_CategoryFilterAndInactive(t *testing.T) {
	ix := NewIndex([]lodge.StatusInterval{
		{MemberID: "m1", Category: "Licença", Start: day("2022-01-01"), Active: true},
		{MemberID: "m1", Category: "suspended", Start: day("2021-01-01"), End: day("2021-12-31"), Active: false},
	})
	if _, ok := ix.Lookup("m1", day("2022-02-01"), Blocking.Without(CategoryOnLeave)); ok {
		t.Error("on-leave must not match when excluded from the set")
	}
	e, ok := ix.Lookup("m1", day("2022-02-01"), Blocking)
	if !ok || e.Category != CategoryOnLeave {
		t.Errorf("expected on_leave match, got %v %v", e, ok)
	}
	if _, ok := ix.Lookup("m1", day("2021-06-01"), Blocking); ok {
		t.Error("inactive interval must be ignored")
	}
	if len(ix.ForMember("m1")) != 1 {
		t.Errorf("inactive interval should be dropped, got %d entries", len(ix.ForMember("m1")))
	}
}

func TestIndexIssues(t *testing.T) {
	ix := NewIndex([]lodge.StatusInterval{
		{MemberID: "m1", Category: "suspended", Start: day("2022-01-01"), End: day("2022-06-30"), Active: true},
		{MemberID: "m1", Category: "irregular", Start: day("2022-06-01"), Active: true},
		{MemberID: "m2", Category: "honorary", Start: day("2022-01-01"), Active: true},
		{MemberID: "m3", Category: "suspended", Start: day("2022-05-01"), End: day("2022-01-01"), Active: true},
		{MemberID: "m4", Category: "excluded", End: day("2022-12-31"), Active: true},
	})
	kinds := map[lodge.IssueKind]int{}
	for _, is := range ix.Issues() {
		kinds[is.Kind]++
	}
	if kinds[lodge.IssueOverlappingStatus] != 1 {
		t.Errorf("overlapping_status = %d, want 1", kinds[lodge.IssueOverlappingStatus])
	}
	if kinds[lodge.IssueUnknownStatusCategory] != 1 {
		t.Errorf("unknown_status_category = %d, want 1", kinds[lodge.IssueUnknownStatusCategory])
	}
	if kinds[lodge.IssueInvertedStatusInterval] != 1 {
		t.Errorf("inverted_status_interval = %d, want 1", kinds[lodge.IssueInvertedStatusInterval])
	}

	if kinds[lodge.IssueMissingStatusStart] != 1 {
		t.Errorf("missing_status_start = %d, want 1", kinds[lodge.IssueMissingStatusStart])
	}
	if _, ok := ix.Lookup("m4", day("2001-01-01"), Blocking); ok {
		t.Error("interval without a start date must not block")
	}
	if len(ix.ForMember("m4")) != 0 {
		t.Errorf("interval without a start date should be dropped, got %d entries", len(ix.ForMember("m4")))
	}

	// Overlaps are tolerated: either interval blocks.
	if _, ok := ix.Lookup("m1", day("2022-06-15"), Blocking); !ok {
		t.Error("overlapping window should be blocked")
	}
}
