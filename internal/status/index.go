package status

import (
	"fmt"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

// Entry is an active status interval with its label already normalized.
type Entry struct {
	lodge.StatusInterval
	Category Category
}

// Index answers "which status covers this member on this day" lookups.
// Labels are normalized once, at construction; inactive intervals and intervals
// without a start date are dropped.
// It is immutable after NewIndex and safe for concurrent readers.
type Index struct {
	byMember map[string][]Entry
	issues   []lodge.Issue
}

// NewIndex normalizes and groups intervals by member, preserving input order.
func NewIndex(intervals []lodge.StatusInterval) *Index {
	ix := &Index{byMember: make(map[string][]Entry)}
	var order []string
	for _, iv := range intervals {
		cat, ok := Normalize(iv.Category)
		if !ok {
			ix.issues = append(ix.issues, lodge.Issue{
				Kind:     lodge.IssueUnknownStatusCategory,
				MemberID: iv.MemberID,
				Detail:   fmt.Sprintf("status category %q not recognized; it never blocks", iv.Category),
			})
		}
		if iv.Start.IsZero() {
			// Without a start the interval would cover every earlier day.
			ix.issues = append(ix.issues, lodge.Issue{
				Kind:     lodge.IssueMissingStatusStart,
				MemberID: iv.MemberID,
				Detail:   fmt.Sprintf("%s interval has no start date; it is ignored", cat),
			})
			continue
		}
		if iv.Inverted() {
			ix.issues = append(ix.issues, lodge.Issue{
				Kind:     lodge.IssueInvertedStatusInterval,
				MemberID: iv.MemberID,
				Detail:   fmt.Sprintf("%s interval ends %s before it starts %s", cat, iv.End, iv.Start),
			})
		}
		if !iv.Active {
			continue
		}
		if _, seen := ix.byMember[iv.MemberID]; !seen {
			order = append(order, iv.MemberID)
		}
		ix.byMember[iv.MemberID] = append(ix.byMember[iv.MemberID], Entry{StatusInterval: iv, Category: cat})
	}
	for _, id := range order {
		ix.issues = append(ix.issues, overlaps(id, ix.byMember[id])...)
	}
	return ix
}

// Lookup returns the first active interval of one of cats that covers d.
// Overlapping intervals are allowed; any match wins.
func (ix *Index) Lookup(memberID string, d lodge.Date, cats Set) (Entry, bool) {
	if cats.Empty() {
		return Entry{}, false
	}
	for _, e := range ix.byMember[memberID] {
		if cats.Has(e.Category) && e.Covers(d) {
			return e, true
		}
	}
	return Entry{}, false
}

// ForMember returns the member's active intervals in input order.
func (ix *Index) ForMember(memberID string) []Entry {
	return ix.byMember[memberID]
}

// Issues returns the data-quality findings from construction.
func (ix *Index) Issues() []lodge.Issue {
	return ix.issues
}

func overlaps(memberID string, entries []Entry) []lodge.Issue {
	var issues []lodge.Issue
	for i := 0; i < len(entries); i++ {
		a := entries[i]
		if a.Category == CategoryOther || a.Inverted() {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			b := entries[j]
			if b.Category == CategoryOther || b.Inverted() {
				continue
			}
			end := b.End
			if b.OpenEnded() {
				end = lodge.MaxDate(a.Start, b.Start)
			}
			if a.Overlaps(b.Start, end) {
				issues = append(issues, lodge.Issue{
					Kind:     lodge.IssueOverlappingStatus,
					MemberID: memberID,
					Detail: fmt.Sprintf("%s from %s overlaps %s from %s",
						a.Category, a.Start, b.Category, b.Start),
				})
			}
		}
	}
	return issues
}
