package report

import (
	"math"
	"sort"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

// MemberRow is one member's obligation summary.
// Age-privileged sessions are kept apart and never enter Rate.
type MemberRow struct {
	MemberID                string                  `json:"member_id"`
	Name                    string                  `json:"name"`
	DegreeLabel             string                  `json:"degree_label"`
	EligibleCount           int                     `json:"eligible_count"`
	PresentCount            int                     `json:"present_count"`
	Rate                    int                     `json:"rate"`
	JustifiedCount          int                     `json:"justified_count"`
	PrivilegedEligibleCount int                     `json:"privileged_eligible_count,omitempty"`
	PrivilegedPresentCount  int                     `json:"privileged_present_count,omitempty"`
	PrivilegedRate          int                     `json:"privileged_rate,omitempty"`
	Tags                    map[eligibility.Tag]int `json:"tags"`
}

// SessionRow is one session's turnout.
type SessionRow struct {
	SessionID     string       `json:"session_id"`
	Date          lodge.Date   `json:"date"`
	Level         lodge.Degree `json:"degree_level"`
	Title         string       `json:"title,omitempty"`
	EligibleCount int          `json:"eligible_count"`
	PresentCount  int          `json:"present_count"`
	AbsentCount   int          `json:"absent_count"`
	VisitorCount  int          `json:"visitor_count"`
	Rate          int          `json:"rate"`
	// AttendeeCount counts every member marked present, whatever their classification.
	AttendeeCount int `json:"attendee_count"`
}

// PerfectYear lists the members who attended every eligible session of a year.
type PerfectYear struct {
	Year    int          `json:"year"`
	Members []PerfectRow `json:"members"`
}

type PerfectRow struct {
	MemberID        string `json:"member_id"`
	Name            string `json:"name"`
	TotalSessions   int    `json:"total_sessions"`
	ApprenticeCount int    `json:"apprentice_count"`
	CompanionCount  int    `json:"companion_count"`
	MasterCount     int    `json:"master_count"`
}

// RankedRow is a line of the age-privilege and on-leave lists.
type RankedRow struct {
	Rank          int    `json:"rank"`
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	DegreeLabel   string `json:"degree_label"`
	PresentCount  int    `json:"present_count"`
	EligibleCount int    `json:"eligible_count"`
	Rate          int    `json:"rate"`
}

// LeaveRow adds the leave window that put the member on the list.
type LeaveRow struct {
	RankedRow
	LeaveStart lodge.Date `json:"leave_start"`
	LeaveEnd   lodge.Date `json:"leave_end"`
}

// GridRow is one line of the attendance grid.
type GridRow struct {
	MemberID string     `json:"member_id"`
	Name     string     `json:"name"`
	Cells    []GridCell `json:"cells"`
}

type GridCell struct {
	SessionID     string          `json:"session_id"`
	Tag           eligibility.Tag `json:"tag"`
	Present       bool            `json:"present"`
	Justification string          `json:"justification,omitempty"`
}

// Rate is present/eligible as a whole percentage, 0 when nothing was eligible.
func Rate(present, eligible int) int {
	if eligible <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(eligible) * 100))
}

// rank orders rows by rate, then attendance, then name, and numbers them from 1.
func rank(rows []RankedRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rankLess(rows[i], rows[j]) })
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

func rankLess(a, b RankedRow) bool {
	if a.Rate != b.Rate {
		return a.Rate > b.Rate
	}
	if a.PresentCount != b.PresentCount {
		return a.PresentCount > b.PresentCount
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.MemberID < b.MemberID
}
