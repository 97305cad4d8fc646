package lodge

import "fmt"

// Degree is a member's rank. It is always derived from progression dates.
type Degree int

const (
	DegreeNone Degree = iota
	DegreeApprentice
	DegreeCompanion
	DegreeMaster
)

func (d Degree) String() string {
	switch d {
	case DegreeApprentice:
		return "Apprentice"
	case DegreeCompanion:
		return "Companion"
	case DegreeMaster:
		return "Master"
	}
	return "None"
}

// Member is a read-only snapshot of a lodge member record.
type Member struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	BirthDate      Date   `json:"birth_date" yaml:"birth_date"`
	AdmissionDate  Date   `json:"admission_date" yaml:"admission_date"`
	InitiationDate Date   `json:"initiation_date" yaml:"initiation_date"`
	ElevationDate  Date   `json:"elevation_date" yaml:"elevation_date"`
	ExaltationDate Date   `json:"exaltation_date" yaml:"exaltation_date"`
	DeathDate      Date   `json:"death_date" yaml:"death_date"`
	Active         bool   `json:"active" yaml:"active"`
}

// DegreeAt returns the highest degree granted on or before d.
// Out-of-order progression dates are not an error: the highest degree reached wins.
func (m *Member) DegreeAt(d Date) Degree {
	switch {
	case reached(m.ExaltationDate, d):
		return DegreeMaster
	case reached(m.ElevationDate, d):
		return DegreeCompanion
	case reached(m.InitiationDate, d):
		return DegreeApprentice
	}
	return DegreeNone
}

func reached(granted, d Date) bool {
	return !granted.IsZero() && !granted.After(d)
}

// MembershipStart returns the day the member joined the lodge. Admission wins over
// initiation because it reflects transfers and reinstatements. ok is false when
// neither date is recorded.
func (m *Member) MembershipStart() (start Date, ok bool) {
	if !m.AdmissionDate.IsZero() {
		return m.AdmissionDate, true
	}
	if !m.InitiationDate.IsZero() {
		return m.InitiationDate, true
	}
	return Date{}, false
}

// AgeAt returns the member's age in whole years on d. ok is false without a birth date.
func (m *Member) AgeAt(d Date) (age int, ok bool) {
	if m.BirthDate.IsZero() {
		return 0, false
	}
	b := m.BirthDate
	age = d.Year() - b.Year()
	if d.Month() < b.Month() || (d.Month() == b.Month() && d.Day() < b.Day()) {
		age--
	}
	return age, true
}

// Check reports data-quality problems in the member record.
func (m *Member) Check() []Issue {
	var issues []Issue
	if _, ok := m.MembershipStart(); !ok {
		issues = append(issues, Issue{
			Kind:     IssueMissingMembershipAnchor,
			MemberID: m.ID,
			Detail:   "no admission or initiation date; member is never eligible",
		})
	}
	steps := []struct {
		name string
		date Date
	}{
		{"initiation", m.InitiationDate},
		{"elevation", m.ElevationDate},
		{"exaltation", m.ExaltationDate},
	}
	var prev Date
	var prevName string
	for _, s := range steps {
		if s.date.IsZero() {
			continue
		}
		if !prev.IsZero() && s.date.Before(prev) {
			issues = append(issues, Issue{
				Kind:     IssueInvertedDegreeDates,
				MemberID: m.ID,
				Detail:   fmt.Sprintf("%s date %s precedes %s date %s", s.name, s.date, prevName, prev),
			})
		}
		prev, prevName = s.date, s.name
	}
	return issues
}
