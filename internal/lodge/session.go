package lodge

import "fmt"

// LevelAdministrative is the administrative session category; it is held at Apprentice level.
const LevelAdministrative = 4

// Session is a single scheduled lodge meeting.
type Session struct {
	ID    string `json:"id" yaml:"id"`
	Date  Date   `json:"date" yaml:"date"`
	Level int    `json:"degree_level" yaml:"degree_level"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Visitors is supplied by the caller and passed through to session rows.
	Visitors int `json:"visitor_count,omitempty" yaml:"visitor_count,omitempty"`
}

// Degree returns the degree a member needs to attend the session.
// Administrative and unrecorded levels count as Apprentice.
func (s *Session) Degree() Degree {
	d, _ := normalizeLevel(s.Level)
	return d
}

func normalizeLevel(level int) (Degree, bool) {
	switch level {
	case 1, 2, 3:
		return Degree(level), true
	case LevelAdministrative:
		return DegreeApprentice, true
	}
	return DegreeApprentice, false
}

// Check reports data-quality problems in the session record.
func (s *Session) Check() []Issue {
	var issues []Issue
	if _, ok := normalizeLevel(s.Level); !ok {
		issues = append(issues, Issue{
			Kind:      IssueDefaultedSessionLevel,
			SessionID: s.ID,
			Detail:    fmt.Sprintf("degree level %d not recognized; treated as Apprentice", s.Level),
		})
	}
	return issues
}
