package lodge

import "fmt"

// Snapshot bundles the four read-only collections a report is computed from.
type Snapshot struct {
	Members    []Member           `json:"members" yaml:"members"`
	Sessions   []Session          `json:"sessions" yaml:"sessions"`
	Attendance []AttendanceRecord `json:"attendance" yaml:"attendance"`
	Statuses   []StatusInterval   `json:"statuses" yaml:"statuses"`
}

// Check reports data-quality issues in member and session records, and
// attendance marks that point at unknown members or sessions.
// Status-history issues are reported by the status index.
func (s *Snapshot) Check() []Issue {
	var issues []Issue
	members := make(map[string]struct{}, len(s.Members))
	for i := range s.Members {
		members[s.Members[i].ID] = struct{}{}
		issues = append(issues, s.Members[i].Check()...)
	}
	sessions := make(map[string]struct{}, len(s.Sessions))
	for i := range s.Sessions {
		sessions[s.Sessions[i].ID] = struct{}{}
		issues = append(issues, s.Sessions[i].Check()...)
	}
	for _, r := range s.Attendance {
		_, okM := members[r.MemberID]
		_, okS := sessions[r.SessionID]
		if okM && okS {
			continue
		}
		issues = append(issues, Issue{
			Kind:      IssueOrphanAttendance,
			MemberID:  r.MemberID,
			SessionID: r.SessionID,
			Detail:    fmt.Sprintf("attendance mark ignored (known member: %t, known session: %t)", okM, okS),
		})
	}
	return issues
}
