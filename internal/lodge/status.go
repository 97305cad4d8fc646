package lodge

// StatusInterval is one entry of a member's status history.
// Category is the label as stored upstream; it is normalized by the status package.
type StatusInterval struct {
	MemberID string `json:"member_id" yaml:"member_id"`
	Category string `json:"category" yaml:"category"`
	Start    Date   `json:"start_date" yaml:"start_date"`
	End      Date   `json:"end_date" yaml:"end_date"` // zero: open-ended
	Active   bool   `json:"active" yaml:"active"`
}

// OpenEnded reports whether the interval has no end date.
func (s *StatusInterval) OpenEnded() bool { return s.End.IsZero() }

// Covers reports whether d falls inside the interval. Both bounds are inclusive.
func (s *StatusInterval) Covers(d Date) bool {
	if d.Before(s.Start) {
		return false
	}
	return s.OpenEnded() || !d.After(s.End)
}

// Overlaps reports whether the interval intersects [from, to], both inclusive.
func (s *StatusInterval) Overlaps(from, to Date) bool {
	if to.Before(s.Start) {
		return false
	}
	return s.OpenEnded() || !s.End.Before(from)
}

// Inverted reports an end date before the start date.
func (s *StatusInterval) Inverted() bool {
	return !s.OpenEnded() && s.End.Before(s.Start)
}
