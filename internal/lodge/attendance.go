package lodge

// AttendanceRecord is the mark for one member at one session.
type AttendanceRecord struct {
	MemberID      string `json:"member_id" yaml:"member_id"`
	SessionID     string `json:"session_id" yaml:"session_id"`
	Present       bool   `json:"present" yaml:"present"`
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

type pairKey struct {
	member  string
	session string
}

// Book indexes attendance records by (member, session).
// A missing record reads as absent.
type Book struct {
	records map[pairKey]AttendanceRecord
	issues  []Issue
}

// NewBook indexes records. Duplicate marks for the same pair are merged,
// with a present mark taking precedence, and reported as issues.
func NewBook(records []AttendanceRecord) *Book {
	b := &Book{records: make(map[pairKey]AttendanceRecord, len(records))}
	for _, r := range records {
		k := pairKey{r.MemberID, r.SessionID}
		prev, dup := b.records[k]
		if !dup {
			b.records[k] = r
			continue
		}
		b.issues = append(b.issues, Issue{
			Kind:      IssueDuplicateAttendance,
			MemberID:  r.MemberID,
			SessionID: r.SessionID,
			Detail:    "more than one attendance mark; present wins",
		})
		if r.Present && !prev.Present {
			b.records[k] = r
		} else if prev.Justification == "" && r.Justification != "" {
			prev.Justification = r.Justification
			b.records[k] = prev
		}
	}
	return b
}

// Lookup returns the record for the pair, if one was supplied.
func (b *Book) Lookup(memberID, sessionID string) (AttendanceRecord, bool) {
	r, ok := b.records[pairKey{memberID, sessionID}]
	return r, ok
}

// Present reports whether the member was marked present at the session.
func (b *Book) Present(memberID, sessionID string) bool {
	r, ok := b.Lookup(memberID, sessionID)
	return ok && r.Present
}

// Len returns the number of distinct pairs with a record.
func (b *Book) Len() int { return len(b.records) }

// Issues returns the duplicate marks found while indexing.
func (b *Book) Issues() []Issue { return b.issues }
