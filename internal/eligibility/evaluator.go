package eligibility

import (
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// DefaultPrivilegeAge is the age from which attendance no longer counts against a member.
const DefaultPrivilegeAge = 70

// Policy holds the per-report parameters of the decision.
type Policy struct {
	// Blocking lists the status categories that remove a session from the obligation.
	Blocking status.Set
	// PrivilegeAge is the age-privilege threshold in years; 0 disables the rule.
	PrivilegeAge int
}

// DefaultPolicy is the dashboard policy.
func DefaultPolicy() Policy {
	return Policy{Blocking: status.Blocking, PrivilegeAge: DefaultPrivilegeAge}
}

// Decision is the classification of one (member, session) pair.
type Decision struct {
	MemberID      string       `json:"member_id"`
	SessionID     string       `json:"session_id"`
	Tag           Tag          `json:"tag"`
	Present       bool         `json:"present"`
	Justification string       `json:"justification,omitempty"`
	Degree        lodge.Degree `json:"member_degree"`
	// Status is the blocking category when Tag is TagBlocked.
	Status *status.Category `json:"status,omitempty"`
}

// Counts reports whether the pair is in the primary attendance denominator.
func (d Decision) Counts() bool { return d.Tag == TagEligible }

// Evaluator classifies pairs with a fixed policy. It holds no per-call state
// and is safe for concurrent use.
type Evaluator struct {
	policy Policy
	rules  []rule
}

// New returns an Evaluator for p.
func New(p Policy) *Evaluator {
	return &Evaluator{policy: p, rules: chain(p)}
}

// Policy returns the evaluator's policy.
func (e *Evaluator) Policy() Policy { return e.policy }

// Classify decides which tag applies to the pair. Exactly one tag is always produced.
func (e *Evaluator) Classify(m *lodge.Member, s *lodge.Session, ix *status.Index) Decision {
	p := &pair{member: m, session: s, statuses: ix, degree: m.DegreeAt(s.Date)}
	dec := Decision{MemberID: m.ID, SessionID: s.ID, Degree: p.degree, Tag: TagEligible}
	for _, r := range e.rules {
		if r.match(p) {
			dec.Tag = r.tag
			break
		}
	}
	if dec.Tag == TagBlocked {
		cat := p.blockedBy.Category
		dec.Status = &cat
	}
	return dec
}

// Evaluate classifies the pair and reads its attendance mark.
func (e *Evaluator) Evaluate(m *lodge.Member, s *lodge.Session, ix *status.Index, book *lodge.Book) Decision {
	dec := e.Classify(m, s, ix)
	if book == nil {
		return dec
	}
	if rec, ok := book.Lookup(m.ID, s.ID); ok {
		dec.Present = rec.Present
		dec.Justification = rec.Justification
	}
	return dec
}
