package eligibility

import (
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// Tag is the outcome of classifying a (member, session) pair.
type Tag string

const (
	TagNotYetMember       Tag = "not_yet_member"
	TagInsufficientDegree Tag = "insufficient_degree"
	TagDeceased           Tag = "deceased"
	TagBlocked            Tag = "blocked"
	TagAgePrivileged      Tag = "age_privileged"
	TagEligible           Tag = "eligible"
)

// Tags lists every tag in precedence order.
var Tags = []Tag{
	TagNotYetMember,
	TagInsufficientDegree,
	TagDeceased,
	TagBlocked,
	TagAgePrivileged,
	TagEligible,
}

// pair carries per-pair state through the rule chain.
type pair struct {
	member    *lodge.Member
	session   *lodge.Session
	statuses  *status.Index
	degree    lodge.Degree
	blockedBy status.Entry
}

type rule struct {
	tag   Tag
	match func(p *pair) bool
}

// chain builds the ordered rules; the first match wins and anything
// unmatched is eligible. Order is precedence: a deceased member is never
// reported as blocked, and degree is checked before age privilege.
func chain(policy Policy) []rule {
	return []rule{
		{TagNotYetMember, notYetMember},
		{TagInsufficientDegree, insufficientDegree},
		{TagDeceased, deceased},
		{TagBlocked, blockedBy(policy.Blocking)},
		{TagAgePrivileged, agePrivileged(policy.PrivilegeAge)},
	}
}

// A member without admission or initiation date is never a member.
func notYetMember(p *pair) bool {
	start, ok := p.member.MembershipStart()
	return !ok || p.session.Date.Before(start)
}

func insufficientDegree(p *pair) bool {
	return p.session.Degree() > p.degree
}

// The day of death is excluded: the last eligible session is the day before.
func deceased(p *pair) bool {
	death := p.member.DeathDate
	return !death.IsZero() && !p.session.Date.Before(death)
}

func blockedBy(cats status.Set) func(p *pair) bool {
	return func(p *pair) bool {
		if p.statuses == nil {
			return false
		}
		e, ok := p.statuses.Lookup(p.member.ID, p.session.Date, cats)
		if ok {
			p.blockedBy = e
		}
		return ok
	}
}

func agePrivileged(threshold int) func(p *pair) bool {
	return func(p *pair) bool {
		if threshold <= 0 {
			return false
		}
		age, ok := p.member.AgeAt(p.session.Date)
		return ok && age >= threshold
	}
}
