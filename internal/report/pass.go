package report

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// farFuture stands in for "today" when a report has neither an as-of date nor sessions.
var farFuture = lodge.NewDate(9999, 12, 31)

// Pass is the prepared input of one report plus the primary classification.
// Sections read it; none of them mutate it.
type Pass struct {
	Profile  Profile
	AsOf     lodge.Date
	Members  []*lodge.Member
	Sessions []*lodge.Session
	Statuses *status.Index
	Book     *lodge.Book
	Issues   []lodge.Issue

	// Results is indexed like Members.
	Results []MemberResult

	workers int
}

// MemberResult is one member's classified row plus its folds.
type MemberResult struct {
	// Decisions is indexed like Pass.Sessions.
	Decisions []eligibility.Decision
	Tally     Tally
	Years     map[int]*YearTally
}

// Tally accumulates one member's counts.
type Tally struct {
	Eligible           int
	Present            int
	Justified          int
	PrivilegedEligible int
	PrivilegedPresent  int
	Tags               map[eligibility.Tag]int
}

// YearTally is a member's primary counts within one calendar year.
type YearTally struct {
	Eligible int
	Present  int
	// ByLevel counts attended eligible sessions by session degree.
	ByLevel [lodge.DegreeMaster + 1]int
}

func prepare(req Request) (*Pass, error) {
	if req.Snapshot == nil {
		return nil, fmt.Errorf("report: snapshot is required")
	}
	snap := req.Snapshot
	p := &Pass{Profile: req.Profile, AsOf: req.AsOf, workers: req.Workers}
	p.Issues = append(p.Issues, snap.Check()...)

	for i := range snap.Members {
		m := &snap.Members[i]
		if p.Profile.ActiveOnly && !m.Active {
			continue
		}
		p.Members = append(p.Members, m)
	}
	for i := range snap.Sessions {
		s := &snap.Sessions[i]
		if !req.AsOf.IsZero() && s.Date.After(req.AsOf) {
			p.Issues = append(p.Issues, lodge.Issue{
				Kind:      lodge.IssueFutureSession,
				SessionID: s.ID,
				Detail:    fmt.Sprintf("session on %s is after %s and was left out", s.Date, req.AsOf),
			})
			continue
		}
		p.Sessions = append(p.Sessions, s)
	}
	slices.SortStableFunc(p.Sessions, func(a, b *lodge.Session) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	p.Book = lodge.NewBook(snap.Attendance)
	p.Issues = append(p.Issues, p.Book.Issues()...)
	p.Statuses = status.NewIndex(snap.Statuses)
	p.Issues = append(p.Issues, p.Statuses.Issues()...)
	return p, nil
}

// Reference is the date degree labels are computed at.
func (p *Pass) Reference() lodge.Date {
	if !p.AsOf.IsZero() {
		return p.AsOf
	}
	if n := len(p.Sessions); n > 0 {
		return p.Sessions[n-1].Date
	}
	return farFuture
}

// Window is the span the report covers: first session to as-of (or last session).
func (p *Pass) Window() (from, to lodge.Date, ok bool) {
	if len(p.Sessions) == 0 {
		return p.AsOf, p.AsOf, !p.AsOf.IsZero()
	}
	from = p.Sessions[0].Date
	to = p.Sessions[len(p.Sessions)-1].Date
	if !p.AsOf.IsZero() {
		to = lodge.MaxDate(to, p.AsOf)
	}
	return from, to, true
}

// evaluate classifies every (member, session) pair for members with ev.
// Members are sharded across workers; results keep input order, so the
// output does not depend on scheduling.
func (p *Pass) evaluate(ctx context.Context, ev *eligibility.Evaluator, members []*lodge.Member) ([]MemberResult, error) {
	out := make([]MemberResult, len(members))
	err := fold(ctx, p.workers, len(members), func(i int) {
		out[i] = p.evaluateMember(ev, members[i])
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pass) evaluateMember(ev *eligibility.Evaluator, m *lodge.Member) MemberResult {
	res := MemberResult{
		Decisions: make([]eligibility.Decision, len(p.Sessions)),
		Tally:     Tally{Tags: make(map[eligibility.Tag]int)},
		Years:     make(map[int]*YearTally),
	}
	for j, s := range p.Sessions {
		dec := ev.Evaluate(m, s, p.Statuses, p.Book)
		res.Decisions[j] = dec
		res.Tally.Tags[dec.Tag]++

		switch dec.Tag {
		case eligibility.TagEligible:
			res.Tally.Eligible++
			yt := res.Years[s.Date.Year()]
			if yt == nil {
				yt = &YearTally{}
				res.Years[s.Date.Year()] = yt
			}
			yt.Eligible++
			if dec.Present {
				res.Tally.Present++
				yt.Present++
				yt.ByLevel[s.Degree()]++
			} else if dec.Justification != "" {
				res.Tally.Justified++
			}
		case eligibility.TagAgePrivileged:
			res.Tally.PrivilegedEligible++
			if dec.Present {
				res.Tally.PrivilegedPresent++
			}
		}
	}
	return res
}

// fold runs fn(0..n-1) on at most workers goroutines and stops early on cancellation.
func fold(ctx context.Context, workers, n int, fn func(i int)) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
