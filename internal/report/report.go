package report

import (
	"context"
	"fmt"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

// Request is everything one report is computed from. The snapshot is only read.
//
// Sessions dated after AsOf are dropped. With a zero AsOf the caller must have
// removed future sessions already; the engine has no notion of "now".
type Request struct {
	Snapshot    *lodge.Snapshot
	Profile     Profile
	AsOf        lodge.Date
	IncludeGrid bool
	// Workers bounds the member shards evaluated in parallel; <1 means one.
	Workers int
}

// Report is the result of Build.
type Report struct {
	Profile       string                  `json:"profile"`
	AsOf          lodge.Date              `json:"as_of"`
	From          lodge.Date              `json:"from"`
	To            lodge.Date              `json:"to"`
	MemberCount   int                     `json:"member_count"`
	SessionCount  int                     `json:"session_count"`
	TagTotals     map[eligibility.Tag]int `json:"tag_totals"`
	Members       []MemberRow             `json:"members,omitempty"`
	Sessions      []SessionRow            `json:"sessions,omitempty"`
	Perfect       []PerfectYear           `json:"perfect_attendance,omitempty"`
	AgePrivileged []RankedRow             `json:"age_privileged,omitempty"`
	OnLeave       []LeaveRow              `json:"on_leave,omitempty"`
	Grid          []GridRow               `json:"grid,omitempty"`
	Issues        []lodge.Issue           `json:"issues"`
}

// Build classifies every (member, session) pair once with the profile's
// primary policy, then runs the profile's sections over the result.
// It is deterministic: the same request always yields the same report.
func Build(ctx context.Context, reg *Registry, req Request) (*Report, error) {
	p, err := prepare(req)
	if err != nil {
		return nil, err
	}
	names := sectionNames(req)
	sections := make([]Section, 0, len(names))
	for _, name := range names {
		s, err := reg.Get(name)
		if err != nil {
			return nil, fmt.Errorf("report: profile %s: %w", req.Profile.ID, err)
		}
		sections = append(sections, s)
	}

	p.Results, err = p.evaluate(ctx, eligibility.New(p.Profile.Policy()), p.Members)
	if err != nil {
		return nil, fmt.Errorf("report: evaluate: %w", err)
	}

	r := &Report{
		Profile:      req.Profile.ID,
		AsOf:         req.AsOf,
		MemberCount:  len(p.Members),
		SessionCount: len(p.Sessions),
		TagTotals:    make(map[eligibility.Tag]int, len(eligibility.Tags)),
	}
	if from, to, ok := p.Window(); ok {
		r.From, r.To = from, to
	}
	for _, res := range p.Results {
		for tag, n := range res.Tally.Tags {
			r.TagTotals[tag] += n
		}
	}
	for _, s := range sections {
		if err := s.Apply(ctx, p, r); err != nil {
			return nil, fmt.Errorf("report: section %s: %w", s.Name(), err)
		}
	}
	r.Issues = p.Issues
	if r.Issues == nil {
		r.Issues = []lodge.Issue{}
	}
	return r, nil
}

func sectionNames(req Request) []string {
	names := req.Profile.Sections
	if len(names) == 0 {
		names = DefaultSections
	}
	if !req.IncludeGrid {
		return names
	}
	for _, n := range names {
		if n == SectionGrid {
			return names
		}
	}
	out := make([]string, 0, len(names)+1)
	out = append(out, names...)
	return append(out, SectionGrid)
}
