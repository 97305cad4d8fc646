package report

import (
	"context"
	"sort"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

const (
	SectionMembers       = "members"
	SectionSessions      = "sessions"
	SectionPerfect       = "perfect_attendance"
	SectionAgePrivileged = "age_privileged"
	SectionOnLeave       = "on_leave"
	SectionGrid          = "grid"
)

// DefaultSections is what a profile without an explicit list builds.
var DefaultSections = []string{SectionMembers, SectionSessions, SectionPerfect, SectionAgePrivileged, SectionOnLeave}

// -----------------------------------------------------------------------
// members
// -----------------------------------------------------------------------

type membersSection struct{}

func (membersSection) Name() string { return SectionMembers }

func (membersSection) Apply(_ context.Context, p *Pass, r *Report) error {
	ref := p.Reference()
	r.Members = make([]MemberRow, len(p.Members))
	for i, m := range p.Members {
		t := p.Results[i].Tally
		r.Members[i] = MemberRow{
			MemberID:                m.ID,
			Name:                    m.Name,
			DegreeLabel:             m.DegreeAt(ref).String(),
			EligibleCount:           t.Eligible,
			PresentCount:            t.Present,
			Rate:                    Rate(t.Present, t.Eligible),
			JustifiedCount:          t.Justified,
			PrivilegedEligibleCount: t.PrivilegedEligible,
			PrivilegedPresentCount:  t.PrivilegedPresent,
			PrivilegedRate:          Rate(t.PrivilegedPresent, t.PrivilegedEligible),
			Tags:                    t.Tags,
		}
	}
	return nil
}

// -----------------------------------------------------------------------
// sessions
// -----------------------------------------------------------------------

type sessionsSection struct{}

func (sessionsSection) Name() string { return SectionSessions }

// Apply counts per session independently of the member rows.
func (sessionsSection) Apply(_ context.Context, p *Pass, r *Report) error {
	r.Sessions = make([]SessionRow, len(p.Sessions))
	for j, s := range p.Sessions {
		row := SessionRow{
			SessionID:    s.ID,
			Date:         s.Date,
			Level:        s.Degree(),
			Title:        s.Title,
			VisitorCount: s.Visitors,
		}
		for i := range p.Members {
			dec := p.Results[i].Decisions[j]
			if dec.Present {
				row.AttendeeCount++
			}
			if !dec.Counts() {
				continue
			}
			row.EligibleCount++
			if dec.Present {
				row.PresentCount++
			}
		}
		row.AbsentCount = row.EligibleCount - row.PresentCount
		row.Rate = Rate(row.PresentCount, row.EligibleCount)
		r.Sessions[j] = row
	}
	return nil
}

// -----------------------------------------------------------------------
// perfect_attendance
// -----------------------------------------------------------------------

type perfectSection struct{}

func (perfectSection) Name() string { return SectionPerfect }

func (perfectSection) Apply(_ context.Context, p *Pass, r *Report) error {
	byYear := make(map[int][]PerfectRow)
	for i, m := range p.Members {
		for year, yt := range p.Results[i].Years {
			if yt.Eligible == 0 || yt.Present != yt.Eligible {
				continue
			}
			byYear[year] = append(byYear[year], PerfectRow{
				MemberID:        m.ID,
				Name:            m.Name,
				TotalSessions:   yt.Present,
				ApprenticeCount: yt.ByLevel[lodge.DegreeApprentice],
				CompanionCount:  yt.ByLevel[lodge.DegreeCompanion],
				MasterCount:     yt.ByLevel[lodge.DegreeMaster],
			})
		}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	r.Perfect = make([]PerfectYear, 0, len(years))
	for _, y := range years {
		rows := byYear[y]
		sort.Slice(rows, func(a, b int) bool {
			if rows[a].Name != rows[b].Name {
				return rows[a].Name < rows[b].Name
			}
			return rows[a].MemberID < rows[b].MemberID
		})
		r.Perfect = append(r.Perfect, PerfectYear{Year: y, Members: rows})
	}
	return nil
}

// -----------------------------------------------------------------------
// age_privileged
// -----------------------------------------------------------------------

type agePrivilegedSection struct{}

func (agePrivilegedSection) Name() string { return SectionAgePrivileged }

// Apply lists the parallel privileged accumulator of the primary pass.
func (agePrivilegedSection) Apply(_ context.Context, p *Pass, r *Report) error {
	ref := p.Reference()
	rows := []RankedRow{}
	for i, m := range p.Members {
		t := p.Results[i].Tally
		if t.PrivilegedEligible == 0 {
			continue
		}
		rows = append(rows, RankedRow{
			MemberID:      m.ID,
			Name:          m.Name,
			DegreeLabel:   m.DegreeAt(ref).String(),
			PresentCount:  t.PrivilegedPresent,
			EligibleCount: t.PrivilegedEligible,
			Rate:          Rate(t.PrivilegedPresent, t.PrivilegedEligible),
		})
	}
	rank(rows)
	r.AgePrivileged = rows
	return nil
}

// -----------------------------------------------------------------------
// on_leave
// -----------------------------------------------------------------------

type onLeaveSection struct{}

func (onLeaveSection) Name() string { return SectionOnLeave }

// Apply re-evaluates members on leave with the profile's leave policy over the
// full session set, so their attendance around the leave window is visible.
func (onLeaveSection) Apply(ctx context.Context, p *Pass, r *Report) error {
	from, to, hasWindow := p.Window()
	var members []*lodge.Member
	var leaves []status.Entry
	for _, m := range p.Members {
		if e, ok := leaveOf(p.Statuses, m.ID, from, to, hasWindow); ok {
			members = append(members, m)
			leaves = append(leaves, e)
		}
	}
	r.OnLeave = []LeaveRow{}
	if len(members) == 0 {
		return nil
	}

	results, err := p.evaluate(ctx, eligibility.New(p.Profile.LeavePolicy()), members)
	if err != nil {
		return err
	}
	ref := p.Reference()
	ranked := make([]RankedRow, len(members))
	for i, m := range members {
		t := results[i].Tally
		ranked[i] = RankedRow{
			MemberID:      m.ID,
			Name:          m.Name,
			DegreeLabel:   m.DegreeAt(ref).String(),
			PresentCount:  t.Present,
			EligibleCount: t.Eligible,
			Rate:          Rate(t.Present, t.Eligible),
		}
	}
	leaveByID := make(map[string]status.Entry, len(members))
	for i, m := range members {
		leaveByID[m.ID] = leaves[i]
	}
	rank(ranked)
	for _, row := range ranked {
		e := leaveByID[row.MemberID]
		r.OnLeave = append(r.OnLeave, LeaveRow{RankedRow: row, LeaveStart: e.Start, LeaveEnd: e.End})
	}
	return nil
}

// leaveOf returns the member's most recent active on-leave interval that
// overlaps the report window. Without a window only open-ended leaves count.
func leaveOf(ix *status.Index, memberID string, from, to lodge.Date, hasWindow bool) (status.Entry, bool) {
	var best status.Entry
	found := false
	for _, e := range ix.ForMember(memberID) {
		if e.Category != status.CategoryOnLeave {
			continue
		}
		if hasWindow {
			if !e.Overlaps(from, to) {
				continue
			}
		} else if !e.OpenEnded() {
			continue
		}
		if !found || e.Start.After(best.Start) {
			best, found = e, true
		}
	}
	return best, found
}

// -----------------------------------------------------------------------
// grid
// -----------------------------------------------------------------------

type gridSection struct{}

func (gridSection) Name() string { return SectionGrid }

func (gridSection) Apply(_ context.Context, p *Pass, r *Report) error {
	r.Grid = make([]GridRow, len(p.Members))
	for i, m := range p.Members {
		decs := p.Results[i].Decisions
		cells := make([]GridCell, len(decs))
		for j, dec := range decs {
			cells[j] = GridCell{
				SessionID:     dec.SessionID,
				Tag:           dec.Tag,
				Present:       dec.Present,
				Justification: dec.Justification,
			}
		}
		r.Grid[i] = GridRow{MemberID: m.ID, Name: m.Name, Cells: cells}
	}
	return nil
}
