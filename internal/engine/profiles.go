package engine

import (
	"fmt"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/config"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/report"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// ProfileSet is an immutable set of compiled report profiles.
type ProfileSet struct {
	byID  map[string]report.Profile
	order []string
	def   string
}

// CompileProfiles turns validated config profiles into report profiles.
// Category labels are normalized here; nothing is parsed per report.
func CompileProfiles(cfg *config.Config, reg *report.Registry) (*ProfileSet, error) {
	ps := &ProfileSet{byID: make(map[string]report.Profile, len(cfg.Profiles)), def: cfg.DefaultProfile}
	for _, pc := range cfg.Profiles {
		p, err := compileProfile(pc, reg)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", pc.ID, err)
		}
		ps.byID[p.ID] = p
		ps.order = append(ps.order, p.ID)
	}
	if _, ok := ps.byID[ps.def]; !ok {
		return nil, fmt.Errorf("default profile %q: %w", ps.def, ErrUnknownProfile)
	}
	return ps, nil
}

func compileProfile(pc config.Profile, reg *report.Registry) (report.Profile, error) {
	p := report.Profile{
		ID:           pc.ID,
		Blocking:     status.Blocking,
		PrivilegeAge: eligibility.DefaultPrivilegeAge,
		ActiveOnly:   pc.ActiveOnly,
		Sections:     pc.Sections,
	}
	if pc.BlockingCategories != nil {
		set, err := status.ParseSet(pc.BlockingCategories)
		if err != nil {
			return p, fmt.Errorf("blocking_categories: %w", err)
		}
		p.Blocking = set
	}
	// Members on leave still get a rate in the on-leave list unless told otherwise.
	p.LeaveBlocking = p.Blocking.Without(status.CategoryOnLeave)
	if pc.LeaveBlockingCategories != nil {
		set, err := status.ParseSet(pc.LeaveBlockingCategories)
		if err != nil {
			return p, fmt.Errorf("leave_blocking_categories: %w", err)
		}
		p.LeaveBlocking = set
	}
	if pc.PrivilegeAge != nil {
		p.PrivilegeAge = *pc.PrivilegeAge
	}
	for _, name := range pc.Sections {
		if _, err := reg.Get(name); err != nil {
			return p, fmt.Errorf("sections: %w", err)
		}
	}
	return p, nil
}

// Get returns the profile with the given id; an empty id selects the default.
func (ps *ProfileSet) Get(id string) (report.Profile, error) {
	if id == "" {
		id = ps.def
	}
	p, ok := ps.byID[id]
	if !ok {
		return report.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	return p, nil
}

// List returns the profiles in configuration order.
func (ps *ProfileSet) List() []report.Profile {
	out := make([]report.Profile, 0, len(ps.order))
	for _, id := range ps.order {
		out = append(out, ps.byID[id])
	}
	return out
}

func (ps *ProfileSet) Default() string { return ps.def }

func (ps *ProfileSet) Len() int { return len(ps.order) }
