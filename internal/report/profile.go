package report

import (
	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// Profile is a compiled report configuration. Different call sites (dashboard,
// attendance grid, export) use different profiles over the same engine.
type Profile struct {
	ID string `json:"id"`
	// Blocking is used by every section except on_leave.
	Blocking status.Set `json:"blocking_categories"`
	// LeaveBlocking is used by the on_leave section. It normally omits the
	// on-leave category so that members on leave still get a rate.
	LeaveBlocking status.Set `json:"leave_blocking_categories"`
	PrivilegeAge  int        `json:"privilege_age"`
	ActiveOnly    bool       `json:"active_only"`
	// Sections to build, in order; empty means DefaultSections.
	Sections []string `json:"sections,omitempty"`
}

// DashboardProfile is the profile used when no configuration is supplied.
func DashboardProfile() Profile {
	return Profile{
		ID:            "dashboard",
		Blocking:      status.Blocking,
		LeaveBlocking: status.Blocking.Without(status.CategoryOnLeave),
		PrivilegeAge:  eligibility.DefaultPrivilegeAge,
	}
}

// Policy is the evaluation policy for the primary pass.
func (p Profile) Policy() eligibility.Policy {
	return eligibility.Policy{Blocking: p.Blocking, PrivilegeAge: p.PrivilegeAge}
}

// LeavePolicy is the evaluation policy for the on-leave sub-report.
func (p Profile) LeavePolicy() eligibility.Policy {
	return eligibility.Policy{Blocking: p.LeaveBlocking, PrivilegeAge: p.PrivilegeAge}
}
