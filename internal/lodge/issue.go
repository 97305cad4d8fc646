package lodge

// IssueKind classifies a data-quality problem found in the input snapshot.
type IssueKind string

const (
	IssueMissingMembershipAnchor IssueKind = "missing_membership_anchor"
	IssueInvertedDegreeDates     IssueKind = "inverted_degree_dates"
	IssueInvertedStatusInterval  IssueKind = "inverted_status_interval"
	IssueMissingStatusStart      IssueKind = "missing_status_start"
	IssueOverlappingStatus       IssueKind = "overlapping_status"
	IssueUnknownStatusCategory   IssueKind = "unknown_status_category"
	IssueDefaultedSessionLevel   IssueKind = "defaulted_session_level"
	IssueDuplicateAttendance     IssueKind = "duplicate_attendance"
	IssueOrphanAttendance        IssueKind = "orphan_attendance"
	IssueFutureSession           IssueKind = "future_session"
)

// Issue is a recoverable data-quality finding. Issues never abort a report.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	MemberID  string    `json:"member_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Detail    string    `json:"detail"`
}
