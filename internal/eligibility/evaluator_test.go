package eligibility_test

import (
	"testing"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/eligibility"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

func d(s string) lodge.Date {
	v, err := lodge.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

func session(id, date string, level int) *lodge.Session {
	return &lodge.Session{ID: id, Date: d(date), Level: level}
}

type evalCase struct {
	name     string
	member   lodge.Member
	session  *lodge.Session
	statuses []lodge.StatusInterval
	want     eligibility.Tag
}

func TestClassify_Scenarios(t *testing.T) {
	cases := []evalCase{
		{
			name:    "initiated on the session day is eligible",
			member:  lodge.Member{ID: "m1", InitiationDate: d("2020-01-10")},
			session: session("s1", "2020-01-10", 1),
			want:    eligibility.TagEligible,
		},
		{
			name:    "session before membership",
			member:  lodge.Member{ID: "m1", InitiationDate: d("2020-01-10")},
			session: session("s1", "2020-01-09", 1),
			want:    eligibility.TagNotYetMember,
		},
		{
			name: "admission overrides earlier initiation",
			member: lodge.Member{ID: "m1", InitiationDate: d("2010-01-10"),
				AdmissionDate: d("2021-03-01")},
			session: session("s1", "2020-06-01", 1),
			want:    eligibility.TagNotYetMember,
		},
		{
			name:    "no membership anchor fails safe",
			member:  lodge.Member{ID: "m1", ExaltationDate: d("2001-01-01")},
			session: session("s1", "2020-06-01", 1),
			want:    eligibility.TagNotYetMember,
		},
		{
			name: "master session the day before exaltation",
			member: lodge.Member{ID: "m2", InitiationDate: d("2018-01-01"),
				ElevationDate: d("2018-09-01"), ExaltationDate: d("2019-06-01")},
			session: session("s2", "2019-05-31", 3),
			want:    eligibility.TagInsufficientDegree,
		},
		{
			name: "master session on exaltation day",
			member: lodge.Member{ID: "m2", InitiationDate: d("2018-01-01"),
				ElevationDate: d("2018-09-01"), ExaltationDate: d("2019-06-01")},
			session: session("s2", "2019-06-01", 3),
			want:    eligibility.TagEligible,
		},
		{
			name:    "administrative session counts as apprentice",
			member:  lodge.Member{ID: "m2", InitiationDate: d("2018-01-01")},
			session: session("s2", "2019-06-01", 4),
			want:    eligibility.TagEligible,
		},
		{
			name:    "suspension blocks",
			member:  lodge.Member{ID: "m3", InitiationDate: d("2000-01-01"), ExaltationDate: d("2001-01-01")},
			session: session("s3", "2022-04-15", 1),
			statuses: []lodge.StatusInterval{
				{MemberID: "m3", Category: "Suspenso", Start: d("2022-03-01"), End: d("2022-05-31"), Active: true},
			},
			want: eligibility.TagBlocked,
		},
		{
			name:    "inactive suspension is ignored",
			member:  lodge.Member{ID: "m3", InitiationDate: d("2000-01-01")},
			session: session("s3", "2022-04-15", 1),
			statuses: []lodge.StatusInterval{
				{MemberID: "m3", Category: "suspended", Start: d("2022-03-01"), End: d("2022-05-31")},
			},
			want: eligibility.TagEligible,
		},
		{
			name:    "seventy on the session day",
			member:  lodge.Member{ID: "m4", InitiationDate: d("1990-01-01"), BirthDate: d("1950-02-01")},
			session: session("s4", "2020-02-01", 1),
			want:    eligibility.TagAgePrivileged,
		},
		{
			name:    "sixty-nine the day before",
			member:  lodge.Member{ID: "m4", InitiationDate: d("1990-01-01"), BirthDate: d("1950-02-01")},
			session: session("s4", "2020-01-31", 1),
			want:    eligibility.TagEligible,
		},
		{
			name:    "privileged member still needs the degree",
			member:  lodge.Member{ID: "m4", InitiationDate: d("1990-01-01"), BirthDate: d("1930-02-01")},
			session: session("s4", "2020-01-31", 2),
			want:    eligibility.TagInsufficientDegree,
		},
		{
			name:    "session on the day of death",
			member:  lodge.Member{ID: "m5", InitiationDate: d("1990-01-01"), DeathDate: d("2023-07-10")},
			session: session("s5", "2023-07-10", 1),
			want:    eligibility.TagDeceased,
		},
		{
			name:    "session the day before death",
			member:  lodge.Member{ID: "m5", InitiationDate: d("1990-01-01"), DeathDate: d("2023-07-10")},
			session: session("s5", "2023-07-09", 1),
			want:    eligibility.TagEligible,
		},
		{
			name:    "deceased wins over blocked",
			member:  lodge.Member{ID: "m5", InitiationDate: d("1990-01-01"), DeathDate: d("2023-07-10")},
			session: session("s5", "2023-08-01", 1),
			statuses: []lodge.StatusInterval{
				{MemberID: "m5", Category: "irregular", Start: d("2023-01-01"), Active: true},
			},
			want: eligibility.TagDeceased,
		},
		{
			name:    "blocked wins over age privilege",
			member:  lodge.Member{ID: "m6", InitiationDate: d("1990-01-01"), BirthDate: d("1940-01-01")},
			session: session("s6", "2023-08-01", 1),
			statuses: []lodge.StatusInterval{
				{MemberID: "m6", Category: "Ex-Officio", Start: d("2023-01-01"), Active: true},
			},
			want: eligibility.TagBlocked,
		},
	}

	ev := eligibility.New(eligibility.DefaultPolicy())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ix := status.NewIndex(tc.statuses)
			got := ev.Classify(&tc.member, tc.session, ix)
			if got.Tag != tc.want {
				t.Errorf("got %s, want %s", got.Tag, tc.want)
			}
		})
	}
}

func TestClassify_BlockedReportsCategory(t *testing.T) {
	ev := eligibility.New(eligibility.DefaultPolicy())
	m := lodge.Member{ID: "m1", InitiationDate: d("2000-01-01")}
	ix := status.NewIndex([]lodge.StatusInterval{
		{MemberID: "m1", Category: "licença", Start: d("2022-01-01"), Active: true},
	})
	got := ev.Classify(&m, session("s", "2022-02-01", 1), ix)
	if got.Tag != eligibility.TagBlocked || got.Status == nil || *got.Status != status.CategoryOnLeave {
		t.Fatalf("expected blocked by on_leave, got %+v", got)
	}

	leave := eligibility.New(eligibility.Policy{
		Blocking:     status.Blocking.Without(status.CategoryOnLeave),
		PrivilegeAge: eligibility.DefaultPrivilegeAge,
	})
	if got := leave.Classify(&m, session("s", "2022-02-01", 1), ix); got.Tag != eligibility.TagEligible {
		t.Errorf("leave policy should not block on_leave, got %s", got.Tag)
	}
}

func TestClassify_PrivilegeDisabled(t *testing.T) {
	ev := eligibility.New(eligibility.Policy{Blocking: status.Blocking})
	m := lodge.Member{ID: "m1", InitiationDate: d("1960-01-01"), BirthDate: d("1920-01-01")}
	if got := ev.Classify(&m, session("s", "2020-01-01", 1), nil); got.Tag != eligibility.TagEligible {
		t.Errorf("privilege age 0 should disable the rule, got %s", got.Tag)
	}
}

func TestEvaluate_Presence(t *testing.T) {
	ev := eligibility.New(eligibility.DefaultPolicy())
	m := lodge.Member{ID: "m1", InitiationDate: d("2000-01-01")}
	book := lodge.NewBook([]lodge.AttendanceRecord{
		{MemberID: "m1", SessionID: "s1", Present: true},
		{MemberID: "m1", SessionID: "s2", Justification: "illness"},
	})
	ix := status.NewIndex(nil)

	if got := ev.Evaluate(&m, session("s1", "2021-01-01", 1), ix, book); !got.Present {
		t.Error("s1 should be present")
	}
	got := ev.Evaluate(&m, session("s2", "2021-01-08", 1), ix, book)
	if got.Present || got.Justification != "illness" {
		t.Errorf("s2: got %+v", got)
	}
	if got := ev.Evaluate(&m, session("s3", "2021-01-15", 1), ix, book); got.Present || !got.Counts() {
		t.Errorf("missing record should be an eligible absence, got %+v", got)
	}
}

// Every pair gets exactly one known tag, whatever the combination of inputs.
func TestClassify_Totality(t *testing.T) {
	ev := eligibility.New(eligibility.DefaultPolicy())
	known := map[eligibility.Tag]bool{}
	for _, tag := range eligibility.Tags {
		known[tag] = true
	}
	dates := []string{"", "1940-01-01", "2019-12-31", "2020-01-01", "2020-06-01"}
	for _, adm := range dates {
		for _, ini := range dates {
			for _, exa := range dates {
				for _, death := range dates {
					m := lodge.Member{ID: "m", AdmissionDate: maybe(adm), InitiationDate: maybe(ini),
						ExaltationDate: maybe(exa), DeathDate: maybe(death), BirthDate: d("1945-01-01")}
					for level := 0; level <= 5; level++ {
						got := ev.Classify(&m, session("s", "2020-01-01", level), nil)
						if !known[got.Tag] {
							t.Fatalf("unknown tag %q for %+v level %d", got.Tag, m, level)
						}
					}
				}
			}
		}
	}
}

// Raising a session's level only ever moves pairs into insufficient_degree.
func TestClassify_LevelMonotonic(t *testing.T) {
	ev := eligibility.New(eligibility.DefaultPolicy())
	members := []lodge.Member{
		{ID: "a", InitiationDate: d("2019-01-01")},
		{ID: "c", InitiationDate: d("2019-01-01"), ElevationDate: d("2019-06-01")},
		{ID: "m", InitiationDate: d("2019-01-01"), ElevationDate: d("2019-06-01"), ExaltationDate: d("2019-12-01")},
		{ID: "old", InitiationDate: d("1980-01-01"), ElevationDate: d("1981-01-01"), BirthDate: d("1940-01-01")},
	}
	for _, m := range members {
		for _, on := range []string{"2019-03-01", "2019-09-01", "2020-03-01"} {
			prev := ev.Classify(&m, session("s", on, 1), nil).Tag
			for level := 2; level <= 3; level++ {
				cur := ev.Classify(&m, session("s", on, level), nil).Tag
				if cur != prev && cur != eligibility.TagInsufficientDegree {
					t.Errorf("member %s on %s: level %d moved %s -> %s", m.ID, on, level, prev, cur)
				}
				if prev == eligibility.TagInsufficientDegree && cur != prev {
					t.Errorf("member %s on %s: left insufficient_degree at level %d", m.ID, on, level)
				}
				prev = cur
			}
		}
	}
}

func maybe(s string) lodge.Date {
	if s == "" {
		return lodge.Date{}
	}
	return d(s)
}
