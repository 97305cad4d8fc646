//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
)

// startPostgres returns a DSN for a throwaway Postgres 16. LODGEROLL_TEST_PG_DSN
// reuses an existing database instead.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("LODGEROLL_TEST_PG_DSN"); dsn != "" {
		return dsn
	}
	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("lodge"),
		postgres.WithUsername("lodge"),
		postgres.WithPassword("lodge"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	return dsn
}

func TestSource_Load_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := NewPool(ctx, startPostgres(ctx, t))
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatal(err)
	}
	seed := []string{
		`TRUNCATE attendance, status_history, sessions, members`,
		`INSERT INTO members (id, name, birth_date, initiation_date, exaltation_date, active)
		 VALUES ('m1', 'Ana', '1950-03-14', '2015-02-01', '2017-05-20', TRUE),
		        ('m2', 'Bento', NULL, '2022-09-15', NULL, TRUE)`,
		`INSERT INTO sessions (id, session_date, degree_level, title, visitor_count)
		 VALUES ('s1', '2023-01-10', 1, 'Opening', 2),
		        ('s2', '2023-02-14', NULL, NULL, NULL),
		        ('s3', '2023-03-14', 3, NULL, NULL)`,
		`INSERT INTO attendance (member_id, session_id, present, justification)
		 VALUES ('m1', 's1', TRUE, NULL), ('m2', 's2', FALSE, 'ill'), ('m1', 's3', TRUE, NULL)`,
		`INSERT INTO status_history (member_id, category, start_date, end_date, active)
		 VALUES ('m2', 'Licença', '2023-02-01', NULL, TRUE)`,
	}
	for _, q := range seed {
		if _, err := pool.Exec(ctx, q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	src := New(pool)
	snap, err := src.Load(ctx, store.Range{To: lodge.NewDate(2023, 2, 28)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(snap.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(snap.Members))
	}
	ana := snap.Members[0]
	if ana.ExaltationDate != lodge.NewDate(2017, 5, 20) || !ana.ElevationDate.IsZero() {
		t.Errorf("ana dates = %+v", ana)
	}
	if !snap.Members[1].BirthDate.IsZero() {
		t.Error("NULL birth date should map to the zero Date")
	}
	if len(snap.Sessions) != 2 || snap.Sessions[1].Level != 0 {
		t.Errorf("sessions = %+v", snap.Sessions)
	}
	if len(snap.Attendance) != 2 {
		t.Errorf("attendance = %+v, want marks for s1 and s2 only", snap.Attendance)
	}
	if len(snap.Statuses) != 1 || !snap.Statuses[0].OpenEnded() {
		t.Errorf("statuses = %+v", snap.Statuses)
	}
	var defaulted bool
	for _, is := range snap.Check() {
		if is.Kind == lodge.IssueDefaultedSessionLevel && is.SessionID == "s2" {
			defaulted = true
		}
	}
	if !defaulted {
		t.Error("NULL degree level should be reported as defaulted")
	}
}
