// Package postgres loads snapshots from the lodge registry database.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
)

//go:embed schema.sql
var schema string

// NewPool constructs a pgx connection pool using the provided connection string.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, fmt.Errorf("store: empty connection string")
	}
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("store: parse config: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the registry tables if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

type Source struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Source { return &Source{pool: pool} }

// Load reads all four collections inside one read-only repeatable-read
// transaction so the snapshot is consistent.
func (s *Source) Load(ctx context.Context, r store.Range) (*lodge.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	from, to := bound(r.From), bound(r.To)
	snap := &lodge.Snapshot{}
	if snap.Members, err = loadMembers(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Sessions, err = loadSessions(ctx, tx, from, to); err != nil {
		return nil, err
	}
	if snap.Attendance, err = loadAttendance(ctx, tx, from, to); err != nil {
		return nil, err
	}
	if snap.Statuses, err = loadStatuses(ctx, tx); err != nil {
		return nil, err
	}
	return snap, nil
}

func bound(d lodge.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}

func date(t *time.Time) lodge.Date {
	if t == nil {
		return lodge.Date{}
	}
	return lodge.DateOf(*t)
}

func loadMembers(ctx context.Context, tx pgx.Tx) ([]lodge.Member, error) {
	const query = `
		SELECT id, name, birth_date, admission_date, initiation_date,
		       elevation_date, exaltation_date, death_date, active
		FROM members
		ORDER BY id
	`
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: members: %w", err)
	}
	defer rows.Close()

	var members []lodge.Member
	for rows.Next() {
		var (
			m                            lodge.Member
			birth, admission, initiation *time.Time
			elevation, exaltation, death *time.Time
		)
		if err := rows.Scan(&m.ID, &m.Name, &birth, &admission, &initiation, &elevation, &exaltation, &death, &m.Active); err != nil {
			return nil, fmt.Errorf("store: scan member: %w", err)
		}
		m.BirthDate, m.AdmissionDate, m.InitiationDate = date(birth), date(admission), date(initiation)
		m.ElevationDate, m.ExaltationDate, m.DeathDate = date(elevation), date(exaltation), date(death)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate members: %w", err)
	}
	return members, nil
}

func loadSessions(ctx context.Context, tx pgx.Tx, from, to *time.Time) ([]lodge.Session, error) {
	const query = `
		SELECT id, session_date, COALESCE(degree_level, 0), COALESCE(title, ''), COALESCE(visitor_count, 0)
		FROM sessions
		WHERE ($1::date IS NULL OR session_date >= $1::date)
		  AND ($2::date IS NULL OR session_date <= $2::date)
		ORDER BY session_date, id
	`
	rows, err := tx.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("store: sessions: %w", err)
	}
	defer rows.Close()

	var sessions []lodge.Session
	for rows.Next() {
		var (
			s  lodge.Session
			on time.Time
		)
		if err := rows.Scan(&s.ID, &on, &s.Level, &s.Title, &s.Visitors); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		s.Date = lodge.DateOf(on)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate sessions: %w", err)
	}
	return sessions, nil
}

func loadAttendance(ctx context.Context, tx pgx.Tx, from, to *time.Time) ([]lodge.AttendanceRecord, error) {
	const query = `
		SELECT a.member_id, a.session_id, a.present, COALESCE(a.justification, '')
		FROM attendance a
		JOIN sessions s ON s.id = a.session_id
		WHERE ($1::date IS NULL OR s.session_date >= $1::date)
		  AND ($2::date IS NULL OR s.session_date <= $2::date)
		ORDER BY a.session_id, a.member_id
	`
	rows, err := tx.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("store: attendance: %w", err)
	}
	defer rows.Close()

	var records []lodge.AttendanceRecord
	for rows.Next() {
		var a lodge.AttendanceRecord
		if err := rows.Scan(&a.MemberID, &a.SessionID, &a.Present, &a.Justification); err != nil {
			return nil, fmt.Errorf("store: scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate attendance: %w", err)
	}
	return records, nil
}

func loadStatuses(ctx context.Context, tx pgx.Tx) ([]lodge.StatusInterval, error) {
	const query = `
		SELECT member_id, category, start_date, end_date, active
		FROM status_history
		ORDER BY member_id, start_date
	`
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: status history: %w", err)
	}
	defer rows.Close()

	var intervals []lodge.StatusInterval
	for rows.Next() {
		var (
			iv    lodge.StatusInterval
			start time.Time
			end   *time.Time
		)
		if err := rows.Scan(&iv.MemberID, &iv.Category, &start, &end, &iv.Active); err != nil {
			return nil, fmt.Errorf("store: scan status: %w", err)
		}
		iv.Start, iv.End = lodge.DateOf(start), date(end)
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate status history: %w", err)
	}
	return intervals, nil
}
