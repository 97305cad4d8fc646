// Package store loads read-only lodge snapshots for reports that do not carry
// their own data.
package store

import (
	"context"
	"errors"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

// ErrNotConfigured is returned when a report asks for stored data but no
// store driver is configured.
var ErrNotConfigured = errors.New("store: not configured")

// Range selects sessions by date. A zero bound is open.
type Range struct {
	From lodge.Date `json:"from"`
	To   lodge.Date `json:"to"`
}

// Contains reports whether d lies within the range, bounds inclusive.
func (r Range) Contains(d lodge.Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// Source loads a snapshot whose sessions fall within a range. Members and
// status history are returned whole; a report needs history before the range.
type Source interface {
	Load(ctx context.Context, r Range) (*lodge.Snapshot, error)
}

// None is the Source used when no driver is configured.
type None struct{}

func (None) Load(context.Context, Range) (*lodge.Snapshot, error) { return nil, ErrNotConfigured }

// Trim returns a copy of snap keeping only sessions within r and the
// attendance marks that reference them. Marks for unknown sessions are kept
// so they still surface as orphan attendance.
func Trim(snap *lodge.Snapshot, r Range) *lodge.Snapshot {
	out := &lodge.Snapshot{Members: snap.Members, Statuses: snap.Statuses}
	known := make(map[string]bool, len(snap.Sessions))
	for _, s := range snap.Sessions {
		in := r.Contains(s.Date)
		known[s.ID] = in
		if in {
			out.Sessions = append(out.Sessions, s)
		}
	}
	for _, a := range snap.Attendance {
		if in, ok := known[a.SessionID]; ok && !in {
			continue
		}
		out.Attendance = append(out.Attendance, a)
	}
	return out
}
