// Package file serves snapshots from a YAML document on disk.
package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
)

// Source reads the file on every Load, so edits are picked up without a restart.
type Source struct {
	path string
}

func New(path string) *Source { return &Source{path: path} }

func (s *Source) Load(ctx context.Context, r store.Range) (*lodge.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", s.path, err)
	}
	return store.Trim(snap, r), nil
}

// Decode parses a YAML snapshot with top-level members, sessions, attendance
// and statuses lists.
func Decode(data []byte) (*lodge.Snapshot, error) {
	var snap lodge.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
