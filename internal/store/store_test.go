package store

import (
	"context"
	"errors"
	"testing"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/lodge"
)

func TestRange_Contains(t *testing.T) {
	jan, feb, mar := lodge.NewDate(2023, 1, 1), lodge.NewDate(2023, 2, 1), lodge.NewDate(2023, 3, 1)
	cases := []struct {
		r    Range
		d    lodge.Date
		want bool
	}{
		{Range{}, feb, true},
		{Range{From: feb}, feb, true},
		{Range{From: feb}, jan, false},
		{Range{To: feb}, feb, true},
		{Range{To: feb}, mar, false},
		{Range{From: jan, To: feb}, mar, false},
	}
	for _, tc := range cases {
		if got := tc.r.Contains(tc.d); got != tc.want {
			t.Errorf("%+v.Contains(%v) = %v, want %v", tc.r, tc.d, got, tc.want)
		}
	}
}

func TestNone(t *testing.T) {
	if _, err := (None{}).Load(context.Background(), Range{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("None.Load error = %v", err)
	}
}
