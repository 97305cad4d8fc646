package status

import "strings"

// Set is a set of categories.
type Set uint16

// NewSet builds a Set from categories.
func NewSet(cats ...Category) Set {
	var s Set
	for _, c := range cats {
		s |= 1 << c
	}
	return s
}

// ParseSet builds a Set from configuration labels.
func ParseSet(labels []string) (Set, error) {
	var s Set
	for _, l := range labels {
		c, err := ParseCategory(l)
		if err != nil {
			return 0, err
		}
		s = s.With(c)
	}
	return s, nil
}

func (s Set) Has(c Category) bool { return s&(1<<c) != 0 }
func (s Set) With(c Category) Set { return s | 1<<c }
func (s Set) Without(c Category) Set { return s &^ (1 << c) }
func (s Set) Empty() bool { return s == 0 }

// Categories lists members in declaration order.
func (s Set) Categories() []Category {
	var out []Category
	for c := CategoryOther; c <= CategoryExOfficio; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s Set) String() string {
	cats := s.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// MarshalJSON writes the set as a list of category names.
func (s Set) MarshalJSON() ([]byte, error) {
	cats := s.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = `"` + c.String() + `"`
	}
	return []byte("[" + strings.Join(names, ",") + "]"), nil
}

// Blocking is the dashboard default: every special standing removes the obligation.
var Blocking = NewSet(CategoryOnLeave, CategoryIrregular, CategorySuspended, CategoryExcluded, CategoryExOfficio)
