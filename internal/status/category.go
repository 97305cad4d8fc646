package status

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is the typed form of a status-history label.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryOnLeave
	CategoryIrregular
	CategorySuspended
	CategoryExcluded
	CategoryExOfficio
)

var categoryNames = map[Category]string{
	CategoryOther:     "other",
	CategoryOnLeave:   "on_leave",
	CategoryIrregular: "irregular",
	CategorySuspended: "suspended",
	CategoryExcluded:  "excluded",
	CategoryExOfficio: "ex_officio",
}

// aliases maps folded labels, as produced by Fold, to categories.
// Upstream data mixes English and Portuguese spellings.
var aliases = map[string]Category{
	"on_leave":         CategoryOnLeave,
	"leave":            CategoryOnLeave,
	"leave_of_absence": CategoryOnLeave,
	"licenca":          CategoryOnLeave,
	"licenciado":       CategoryOnLeave,
	"licenciada":       CategoryOnLeave,
	"afastado":         CategoryOnLeave,
	"afastamento":      CategoryOnLeave,
	"irregular":        CategoryIrregular,
	"suspended":        CategorySuspended,
	"suspenso":         CategorySuspended,
	"suspensao":        CategorySuspended,
	"excluded":         CategoryExcluded,
	"excluido":         CategoryExcluded,
	"exclusao":         CategoryExcluded,
	"expulso":          CategoryExcluded,
	"ex_officio":       CategoryExOfficio,
	"exofficio":        CategoryExOfficio,
	"ex_oficio":        CategoryExOfficio,
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts canonical names and any configured alias.
func (c *Category) UnmarshalText(b []byte) error {
	for cat, name := range categoryNames {
		if name == string(b) {
			*c = cat
			return nil
		}
	}
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Fold case-folds a label, strips diacritics and joins words with underscores,
// so "Licença", "LICENCA" and "licenca " all fold to "licenca".
func Fold(label string) string {
	// transform.Chain keeps state; one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, label)
	if err != nil {
		stripped = label
	}
	folded := cases.Fold().String(stripped)
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '/'
	})
	return strings.Join(words, "_")
}

// Normalize maps an upstream label to its category. Unrecognized labels map
// to CategoryOther with ok=false.
func Normalize(label string) (c Category, ok bool) {
	c, ok = aliases[Fold(label)]
	if !ok {
		return CategoryOther, false
	}
	return c, true
}

// ParseCategory is Normalize for configuration input: unknown labels are an error.
func ParseCategory(label string) (Category, error) {
	c, ok := Normalize(label)
	if !ok {
		return CategoryOther, fmt.Errorf("unknown status category %q", label)
	}
	return c, nil
}
