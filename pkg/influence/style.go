// Package influence reduces a skin binding to the lookup tables the picking
// tool reads on every event: the dominant influence of each mesh face and the
// presentation styles offered for each influence joint.
//
// Tables are immutable once built. A rebind builds fresh tables and swaps
// them in whole.
package influence

import (
	"fmt"
	"strings"
)

// Style is a bitset of manipulator presentation styles.
type Style uint8

const (
	StyleNone      Style = 0
	StyleRotate    Style = 1 << 1
	StyleTranslate Style = 1 << 2
)

// Has reports whether every bit of o is set in s.
func (s Style) Has(o Style) bool { return o != StyleNone && s&o == o }

// Single reports whether exactly one style bit is set.
func (s Style) Single() bool { return s == StyleRotate || s == StyleTranslate }

// Other returns the opposite single style: ROTATE for TRANSLATE and vice
// versa. Other styles are returned unchanged.
func (s Style) Other() Style {
	switch s {
	case StyleRotate:
		return StyleTranslate
	case StyleTranslate:
		return StyleRotate
	}
	return s
}

// String returns the short code used by the console and influence listings:
// "r", "t", "rt" or "" for none.
func (s Style) String() string {
	var b strings.Builder
	if s&StyleRotate != 0 {
		b.WriteByte('r')
	}
	if s&StyleTranslate != 0 {
		b.WriteByte('t')
	}
	return b.String()
}

// ParseStyle parses a short style code. Letters may appear in any order;
// the empty string is StyleNone.
func ParseStyle(code string) (Style, error) {
	var s Style
	for _, c := range code {
		switch c {
		case 'r', 'R':
			s |= StyleRotate
		case 't', 'T':
			s |= StyleTranslate
		default:
			return StyleNone, fmt.Errorf("influence: unknown style %q in %q", c, code)
		}
	}
	return s, nil
}
