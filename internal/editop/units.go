package editop

import "unicode/utf16"

// units is text addressed by UTF-16 code unit, the coordinate space of every operation.
type units []uint16

func toUnits(s string) units {
	return utf16.Encode([]rune(s))
}

func (u units) String() string {
	return string(utf16.Decode(u))
}

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0

	for _, r := range s {
		n += runeWidth(r)
	}

	return n
}

func runeWidth(r rune) int {
	if w := utf16.RuneLen(r); w > 0 {
		return w
	}

	return 1
}

// splice returns u with u[from:to] replaced by insert. u is not modified.
func splice(u units, from, to int, insert units) units {
	out := make(units, 0, len(u)-(to-from)+len(insert))
	out = append(out, u[:from]...)
	out = append(out, insert...)
	out = append(out, u[to:]...)

	return out
}
