package pathlength

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// LengthUnit selects how the length of a path is counted.
type LengthUnit int

const (
	// UnitRunes counts Unicode code points.
	UnitRunes LengthUnit = iota
	// UnitUTF16 counts UTF-16 code units, as Windows APIs measure paths.
	UnitUTF16
	// UnitBytes counts UTF-8 bytes.
	UnitBytes
	// UnitGraphemes counts user-perceived characters.
	UnitGraphemes
	// UnitColumns counts terminal display cells.
	UnitColumns
)

var unitNames = map[LengthUnit]string{
	UnitRunes:     "runes",
	UnitUTF16:     "utf16",
	UnitBytes:     "bytes",
	UnitGraphemes: "graphemes",
	UnitColumns:   "columns",
}

func (u LengthUnit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("LengthUnit(%d)", int(u))
}

// ParseLengthUnit parses a unit name as printed by String.
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "runes", "chars", "characters":
		return UnitRunes, nil
	case "utf16", "utf-16":
		return UnitUTF16, nil
	case "bytes":
		return UnitBytes, nil
	case "graphemes":
		return UnitGraphemes, nil
	case "columns", "width":
		return UnitColumns, nil
	}
	return 0, fmt.Errorf("unknown length unit %q (want runes, utf16, bytes, graphemes or columns)", s)
}

// Length returns the length of s in unit u.
func (u LengthUnit) Length(s string) int {
	switch u {
	case UnitUTF16:
		n := 0
		for _, r := range s {
			n += utf16.RuneLen(r)
		}
		return n
	case UnitBytes:
		return len(s)
	case UnitGraphemes:
		return uniseg.GraphemeClusterCount(s)
	case UnitColumns:
		return runewidth.StringWidth(s)
	default:
		return utf8.RuneCountInString(s)
	}
}
