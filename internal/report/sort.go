package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/sadopc/pathlen/internal/pathlength"
)

// SortField defines what to sort by.
type SortField int

const (
	SortByLength SortField = iota
	SortByPath
)

// SortOrder defines ascending or descending.
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

// SortConfig holds sort preferences.
type SortConfig struct {
	Field SortField
	Order SortOrder
}

// DefaultSort returns the default sort config (longest paths first).
func DefaultSort() SortConfig {
	return SortConfig{Field: SortByLength, Order: SortDesc}
}

// ParseSort parses "length" or "path", optionally prefixed with "-" for
// descending or "+" for ascending. Without a prefix lengths sort longest
// first and paths sort A to Z. "none" and "" return ok=false.
func ParseSort(s string) (cfg SortConfig, ok bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return SortConfig{}, false, nil
	}

	prefix := byte(0)
	if s[0] == '-' || s[0] == '+' {
		prefix = s[0]
		s = s[1:]
	}

	switch s {
	case "length", "len":
		cfg = SortConfig{Field: SortByLength, Order: SortDesc}
	case "path", "name":
		cfg = SortConfig{Field: SortByPath, Order: SortAsc}
	default:
		return SortConfig{}, false, fmt.Errorf("unknown sort field %q (want length or path)", s)
	}

	switch prefix {
	case '-':
		cfg.Order = SortDesc
	case '+':
		cfg.Order = SortAsc
	}
	return cfg, true, nil
}

// Sort sorts paths in place. Length ties are always broken by ascending
// natural path order so the result is deterministic.
func Sort(paths []pathlength.PathInfo, cfg SortConfig) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]

		if cfg.Field == SortByLength && a.Length != b.Length {
			if cfg.Order == SortDesc {
				return a.Length > b.Length
			}
			return a.Length < b.Length
		}
		if cfg.Field == SortByPath && cfg.Order == SortDesc {
			return pathLess(b.Path, a.Path)
		}
		return pathLess(a.Path, b.Path)
	})
}

func pathLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return a < b
	}
	return natural.Less(la, lb)
}
