// Package variant defines the supported game variants and where each one
// keeps its user data on disk.
package variant

import (
	"fmt"
	"strings"
)

// Variant identifies one supported game flavor. The string value is the
// stable id stored in every installed_* table.
type Variant string

const (
	DarkDaysAhead     Variant = "DarkDaysAhead"
	BrightNights      Variant = "BrightNights"
	TheLastGeneration Variant = "TheLastGeneration"
)

var all = []Variant{DarkDaysAhead, BrightNights, TheLastGeneration}

var (
	baseTypefaceCategories = []string{"typeface", "map_typeface", "overmap_typeface"}
	ddaTypefaceCategories  = []string{"typeface", "map_typeface", "overmap_typeface", "gui_typeface"}
)

// All returns every variant in display order.
func All() []Variant {
	out := make([]Variant, len(all))
	copy(out, all)
	return out
}

// Parse resolves a variant from its id or a common short alias
// (dda, bn, tlg). Matching is case-insensitive.
func Parse(s string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "dda":
		return DarkDaysAhead, nil
	case "bn":
		return BrightNights, nil
	case "tlg":
		return TheLastGeneration, nil
	}
	for _, v := range all {
		if strings.ToLower(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown game variant %q", s)
}

// ID returns the stored identifier.
func (v Variant) ID() string {
	return string(v)
}

func (v Variant) String() string {
	return string(v)
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	for _, known := range all {
		if v == known {
			return true
		}
	}
	return false
}

// Name returns the human-readable variant name.
func (v Variant) Name() string {
	switch v {
	case DarkDaysAhead:
		return "Dark Days Ahead"
	case BrightNights:
		return "Bright Nights"
	case TheLastGeneration:
		return "The Last Generation"
	default:
		return string(v)
	}
}

// TypefaceCategories lists the font categories the variant's fonts.json
// understands. Dark Days Ahead additionally has a GUI typeface.
func (v Variant) TypefaceCategories() []string {
	if v == DarkDaysAhead {
		return ddaTypefaceCategories
	}
	return baseTypefaceCategories
}
