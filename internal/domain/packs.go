package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// PackFilter selects which packs contribute cards to a deck.
type PackFilter string

const (
	// FilterOfficial selects packs flagged official.
	FilterOfficial PackFilter = "official"
	// FilterAll selects every pack.
	FilterAll PackFilter = "all"
)

// ParsePackFilter normalizes user input into a PackFilter. Blank input means official.
func ParsePackFilter(raw string) PackFilter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FilterOfficial
	}
	return PackFilter(raw)
}

// SelectPacks returns the packs matched by filter, preserving catalogue order.
// Any filter other than official/all is a case-insensitive substring match on the pack name.
func SelectPacks(packs []Pack, filter PackFilter) []Pack {
	fold := cases.Fold()
	needle := fold.String(string(filter))

	selected := make([]Pack, 0, len(packs))
	for _, p := range packs {
		switch filter {
		case FilterOfficial:
			if !p.Official {
				continue
			}
		case FilterAll:
		default:
			if !strings.Contains(fold.String(p.Name), needle) {
				continue
			}
		}
		selected = append(selected, p)
	}
	return selected
}
