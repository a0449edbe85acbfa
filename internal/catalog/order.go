package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// Sort orders casts by organization. Organizations named in override come
// first in override order; the rest follow in Japanese collation order; casts
// without an organization come last. Casts of the same organization keep
// their relative order.
func Sort(casts []domain.CastGroup, override []string) {
	rank := make(map[string]int, len(override))
	for i, org := range override {
		if _, dup := rank[org]; !dup {
			rank[org] = i
		}
	}

	col := collate.New(language.Japanese)

	sort.SliceStable(casts, func(i, j int) bool {
		a, b := casts[i].Organization, casts[j].Organization

		// Unclassified always last.
		if a.Present() != b.Present() {
			return a.Present()
		}
		if !a.Present() {
			return false
		}

		ra, aOverridden := rank[a.Value]
		rb, bOverridden := rank[b.Value]
		switch {
		case aOverridden && bOverridden:
			return ra < rb
		case aOverridden != bOverridden:
			return aOverridden
		}
		return col.CompareString(a.Value, b.Value) < 0
	})
}

// Organizations returns distinct organization names of sorted casts, in
// order. Casts without an organization are not represented.
func Organizations(casts []domain.CastGroup) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range casts {
		if !c.Organization.Present() || seen[c.Organization.Value] {
			continue
		}
		seen[c.Organization.Value] = true
		out = append(out, c.Organization.Value)
	}
	return out
}
