package pdfoutline

import (
	"fmt"
	"sort"
	"strings"
)

// assignLevels maps each candidate's font size to a document-relative level
// label: the i-th largest distinct size becomes "H{i+1}". Sizes beyond the
// fifth rank, or not present in the map, default to "H5".
func assignLevels(candidates []headingCandidate) {
	distinct := make(map[float64]struct{})
	for _, c := range candidates {
		distinct[c.fontSize] = struct{}{}
	}

	sizes := make([]float64, 0, len(distinct))
	for size := range distinct {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	sizeToLevel := make(map[float64]string, len(sizes))
	for i, size := range sizes {
		if i < 5 {
			sizeToLevel[size] = fmt.Sprintf("H%d", i+1)
		}
	}

	for i := range candidates {
		level, ok := sizeToLevel[candidates[i].fontSize]
		if !ok {
			level = "H5"
		}
		candidates[i].level = level
	}
}

// deduplicateCandidates drops candidates whose text is fuzzy-similar to an
// earlier candidate on the same page, keeping the first occurrence, then
// orders the survivors by page. The sort is stable so that ties preserve
// discovery order.
func deduplicateCandidates(candidates []headingCandidate) []headingCandidate {
	var seen []headingCandidate
	var unique []headingCandidate

	for _, c := range candidates {
		duplicate := false
		for _, s := range seen {
			if c.page == s.page && similar(strings.ToLower(c.text), strings.ToLower(s.text)) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seen = append(seen, c)
			unique = append(unique, c)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].page < unique[j].page
	})
	return unique
}

// buildOutline runs dedup and leveling over the raw candidates and converts
// them to the public representation, stripping the transient score and font
// size fields.
func buildOutline(candidates []headingCandidate) []Heading {
	candidates = deduplicateCandidates(candidates)
	assignLevels(candidates)

	outline := make([]Heading, 0, len(candidates))
	for _, c := range candidates {
		outline = append(outline, Heading{
			Text:  c.text,
			Page:  c.page,
			Level: c.level,
		})
	}
	return outline
}
