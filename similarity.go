package pdfoutline

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarityThreshold is the ratio above which two strings are considered
// near-duplicates.
const similarityThreshold = 0.85

// similarityRatio computes the longest-matching-blocks ratio between two
// strings, character by character. go-difflib is a port of Python's
// difflib, so the ratio matches SequenceMatcher.ratio().
func similarityRatio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// similar reports whether two strings are near-duplicates.
func similar(a, b string) bool {
	return similarityRatio(a, b) > similarityThreshold
}
