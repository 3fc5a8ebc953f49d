package pdfoutline

import (
	"regexp"
	"strings"
)

// DefaultTitle is returned when neither the first-page layout nor the
// document metadata yields a usable title.
const DefaultTitle = "Untitled Document"

var whitespaceRun = regexp.MustCompile(`\s+`)

// extractTitle infers the document title from the first page: the largest
// font run (within 90% of the maximum size) horizontally inside the central
// 60% of the page. Falls back to the metadata Title, then to DefaultTitle.
// The three tiers are strict: a non-empty layout title wins outright.
func extractTitle(doc *Document) string {
	if len(doc.Pages) > 0 {
		if title := layoutTitle(doc.Pages[0]); title != "" {
			return title
		}
	}
	if title := strings.TrimSpace(doc.Metadata["Title"]); title != "" {
		return title
	}
	return DefaultTitle
}

func layoutTitle(page Page) string {
	if len(page.Chars) == 0 {
		return ""
	}

	var maxSize float64
	for _, c := range page.Chars {
		if c.Size > maxSize {
			maxSize = c.Size
		}
	}

	var titleChars []Char
	for _, c := range page.Chars {
		if c.Size < maxSize*0.9 {
			continue
		}
		// Exclude page-edge decorations.
		if c.X0 <= 0.2*page.Width || c.X0 >= 0.8*page.Width {
			continue
		}
		titleChars = append(titleChars, c)
	}
	if len(titleChars) == 0 {
		return ""
	}

	sortReadingOrder(titleChars)
	var text string
	for _, c := range titleChars {
		text += c.Text
	}

	title := whitespaceRun.ReplaceAllString(text, " ")
	title, _, _ = strings.Cut(title, "\n")
	if runes := []rune(title); len(runes) > 100 {
		title = string(runes[:100])
	}
	return strings.TrimSpace(title)
}
