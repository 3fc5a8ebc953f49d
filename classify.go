package pdfoutline

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rejection and acceptance patterns. Precedence matters: the numbered
// paragraph pattern flags blocks during the rejection phase, so the
// numbered heading overrides below only rescue blocks that reached the
// acceptance phase unflagged.
var (
	dottedTOCEntry   = regexp.MustCompile(`^.*\.{2,}\s*\d+\s*$`)
	versionTableRow  = regexp.MustCompile(`^\d+\.\d+\s+\d{1,2} [A-Z]{3,9} \d{4}\s+.+$`)
	bulletPrefix     = regexp.MustCompile(`^[•\-]\s*\w+`)
	numberedPara     = regexp.MustCompile(`^\(?\d+\)?[.)]?\s+\w+`)
	topLevelNumbered = regexp.MustCompile(`^\d+\.\s`)
	twoLevelNumbered = regexp.MustCompile(`^\d+\.\d+\s`)
)

// tocState tracks whether a table-of-contents header has been seen and on
// which page. It is threaded through the page loop explicitly: pages must
// be processed in order for the ToC-adjacent suppression to be correct.
type tocState struct {
	seen bool
	page int
}

// extractHeadings classifies every block on every page after the first and
// returns the accepted heading candidates in discovery order, plus the
// rejection diagnostics when Config.Diagnostics is enabled.
//
// Page indexes in the output are 0-based relative to the second physical
// page, matching the slice the classifier iterates.
func extractHeadings(doc *Document, title string, cfg Config) ([]headingCandidate, []RejectedBlock) {
	var headings []headingCandidate
	var rejected []RejectedBlock
	toc := tocState{page: -1}

	pages := doc.Pages
	if len(pages) < 2 {
		return nil, nil
	}
	end := len(pages)
	if end > cfg.MaxPages {
		end = cfg.MaxPages
	}

	for i, page := range pages[1:end] {
		if len(page.Chars) == 0 {
			continue
		}

		blocks := groupCharsIntoBlocks(page.Chars)
		topMargin := page.Height * cfg.HeaderFooterRatio
		bottomMargin := page.Height * (1 - cfg.HeaderFooterRatio)

		for _, block := range blocks {
			if len(block) == 0 {
				continue
			}

			text := strings.TrimSpace(block.Text())
			var reasons []RejectReason

			// Y0 grows upward from the page bottom, Top downward from
			// the page top; both conditions catch the margin bands.
			if block[0].Y0 > bottomMargin || block[0].Top < topMargin {
				reasons = append(reasons, ReasonHeaderFooter)
			}

			if utf8.RuneCountInString(text) < 3 || !containsLetter(text) {
				reasons = append(reasons, ReasonTooShort)
			}

			// Title matches skip the rest of the pipeline outright.
			if similar(text, title) || strings.EqualFold(text, strings.TrimSpace(title)) {
				if cfg.Diagnostics {
					rejected = append(rejected, RejectedBlock{
						Page:    i,
						Text:    text,
						Reasons: []RejectReason{ReasonMatchesTitle},
					})
				}
				continue
			}

			// A ToC header always becomes a synthetic heading, bypassing
			// scoring and rejection entirely.
			if strings.Contains(strings.ToLower(text), "table of contents") {
				toc.seen = true
				toc.page = i
				headings = append(headings, headingCandidate{
					text:     "Table of Contents",
					page:     i,
					fontSize: block.FontSize(),
					score:    100,
				})
				continue
			}

			if toc.seen && toc.page >= 0 && i <= toc.page+cfg.TOCSkipPages-1 {
				reasons = append(reasons, ReasonTOCPageSkipped)
			}
			if dottedTOCEntry.MatchString(text) {
				reasons = append(reasons, ReasonDottedTOCEntry)
			}
			if versionTableRow.MatchString(text) {
				reasons = append(reasons, ReasonVersionTable)
			}
			if bulletPrefix.MatchString(text) {
				reasons = append(reasons, ReasonBulletPoint)
			}
			if numberedPara.MatchString(text) {
				reasons = append(reasons, ReasonNumberedPara)
			}

			if len(reasons) > 0 {
				if cfg.Diagnostics {
					rejected = append(rejected, RejectedBlock{Page: i, Text: text, Reasons: reasons})
				}
				continue
			}

			fontSize := block.FontSize()
			bold := isBoldBlock(block)
			spacing := verticalSpacing(block[0].Y0, page.Chars)
			score := headingScore(text, fontSize, bold, spacing, cfg)

			accepted := (score >= cfg.MinHeadingScore && (bold || isAllCaps(text))) ||
				(len(strings.Fields(text)) <= 10 && fontSize >= 10) ||
				topLevelNumbered.MatchString(text) ||
				twoLevelNumbered.MatchString(text)

			if accepted {
				headings = append(headings, headingCandidate{
					text:     text,
					page:     i,
					fontSize: round1(fontSize),
					score:    score,
				})
			} else if cfg.Diagnostics {
				rejected = append(rejected, RejectedBlock{
					Page:    i,
					Text:    text,
					Reasons: []RejectReason{ReasonLowScore},
				})
			}
		}
	}

	return headings, rejected
}

// headingScore computes the weighted linear heading-likelihood score from
// typographic and spatial features.
func headingScore(text string, fontSize float64, bold bool, spacing float64, cfg Config) float64 {
	var score float64
	if isAllCaps(text) {
		score += 20
	}
	if isTitleCase(text) {
		score += 10
	}
	if bold {
		score += 10
	}
	score += fontSize * cfg.FontSizeThreshold
	score += spacing * 0.5
	return score
}

// isBoldBlock reports whether more than 60% of the block's characters carry
// a bold-marked font name.
func isBoldBlock(b Block) bool {
	if len(b) == 0 {
		return false
	}
	boldCount := 0
	for _, c := range b {
		if strings.Contains(c.FontName, "Bold") || strings.Contains(c.FontName, "bold") {
			boldCount++
		}
	}
	return float64(boldCount)/float64(len(b)) > 0.6
}

// isAllCaps reports whether the text contains at least one letter and no
// lowercase letters.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase reports whether every word starts with an uppercase letter.
func isTitleCase(s string) bool {
	for _, w := range strings.Fields(s) {
		if !unicode.IsUpper([]rune(w)[0]) {
			return false
		}
	}
	return true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
