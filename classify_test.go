package pdfoutline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pageOf(lines ...[]Char) Page {
	var chars []Char
	for _, l := range lines {
		chars = append(chars, l...)
	}
	return Page{Chars: chars, Width: 600, Height: 800}
}

func diagConfig() Config {
	cfg := DefaultConfig()
	cfg.Diagnostics = true
	return cfg
}

// firstPage is a stand-in title page; the classifier never looks at it.
func firstPage() Page {
	return pageOf(centeredLine("Fixture Document", 700, 24, 200, 800))
}

func findRejection(rejected []RejectedBlock, text string) (RejectedBlock, bool) {
	for _, r := range rejected {
		if r.Text == text {
			return r, true
		}
	}
	return RejectedBlock{}, false
}

func TestClassify_DottedTOCEntryRejected(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Background .......... 4", 400, 12, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "Background .......... 4")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonDottedTOCEntry)
}

func TestClassify_SyntheticTOCHeading(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Table of Contents", 400, 16, "Helvetica", 800)),
	}}

	headings, _ := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Len(t, headings, 1)
	require.Equal(t, "Table of Contents", headings[0].text)
	require.Equal(t, 0, headings[0].page)
	require.InDelta(t, 100, headings[0].score, 1e-9)
	require.InDelta(t, 16, headings[0].fontSize, 1e-9)
}

func TestClassify_TOCAdjacentPagesSuppressed(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Table of Contents", 400, 16, "Helvetica", 800)),
		pageOf(makeLine("Introduction", 400, 14, "Helvetica-Bold", 800)),
		pageOf(makeLine("Methodology", 400, 14, "Helvetica-Bold", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())

	// Page 1 falls inside the skip window, page 2 is past it.
	texts := make([]string, 0, len(headings))
	for _, h := range headings {
		texts = append(texts, h.text)
	}
	require.Equal(t, []string{"Table of Contents", "Methodology"}, texts)

	rej, ok := findRejection(rejected, "Introduction")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonTOCPageSkipped)
}

func TestClassify_SuppressionCombinesWithPatternReasons(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Table of Contents", 500, 16, "Helvetica", 800)),
		pageOf(makeLine("Appendix A .......... 12", 400, 12, "Helvetica", 800)),
	}}

	_, rejected := extractHeadings(doc, "Fixture Document", diagConfig())

	rej, ok := findRejection(rejected, "Appendix A .......... 12")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonTOCPageSkipped)
	require.Contains(t, rej.Reasons, ReasonDottedTOCEntry)
}

func TestClassify_HeaderRegionRejected(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Company Confidential", 750, 9, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "Company Confidential")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonHeaderFooter)
}

func TestClassify_TooShortOrNoLetters(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(
			makeLine("Ab", 500, 12, "Helvetica", 800),
			makeLine("2024", 400, 12, "Helvetica", 800),
		),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "Ab")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonTooShort)

	rej, ok = findRejection(rejected, "2024")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonTooShort)
}

func TestClassify_TitleMatchSkipsAllOtherChecks(t *testing.T) {
	// The title echo sits in the header band, but the rejection records
	// only the title match: the check stops the block outright.
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Fixture Document", 750, 10, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "Fixture Document")
	require.True(t, ok)
	require.Equal(t, []RejectReason{ReasonMatchesTitle}, rej.Reasons)
}

func TestClassify_AllCapsBoldAccepted(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(
			makeLine("The quarter was strong overall", 500, 9, "Helvetica", 800),
			makeLine("EXECUTIVE SUMMARY", 400, 14, "Helvetica-Bold", 800),
		),
	}}

	headings, _ := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Len(t, headings, 1)
	require.Equal(t, "EXECUTIVE SUMMARY", headings[0].text)
	require.GreaterOrEqual(t, headings[0].score, 60.0)
}

func TestClassify_NumberedParagraphRejected(t *testing.T) {
	// "12. Introduction" matches both the numbered-paragraph rejection
	// pattern and the numbered-heading acceptance override; rejection
	// runs first and wins.
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("12. Introduction", 400, 12, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "12. Introduction")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonNumberedPara)
}

func TestClassify_NumberedHeadingOverride(t *testing.T) {
	// A numbered line whose first word is non-ASCII escapes the
	// numbered-paragraph pattern (\w is ASCII) but still matches the
	// top-level numbered-heading override. Small font and lowercase
	// words keep the other acceptance arms out of play.
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("12. École primaire notes", 400, 8, "Helvetica", 800)),
	}}

	headings, _ := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Len(t, headings, 1)
	require.Equal(t, "12. École primaire notes", headings[0].text)
}

func TestClassify_BulletRejected(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(
			makeLine("• First item", 500, 12, "Helvetica", 800),
			makeLine("- second item", 400, 12, "Helvetica", 800),
		),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	for _, text := range []string{"• First item", "- second item"} {
		rej, ok := findRejection(rejected, text)
		require.True(t, ok, text)
		require.Contains(t, rej.Reasons, ReasonBulletPoint)
	}
}

func TestClassify_VersionTableRowRejected(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("1.2 3 JAN 2024 Updated the scope section", 400, 12, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "1.2 3 JAN 2024 Updated the scope section")
	require.True(t, ok)
	require.Contains(t, rej.Reasons, ReasonVersionTable)
}

func TestClassify_LowScoreRejected(t *testing.T) {
	// Eleven lowercase words at body size: every acceptance arm misses.
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("this sentence has eleven ordinary lowercase words in it right here", 400, 9, "Helvetica", 800)),
	}}

	headings, rejected := extractHeadings(doc, "Fixture Document", diagConfig())
	require.Empty(t, headings)

	rej, ok := findRejection(rejected, "this sentence has eleven ordinary lowercase words in it right here")
	require.True(t, ok)
	require.Equal(t, []RejectReason{ReasonLowScore}, rej.Reasons)
}

func TestClassify_PageIndexesAreRelativeToSecondPage(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("First Heading", 400, 14, "Helvetica-Bold", 800)),
		pageOf(makeLine("Second Heading", 400, 14, "Helvetica-Bold", 800)),
	}}

	headings, _ := extractHeadings(doc, "Fixture Document", DefaultConfig())
	require.Len(t, headings, 2)
	require.Equal(t, 0, headings[0].page)
	require.Equal(t, 1, headings[1].page)
}

func TestClassify_EmptyPagesSkipped(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		{Width: 600, Height: 800},
		pageOf(makeLine("After Blank", 400, 14, "Helvetica-Bold", 800)),
	}}

	headings, _ := extractHeadings(doc, "Fixture Document", DefaultConfig())
	require.Len(t, headings, 1)
	require.Equal(t, "After Blank", headings[0].text)
	require.Equal(t, 1, headings[0].page)
}

func TestClassify_DiagnosticsOffCollectsNothing(t *testing.T) {
	doc := &Document{Pages: []Page{
		firstPage(),
		pageOf(makeLine("Background .......... 4", 400, 12, "Helvetica", 800)),
	}}

	_, rejected := extractHeadings(doc, "Fixture Document", DefaultConfig())
	require.Nil(t, rejected)
}

func TestHeadingScore(t *testing.T) {
	cfg := DefaultConfig()

	// 20 (all caps) + 10 (title case) + 10 (bold) + 14*1.2 + 100*0.5
	require.InDelta(t, 106.8, headingScore("EXECUTIVE SUMMARY", 14, true, 100, cfg), 1e-9)

	// Lowercase, not bold, no spacing: font size term only.
	require.InDelta(t, 10.8, headingScore("plain body text", 9, false, 0, cfg), 1e-9)
}

func TestTextFeatures(t *testing.T) {
	require.True(t, isAllCaps("EXECUTIVE SUMMARY"))
	require.False(t, isAllCaps("Executive Summary"))
	require.False(t, isAllCaps("1234"))

	require.True(t, isTitleCase("Executive Summary"))
	require.False(t, isTitleCase("Executive summary"))
	require.True(t, isTitleCase(""))

	require.True(t, isBoldBlock(Block(makeLine("abc", 400, 12, "Helvetica-Bold", 800))))
	require.False(t, isBoldBlock(Block(makeLine("abc", 400, 12, "Helvetica", 800))))
}
