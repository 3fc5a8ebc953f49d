package pdfoutline

// Char represents a single positioned glyph with its font metadata.
type Char struct {
	Text     string
	X0       float64 // Left edge
	Y0       float64 // Distance from the page bottom
	Top      float64 // Distance from the page top
	Size     float64
	FontName string
}

// Page represents all characters extracted from one PDF page.
type Page struct {
	Chars  []Char
	Width  float64
	Height float64
}

// Document represents the decoded input: pages of positioned characters
// plus whatever metadata the file carries.
type Document struct {
	Pages    []Page
	Metadata map[string]string
}

// Block is a visually contiguous run of characters inferred to form one
// text line, in reading order.
type Block []Char

// Text returns the concatenated glyph text of the block.
func (b Block) Text() string {
	var text string
	for _, c := range b {
		text += c.Text
	}
	return text
}

// FontSize returns the dominant (maximum) font size among the block's
// characters.
func (b Block) FontSize() float64 {
	var size float64
	for _, c := range b {
		if c.Size > size {
			size = c.Size
		}
	}
	return size
}

// Heading is a single outline entry in the public result schema.
type Heading struct {
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Level string `json:"level"`
}

// RejectReason is a diagnostic tag explaining why a block was not promoted
// to a heading.
type RejectReason string

const (
	ReasonHeaderFooter   RejectReason = "header/footer region"
	ReasonTooShort       RejectReason = "too short or no letters"
	ReasonMatchesTitle   RejectReason = "matches title"
	ReasonTOCPageSkipped RejectReason = "ToC page skipped"
	ReasonDottedTOCEntry RejectReason = "dotted ToC entry"
	ReasonVersionTable   RejectReason = "version table entry"
	ReasonBulletPoint    RejectReason = "bullet point"
	ReasonNumberedPara   RejectReason = "numbered paragraph"
	ReasonLowScore       RejectReason = "low score"
)

// RejectedBlock records why one block on one page was rejected. Only
// collected when Config.Diagnostics is enabled.
type RejectedBlock struct {
	Page    int            `json:"page"`
	Text    string         `json:"text"`
	Reasons []RejectReason `json:"reasons"`
}

// Result is the public output schema for one document. Rejected is nil
// unless diagnostics were requested; omitzero keeps an empty-but-present
// diagnostics list in the output while dropping the field entirely when
// diagnostics are off.
type Result struct {
	Title    string          `json:"title"`
	Outline  []Heading       `json:"outline"`
	Rejected []RejectedBlock `json:"rejected,omitzero"`
}

// headingCandidate is the internal, pre-dedup representation of a heading.
// Score and font size are transient computation fields; candidates are
// converted to public Headings only after leveling.
type headingCandidate struct {
	text     string
	page     int
	fontSize float64
	score    float64
	level    string
}
