package pdfoutline

import "sort"

// blockGapTolerance is the vertical gap, in page units, beyond which two
// consecutive characters belong to different blocks.
const blockGapTolerance = 5.0

// sortReadingOrder sorts characters by descending vertical position then
// ascending horizontal position, approximating left-to-right, top-to-bottom
// reading order. Sorts in place.
func sortReadingOrder(chars []Char) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y0 != chars[j].Y0 {
			return chars[i].Y0 > chars[j].Y0
		}
		return chars[i].X0 < chars[j].X0
	})
}

// groupCharsIntoBlocks partitions a page's characters into visual text
// lines. Characters are sorted into reading order, then split wherever the
// vertical gap between consecutive characters exceeds the tolerance.
func groupCharsIntoBlocks(chars []Char) []Block {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]Char, len(chars))
	copy(sorted, chars)
	sortReadingOrder(sorted)

	var blocks []Block
	var block Block
	lastY := 0.0
	haveLast := false

	for _, c := range sorted {
		if haveLast && abs(c.Y0-lastY) > blockGapTolerance {
			blocks = append(blocks, block)
			block = nil
		}
		block = append(block, c)
		lastY = c.Y0
		haveLast = true
	}
	if len(block) > 0 {
		blocks = append(blocks, block)
	}

	return blocks
}

// verticalSpacing returns the vertical gap from currentY to the nearest
// character positioned above it on the page, or 0 if nothing is above.
func verticalSpacing(currentY float64, chars []Char) float64 {
	best := 0.0
	found := false
	for _, c := range chars {
		if c.Y0 <= currentY {
			continue
		}
		gap := c.Y0 - currentY
		if !found || gap < best {
			best = gap
			found = true
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
