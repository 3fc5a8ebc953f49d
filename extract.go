package pdfoutline

import (
	"log"
	"time"

	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// loadDocument extracts every page of positioned characters, plus the
// metadata title, from an open pdfium document.
func (p *Processor) loadDocument(docRef references.FPDF_DOCUMENT, pageCount int) (*Document, []PageMetrics, error) {
	doc := &Document{
		Pages:    make([]Page, 0, pageCount),
		Metadata: map[string]string{},
	}

	var pageMetrics []PageMetrics
	for i := 0; i < pageCount; i++ {
		pageStart := time.Now()
		page, err := p.extractPage(docRef, i)
		pageDuration := time.Since(pageStart)

		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		doc.Pages = append(doc.Pages, *page)

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   pageDuration,
		})
		if p.config.Verbose {
			log.Printf("page %d/%d extracted in %v", i+1, pageCount, pageDuration)
		}
	}

	title, err := p.instance.FPDF_GetMetaText(&requests.FPDF_GetMetaText{
		Document: docRef,
		Tag:      "Title",
	})
	if err == nil && title.Value != "" {
		doc.Metadata["Title"] = title.Value
	}

	return doc, pageMetrics, nil
}

// extractPage extracts a single page's characters with their positions and
// font metadata.
func (p *Processor) extractPage(docRef references.FPDF_DOCUMENT, pageIndex int) (*Page, error) {
	pageResp, err := p.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer p.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	pageWidth, err := p.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &pageResp.Page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := p.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &pageResp.Page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	page := &Page{
		Width:  float64(pageWidth.PageWidth),
		Height: float64(pageHeight.PageHeight),
	}

	textPage, err := p.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &pageResp.Page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer p.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := p.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return page, nil
	}

	page.Chars, err = p.extractChars(textPage.TextPage, charCount.Count, page.Height)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract characters")
	}

	return page, nil
}

// extractChars extracts positioned characters from a loaded text page.
// PDF coordinates have their origin at the bottom-left, so Y0 is kept as a
// distance from the page bottom while Top is converted to a distance from
// the page top.
func (p *Processor) extractChars(textPage references.FPDF_TEXTPAGE, count int, pageHeight float64) ([]Char, error) {
	chars := make([]Char, 0, count)

	for i := range count {
		unicodeRes, err := p.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := p.instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		fontSize := 12.0
		if sizeRes, err := p.instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			fontSize = sizeRes.FontSize
		}

		fontName := ""
		if fontInfo, err := p.instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			fontName = fontInfo.FontName
		}

		chars = append(chars, Char{
			Text:     norm.NFC.String(string(rune(unicodeRes.Unicode))),
			X0:       charBox.Left,
			Y0:       charBox.Bottom,
			Top:      pageHeight - charBox.Top,
			Size:     fontSize,
			FontName: fontName,
		})
	}

	return chars, nil
}
