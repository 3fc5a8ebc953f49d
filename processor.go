package pdfoutline

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

var (
	// ErrDecode indicates the input bytes could not be parsed as a PDF.
	ErrDecode = errors.New("unable to decode PDF")

	// ErrPageLimitExceeded indicates the document has more pages than
	// Config.MaxPages allows. No processing is attempted.
	ErrPageLimitExceeded = errors.New("page limit exceeded")
)

// Config controls outline extraction behavior.
type Config struct {
	// MaxPages is a hard cap on document size; longer documents fail
	// with ErrPageLimitExceeded (default: 50)
	MaxPages int

	// FontSizeThreshold is the weight applied to a block's font size in
	// the heading score (default: 1.2)
	FontSizeThreshold float64

	// MinHeadingScore is the score a bold or all-caps block must reach
	// to be accepted as a heading (default: 60)
	MinHeadingScore float64

	// TOCSkipPages is the number of pages after a detected table of
	// contents whose blocks are suppressed (default: 2)
	TOCSkipPages int

	// HeaderFooterRatio is the fraction of the page height treated as
	// header/footer margin at each edge (default: 0.1)
	HeaderFooterRatio float64

	// Diagnostics includes per-block rejection reasons in the result
	// (default: false)
	Diagnostics bool

	// Verbose enables per-page timing and metrics logging (default: false)
	Verbose bool
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:          50,
		FontSizeThreshold: 1.2,
		MinHeadingScore:   60,
		TOCSkipPages:      2,
		HeaderFooterRatio: 0.1,
	}
}

// Processor infers document outlines from PDFs using pdfium text extraction.
type Processor struct {
	instance pdfium.Pdfium
	config   Config
}

// NewProcessor creates a new outline processor with default configuration.
func NewProcessor(instance pdfium.Pdfium) *Processor {
	return &Processor{
		instance: instance,
		config:   DefaultConfig(),
	}
}

// NewProcessorWithConfig creates a new outline processor with custom
// configuration.
func NewProcessorWithConfig(instance pdfium.Pdfium, config Config) *Processor {
	return &Processor{
		instance: instance,
		config:   config,
	}
}

// ProcessFile extracts the outline of a PDF file.
func (p *Processor) ProcessFile(filePath string) (*Result, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "failed to open PDF document: %v", err)
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := p.processDocument(doc.Document)
	return result, err
}

// ProcessBytes extracts the outline of a PDF held in memory.
func (p *Processor) ProcessBytes(pdfBytes []byte) (*Result, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "failed to open PDF document: %v", err)
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := p.processDocument(doc.Document)
	return result, err
}

// ProcessReader extracts the outline of a PDF from an io.ReadSeeker.
func (p *Processor) ProcessReader(reader io.ReadSeeker) (*Result, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "failed to open PDF document: %v", err)
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	result, _, err := p.processDocument(doc.Document)
	return result, err
}

// ProcessFileWithMetrics extracts the outline of a PDF file and returns
// timing metrics alongside the result.
func (p *Processor) ProcessFileWithMetrics(filePath string) (*Result, ProcessingMetrics, error) {
	openStart := time.Now()
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrapf(ErrDecode, "failed to open PDF document: %v", err)
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})
	documentOpen := time.Since(openStart)

	result, metrics, err := p.processDocument(doc.Document)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}
	metrics.DocumentOpen = documentOpen
	return result, metrics, nil
}

// ProcessFileJSON extracts the outline of a PDF file and marshals the
// result as indented JSON. Processing failures are reported as an
// {"error": ...} object rather than an error, so batch callers always get
// a document to write.
func (p *Processor) ProcessFileJSON(filePath string) ([]byte, error) {
	result, err := p.ProcessFile(filePath)
	if err != nil {
		return marshalIndent(map[string]string{"error": err.Error()})
	}
	return marshalIndent(result)
}

// processDocument runs the page-cap check, page extraction, and the
// inference pipeline over an open pdfium document.
func (p *Processor) processDocument(docRef references.FPDF_DOCUMENT) (*Result, ProcessingMetrics, error) {
	startTime := time.Now()

	pageCount, err := p.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrapf(ErrDecode, "failed to get page count: %v", err)
	}
	if pageCount.PageCount > p.config.MaxPages {
		return nil, ProcessingMetrics{}, errors.Wrapf(ErrPageLimitExceeded,
			"document has %d pages, limit is %d", pageCount.PageCount, p.config.MaxPages)
	}

	doc, pageMetrics, err := p.loadDocument(docRef, pageCount.PageCount)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}

	result, err := p.Process(doc)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}

	metrics := ProcessingMetrics{
		TotalTime:       time.Since(startTime),
		PageExtractions: pageMetrics,
		Statistics:      calculateStatistics(doc, result),
	}
	if p.config.Verbose {
		logProcessingMetrics(metrics)
	}

	return result, metrics, nil
}

// Process runs the outline inference pipeline over an already decoded
// document: title extraction, block classification, level assignment, and
// deduplication. Classification itself never fails; the only error is the
// page cap.
func (p *Processor) Process(doc *Document) (*Result, error) {
	if len(doc.Pages) > p.config.MaxPages {
		return nil, errors.Wrapf(ErrPageLimitExceeded,
			"document has %d pages, limit is %d", len(doc.Pages), p.config.MaxPages)
	}

	title := extractTitle(doc)
	candidates, rejected := extractHeadings(doc, title, p.config)

	result := &Result{
		Title:   title,
		Outline: buildOutline(candidates),
	}
	if p.config.Diagnostics {
		if rejected == nil {
			rejected = []RejectedBlock{}
		}
		result.Rejected = rejected
	}
	return result, nil
}

// GetDocumentInfo returns basic information about a PDF without processing
// it.
func (p *Processor) GetDocumentInfo(filePath string) (*DocumentInfo, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "failed to open PDF document: %v", err)
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := p.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "failed to get page count: %v", err)
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
	}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

// ProcessingMetrics contains timing and statistics for one document run.
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	PageExtractions []PageMetrics
	Statistics      DocumentStatistics
}

// PageMetrics contains extraction timing for a single page.
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics contains document-level statistics.
type DocumentStatistics struct {
	TotalPages      int
	TotalCharacters int
	TotalHeadings   int
	TotalRejected   int
}

func calculateStatistics(doc *Document, result *Result) DocumentStatistics {
	stats := DocumentStatistics{
		TotalPages:    len(doc.Pages),
		TotalHeadings: len(result.Outline),
		TotalRejected: len(result.Rejected),
	}
	for _, page := range doc.Pages {
		stats.TotalCharacters += len(page.Chars)
	}
	return stats
}

func logProcessingMetrics(metrics ProcessingMetrics) {
	log.Printf("processed %d pages in %v (document open %v)",
		metrics.Statistics.TotalPages,
		metrics.TotalTime.Round(time.Millisecond),
		metrics.DocumentOpen.Round(time.Millisecond))
	for _, pm := range metrics.PageExtractions {
		log.Printf("  page %d extracted in %v", pm.PageNumber, pm.Duration.Round(time.Millisecond))
	}
	log.Printf("headings: %d, rejected blocks: %d, characters: %d",
		metrics.Statistics.TotalHeadings,
		metrics.Statistics.TotalRejected,
		metrics.Statistics.TotalCharacters)
}

// MarshalIndent marshals the result with 4-space indentation and HTML
// escaping disabled, so non-ASCII characters pass through unescaped.
func (r *Result) MarshalIndent() ([]byte, error) {
	return marshalIndent(r)
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to marshal result")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
