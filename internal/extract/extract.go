package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extract")

// Page is one page of extracted source text.
type Page struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// File extracts a document into pages plus the per-paragraph items the
// chunker matches bounding boxes against. Plain extraction has no layout
// coordinates, so every item carries one full-page box; callers with real
// layout data supply their own items through the JSON index path.
func File(path string) ([]Page, []evidenceModel.PageItem, error) {
	var pages []Page
	var err error

	switch kindOf(path) {
	case kindPDF:
		pages, err = extractPDF(path)
	case kindDoc:
		pages, err = extractDocxTxtRtf(path)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, err
	}
	return pages, PageItems(pages), nil
}

// Text joins the pages back into one document string.
func Text(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if content := strings.TrimSpace(page.Content); content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// PageItems splits each page into paragraphs, each tagged with a synthesized
// full-page box. Page attribution then works the same way whether the boxes
// came from real layout data or from here.
func PageItems(pages []Page) []evidenceModel.PageItem {
	var items []evidenceModel.PageItem
	for _, page := range pages {
		for _, paragraph := range strings.Split(page.Content, "\n\n") {
			paragraph = strings.TrimSpace(paragraph)
			if paragraph == "" {
				continue
			}
			items = append(items, evidenceModel.PageItem{
				Text: paragraph,
				Page: page.Number,
				Boxes: []evidenceModel.BoundingBox{
					{X: 0, Y: 0, Width: 1, Height: 1, Page: page.Number},
				},
			})
		}
	}
	return items
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindPDF
	kindDoc
)

func kindOf(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return kindPDF
	case ".docx", ".txt", ".rtf", ".odt":
		return kindDoc
	}
	return kindUnknown
}

func extractPDF(path string) ([]Page, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []Page
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// a single broken page should not sink the file
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		pages = append(pages, Page{Number: i, Content: content})
	}
	return pages, nil
}

// reads a .odt, .docx, .rtf or plaintext file; everything lands on page 1
// because these formats do not expose page boundaries
func extractDocxTxtRtf(path string) ([]Page, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []Page{{Number: 1, Content: text}}, nil
}

// a malformed pdf page can hang GetPlainText forever
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.ExtractPageTimeout):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
