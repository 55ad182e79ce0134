package chunker

import (
	"strings"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// matchBoxes collects the boxes of every page item whose text appears inside
// the chunk, and derives the chunk's page as the most frequent page among
// those boxes, lowest page winning ties. Comparison is done on
// whitespace-normalized text because window and sentence chunks rejoin words
// with single spaces.
func matchBoxes(chunkText string, items []evidenceModel.PageItem) ([]evidenceModel.BoundingBox, *int) {
	if len(items) == 0 {
		return nil, nil
	}
	normChunk := normalizeSpace(chunkText)

	var boxes []evidenceModel.BoundingBox
	for _, item := range items {
		itemText := normalizeSpace(item.Text)
		if itemText == "" || !strings.Contains(normChunk, itemText) {
			continue
		}
		boxes = append(boxes, item.Boxes...)
	}
	if len(boxes) == 0 {
		return nil, nil
	}
	page := modePage(boxes)
	return boxes, &page
}

func modePage(boxes []evidenceModel.BoundingBox) int {
	counts := make(map[int]int)
	for _, b := range boxes {
		counts[b.Page]++
	}
	best := 0
	bestCount := -1
	for page, n := range counts {
		if n > bestCount || (n == bestCount && page < best) {
			best = page
			bestCount = n
		}
	}
	return best
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
