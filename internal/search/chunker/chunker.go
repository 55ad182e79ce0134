package chunker

import (
	"strings"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

// Options are the token budgets driving the three-level split. Budgets count
// whitespace-separated words, not model tokens.
type Options struct {
	SummaryBudget     int
	SummaryOverlap    int
	SectionBudget     int
	MicroblockBudget  int
	MicroblockOverlap bool
}

func DefaultOptions() Options {
	return Options{
		SummaryBudget:     config.SummaryTokenBudget,
		SummaryOverlap:    config.SummaryOverlapWords,
		SectionBudget:     config.SectionTokenBudget,
		MicroblockBudget:  config.MicroblockTokenBudget,
		MicroblockOverlap: config.MicroblockOverlap,
	}
}

// Hierarchy is every chunk of one source, keyed by granularity level. For
// transcripts the section level holds speaker segments; for communications
// the microblock level holds individual messages.
type Hierarchy struct {
	Summary    []evidenceModel.Chunk
	Section    []evidenceModel.Chunk
	Microblock []evidenceModel.Chunk
}

func (h Hierarchy) All() []evidenceModel.Chunk {
	out := make([]evidenceModel.Chunk, 0, len(h.Summary)+len(h.Section)+len(h.Microblock))
	out = append(out, h.Summary...)
	out = append(out, h.Section...)
	out = append(out, h.Microblock...)
	return out
}

func (h Hierarchy) Empty() bool {
	return len(h.Summary) == 0 && len(h.Section) == 0 && len(h.Microblock) == 0
}

type Chunker struct {
	opts   Options
	logger *logger_i.Logger
}

func New(opts Options) *Chunker {
	if opts.SummaryBudget <= 0 {
		opts = DefaultOptions()
	}
	return &Chunker{
		opts:   opts,
		logger: logger_i.NewLogger("Chunker"),
	}
}

// ChunkDocument splits raw document text into the three-level hierarchy and
// decorates every chunk with the boxes and page number matched from items.
// Empty or whitespace-only text yields an empty hierarchy, never an error;
// callers treat zero chunks as nothing to index.
func (c *Chunker) ChunkDocument(text string, items []evidenceModel.PageItem, meta evidenceModel.ChunkMetadata) Hierarchy {
	text = strings.TrimSpace(text)
	if text == "" {
		return Hierarchy{}
	}

	h := Hierarchy{
		Summary:    c.decorate(c.summaryTexts(text), evidenceModel.ChunkSummary, items, meta),
		Section:    c.decorate(c.sectionTexts(text), evidenceModel.ChunkSection, items, meta),
		Microblock: c.decorate(c.microblockTexts(text), evidenceModel.ChunkMicroblock, items, meta),
	}
	c.logger.Debug("chunked document",
		"summaries", len(h.Summary), "sections", len(h.Section), "microblocks", len(h.Microblock))
	return h
}

// ChunkTranscript builds the hierarchy for a diarized transcript: one
// section-level chunk per speaker segment, with summaries and microblocks
// computed over the joined transcript text.
func (c *Chunker) ChunkTranscript(segments []evidenceModel.TranscriptSegment, meta evidenceModel.ChunkMetadata) Hierarchy {
	var parts []string
	var sectionChunks []evidenceModel.Chunk
	pos := 0
	for _, seg := range segments {
		segText := strings.TrimSpace(seg.Text)
		if segText == "" {
			continue
		}
		parts = append(parts, segText)

		segMeta := meta
		segMeta.Speaker = seg.Speaker
		if !seg.Timestamp.IsZero() {
			segMeta.Timestamp = seg.Timestamp
		}
		sectionChunks = append(sectionChunks, evidenceModel.Chunk{
			Text:      segText,
			ChunkType: evidenceModel.ChunkSegment,
			Position:  pos,
			Metadata:  segMeta,
		})
		pos++
	}
	if len(parts) == 0 {
		return Hierarchy{}
	}

	joined := strings.Join(parts, "\n\n")
	return Hierarchy{
		Summary:    c.decorate(c.summaryTexts(joined), evidenceModel.ChunkSummary, nil, meta),
		Section:    sectionChunks,
		Microblock: c.decorate(c.microblockTexts(joined), evidenceModel.ChunkMicroblock, nil, meta),
	}
}

// ChunkCommunications builds the hierarchy for a message thread: one
// microblock-level chunk per message, with summaries and sections computed
// over the joined thread text.
func (c *Chunker) ChunkCommunications(messages []evidenceModel.CommunicationMessage, meta evidenceModel.ChunkMetadata) Hierarchy {
	var parts []string
	var messageChunks []evidenceModel.Chunk
	pos := 0
	for _, msg := range messages {
		msgText := strings.TrimSpace(msg.Text)
		if msgText == "" {
			continue
		}
		parts = append(parts, msgText)

		msgMeta := meta
		msgMeta.Speaker = msg.Sender
		if msg.Platform != "" {
			msgMeta.Platform = msg.Platform
		}
		if !msg.Timestamp.IsZero() {
			msgMeta.Timestamp = msg.Timestamp
		}
		messageChunks = append(messageChunks, evidenceModel.Chunk{
			Text:      msgText,
			ChunkType: evidenceModel.ChunkMessage,
			Position:  pos,
			Metadata:  msgMeta,
		})
		pos++
	}
	if len(parts) == 0 {
		return Hierarchy{}
	}

	joined := strings.Join(parts, "\n\n")
	return Hierarchy{
		Summary:    c.decorate(c.summaryTexts(joined), evidenceModel.ChunkSummary, nil, meta),
		Section:    c.decorate(c.sectionTexts(joined), evidenceModel.ChunkSection, nil, meta),
		Microblock: messageChunks,
	}
}

// decorate turns raw chunk texts into Chunks with positions, matched boxes
// and the page number voted by those boxes.
func (c *Chunker) decorate(texts []string, chunkType evidenceModel.ChunkType, items []evidenceModel.PageItem, meta evidenceModel.ChunkMetadata) []evidenceModel.Chunk {
	chunks := make([]evidenceModel.Chunk, 0, len(texts))
	for i, text := range texts {
		boxes, page := matchBoxes(text, items)
		chunks = append(chunks, evidenceModel.Chunk{
			Text:          text,
			ChunkType:     chunkType,
			Position:      i,
			PageNumber:    page,
			BoundingBoxes: boxes,
			Metadata:      meta,
		})
	}
	return chunks
}

// summaryTexts emits the whole text when it fits the budget, otherwise
// overlapping sliding windows over its words.
func (c *Chunker) summaryTexts(text string) []string {
	words := strings.Fields(text)
	if len(words) <= c.opts.SummaryBudget {
		return []string{text}
	}
	return slideWindows(words, c.opts.SummaryBudget, c.opts.SummaryOverlap)
}

// sectionTexts splits on structural boundaries, falls back to paragraphs, and
// window-splits any section that alone exceeds the budget.
func (c *Chunker) sectionTexts(text string) []string {
	sections := splitStructural(text)
	if len(sections) < 2 {
		sections = splitParagraphs(text)
	}

	var out []string
	for _, sec := range sections {
		words := strings.Fields(sec)
		if len(words) == 0 {
			continue
		}
		if len(words) <= c.opts.SectionBudget {
			out = append(out, sec)
			continue
		}
		out = append(out, slideWindows(words, c.opts.SectionBudget, c.opts.SummaryOverlap)...)
	}
	return out
}

// microblockTexts packs sentences greedily up to the budget. When overlap is
// on, each new block is seeded with the closing sentence of the previous one
// to preserve local context across boundaries.
func (c *Chunker) microblockTexts(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var blocks []string
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, strings.Join(current, " "))
		if c.opts.MicroblockOverlap {
			seed := current[len(current)-1]
			current = []string{seed}
			currentWords = wordCount(seed)
		} else {
			current = nil
			currentWords = 0
		}
	}

	for _, sentence := range sentences {
		sw := wordCount(sentence)
		if currentWords+sw > c.opts.MicroblockBudget && currentWords > 0 {
			flush()
			// an overlap seed alone may already blow the budget for a
			// long incoming sentence; drop the seed rather than emit an
			// overweight block
			if currentWords+sw > c.opts.MicroblockBudget && len(current) == 1 && currentWords > 0 {
				current = nil
				currentWords = 0
			}
		}
		current = append(current, sentence)
		currentWords += sw
	}
	if len(current) > 0 {
		// avoid emitting a block that is nothing but the overlap seed
		if !(c.opts.MicroblockOverlap && len(current) == 1 && len(blocks) > 0 && strings.HasSuffix(blocks[len(blocks)-1], current[0])) {
			blocks = append(blocks, strings.Join(current, " "))
		}
	}
	return blocks
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
