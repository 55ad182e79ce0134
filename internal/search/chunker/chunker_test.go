package chunker

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// makeSentence returns a sentence of exactly n words ending with a period.
func makeSentence(id int, n int) string {
	words := make([]string, 0, n)
	for j := 0; j < n-1; j++ {
		words = append(words, fmt.Sprintf("word%d_%d", id, j))
	}
	words = append(words, fmt.Sprintf("tail%d.", id))
	return strings.Join(words, " ")
}

// makeParagraph returns a paragraph of `sentences` sentences, each
// `wordsPerSentence` words long.
func makeParagraph(id int, sentences int, wordsPerSentence int) string {
	parts := make([]string, 0, sentences)
	for s := 0; s < sentences; s++ {
		parts = append(parts, makeSentence(id*1000+s, wordsPerSentence))
	}
	return strings.Join(parts, " ")
}

func TestChunkDocument_EmptyInput(t *testing.T) {
	c := New(DefaultOptions())

	for _, text := range []string{"", "   ", "\n\t \n"} {
		h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})
		if !h.Empty() {
			t.Errorf("input %q should produce zero chunks at every level", text)
		}
	}
}

func TestChunkDocument_SmallTextSingleSummary(t *testing.T) {
	c := New(DefaultOptions())
	text := "The contract was signed on the fifth of March. Both parties were present."

	h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})

	if len(h.Summary) != 1 {
		t.Fatalf("expected 1 summary chunk for small text, got %d", len(h.Summary))
	}
	if h.Summary[0].Text != text {
		t.Errorf("single summary chunk should carry the full text verbatim")
	}
	if h.Summary[0].ChunkType != evidenceModel.ChunkSummary {
		t.Errorf("summary chunk has type %s", h.Summary[0].ChunkType)
	}
	if h.Summary[0].Position != 0 {
		t.Errorf("first chunk position = %d", h.Summary[0].Position)
	}
}

func TestChunkDocument_SectionCoverage(t *testing.T) {
	c := New(DefaultOptions())

	t.Run("paragraphs reproduce the word sequence", func(t *testing.T) {
		paragraphs := make([]string, 4)
		for i := range paragraphs {
			paragraphs[i] = makeParagraph(i, 5, 20)
		}
		text := strings.Join(paragraphs, "\n\n")

		h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})

		var got []string
		for _, sec := range h.Section {
			got = append(got, strings.Fields(sec.Text)...)
		}
		want := strings.Fields(text)
		if len(got) != len(want) {
			t.Fatalf("section words = %d, input words = %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("word %d mismatch: %s vs %s", i, got[i], want[i])
			}
		}
	})

	t.Run("oversized paragraph windows reproduce the word sequence ignoring overlap", func(t *testing.T) {
		// one 1200-word paragraph against a 500-word budget with 50 overlap
		text := makeParagraph(9, 60, 20)

		h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})

		if len(h.Section) < 2 {
			t.Fatalf("expected window re-split, got %d sections", len(h.Section))
		}
		var got []string
		for i, sec := range h.Section {
			words := strings.Fields(sec.Text)
			if i > 0 {
				words = words[c.opts.SummaryOverlap:]
			}
			got = append(got, words...)
		}
		want := strings.Fields(text)
		if len(got) != len(want) {
			t.Fatalf("deduped section words = %d, input words = %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("word %d mismatch: %s vs %s", i, got[i], want[i])
			}
		}
	})
}

func TestChunkDocument_TokenBudgets(t *testing.T) {
	opts := DefaultOptions()
	c := New(opts)
	text := makeParagraph(1, 80, 20) + "\n\n" + makeParagraph(2, 80, 20) + "\n\n" + makeParagraph(3, 40, 15)

	h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})

	for _, chunk := range h.Summary {
		if n := len(strings.Fields(chunk.Text)); n > opts.SummaryBudget {
			t.Errorf("summary chunk has %d words, budget %d", n, opts.SummaryBudget)
		}
	}
	for _, chunk := range h.Section {
		if n := len(strings.Fields(chunk.Text)); n > opts.SectionBudget {
			t.Errorf("section chunk has %d words, budget %d", n, opts.SectionBudget)
		}
	}
	for _, chunk := range h.Microblock {
		n := len(strings.Fields(chunk.Text))
		if n > opts.MicroblockBudget {
			// only a single unsplittable sentence may exceed the budget
			if len(splitSentences(chunk.Text)) > 1 {
				t.Errorf("microblock with %d sentences has %d words, budget %d",
					len(splitSentences(chunk.Text)), n, opts.MicroblockBudget)
			}
		}
	}
}

func TestChunkDocument_OversizedSentenceIsAtomic(t *testing.T) {
	c := New(Options{SummaryBudget: 2000, SummaryOverlap: 50, SectionBudget: 500, MicroblockBudget: 20, MicroblockOverlap: true})
	long := makeSentence(1, 60) // 60 words, three times the microblock budget

	h := c.ChunkDocument(long+" "+makeSentence(2, 8)+" "+makeSentence(3, 8), nil, evidenceModel.ChunkMetadata{})

	found := false
	for _, chunk := range h.Microblock {
		if strings.Contains(chunk.Text, "tail1.") {
			found = true
			if len(splitSentences(chunk.Text)) != 1 {
				t.Errorf("oversized sentence should sit alone in its block, got %q", chunk.Text)
			}
		}
	}
	if !found {
		t.Fatal("oversized sentence was dropped entirely")
	}
}

func TestChunkDocument_MicroblockOverlapSeeding(t *testing.T) {
	c := New(Options{SummaryBudget: 2000, SummaryOverlap: 50, SectionBudget: 500, MicroblockBudget: 25, MicroblockOverlap: true})

	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, makeSentence(i, 10))
	}
	h := c.ChunkDocument(strings.Join(sentences, " "), nil, evidenceModel.ChunkMetadata{})

	if len(h.Microblock) < 2 {
		t.Fatalf("expected multiple microblocks, got %d", len(h.Microblock))
	}
	for i := 1; i < len(h.Microblock); i++ {
		prev := splitSentences(h.Microblock[i-1].Text)
		cur := splitSentences(h.Microblock[i].Text)
		if len(prev) == 0 || len(cur) == 0 {
			t.Fatal("empty block")
		}
		if prev[len(prev)-1] != cur[0] {
			t.Errorf("block %d does not start with the closing sentence of block %d", i, i-1)
		}
	}
}

func TestBoundingBoxAssociation(t *testing.T) {
	c := New(DefaultOptions())

	items := []evidenceModel.PageItem{
		{Text: "alpha beta gamma", Page: 1, Boxes: []evidenceModel.BoundingBox{{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.05, Page: 1}}},
		{Text: "delta epsilon", Page: 1, Boxes: []evidenceModel.BoundingBox{{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05, Page: 1}}},
		{Text: "zeta eta theta", Page: 2, Boxes: []evidenceModel.BoundingBox{{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.05, Page: 2}}},
		{Text: "unrelated content", Page: 7, Boxes: []evidenceModel.BoundingBox{{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.05, Page: 7}}},
	}

	t.Run("mode page with lowest tiebreak", func(t *testing.T) {
		// matched boxes land on pages [1,1,2] so the chunk page is 1
		h := c.ChunkDocument("alpha beta gamma delta epsilon zeta eta theta", items, evidenceModel.ChunkMetadata{})
		if len(h.Summary) != 1 {
			t.Fatalf("expected one summary chunk, got %d", len(h.Summary))
		}
		chunk := h.Summary[0]
		if chunk.PageNumber == nil || *chunk.PageNumber != 1 {
			t.Fatalf("page = %v, want 1", chunk.PageNumber)
		}
		if len(chunk.BoundingBoxes) != 3 {
			t.Errorf("matched %d boxes, want 3", len(chunk.BoundingBoxes))
		}
	})

	t.Run("tie broken by lowest page", func(t *testing.T) {
		tied := []evidenceModel.PageItem{
			{Text: "first span", Boxes: []evidenceModel.BoundingBox{{Width: 0.1, Height: 0.1, Page: 4}}},
			{Text: "second span", Boxes: []evidenceModel.BoundingBox{{Width: 0.1, Height: 0.1, Page: 2}}},
		}
		h := c.ChunkDocument("first span and second span", tied, evidenceModel.ChunkMetadata{})
		if h.Summary[0].PageNumber == nil || *h.Summary[0].PageNumber != 2 {
			t.Errorf("page = %v, want 2 on tie", h.Summary[0].PageNumber)
		}
	})

	t.Run("no matched boxes leaves page unset", func(t *testing.T) {
		h := c.ChunkDocument("completely different words here", items, evidenceModel.ChunkMetadata{})
		if h.Summary[0].PageNumber != nil {
			t.Errorf("page should be nil, got %d", *h.Summary[0].PageNumber)
		}
		if len(h.Summary[0].BoundingBoxes) != 0 {
			t.Errorf("expected no boxes, got %d", len(h.Summary[0].BoundingBoxes))
		}
	})
}

func TestSplitSentences_Abbreviations(t *testing.T) {
	text := "Dr. Smith met Mr. Jones at the deposition. They argued about Exhibit B. No. 5 was cited by counsel. The U.S. statute applied."

	got := splitSentences(text)
	want := []string{
		"Dr. Smith met Mr. Jones at the deposition.",
		"They argued about Exhibit B. No. 5 was cited by counsel.",
		"The U.S. statute applied.",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitStructural_ContractMarkers(t *testing.T) {
	text := "PURCHASE AGREEMENT\n\nSection 1. The parties agree to the terms below in full.\n\nSection 2. Payment shall be made within thirty days of closing.\n"

	sections := splitStructural(text)
	if len(sections) != 3 {
		t.Fatalf("got %d sections %v, want 3", len(sections), sections)
	}
	if !strings.HasPrefix(sections[1], "Section 1.") || !strings.HasPrefix(sections[2], "Section 2.") {
		t.Errorf("section boundaries misplaced: %v", sections)
	}
}

func TestSplitStructural_FallsBackBelowTwoBoundaries(t *testing.T) {
	if got := splitStructural("just a plain paragraph with no headings at all"); got != nil {
		t.Errorf("expected nil for unstructured text, got %v", got)
	}
}

func TestChunkDocument_ThreeThousandWordScenario(t *testing.T) {
	// six paragraphs of 500 words each: 25 sentences of 20 words
	paragraphs := make([]string, 6)
	for i := range paragraphs {
		paragraphs[i] = makeParagraph(i, 25, 20)
	}
	text := strings.Join(paragraphs, "\n\n")
	if n := len(strings.Fields(text)); n != 3000 {
		t.Fatalf("fixture has %d words, want 3000", n)
	}

	c := New(DefaultOptions())
	h := c.ChunkDocument(text, nil, evidenceModel.ChunkMetadata{})

	if len(h.Summary) != 2 {
		t.Errorf("summary windows = %d, want 2 (2000 budget, 50 overlap over 3000 words)", len(h.Summary))
	}
	if len(h.Section) != 6 {
		t.Errorf("sections = %d, want 6", len(h.Section))
	}
	if len(h.Microblock) < 20 || len(h.Microblock) > 50 {
		t.Errorf("microblocks = %d, want a few dozen", len(h.Microblock))
	}

	for i, chunk := range h.All() {
		if err := chunk.Validate(); err != nil {
			t.Errorf("chunk %d invalid: %v", i, err)
		}
	}
}

func TestChunkTranscript(t *testing.T) {
	c := New(DefaultOptions())
	ts := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

	segments := []evidenceModel.TranscriptSegment{
		{Speaker: "MR. DAVIS", Text: "Could you state your name for the record.", Timestamp: ts},
		{Speaker: "WITNESS", Text: "My name is Jordan Lee.", Timestamp: ts.Add(10 * time.Second)},
		{Speaker: "MR. DAVIS", Text: "   ", Timestamp: ts.Add(20 * time.Second)}, // skipped
		{Speaker: "WITNESS", Text: "I was present at the meeting."},
	}

	h := c.ChunkTranscript(segments, evidenceModel.ChunkMetadata{DocumentType: "deposition"})

	if len(h.Section) != 3 {
		t.Fatalf("segment chunks = %d, want 3", len(h.Section))
	}
	for i, seg := range h.Section {
		if seg.ChunkType != evidenceModel.ChunkSegment {
			t.Errorf("segment %d type = %s", i, seg.ChunkType)
		}
		if seg.Position != i {
			t.Errorf("segment %d position = %d", i, seg.Position)
		}
	}
	if h.Section[0].Metadata.Speaker != "MR. DAVIS" || h.Section[1].Metadata.Speaker != "WITNESS" {
		t.Errorf("speaker metadata lost: %+v", h.Section[0].Metadata)
	}
	if !h.Section[0].Metadata.Timestamp.Equal(ts) {
		t.Errorf("timestamp metadata lost")
	}
	if len(h.Summary) == 0 || len(h.Microblock) == 0 {
		t.Error("transcript should still produce summary and microblock levels")
	}
}

func TestChunkCommunications(t *testing.T) {
	c := New(DefaultOptions())

	messages := []evidenceModel.CommunicationMessage{
		{Sender: "alice@firm.com", Text: "Did you review the draft agreement yet?", Platform: "email"},
		{Sender: "bob@firm.com", Text: "Yes, section four needs a rewrite before we send it.", Platform: "email"},
	}

	h := c.ChunkCommunications(messages, evidenceModel.ChunkMetadata{})

	if len(h.Microblock) != 2 {
		t.Fatalf("message chunks = %d, want 2", len(h.Microblock))
	}
	for i, msg := range h.Microblock {
		if msg.ChunkType != evidenceModel.ChunkMessage {
			t.Errorf("message %d type = %s", i, msg.ChunkType)
		}
	}
	if h.Microblock[1].Metadata.Speaker != "bob@firm.com" || h.Microblock[1].Metadata.Platform != "email" {
		t.Errorf("sender metadata lost: %+v", h.Microblock[1].Metadata)
	}
	if len(h.Summary) != 1 {
		t.Errorf("short thread should produce a single summary chunk, got %d", len(h.Summary))
	}
}
