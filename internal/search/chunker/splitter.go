package chunker

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// slideWindows emits overlapping word windows of at most budget words.
// The last window absorbs whatever remains.
func slideWindows(words []string, budget int, overlap int) []string {
	if budget <= 0 || len(words) == 0 {
		return nil
	}
	if overlap < 0 || overlap >= budget {
		overlap = budget / 2
	}
	stride := budget - overlap

	var out []string
	for start := 0; start < len(words); start += stride {
		end := start + budget
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}

// boundary markers for structure-aware section splitting, tuned for the
// material that shows up in discovery: contracts, statutes, briefs,
// numbered exhibits
var sectionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(?:ARTICLE|SECTION|Article|Section)\s+(?:\d+|[IVXLC]+)\b`),
	regexp.MustCompile(`(?m)^\s*§+\s*\d+`),
	regexp.MustCompile(`(?m)^\s*\d+(?:\.\d+)*[.)]\s+\S`),
	regexp.MustCompile(`(?m)^\s*\(?[a-z]\)\s+\S`),
	regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 ,.&:'-]{3,}$`),
	regexp.MustCompile(`(?m)^\s*(?:WHEREAS|NOW,? THEREFORE|IN WITNESS WHEREOF)\b`),
}

// splitStructural cuts text at document-structure boundaries. Returns nil
// when fewer than two boundaries are found so the caller can fall back to
// paragraph splitting.
func splitStructural(text string) []string {
	seen := make(map[int]bool)
	var offsets []int
	for _, marker := range sectionMarkers {
		for _, loc := range marker.FindAllStringIndex(text, -1) {
			if !seen[loc[0]] {
				seen[loc[0]] = true
				offsets = append(offsets, loc[0])
			}
		}
	}
	if len(offsets) < 2 {
		return nil
	}
	sort.Ints(offsets)

	var sections []string
	prev := 0
	for _, off := range offsets {
		if part := strings.TrimSpace(text[prev:off]); part != "" {
			sections = append(sections, part)
		}
		prev = off
	}
	if part := strings.TrimSpace(text[prev:]); part != "" {
		sections = append(sections, part)
	}
	return sections
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// abbreviations whose trailing period is not a sentence boundary
var abbreviations = map[string]struct{}{
	"mr.": {}, "mrs.": {}, "ms.": {}, "dr.": {}, "jr.": {}, "sr.": {}, "prof.": {}, "hon.": {},
	"inc.": {}, "corp.": {}, "ltd.": {}, "llc.": {}, "co.": {}, "no.": {}, "nos.": {},
	"v.": {}, "vs.": {}, "etc.": {}, "e.g.": {}, "i.e.": {}, "cf.": {}, "al.": {}, "seq.": {},
	"u.s.": {}, "u.k.": {}, "a.m.": {}, "p.m.": {},
	"jan.": {}, "feb.": {}, "mar.": {}, "apr.": {}, "jun.": {}, "jul.": {}, "aug.": {},
	"sep.": {}, "sept.": {}, "oct.": {}, "nov.": {}, "dec.": {},
	"st.": {}, "ave.": {}, "blvd.": {}, "dept.": {}, "ex.": {}, "fig.": {}, "sec.": {}, "para.": {}, "approx.": {},
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// splitSentences is deliberately simple boundary detection: punctuation
// followed by whitespace or end of text, with the abbreviation list and
// single-letter initials suppressing false cuts.
func splitSentences(text string) []string {
	matches := sentenceBoundary.FindAllStringIndex(text, -1)

	var sentences []string
	last := 0
	for _, m := range matches {
		candidate := strings.TrimSpace(text[last:m[1]])
		if candidate == "" {
			last = m[1]
			continue
		}
		if endsWithAbbreviation(candidate) {
			continue
		}
		sentences = append(sentences, candidate)
		last = m[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func endsWithAbbreviation(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	lastWord := strings.ToLower(fields[len(fields)-1])
	if _, ok := abbreviations[lastWord]; ok {
		return true
	}
	// middle initials: "J. Smith"
	if len(lastWord) == 2 && lastWord[1] == '.' && unicode.IsLetter(rune(lastWord[0])) {
		return true
	}
	return false
}
