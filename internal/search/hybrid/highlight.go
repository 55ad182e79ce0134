package hybrid

import (
	"strings"

	"github.com/veridex/evidenceAPI/internal/search/embedding"
)

// highlightSnippets finds query tokens in the text and cuts a window of
// surrounding words around each hit, up to maxSnippets. Matching uses the
// shared tokenizer, so a hit here means the keyword store matched it too.
func highlightSnippets(text string, queryTokens []string, windowWords int, maxSnippets int) []string {
	if len(queryTokens) == 0 || maxSnippets <= 0 {
		return nil
	}

	tokenSet := make(map[string]bool, len(queryTokens))
	for _, token := range queryTokens {
		tokenSet[token] = true
	}

	words := strings.Fields(text)
	var snippets []string
	consumedUpTo := -1

	for i := 0; i < len(words) && len(snippets) < maxSnippets; i++ {
		if i <= consumedUpTo {
			continue
		}
		if !wordMatches(words[i], tokenSet) {
			continue
		}

		start := i - windowWords/2
		if start < 0 {
			start = 0
		}
		end := i + windowWords/2 + 1
		if end > len(words) {
			end = len(words)
		}

		snippets = append(snippets, strings.Join(words[start:end], " "))
		consumedUpTo = end - 1
	}
	return snippets
}

func wordMatches(word string, tokenSet map[string]bool) bool {
	for _, token := range embedding.Tokenize(word) {
		if tokenSet[token] {
			return true
		}
	}
	return false
}
