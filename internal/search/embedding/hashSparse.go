package embedding

import (
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize lowercases the text, strips punctuation and splits on whitespace.
// The same tokens feed the sparse encoder, the keyword query builder and the
// highlighter, so the three always agree on what a term is.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

type hashEncoder struct {
	dimension uint32
}

// NewHashSparseEncoder builds the default SparseEncoder: FNV-1a over each
// token, reduced into a fixed dimension, with raw term counts as values.
// Collisions merge terms, which is acceptable at the configured dimension.
func NewHashSparseEncoder(dimension uint32) SparseEncoder {
	return &hashEncoder{dimension: dimension}
}

func (h *hashEncoder) Encode(text string) ([]uint32, []float32, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, nil, ErrEmptyText
	}

	counts := make(map[uint32]float32, len(tokens))
	for _, token := range tokens {
		digest := fnv.New32a()
		digest.Write([]byte(token))
		counts[digest.Sum32()%h.dimension]++
	}

	indices := make([]uint32, 0, len(counts))
	for index := range counts {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, index := range indices {
		values[i] = counts[index]
	}
	return indices, values, nil
}
