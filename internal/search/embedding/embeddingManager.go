package embedding

import (
	"context"
	"errors"

	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

// ErrEmptyText is returned whenever representation generation is asked to
// embed nothing. Callers treat it as a per-chunk failure, not a batch one.
var ErrEmptyText = errors.New("text is empty")

// QueryTask is the pseudo-granularity used when embedding a search query
// instead of an indexed chunk. Providers may pick a different task type for
// it; the vector length stays the same.
const QueryTask = "query"

// Embedder is the representation-generator contract consumed by the indexer
// and the hybrid engine.
type Embedder interface {
	EmbedDense(ctx context.Context, text string, granularity string) ([]float32, error)
	EmbedDenseBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error)
	EmbedSparse(ctx context.Context, text string) ([]uint32, []float32, error)
}

// DenseProvider is the model-backed half of the Embedder, implemented per
// vendor.
type DenseProvider interface {
	Embed(ctx context.Context, text string, granularity string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error)
}

// SparseEncoder turns text into keyword weights. Kept behind its own
// interface so the hashing scheme can be swapped for a vocabulary-based one
// without touching the indexer.
type SparseEncoder interface {
	Encode(text string) (indices []uint32, values []float32, err error)
}

type manager struct {
	dense  DenseProvider
	sparse SparseEncoder
	logger *logger_i.Logger
}

// NewManager combines a dense provider and a sparse encoder into the
// Embedder the core works against.
func NewManager(dense DenseProvider, sparse SparseEncoder) Embedder {
	return &manager{
		dense:  dense,
		sparse: sparse,
		logger: logger_i.NewLogger("Embedding Manager"),
	}
}

func (m *manager) EmbedDense(ctx context.Context, text string, granularity string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	return m.dense.Embed(ctx, text, granularity)
}

func (m *manager) EmbedDenseBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}
	return m.dense.EmbedBatch(ctx, texts, granularity)
}

func (m *manager) EmbedSparse(ctx context.Context, text string) ([]uint32, []float32, error) {
	return m.sparse.Encode(text)
}
