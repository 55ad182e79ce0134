package keywordDB

import (
	"context"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// Query is one lexical lookup against a single evidence index. Text is the
// raw user query; the store tokenizes it the same way terms were indexed.
type Query struct {
	EvidenceType   evidenceModel.EvidenceType
	Text           string
	Filters        evidenceModel.SearchFilters
	Limit          int
	ScoreThreshold float32
}

// Store is the keyword half of the dual index.
type Store interface {
	EnsureIndexes(ctx context.Context) error
	IndexBatch(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error
	Search(ctx context.Context, query Query) ([]evidenceModel.SearchResult, error)
	DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error
	DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error
}
