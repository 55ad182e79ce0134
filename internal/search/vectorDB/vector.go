package vectorDB

import (
	"context"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// DenseQuery is one ANN lookup against a single named vector space of one
// evidence collection.
type DenseQuery struct {
	EvidenceType   evidenceModel.EvidenceType
	Granularity    string
	Vector         []float32
	Filters        evidenceModel.SearchFilters
	Limit          uint64
	ScoreThreshold float32
}

// Store is the vector half of the dual index.
type Store interface {
	EnsureCollections(ctx context.Context) error
	Upsert(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error
	QueryDense(ctx context.Context, query DenseQuery) ([]evidenceModel.SearchResult, error)
	DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error
	DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error
}
