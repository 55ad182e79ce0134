package indexer

import (
	"context"
	"time"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/metrics"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

// Indexer owns the dual-store write path. The vector store is written
// first; if the keyword store then fails, exactly the ids of the current
// batch are rolled back so a retry starts clean. Older points of the same
// owner are never touched by a rollback.
type Indexer struct {
	embedder embedding.Embedder
	vector   vectorDB.Store
	keyword  keywordDB.Store
	leases   *ownerLeases
	logger   *logger_i.Logger
}

func New(embedder embedding.Embedder, vector vectorDB.Store, keyword keywordDB.Store) *Indexer {
	return &Indexer{
		embedder: embedder,
		vector:   vector,
		keyword:  keyword,
		leases:   newOwnerLeases(),
		logger:   logger_i.NewLogger("Indexer"),
	}
}

// Index validates, embeds and writes one batch of chunks. Validation fails
// fast before anything is embedded or written. A chunk whose representation
// cannot be generated is reported in FailedIDs and the rest of the batch
// proceeds.
func (ix *Indexer) Index(ctx context.Context, owner evidenceModel.OwnerRef, chunks []evidenceModel.Chunk) (evidenceModel.IndexReport, error) {
	if err := owner.Validate(); err != nil {
		return evidenceModel.IndexReport{}, err
	}
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return evidenceModel.IndexReport{}, err
		}
	}

	release := ix.leases.acquire(owner)
	defer release()

	points, failedIDs, err := ix.buildPoints(ctx, owner, chunks)
	if err != nil {
		return evidenceModel.IndexReport{}, err
	}

	if len(points) > 0 {
		if err := ix.writePoints(ctx, owner, points); err != nil {
			return evidenceModel.IndexReport{}, err
		}
		metrics.AddIndexedPoints(string(owner.EvidenceType), len(points))
	}

	return evidenceModel.IndexReport{
		IndexedCount: len(points),
		FailedCount:  len(failedIDs),
		FailedIDs:    failedIDs,
	}, nil
}

// Delete removes every point of one owner from both stores. Both deletes
// run even when the owner was never indexed, so the operation is idempotent.
func (ix *Indexer) Delete(ctx context.Context, owner evidenceModel.OwnerRef) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	release := ix.leases.acquire(owner)
	defer release()

	if err := ix.vector.DeleteByOwner(ctx, owner); err != nil {
		return &evidenceModel.StoreWriteError{Store: evidenceModel.StoreVector, Owner: owner, Err: err}
	}
	if err := ix.keyword.DeleteByOwner(ctx, owner); err != nil {
		return &evidenceModel.StoreWriteError{Store: evidenceModel.StoreKeyword, Owner: owner, Err: err}
	}
	return nil
}

func (ix *Indexer) buildPoints(ctx context.Context, owner evidenceModel.OwnerRef, chunks []evidenceModel.Chunk) ([]evidenceModel.IndexPoint, []string, error) {
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	}()

	log := ix.logger.WithTrace(ctx)

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = evidenceModel.NewPointID(owner, chunk.ChunkType, chunk.Position)
	}

	byGranularity := make(map[string][]int)
	for i, chunk := range chunks {
		granularity := chunk.ChunkType.Granularity()
		byGranularity[granularity] = append(byGranularity[granularity], i)
	}

	denseByIndex := make(map[int][]float32, len(chunks))
	failed := make(map[int]bool)

	for granularity, indexes := range byGranularity {
		for batchStart := 0; batchStart < len(indexes); batchStart += config.EmbeddingBatchSize {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}

			batchEnd := min(batchStart+config.EmbeddingBatchSize, len(indexes))
			batch := indexes[batchStart:batchEnd]

			texts := make([]string, len(batch))
			for j, chunkIndex := range batch {
				texts[j] = chunks[chunkIndex].Text
			}

			vectors, err := ix.embedder.EmbedDenseBatch(ctx, texts, granularity)
			if err != nil {
				log.Error("Embedding batch failed", "granularity", granularity, "count", len(batch), "error", err.Error())
				for _, chunkIndex := range batch {
					failed[chunkIndex] = true
				}
				continue
			}
			for j, chunkIndex := range batch {
				denseByIndex[chunkIndex] = vectors[j]
			}
		}
	}

	points := make([]evidenceModel.IndexPoint, 0, len(chunks))
	var failedIDs []string
	for i, chunk := range chunks {
		if failed[i] {
			failedIDs = append(failedIDs, ids[i])
			continue
		}
		dense, ok := denseByIndex[i]
		if !ok {
			failedIDs = append(failedIDs, ids[i])
			continue
		}

		indices, values, err := ix.embedder.EmbedSparse(ctx, chunk.Text)
		if err != nil {
			log.Error("Sparse encoding failed", "id", ids[i], "error", err.Error())
			failedIDs = append(failedIDs, ids[i])
			continue
		}

		points = append(points, evidenceModel.IndexPoint{
			ID:    ids[i],
			Owner: owner,
			Chunk: chunk,
			Representation: evidenceModel.Representation{
				Dense:         map[string][]float32{chunk.ChunkType.Granularity(): dense},
				SparseIndices: indices,
				SparseValues:  values,
			},
		})
	}
	return points, failedIDs, nil
}

func (ix *Indexer) writePoints(ctx context.Context, owner evidenceModel.OwnerRef, points []evidenceModel.IndexPoint) error {
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("store_write", time.Since(start))
	}()

	log := ix.logger.WithTrace(ctx)

	if err := ix.vector.Upsert(ctx, owner.EvidenceType, points); err != nil {
		return &evidenceModel.StoreWriteError{Store: evidenceModel.StoreVector, Owner: owner, Err: err}
	}

	if err := ix.keyword.IndexBatch(ctx, owner.EvidenceType, points); err != nil {
		writeErr := &evidenceModel.StoreWriteError{Store: evidenceModel.StoreKeyword, Owner: owner, Err: err}
		metrics.IncrementIndexRollbacks()

		pointIDs := make([]string, len(points))
		for i, point := range points {
			pointIDs[i] = point.ID
		}
		log.Error("Keyword write failed, rolling back vector batch", "count", len(pointIDs), "error", err.Error())

		if rollbackErr := ix.vector.DeleteByIDs(ctx, owner.EvidenceType, pointIDs); rollbackErr != nil {
			return &evidenceModel.RollbackError{WriteErr: writeErr, RollbackErr: rollbackErr}
		}
		return writeErr
	}
	return nil
}
