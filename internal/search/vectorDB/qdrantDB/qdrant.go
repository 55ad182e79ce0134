package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

const sparseVectorName = "keywords"

// Store keeps one qdrant collection per evidence type, each carrying the
// three named dense vectors plus the sparse keyword vector.
type Store struct {
	client *qdrant.Client
	logger *logger_i.Logger
}

func New() (*Store, error) {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	return &Store{
		client: client,
		logger: logger_i.NewLogger("Qdrant"),
	}, nil
}

func (s *Store) Close() error {
	s.logger.Info("Shutting down Qdrant")
	return s.client.Close()
}

func (s *Store) EnsureCollections(ctx context.Context) error {
	for _, evidenceType := range evidenceModel.AllEvidenceTypes() {
		if err := s.ensureCollection(ctx, evidenceType.Collection()); err != nil {
			return fmt.Errorf("could not create collection %s: %w", evidenceType.Collection(), err)
		}
	}
	return nil
}

func (s *Store) ensureCollection(ctx context.Context, collectionName string) error {
	exists, err := s.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			evidenceModel.GranularitySummary:    denseParams(),
			evidenceModel.GranularitySection:    denseParams(),
			evidenceModel.GranularityMicroblock: denseParams(),
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {},
		}),
	})
}

func denseParams() *qdrant.VectorParams {
	return &qdrant.VectorParams{
		Size:     dimension,
		Distance: qdrant.Distance_Cosine,
	}
}

func (s *Store) Upsert(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, point := range points {
		vectors := make(map[string]*qdrant.Vector, len(point.Representation.Dense)+1)
		for granularity, vector := range point.Representation.Dense {
			vectors[granularity] = qdrant.NewVector(vector...)
		}
		if len(point.Representation.SparseIndices) > 0 {
			vectors[sparseVectorName] = qdrant.NewVectorSparse(
				point.Representation.SparseIndices, point.Representation.SparseValues)
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(point.ID),
			Vectors: qdrant.NewVectorsMap(vectors),
			Payload: qdrant.NewValueMap(payloadFields(point)),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: evidenceType.Collection(),
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (s *Store) QueryDense(ctx context.Context, query vectorDB.DenseQuery) ([]evidenceModel.SearchResult, error) {
	log := s.logger.WithTrace(ctx)

	queryPoints := &qdrant.QueryPoints{
		CollectionName: query.EvidenceType.Collection(),
		Query:          qdrant.NewQuery(query.Vector...),
		Using:          qdrant.PtrOf(query.Granularity),
		Limit:          qdrant.PtrOf(query.Limit),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if filter := buildFilter(query.Filters); filter != nil {
		queryPoints.Filter = filter
	}
	if query.ScoreThreshold > 0 {
		queryPoints.ScoreThreshold = qdrant.PtrOf(query.ScoreThreshold)
	}

	hits, err := s.client.Query(ctx, queryPoints)
	if err != nil {
		log.Error("Error querying Qdrant: ", "error:", err)
		return nil, &evidenceModel.StoreQueryError{Store: evidenceModel.StoreVector, Err: err}
	}

	results := make([]evidenceModel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, resultFromPoint(hit, query.Granularity))
	}
	return results, nil
}

func (s *Store) DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: evidenceType.Collection(),
		Points:         qdrant.NewPointsSelector(pointIDs...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by ids failed: %w", err)
	}
	return nil
}

func (s *Store) DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error {
	var must []*qdrant.Condition
	if owner.CaseID != "" {
		must = append(must, qdrant.NewMatch("case_id", owner.CaseID))
	}
	if owner.OwnerID != "" {
		must = append(must, qdrant.NewMatch("owner_id", owner.OwnerID))
	}
	if len(must) == 0 {
		return fmt.Errorf("refusing to delete with no owner filter")
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: owner.EvidenceType.Collection(),
		Points:         qdrant.NewPointsSelectorFilter(&qdrant.Filter{Must: must}),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by owner failed: %w", err)
	}
	return nil
}
