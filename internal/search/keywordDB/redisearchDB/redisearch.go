package redisearchDB

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/veridex/evidenceAPI/internal/data/redisStore"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

const deletePageSize = 500

// Store keeps one RediSearch index per evidence type over hash documents.
// Scores come back store-native, fusion does not care about their scale.
type Store struct {
	rdb    *redis.Client
	logger *logger_i.Logger
}

func New(store *redisStore.Store) *Store {
	return &Store{
		rdb:    store.Client(),
		logger: logger_i.NewLogger("RediSearch"),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, evidenceType := range evidenceModel.AllEvidenceTypes() {
		if err := s.ensureIndex(ctx, evidenceType); err != nil {
			return fmt.Errorf("could not create index %s: %w", evidenceType.KeywordIndex(), err)
		}
	}
	return nil
}

func (s *Store) ensureIndex(ctx context.Context, evidenceType evidenceModel.EvidenceType) error {
	options := &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{evidenceType.KeyPrefix()},
	}

	schema := []*redis.FieldSchema{
		{FieldName: "text", FieldType: redis.SearchFieldTypeText, Weight: 1},
		{FieldName: "case_id", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "owner_id", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "chunk_type", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "granularity", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "speaker", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "platform", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "position", FieldType: redis.SearchFieldTypeNumeric},
		{FieldName: "page_number", FieldType: redis.SearchFieldTypeNumeric},
		{FieldName: "timestamp", FieldType: redis.SearchFieldTypeNumeric, Sortable: true},
	}

	err := s.rdb.FTCreate(ctx, evidenceType.KeywordIndex(), options, schema...).Err()
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}
	return nil
}

func (s *Store) IndexBatch(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, point := range points {
		key := evidenceType.KeyPrefix() + point.ID
		pipe.HSet(ctx, key, hashFields(point)...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisearch index batch failed: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
	log := s.logger.WithTrace(ctx)

	options := &redis.FTSearchOptions{
		WithScores:     true,
		LimitOffset:    0,
		Limit:          query.Limit,
		DialectVersion: 2,
	}
	if timeFilter := numericTimeFilter(query.Filters.TimeRange); timeFilter != nil {
		options.Filters = append(options.Filters, *timeFilter)
	}

	queryString := buildQuery(query.Text, query.Filters)
	res, err := s.rdb.FTSearchWithArgs(ctx, query.EvidenceType.KeywordIndex(), queryString, options).Result()
	if err != nil {
		log.Error("Error querying RediSearch: ", "error:", err)
		return nil, &evidenceModel.StoreQueryError{Store: evidenceModel.StoreKeyword, Err: err}
	}

	results := make([]evidenceModel.SearchResult, 0, len(res.Docs))
	for _, doc := range res.Docs {
		result := resultFromDoc(doc, query.EvidenceType)
		if query.ScoreThreshold > 0 && result.Score < query.ScoreThreshold {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Store) DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = evidenceType.KeyPrefix() + id
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisearch delete by ids failed: %w", err)
	}
	return nil
}

// DeleteByOwner drains matches page by page. Deleted hashes leave the index
// immediately, so every pass reads from offset zero until nothing is left.
func (s *Store) DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error {
	var parts []string
	if owner.CaseID != "" {
		parts = append(parts, fmt.Sprintf("@case_id:{%s}", escapeTag(owner.CaseID)))
	}
	if owner.OwnerID != "" {
		parts = append(parts, fmt.Sprintf("@owner_id:{%s}", escapeTag(owner.OwnerID)))
	}
	if len(parts) == 0 {
		return fmt.Errorf("refusing to delete with no owner filter")
	}
	ownerQuery := strings.Join(parts, " ")

	for {
		res, err := s.rdb.FTSearchWithArgs(ctx, owner.EvidenceType.KeywordIndex(), ownerQuery, &redis.FTSearchOptions{
			NoContent:      true,
			Limit:          deletePageSize,
			DialectVersion: 2,
		}).Result()
		if err != nil {
			return fmt.Errorf("redisearch delete by owner failed: %w", err)
		}
		if len(res.Docs) == 0 {
			return nil
		}

		keys := make([]string, len(res.Docs))
		for i, doc := range res.Docs {
			keys[i] = doc.ID
		}
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redisearch delete by owner failed: %w", err)
		}
		if len(res.Docs) < deletePageSize {
			return nil
		}
	}
}
