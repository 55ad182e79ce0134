package hybrid

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/metrics"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var granularities = []string{
	evidenceModel.GranularitySummary,
	evidenceModel.GranularitySection,
	evidenceModel.GranularityMicroblock,
}

// Engine runs one hybrid search: gather ranked lists from the enabled
// stores, fuse, post-process. It is stateless across calls and never caches
// results; every search re-queries the stores.
type Engine struct {
	embedder embedding.Embedder
	vector   vectorDB.Store
	keyword  keywordDB.Store
	logger   *logger_i.Logger
}

func NewEngine(embedder embedding.Embedder, vector vectorDB.Store, keyword keywordDB.Store) *Engine {
	return &Engine{
		embedder: embedder,
		vector:   vector,
		keyword:  keyword,
		logger:   logger_i.NewLogger("Hybrid Engine"),
	}
}

func (e *Engine) Search(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error) {
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("hybrid_search", time.Since(start))
	}()

	log := e.logger.WithTrace(ctx)

	query := strings.TrimSpace(request.Query)
	if query == "" {
		return evidenceModel.SearchResponse{}, &evidenceModel.ValidationError{Reason: "query is empty"}
	}
	if request.FusionMethod != "" && request.FusionMethod != "rrf" {
		return evidenceModel.SearchResponse{}, &evidenceModel.ValidationError{Reason: "unsupported fusion method " + request.FusionMethod}
	}

	topK := request.TopK
	if topK <= 0 {
		topK = config.DefaultTopK
	}
	if topK > config.MaxTopK {
		topK = config.MaxTopK
	}
	rrfK := request.RRFK
	if rrfK <= 0 {
		rrfK = config.RRFRankConstant
	}

	// a caller that resolved to zero accessible cases gets an empty answer
	// and neither store ever hears about the request
	if request.CaseIDs != nil && len(request.CaseIDs) == 0 {
		return emptyResponse("caller has no accessible cases"), nil
	}
	if !request.UseKeyword && !request.UseDense {
		return emptyResponse("neither keyword nor dense search enabled"), nil
	}

	types := request.EvidenceTypes
	if len(types) == 0 {
		types = evidenceModel.AllEvidenceTypes()
	}
	for _, evidenceType := range types {
		if !evidenceType.Valid() {
			return evidenceModel.SearchResponse{}, &evidenceModel.ValidationError{Reason: "unknown evidence type " + string(evidenceType)}
		}
	}

	filters := request.Filters()

	plannedLists := 0
	if request.UseKeyword {
		plannedLists += len(types)
	}
	if request.UseDense {
		plannedLists += len(granularities) * len(types)
	}
	denseLimit := topK
	if plannedLists > 1 {
		denseLimit = 2 * topK
	}

	var lists []rankedList
	attempted := 0
	failedLists := 0
	var firstFailure error

	if request.UseKeyword {
		for _, evidenceType := range types {
			attempted++
			results, err := e.keyword.Search(ctx, keywordDB.Query{
				EvidenceType:   evidenceType,
				Text:           query,
				Filters:        filters,
				Limit:          2 * topK,
				ScoreThreshold: request.ScoreThreshold,
			})
			if err != nil {
				failedLists++
				if firstFailure == nil {
					firstFailure = err
				}
				metrics.IncrementDegradedLists()
				log.Error("Keyword list degraded", "evidenceType", string(evidenceType), "error", err.Error())
				continue
			}
			lists = append(lists, rankedList{name: "keyword/" + string(evidenceType), results: results})
		}
	}

	if request.UseDense {
		queryVector, err := e.embedder.EmbedDense(ctx, query, embedding.QueryTask)
		if err != nil {
			return evidenceModel.SearchResponse{}, &evidenceModel.EmbeddingError{Err: err}
		}

		for _, granularity := range granularities {
			for _, evidenceType := range types {
				attempted++
				results, err := e.vector.QueryDense(ctx, vectorDB.DenseQuery{
					EvidenceType:   evidenceType,
					Granularity:    granularity,
					Vector:         queryVector,
					Filters:        filters,
					Limit:          uint64(denseLimit),
					ScoreThreshold: request.ScoreThreshold,
				})
				if err != nil {
					failedLists++
					if firstFailure == nil {
						firstFailure = err
					}
					metrics.IncrementDegradedLists()
					log.Error("Dense list degraded", "granularity", granularity, "evidenceType", string(evidenceType), "error", err.Error())
					continue
				}
				lists = append(lists, rankedList{name: granularity + "/" + string(evidenceType), results: results})
			}
		}
	}

	if attempted > 0 && failedLists == attempted {
		return evidenceModel.SearchResponse{}, firstFailure
	}

	results := fuseRRF(lists, rrfK, topK)

	if request.RefilterAfterFusion && request.ScoreThreshold > 0 {
		kept := results[:0]
		for _, result := range results {
			if result.Score >= request.ScoreThreshold {
				kept = append(kept, result)
			}
		}
		results = kept
	}

	// the secondary speaker filter trims the fused set, it never re-ranks
	if len(request.Speakers) > 0 {
		allowed := make(map[string]bool, len(request.Speakers))
		for _, speaker := range request.Speakers {
			allowed[speaker] = true
		}
		kept := results[:0]
		for _, result := range results {
			if allowed[result.Metadata.Speaker] {
				kept = append(kept, result)
			}
		}
		results = kept
	}

	if request.UseKeyword {
		queryTokens := embedding.Tokenize(query)
		for i := range results {
			if results[i].VectorType == evidenceModel.VectorTypeKeyword {
				results[i].Highlights = highlightSnippets(results[i].Text, queryTokens,
					config.HighlightWindowWords, config.HighlightMaxSnippets)
			}
		}
	}

	metrics.ObserveSearchResultCount(len(results))

	var metadata map[string]string
	if failedLists > 0 {
		metadata = map[string]string{"degraded_lists": strconv.Itoa(failedLists)}
	}

	return evidenceModel.SearchResponse{
		Results:  results,
		Total:    len(results),
		Metadata: metadata,
	}, nil
}

func emptyResponse(reason string) evidenceModel.SearchResponse {
	return evidenceModel.SearchResponse{
		Results:  []evidenceModel.SearchResult{},
		Total:    0,
		Metadata: map[string]string{"reason": reason},
	}
}
