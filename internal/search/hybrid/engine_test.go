package hybrid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB"
)

type stubEmbedder struct {
	DenseCalls   int
	OnEmbedDense func(ctx context.Context, text string, granularity string) ([]float32, error)
}

func (s *stubEmbedder) EmbedDense(ctx context.Context, text string, granularity string) ([]float32, error) {
	s.DenseCalls++
	if s.OnEmbedDense != nil {
		return s.OnEmbedDense(ctx, text, granularity)
	}
	return []float32{0.1, 0.2}, nil
}

func (s *stubEmbedder) EmbedDenseBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
	return nil, errors.New("not used in search")
}

func (s *stubEmbedder) EmbedSparse(ctx context.Context, text string) ([]uint32, []float32, error) {
	return nil, nil, errors.New("not used in search")
}

type stubVectorStore struct {
	QueryCalls int
	OnQuery    func(query vectorDB.DenseQuery) ([]evidenceModel.SearchResult, error)
}

func (s *stubVectorStore) EnsureCollections(ctx context.Context) error { return nil }
func (s *stubVectorStore) Upsert(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error {
	return nil
}
func (s *stubVectorStore) DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error {
	return nil
}
func (s *stubVectorStore) DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error {
	return nil
}

func (s *stubVectorStore) QueryDense(ctx context.Context, query vectorDB.DenseQuery) ([]evidenceModel.SearchResult, error) {
	s.QueryCalls++
	if s.OnQuery != nil {
		return s.OnQuery(query)
	}
	return nil, nil
}

type stubKeywordStore struct {
	SearchCalls int
	SeenTypes   []evidenceModel.EvidenceType
	OnSearch    func(query keywordDB.Query) ([]evidenceModel.SearchResult, error)
}

func (s *stubKeywordStore) EnsureIndexes(ctx context.Context) error { return nil }
func (s *stubKeywordStore) IndexBatch(ctx context.Context, evidenceType evidenceModel.EvidenceType, points []evidenceModel.IndexPoint) error {
	return nil
}
func (s *stubKeywordStore) DeleteByIDs(ctx context.Context, evidenceType evidenceModel.EvidenceType, ids []string) error {
	return nil
}
func (s *stubKeywordStore) DeleteByOwner(ctx context.Context, owner evidenceModel.OwnerRef) error {
	return nil
}

func (s *stubKeywordStore) Search(ctx context.Context, query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
	s.SearchCalls++
	s.SeenTypes = append(s.SeenTypes, query.EvidenceType)
	if s.OnSearch != nil {
		return s.OnSearch(query)
	}
	return nil, nil
}

func keywordResult(id string, score float32, text string) evidenceModel.SearchResult {
	return evidenceModel.SearchResult{ID: id, Score: score, Text: text, VectorType: evidenceModel.VectorTypeKeyword}
}

func denseResult(id string, score float32, granularity string) evidenceModel.SearchResult {
	return evidenceModel.SearchResult{ID: id, Score: score, Text: "text for " + id, VectorType: granularity}
}

func TestSearchEmptyScopeShortCircuits(t *testing.T) {
	embedder := &stubEmbedder{}
	vector := &stubVectorStore{}
	keyword := &stubKeywordStore{}
	engine := NewEngine(embedder, vector, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:      "who signed the agreement",
		CaseIDs:    []string{},
		UseKeyword: true,
		UseDense:   true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Results) != 0 || response.Total != 0 {
		t.Errorf("expected an empty response, got %+v", response)
	}
	if response.Metadata["reason"] == "" {
		t.Errorf("empty-scope response should carry a reason")
	}
	if vector.QueryCalls != 0 || keyword.SearchCalls != 0 || embedder.DenseCalls != 0 {
		t.Errorf("no store or embedder call may happen: vector=%d keyword=%d embed=%d",
			vector.QueryCalls, keyword.SearchCalls, embedder.DenseCalls)
	}

	// nil CaseIDs means unrestricted and must NOT short-circuit
	_, err = engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:      "who signed the agreement",
		UseKeyword: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keyword.SearchCalls == 0 {
		t.Errorf("unrestricted search should reach the keyword store")
	}
}

func TestSearchNeitherModeEnabled(t *testing.T) {
	vector := &stubVectorStore{}
	keyword := &stubKeywordStore{}
	engine := NewEngine(&stubEmbedder{}, vector, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{Query: "anything"})
	if err != nil {
		t.Fatalf("disabled modes are not an error: %v", err)
	}
	if len(response.Results) != 0 {
		t.Errorf("expected empty results")
	}
	if response.Metadata["reason"] == "" {
		t.Errorf("response should explain why it is empty")
	}
	if vector.QueryCalls != 0 || keyword.SearchCalls != 0 {
		t.Errorf("stores must not be called")
	}
}

func TestSearchValidation(t *testing.T) {
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, &stubKeywordStore{})

	tests := []struct {
		name    string
		request evidenceModel.SearchRequest
	}{
		{"empty query", evidenceModel.SearchRequest{Query: "   ", UseKeyword: true}},
		{"unknown fusion method", evidenceModel.SearchRequest{Query: "q", UseKeyword: true, FusionMethod: "borda"}},
		{"unknown evidence type", evidenceModel.SearchRequest{Query: "q", UseKeyword: true,
			EvidenceTypes: []evidenceModel.EvidenceType{"voicemails"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Search(context.Background(), tt.request)
			var validationErr *evidenceModel.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSearchDefaultsToAllEvidenceTypes(t *testing.T) {
	keyword := &stubKeywordStore{}
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, keyword)

	_, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:      "payment schedule",
		UseKeyword: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(keyword.SeenTypes) != 3 {
		t.Fatalf("expected one keyword list per known evidence type, got %v", keyword.SeenTypes)
	}
	seen := make(map[evidenceModel.EvidenceType]bool)
	for _, evidenceType := range keyword.SeenTypes {
		seen[evidenceType] = true
	}
	for _, want := range evidenceModel.AllEvidenceTypes() {
		if !seen[want] {
			t.Errorf("evidence type %s was never queried", want)
		}
	}
}

func TestSearchDegradesFailedList(t *testing.T) {
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			return nil, &evidenceModel.StoreQueryError{Store: evidenceModel.StoreKeyword, Err: errors.New("index gone")}
		},
	}
	vector := &stubVectorStore{
		OnQuery: func(query vectorDB.DenseQuery) ([]evidenceModel.SearchResult, error) {
			if query.Granularity == evidenceModel.GranularitySection {
				return []evidenceModel.SearchResult{denseResult("s1", 0.9, query.Granularity)}, nil
			}
			return nil, nil
		},
	}
	engine := NewEngine(&stubEmbedder{}, vector, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "payment",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:    true,
		UseDense:      true,
	})
	if err != nil {
		t.Fatalf("one failed list among several must degrade, not fail: %v", err)
	}
	if len(response.Results) != 1 || response.Results[0].ID != "s1" {
		t.Errorf("results = %+v", response.Results)
	}
	if response.Metadata["degraded_lists"] != "1" {
		t.Errorf("metadata = %v", response.Metadata)
	}
}

func TestSearchOnlyListFailurePropagates(t *testing.T) {
	storeErr := &evidenceModel.StoreQueryError{Store: evidenceModel.StoreKeyword, Err: errors.New("index gone")}
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			return nil, storeErr
		},
	}
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, keyword)

	_, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "payment",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:    true,
	})

	var queryErr *evidenceModel.StoreQueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("the only requested list failing must fail the search, got %v", err)
	}
}

func TestSearchQueryEmbeddingFailureFailsRequest(t *testing.T) {
	embedder := &stubEmbedder{
		OnEmbedDense: func(ctx context.Context, text string, granularity string) ([]float32, error) {
			return nil, errors.New("model offline")
		},
	}
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			return []evidenceModel.SearchResult{keywordResult("k1", 4, "fine text")}, nil
		},
	}
	engine := NewEngine(embedder, &stubVectorStore{}, keyword)

	_, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "payment",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:    true,
		UseDense:      true,
	})

	var embedErr *evidenceModel.EmbeddingError
	if !errors.As(err, &embedErr) {
		t.Fatalf("query embedding failure must fail the whole request, got %v", err)
	}
}

func TestSearchSpeakerPostFilterKeepsOrder(t *testing.T) {
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			a := keywordResult("t1", 9, "I never saw the payment")
			a.Metadata.Speaker = "MR. COLE"
			b := keywordResult("t2", 8, "the payment cleared")
			b.Metadata.Speaker = "MS. VANCE"
			c := keywordResult("t3", 7, "payment was discussed")
			c.Metadata.Speaker = "MR. COLE"
			return []evidenceModel.SearchResult{a, b, c}, nil
		},
	}
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "payment",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceTranscripts},
		UseKeyword:    true,
		Speakers:      []string{"MR. COLE"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(response.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(response.Results))
	}
	if response.Results[0].ID != "t1" || response.Results[1].ID != "t3" {
		t.Errorf("post-filter must not re-rank: %+v", response.Results)
	}
}

func TestSearchKeywordHighlights(t *testing.T) {
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			return []evidenceModel.SearchResult{
				keywordResult("k1", 5, "The first payment under this agreement is due on the fifth business day of each month."),
			}, nil
		},
	}
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "payment due",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(response.Results) != 1 {
		t.Fatalf("results = %+v", response.Results)
	}
	highlights := response.Results[0].Highlights
	if len(highlights) == 0 {
		t.Fatalf("keyword result should carry highlights")
	}
	joined := strings.Join(highlights, " ")
	if !strings.Contains(joined, "payment") {
		t.Errorf("highlights should surround the matched token: %v", highlights)
	}
}

func TestSearchRefilterAfterFusion(t *testing.T) {
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			return []evidenceModel.SearchResult{
				keywordResult("high", 5, "text"),
				keywordResult("low", 0.2, "text"),
			}, nil
		},
	}
	engine := NewEngine(&stubEmbedder{}, &stubVectorStore{}, keyword)

	request := evidenceModel.SearchRequest{
		Query:               "text",
		EvidenceTypes:       []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:          true,
		ScoreThreshold:      1.0,
		RefilterAfterFusion: true,
	}

	response, err := engine.Search(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Results) != 1 || response.Results[0].ID != "high" {
		t.Errorf("refilter should drop sub-threshold results: %+v", response.Results)
	}

	// a zero threshold bypasses the refilter entirely
	request.ScoreThreshold = 0
	response, err = engine.Search(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Results) != 2 {
		t.Errorf("zero threshold must pass everything: %+v", response.Results)
	}
}

func TestSearchHybridEndToEnd(t *testing.T) {
	keyword := &stubKeywordStore{
		OnSearch: func(query keywordDB.Query) ([]evidenceModel.SearchResult, error) {
			results := make([]evidenceModel.SearchResult, 0, 12)
			for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10", "p11", "p12"} {
				results = append(results, keywordResult(id, float32(20-len(results)), "body of "+id))
			}
			return results, nil
		},
	}
	vector := &stubVectorStore{
		OnQuery: func(query vectorDB.DenseQuery) ([]evidenceModel.SearchResult, error) {
			switch query.Granularity {
			case evidenceModel.GranularitySummary:
				return []evidenceModel.SearchResult{
					denseResult("p1", 0.95, query.Granularity),
					denseResult("p3", 0.9, query.Granularity),
					denseResult("p5", 0.85, query.Granularity),
				}, nil
			case evidenceModel.GranularitySection:
				return []evidenceModel.SearchResult{
					denseResult("p2", 0.93, query.Granularity),
					denseResult("p4", 0.88, query.Granularity),
				}, nil
			default:
				return []evidenceModel.SearchResult{
					denseResult("p13", 0.8, query.Granularity),
					denseResult("p14", 0.75, query.Granularity),
				}, nil
			}
		},
	}
	engine := NewEngine(&stubEmbedder{}, vector, keyword)

	response, err := engine.Search(context.Background(), evidenceModel.SearchRequest{
		Query:         "the forensic accountant's findings",
		EvidenceTypes: []evidenceModel.EvidenceType{evidenceModel.EvidenceDocuments},
		UseKeyword:    true,
		UseDense:      true,
		TopK:          10,
		RRFK:          60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(response.Results) != 10 {
		t.Fatalf("got %d results, want exactly top_k=10", len(response.Results))
	}
	if response.Total != 10 {
		t.Errorf("Total = %d", response.Total)
	}

	contributed := map[string]bool{}
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10", "p11", "p12", "p13", "p14"} {
		contributed[id] = true
	}
	for i, got := range response.Results {
		if !contributed[got.ID] {
			t.Errorf("result %s never appeared in any list", got.ID)
		}
		if i > 0 && response.Results[i-1].Score < got.Score {
			t.Errorf("results not sorted by fused score at position %d", i)
		}
	}

	// ids boosted by two lists must sit at the top
	if response.Results[0].ID != "p1" {
		t.Errorf("p1 appears in two lists at rank 1 and should lead, got %s", response.Results[0].ID)
	}
}
