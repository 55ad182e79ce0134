package evidenceModel

import "time"

type TimeRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// SearchRequest is the full query contract of the hybrid engine.
//
// CaseIDs nil means the caller is unrestricted; a non-nil empty slice means
// the caller resolved to zero accessible cases and the engine short-circuits
// without touching either store.
type SearchRequest struct {
	Query          string         `json:"query"`
	CaseIDs        []string       `json:"case_ids,omitempty"`
	DocumentIDs    []string       `json:"document_ids,omitempty"`
	EvidenceTypes  []EvidenceType `json:"evidence_types,omitempty"`
	ChunkTypes     []ChunkType    `json:"chunk_types,omitempty"`
	Speakers       []string       `json:"speakers,omitempty"`
	TimeRange      *TimeRange     `json:"time_range,omitempty"`
	TopK           int            `json:"top_k,omitempty"`
	ScoreThreshold float32        `json:"score_threshold,omitempty"`
	UseKeyword     bool           `json:"use_bm25"`
	UseDense       bool           `json:"use_dense"`
	FusionMethod   string         `json:"fusion_method,omitempty"`
	RRFK           int            `json:"rrf_k,omitempty"`

	// reapply ScoreThreshold to the fused scores; a threshold of 0 passes
	// everything either way
	RefilterAfterFusion bool `json:"refilter_after_fusion,omitempty"`
}

// SearchFilters is the store-level slice of a SearchRequest. Both stores get
// the same set so pre-filtering happens before ranking, never after.
type SearchFilters struct {
	CaseIDs     []string
	DocumentIDs []string
	ChunkTypes  []ChunkType
	Speakers    []string
	TimeRange   *TimeRange
}

func (r *SearchRequest) Filters() SearchFilters {
	return SearchFilters{
		CaseIDs:     r.CaseIDs,
		DocumentIDs: r.DocumentIDs,
		ChunkTypes:  r.ChunkTypes,
		Speakers:    r.Speakers,
		TimeRange:   r.TimeRange,
	}
}

type ResultMetadata struct {
	CaseID       string            `json:"case_id,omitempty"`
	OwnerID      string            `json:"owner_id,omitempty"`
	EvidenceType EvidenceType      `json:"evidence_type,omitempty"`
	ChunkType    ChunkType         `json:"chunk_type,omitempty"`
	Position     int               `json:"position"`
	PageNumber   *int              `json:"page_number,omitempty"`
	Speaker      string            `json:"speaker,omitempty"`
	Platform     string            `json:"platform,omitempty"`
	Timestamp    time.Time         `json:"timestamp,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// VectorTypeKeyword marks results produced by the lexical list; dense lists
// carry their granularity name instead.
const VectorTypeKeyword = "keyword"

type SearchResult struct {
	ID         string         `json:"id"`
	Score      float32        `json:"score"`
	Text       string         `json:"text"`
	Metadata   ResultMetadata `json:"metadata"`
	Highlights []string       `json:"highlights,omitempty"`

	// which ranked list produced the payload: "keyword" or a granularity name
	VectorType string `json:"vector_type,omitempty"`
}

type SearchResponse struct {
	Results  []SearchResult    `json:"results"`
	Total    int               `json:"total"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
