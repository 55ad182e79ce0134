package qdrantDB

import (
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// Filterable fields are flattened to the payload top level; everything the
// caller put in Metadata.Extra rides along under an extra_ prefix.
func payloadFields(point evidenceModel.IndexPoint) map[string]any {
	chunk := point.Chunk
	fields := map[string]any{
		"text":          chunk.Text,
		"case_id":       point.Owner.CaseID,
		"owner_id":      point.Owner.OwnerID,
		"evidence_type": string(point.Owner.EvidenceType),
		"chunk_type":    string(chunk.ChunkType),
		"granularity":   chunk.ChunkType.Granularity(),
		"position":      chunk.Position,
	}
	if chunk.PageNumber != nil {
		fields["page_number"] = *chunk.PageNumber
	}
	if chunk.Metadata.Speaker != "" {
		fields["speaker"] = chunk.Metadata.Speaker
	}
	if chunk.Metadata.Platform != "" {
		fields["platform"] = chunk.Metadata.Platform
	}
	if !chunk.Metadata.Timestamp.IsZero() {
		fields["timestamp"] = chunk.Metadata.Timestamp.Unix()
	}
	for key, value := range chunk.Metadata.Extra {
		fields["extra_"+key] = value
	}
	return fields
}

func buildFilter(filters evidenceModel.SearchFilters) *qdrant.Filter {
	var must []*qdrant.Condition

	if len(filters.CaseIDs) > 0 {
		must = append(must, qdrant.NewMatchKeywords("case_id", filters.CaseIDs...))
	}
	if len(filters.DocumentIDs) > 0 {
		must = append(must, qdrant.NewMatchKeywords("owner_id", filters.DocumentIDs...))
	}
	if len(filters.ChunkTypes) > 0 {
		names := make([]string, len(filters.ChunkTypes))
		for i, chunkType := range filters.ChunkTypes {
			names[i] = string(chunkType)
		}
		must = append(must, qdrant.NewMatchKeywords("chunk_type", names...))
	}
	if len(filters.Speakers) > 0 {
		must = append(must, qdrant.NewMatchKeywords("speaker", filters.Speakers...))
	}
	if filters.TimeRange != nil {
		timeRange := &qdrant.Range{}
		if !filters.TimeRange.From.IsZero() {
			timeRange.Gte = qdrant.PtrOf(float64(filters.TimeRange.From.Unix()))
		}
		if !filters.TimeRange.To.IsZero() {
			timeRange.Lte = qdrant.PtrOf(float64(filters.TimeRange.To.Unix()))
		}
		if timeRange.Gte != nil || timeRange.Lte != nil {
			must = append(must, qdrant.NewRange("timestamp", timeRange))
		}
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func resultFromPoint(hit *qdrant.ScoredPoint, granularity string) evidenceModel.SearchResult {
	payload := hit.Payload

	metadata := evidenceModel.ResultMetadata{
		CaseID:       payload["case_id"].GetStringValue(),
		OwnerID:      payload["owner_id"].GetStringValue(),
		EvidenceType: evidenceModel.EvidenceType(payload["evidence_type"].GetStringValue()),
		ChunkType:    evidenceModel.ChunkType(payload["chunk_type"].GetStringValue()),
		Position:     int(payload["position"].GetIntegerValue()),
		Speaker:      payload["speaker"].GetStringValue(),
		Platform:     payload["platform"].GetStringValue(),
	}
	if page, ok := payload["page_number"]; ok {
		pageNumber := int(page.GetIntegerValue())
		metadata.PageNumber = &pageNumber
	}
	if ts, ok := payload["timestamp"]; ok {
		metadata.Timestamp = time.Unix(ts.GetIntegerValue(), 0).UTC()
	}

	extra := make(map[string]string)
	for key, value := range payload {
		if strings.HasPrefix(key, "extra_") {
			extra[strings.TrimPrefix(key, "extra_")] = value.GetStringValue()
		}
	}
	if len(extra) > 0 {
		metadata.Extra = extra
	}

	return evidenceModel.SearchResult{
		ID:         hit.Id.GetUuid(),
		Score:      hit.Score,
		Text:       payload["text"].GetStringValue(),
		Metadata:   metadata,
		VectorType: granularity,
	}
}
