package redisearchDB

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
)

var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>", "{", "\\{", "}", "\\}",
	"[", "\\[", "]", "\\]", "\"", "\\\"", "'", "\\'", ":", "\\:", ";", "\\;",
	"!", "\\!", "@", "\\@", "#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)", "-", "\\-", "+", "\\+",
	"=", "\\=", "~", "\\~", "|", "\\|", "/", "\\/", " ", "\\ ",
)

func escapeTag(value string) string {
	return tagEscaper.Replace(value)
}

func hashFields(point evidenceModel.IndexPoint) []interface{} {
	chunk := point.Chunk
	fields := []interface{}{
		"text", chunk.Text,
		"case_id", point.Owner.CaseID,
		"owner_id", point.Owner.OwnerID,
		"evidence_type", string(point.Owner.EvidenceType),
		"chunk_type", string(chunk.ChunkType),
		"granularity", chunk.ChunkType.Granularity(),
		"position", strconv.Itoa(chunk.Position),
	}
	if chunk.PageNumber != nil {
		fields = append(fields, "page_number", strconv.Itoa(*chunk.PageNumber))
	}
	if chunk.Metadata.Speaker != "" {
		fields = append(fields, "speaker", chunk.Metadata.Speaker)
	}
	if chunk.Metadata.Platform != "" {
		fields = append(fields, "platform", chunk.Metadata.Platform)
	}
	if !chunk.Metadata.Timestamp.IsZero() {
		fields = append(fields, "timestamp", strconv.FormatInt(chunk.Metadata.Timestamp.Unix(), 10))
	}
	if len(chunk.Metadata.Extra) > 0 {
		if blob, err := json.Marshal(chunk.Metadata.Extra); err == nil {
			fields = append(fields, "extra", string(blob))
		}
	}
	return fields
}

// buildQuery tokenizes the query text with the shared tokenizer so query
// terms line up with what the engine indexed. Terms are a disjunction; the
// store's scoring does the ranking.
func buildQuery(text string, filters evidenceModel.SearchFilters) string {
	var b strings.Builder

	terms := embedding.Tokenize(text)
	if len(terms) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString("(" + strings.Join(terms, "|") + ")")
	}

	appendTagFilter(&b, "case_id", filters.CaseIDs)
	appendTagFilter(&b, "owner_id", filters.DocumentIDs)
	if len(filters.ChunkTypes) > 0 {
		names := make([]string, len(filters.ChunkTypes))
		for i, chunkType := range filters.ChunkTypes {
			names[i] = string(chunkType)
		}
		appendTagFilter(&b, "chunk_type", names)
	}
	appendTagFilter(&b, "speaker", filters.Speakers)

	return b.String()
}

func appendTagFilter(b *strings.Builder, field string, values []string) {
	if len(values) == 0 {
		return
	}
	escaped := make([]string, len(values))
	for i, value := range values {
		escaped[i] = escapeTag(value)
	}
	fmt.Fprintf(b, " @%s:{%s}", field, strings.Join(escaped, "|"))
}

func numericTimeFilter(timeRange *evidenceModel.TimeRange) *redis.FTSearchFilter {
	if timeRange == nil {
		return nil
	}
	filter := redis.FTSearchFilter{FieldName: "timestamp", Min: "-inf", Max: "+inf"}
	if !timeRange.From.IsZero() {
		filter.Min = timeRange.From.Unix()
	}
	if !timeRange.To.IsZero() {
		filter.Max = timeRange.To.Unix()
	}
	if filter.Min == "-inf" && filter.Max == "+inf" {
		return nil
	}
	return &filter
}

func resultFromDoc(doc redis.Document, evidenceType evidenceModel.EvidenceType) evidenceModel.SearchResult {
	fields := doc.Fields

	var score float32
	if doc.Score != nil {
		score = float32(*doc.Score)
	}

	metadata := evidenceModel.ResultMetadata{
		CaseID:       fields["case_id"],
		OwnerID:      fields["owner_id"],
		EvidenceType: evidenceModel.EvidenceType(fields["evidence_type"]),
		ChunkType:    evidenceModel.ChunkType(fields["chunk_type"]),
		Speaker:      fields["speaker"],
		Platform:     fields["platform"],
	}
	if v := fields["position"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			metadata.Position = n
		}
	}
	if v := fields["page_number"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			metadata.PageNumber = &n
		}
	}
	if v := fields["timestamp"]; v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			metadata.Timestamp = time.Unix(unix, 0).UTC()
		}
	}
	if v := fields["extra"]; v != "" {
		extra := make(map[string]string)
		if err := json.Unmarshal([]byte(v), &extra); err == nil && len(extra) > 0 {
			metadata.Extra = extra
		}
	}

	return evidenceModel.SearchResult{
		ID:         strings.TrimPrefix(doc.ID, evidenceType.KeyPrefix()),
		Score:      score,
		Text:       fields["text"],
		Metadata:   metadata,
		VectorType: evidenceModel.VectorTypeKeyword,
	}
}
