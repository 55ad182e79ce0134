package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/data/redisStore"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
	"github.com/veridex/evidenceAPI/internal/search/embedding/googleEmbedding"
	"github.com/veridex/evidenceAPI/internal/search/embedding/openaiEmbedding"
	"github.com/veridex/evidenceAPI/internal/search/hybrid"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB/redisearchDB"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB/qdrantDB"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

type searchInput struct {
	Query         string   `json:"query" jsonschema:"the question or phrase to search the evidence for"`
	CaseIDs       []string `json:"case_ids,omitempty" jsonschema:"restrict the search to these case ids"`
	EvidenceTypes []string `json:"evidence_types,omitempty" jsonschema:"documents, transcripts or communications"`
	Speakers      []string `json:"speakers,omitempty" jsonschema:"only return chunks spoken or sent by these people"`
	TopK          int      `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

type searchOutput struct {
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

type searchResult struct {
	ID           string  `json:"id"`
	Score        float32 `json:"score"`
	Text         string  `json:"text"`
	CaseID       string  `json:"case_id,omitempty"`
	OwnerID      string  `json:"owner_id,omitempty"`
	EvidenceType string  `json:"evidence_type,omitempty"`
	ChunkType    string  `json:"chunk_type,omitempty"`
	Speaker      string  `json:"speaker,omitempty"`
}

func main() {
	//stdout belongs to the protocol
	logger_i.InitWithWriter(os.Stderr)
	logger := logger_i.NewLogger("MCP")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := buildEngine(ctx)
	if err != nil {
		logger.Error("Could not initialize the search stack", "err", err)
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "evidence-search", Version: "1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_evidence",
		Description: "Hybrid keyword and semantic search over indexed legal evidence. Returns the fused top results with case and owner attribution.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, searchOutput, error) {
		return handleSearch(ctx, engine, input)
	})

	logger.Info("MCP server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", "err", err)
		os.Exit(1)
	}
}

func buildEngine(ctx context.Context) (*hybrid.Engine, error) {
	vectorStore, err := qdrantDB.New()
	if err != nil {
		return nil, err
	}

	keywordRedis := redisStore.GetRedisStore(ctx, config.RedisKeywordStore)
	if keywordRedis == nil {
		return nil, errors.New("keyword store redis is offline")
	}

	var dense embedding.DenseProvider
	if config.EmbeddingProvider == "openai" {
		dense = openaiEmbedding.New(config.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	} else {
		dense, err = googleEmbedding.New(ctx, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
		if err != nil {
			return nil, err
		}
	}
	embedder := embedding.NewManager(dense, embedding.NewHashSparseEncoder(config.SparseVectorDimension))

	return hybrid.NewEngine(embedder, vectorStore, redisearchDB.New(keywordRedis)), nil
}

func handleSearch(ctx context.Context, engine *hybrid.Engine, input searchInput) (*mcp.CallToolResult, searchOutput, error) {
	request := evidenceModel.SearchRequest{
		Query:      input.Query,
		CaseIDs:    input.CaseIDs,
		Speakers:   input.Speakers,
		TopK:       input.TopK,
		UseKeyword: true,
		UseDense:   true,
	}
	for _, evidenceType := range input.EvidenceTypes {
		request.EvidenceTypes = append(request.EvidenceTypes, evidenceModel.EvidenceType(evidenceType))
	}

	response, err := engine.Search(ctx, request)
	if err != nil {
		return nil, searchOutput{}, err
	}

	output := searchOutput{Results: make([]searchResult, len(response.Results)), Total: response.Total}
	for i, result := range response.Results {
		output.Results[i] = searchResult{
			ID:           result.ID,
			Score:        result.Score,
			Text:         result.Text,
			CaseID:       result.Metadata.CaseID,
			OwnerID:      result.Metadata.OwnerID,
			EvidenceType: string(result.Metadata.EvidenceType),
			ChunkType:    string(result.Metadata.ChunkType),
			Speaker:      result.Metadata.Speaker,
		}
	}
	return nil, output, nil
}
