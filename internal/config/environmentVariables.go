package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = false //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//chunking token budgets (whitespace tokens, not model tokens)
	SummaryTokenBudget    = 2000
	SummaryOverlapWords   = 50
	SectionTokenBudget    = 500
	MicroblockTokenBudget = 128
	MicroblockOverlap     = true

	//hybrid search
	RRFRankConstant       = 60
	DefaultTopK           = 10
	MaxTopK               = 100
	HighlightMaxSnippets  = 3
	HighlightWindowWords  = 12
	SparseVectorDimension = 100000

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	//IdleWorkerTimeout = 1 * time.Second //fo tests

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//per-operation timeouts
	IndexJobTimeout    = 5 * time.Minute
	SearchCallTimeout  = 30 * time.Second
	ExtractPageTimeout = 10 * time.Second

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//one collection per evidence type
	DocumentsCollection      = "evidence_documents"
	TranscriptsCollection    = "evidence_transcripts"
	CommunicationsCollection = "evidence_communications"

	//keyword store (RediSearch) - index name and key prefix per evidence type
	KeywordIndexPrefix = "idx:evidence:"
	KeywordKeyPrefix   = "evidence:"

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	EmbeddingBatchSize   = 100

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DBs we can use
	//RediSearch indexes only live on DB 0, so the keyword store owns it
	RedisKeywordStore = 0
	RedisJobStore     = 1
	RedisReceiptStore = 2

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)

// env-sourced values, read once at startup; the consts above are the dev fallbacks
var (
	AuthToken             = getEnv("AUTH_TOKEN", "")
	NoAuthBypass          = AuthToken == "" //empty token means local dev, skip auth
	RedisPassword         = getEnv("REDIS_PASSWORD", "")
	GoogleEmbeddingAPIKey = getEnv("GEMINI_API_KEY", "")
	OpenAIAPIKey          = getEnv("OPENAI_API_KEY", "")

	//"google" or "openai"
	EmbeddingProvider = getEnv("EMBEDDING_PROVIDER", "google")
)

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
