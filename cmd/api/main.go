// @title           Evidence Hybrid Search API
// @version         1.0
// @description     This API indexes legal evidence and serves hybrid keyword/vector search over it
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/data/redisStore"
	"github.com/veridex/evidenceAPI/internal/data/store"
	jobmodel "github.com/veridex/evidenceAPI/internal/domain/jobModel"
	"github.com/veridex/evidenceAPI/internal/handlers"
	"github.com/veridex/evidenceAPI/internal/job"
	"github.com/veridex/evidenceAPI/internal/search"
	"github.com/veridex/evidenceAPI/internal/search/chunker"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
	"github.com/veridex/evidenceAPI/internal/search/embedding/googleEmbedding"
	"github.com/veridex/evidenceAPI/internal/search/embedding/openaiEmbedding"
	"github.com/veridex/evidenceAPI/internal/search/hybrid"
	"github.com/veridex/evidenceAPI/internal/search/indexer"
	"github.com/veridex/evidenceAPI/internal/search/keywordDB/redisearchDB"
	"github.com/veridex/evidenceAPI/internal/search/vectorDB/qdrantDB"
	"github.com/veridex/evidenceAPI/internal/server"
	"github.com/veridex/evidenceAPI/internal/worker"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job and receipt stores, redis first with an in-memory fallback
	//nil checks happen on the concrete pointers, not through the interface
	var jobStore jobmodel.JobStore
	var receiptStore jobmodel.ReceiptStore
	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisReceiptStore := store.GetRedisReceiptStore(serviceContext)
	if redisJobStore == nil || redisReceiptStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline. Shutting down.")
			return
		}
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		jobStore = store.InitInMemoryJobStore()
		receiptStore = store.InitInMemoryReceiptStore()
	} else {
		jobStore = redisJobStore
		receiptStore = redisReceiptStore
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})

	vectorStore, err := qdrantDB.New()
	if err != nil {
		logger.Error("Vector store failed to initialize. Shutting down.", "err", err)
		return
	}

	keywordRedis := redisStore.GetRedisStore(serviceContext, config.RedisKeywordStore)
	if keywordRedis == nil {
		logger.Error("Keyword store redis is offline. Shutting down.")
		return
	}
	keywordStore := redisearchDB.New(keywordRedis)

	var dense embedding.DenseProvider
	if config.EmbeddingProvider == "openai" {
		dense = openaiEmbedding.New(config.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	} else {
		dense, err = googleEmbedding.New(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
		if err != nil {
			logger.Error("Embedding client failed to initialize. Shutting down.", "err", err)
			return
		}
	}
	embedder := embedding.NewManager(dense, embedding.NewHashSparseEncoder(config.SparseVectorDimension))

	//both stores get their schemas before anything is written
	if err := vectorStore.EnsureCollections(serviceContext); err != nil {
		logger.Error("Could not ensure vector collections. Shutting down.", "err", err)
		return
	}
	if err := keywordStore.EnsureIndexes(serviceContext); err != nil {
		logger.Error("Could not ensure keyword indexes. Shutting down.", "err", err)
		return
	}

	searchService := search.NewService(
		chunker.New(chunker.DefaultOptions()),
		indexer.New(embedder, vectorStore, keywordStore),
		hybrid.NewEngine(embedder, vectorStore, keywordStore),
		receiptStore,
	)

	handlers.InitJobHandler(service, searchService)

	//init worker pool
	worker.InitServices(service, searchService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
