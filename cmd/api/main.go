package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/data/store"
	jobmodel "github.com/ammyCodex/DocAI/internal/domain/jobModel"
	"github.com/ammyCodex/DocAI/internal/embedding"
	cohereEmbedding "github.com/ammyCodex/DocAI/internal/embedding/cohere"
	"github.com/ammyCodex/DocAI/internal/embedding/google"
	openaiEmbedding "github.com/ammyCodex/DocAI/internal/embedding/openai"
	"github.com/ammyCodex/DocAI/internal/handlers"
	"github.com/ammyCodex/DocAI/internal/job"
	"github.com/ammyCodex/DocAI/internal/llm"
	cohereLLM "github.com/ammyCodex/DocAI/internal/llm/cohere"
	"github.com/ammyCodex/DocAI/internal/llm/gemini"
	openaiLLM "github.com/ammyCodex/DocAI/internal/llm/openai"
	"github.com/ammyCodex/DocAI/internal/rag"
	"github.com/ammyCodex/DocAI/internal/server"
	"github.com/ammyCodex/DocAI/internal/session"
	"github.com/ammyCodex/DocAI/internal/worker"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	_ = godotenv.Load()

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

	sessions, err := session.NewStore(config.SessionRoot(), config.MaxHistoryTurns)
	if err != nil {
		logger.Error("Could not open session store", "error", err)
		return
	}
	registry := session.NewRegistry()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		Sessions:          sessions,
		Registry:          registry,
	}
	logger.Info("Starting job service")

	if redisStore := store.GetRedisJobStore(serviceContext); redisStore != nil {
		serviceConfig.JobStore = redisStore
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	embedder, generator := initProviders(serviceContext, logger)
	if embedder == nil || generator == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "Embedder", embedder != nil, "Generator", generator != nil)
		return
	}

	ragService := rag.NewService(registry, sessions, embedder, generator)
	if host := config.QdrantHost(); host != "" {
		qdrantClient, err := qdrant.NewClient(&qdrant.Config{
			Host:   host,
			Port:   config.QdrantGrpcPort,
			UseTLS: config.QdrantUseTLS,
		})
		if err != nil {
			logger.Error("Qdrant init failed, staying on the flat index", "error", err)
		} else {
			ragService = rag.NewServiceWithQdrant(registry, sessions, embedder, generator, qdrantClient)
			logger.Info("Using Qdrant index backend")
		}
	}

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	go reapSessions(serviceContext, sessions, logger)

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

// initProviders prefers Cohere, then Gemini, then OpenAI, depending on which
// API key is configured.
func initProviders(ctx context.Context, logger *logger_i.Logger) (embedding.Embedder, llm.Generator) {
	if key := config.CohereAPIKey(); key != "" {
		embedder, err := cohereEmbedding.NewClient(cohereEmbedding.Config{APIKey: key})
		if err != nil {
			logger.Error("Cohere embedder init failed", "error", err)
			return nil, nil
		}
		generator, err := cohereLLM.NewClient(cohereLLM.Config{APIKey: key})
		if err != nil {
			logger.Error("Cohere generator init failed", "error", err)
			return nil, nil
		}
		logger.Info("Using Cohere providers")
		return embedder, generator
	}

	if key := config.GoogleAPIKey(); key != "" {
		embedder := google.GetGoogleEmbeddingClient(ctx, config.GoogleEmbedModel, key)
		generator := gemini.GetGeminiClient(ctx, config.GeminiModel, key)
		if embedder == nil || generator == nil {
			return nil, nil
		}
		logger.Info("Using Google providers")
		return embedder, generator
	}

	if os.Getenv("OPENAI_API_KEY") != "" {
		embedder, err := openaiEmbedding.NewClient()
		if err != nil {
			logger.Error("OpenAI embedder init failed", "error", err)
			return nil, nil
		}
		generator, err := openaiLLM.NewClient()
		if err != nil {
			logger.Error("OpenAI generator init failed", "error", err)
			return nil, nil
		}
		logger.Info("Using OpenAI providers")
		return embedder, generator
	}

	logger.Error("No provider API key configured, set COHERE_API_KEY, GOOGLE_API_KEY or OPENAI_API_KEY")
	return nil, nil
}

// reapSessions deletes sessions past the retention window on a fixed
// interval until shutdown.
func reapSessions(ctx context.Context, sessions session.Store, logger *logger_i.Logger) {
	maxAge := time.Duration(config.RetentionDays) * 24 * time.Hour
	ticker := time.NewTicker(config.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := sessions.ReapExpired(maxAge)
			logger.Debug("Session reaper pass complete", "removed", removed)
		}
	}
}
