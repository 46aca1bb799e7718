package rag

import (
	"context"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/domain/jobModel"
	"github.com/ammyCodex/DocAI/internal/embedding"
	"github.com/ammyCodex/DocAI/internal/llm"
	"github.com/ammyCodex/DocAI/internal/metrics"
	"github.com/ammyCodex/DocAI/internal/session"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Service is the only surface the worker pool sees. It hides the
// provider clients, the per-session index registry and the history store
// behind two job-shaped operations.
type Service interface {
	ProcessQuery(ctx context.Context, job jobModel.Job) jobModel.Job
	ProcessDocuments(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	registry  session.Registry
	sessions  session.Store
	embedder  embedding.Embedder
	generator llm.Generator
	qdrant    *qdrant.Client
	logger    *logger_i.Logger
}

func NewService(registry session.Registry, sessions session.Store, em embedding.Embedder, gen llm.Generator) Service {
	return &service{
		registry:  registry,
		sessions:  sessions,
		embedder:  em,
		generator: gen,
		logger:    logger_i.NewLogger("ragService"),
	}
}

// NewServiceWithQdrant builds session indexes in a Qdrant collection
// instead of the in-process flat index.
func NewServiceWithQdrant(registry session.Registry, sessions session.Store, em embedding.Embedder, gen llm.Generator, qc *qdrant.Client) Service {
	return &service{
		registry:  registry,
		sessions:  sessions,
		embedder:  em,
		generator: gen,
		qdrant:    qc,
		logger:    logger_i.NewLogger("ragService"),
	}
}

// ProcessQuery answers a question against whatever documents the session
// has indexed. A session with no documents still gets an answer, the
// model is just told no context is available.
func (s *service) ProcessQuery(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", traceID(ctx), "jobId", job.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	job.CurrentStep = jobModel.UserQueryInit
	askedAt := time.Now()

	searcher, chunks, _ := s.registry.Get(job.SessionId)

	matches, err := s.executeRetrievalStep(processContext, inMethodLogger, &job, searcher, chunks)
	if err != nil {
		return s.jobError(job, err, "RETRIEVAL_FAILURE", true)
	}
	job.JobPayload.Sources = matches

	answer, err := s.executeLLMStep(processContext, inMethodLogger, &job, matches)
	if err != nil {
		return s.jobError(job, err, "LLM_GENERATION_FAILURE", true)
	}

	if err := s.executePersistStep(inMethodLogger, &job, answer, askedAt); err != nil {
		return s.jobError(job, err, "PERSISTENCE_FAILURE", false)
	}

	return returnOutput(job, answer)
}

// ProcessDocuments runs the full ingestion pipeline and swaps the
// session's index atomically at the end. Files that fail extraction are
// reported as warnings without failing the job; when nothing survives
// extraction the previous index is left in place.
func (s *service) ProcessDocuments(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", traceID(ctx), "jobId", job.Id)

	processContext, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	job.CurrentStep = jobModel.ProcessInit

	text := s.executeExtractionStep(inMethodLogger, &job)

	chunks, err := s.executeChunkingStep(inMethodLogger, &job, text)
	if err != nil {
		return s.jobError(job, err, "CHUNKING_FAILURE", false)
	}
	if len(chunks) == 0 {
		inMethodLogger.Warn("no text extracted from uploaded files", "warnings", len(job.JobPayload.Warnings))
		job.JobPayload.Chunks = 0
		return returnOutput(job, "")
	}

	vectors, err := s.executeEmbeddingStep(processContext, inMethodLogger, &job, chunks)
	if err != nil {
		return s.jobError(job, err, "EMBEDDING_FAILURE", true)
	}

	searcher, err := s.executeIndexBuildStep(processContext, inMethodLogger, &job, vectors)
	if err != nil {
		return s.jobError(job, err, "INDEX_FAILURE", true)
	}

	job = logOutput(job, jobModel.PersistenceCall, inMethodLogger)
	s.registry.Publish(processContext, job.SessionId, searcher, chunks)

	job.JobPayload.Chunks = len(chunks)
	metrics.AddChunksIndexed(len(chunks))
	inMethodLogger.Info("session index rebuilt", "sessionId", job.SessionId, "chunks", len(chunks))

	return returnOutput(job, "")
}

func traceID(ctx context.Context) string {
	if id, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return id
	}
	return ""
}
