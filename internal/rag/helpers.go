package rag

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ammyCodex/DocAI/internal/chunk"
	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/internal/domain/jobModel"
	"github.com/ammyCodex/DocAI/internal/extract"
	"github.com/ammyCodex/DocAI/internal/index"
	"github.com/ammyCodex/DocAI/internal/metrics"
	"github.com/ammyCodex/DocAI/internal/retrieve"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("pipeline step", "currentStep", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, searcher index.Searcher, chunks []string) ([]string, error) {
	*job = logOutput(*job, jobModel.IndexSearch, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	return retrieve.Chunks(ctx, searcher, chunks, job.JobPayload.Question, s.embedder, config.TopK)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, matches []string) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.generator.Generate(ctx, job.JobPayload.Question, strings.Join(matches, "\n\n"))
}

func (s *service) executePersistStep(log *logger_i.Logger, job *jobModel.Job, answer string, askedAt time.Time) error {
	*job = logOutput(*job, jobModel.PersistenceCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("persistence", time.Since(start)) }()

	turn := chatModel.NewTurn(job.JobPayload.Question, answer, askedAt, time.Now())
	return s.sessions.AppendTurn(job.SessionId, turn)
}

func (s *service) executeExtractionStep(log *logger_i.Logger, job *jobModel.Job) string {
	*job = logOutput(*job, jobModel.Extraction, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	text, warnings := extract.Text(job.JobPayload.Files)
	job.JobPayload.Warnings = warnings
	return text
}

func (s *service) executeChunkingStep(log *logger_i.Logger, job *jobModel.Job, text string) ([]string, error) {
	*job = logOutput(*job, jobModel.Chunking, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunking", time.Since(start)) }()

	return chunk.Split(text, config.ChunkSize, config.ChunkOverlap)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []string) ([][]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.EmbedDocuments(ctx, chunks)
}

func (s *service) executeIndexBuildStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, vectors [][]float32) (index.Searcher, error) {
	*job = logOutput(*job, jobModel.IndexBuild, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_build", time.Since(start)) }()

	if s.qdrant != nil {
		return index.NewQdrant(ctx, s.qdrant, "session_"+job.SessionId, vectors)
	}
	return index.NewFlat(vectors)
}
