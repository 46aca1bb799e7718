package jobModel

import (
	"context"
	"time"

	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit    InternalStatus = "Init"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	IndexSearch      InternalStatus = "IndexSearch"
	LLMCall          InternalStatus = "LLM"
	PersistenceCall  InternalStatus = "Persistence"

	ProcessInit  InternalStatus = "ProcessInit"
	Extraction   InternalStatus = "Extraction"
	Chunking     InternalStatus = "Chunking"
	IndexBuild   InternalStatus = "IndexBuild"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery   JobType = "Query"
	JobTypeProcess JobType = "ProcessDocuments"
)

type Job struct {
	Id          string         `json:"id"`
	SessionId   string         `json:"session_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	// document processing
	Files    []chatModel.DocumentFile `json:"files,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Chunks   int                      `json:"chunks,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
