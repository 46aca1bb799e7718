package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"session_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type AnswerResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type IngestResult struct {
	Chunks   int      `json:"chunks"`
	Warnings []string `json:"warnings,omitempty"`
}

type Result struct {
	Status         string          `json:"status"`
	AnswerResponse *AnswerResponse `json:"answer,omitempty"`
	IngestResponse *IngestResult   `json:"ingest,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	SessionId string `json:"session_id"`
	StatusURL string `json:"status_url"`
}

type HistoryResponse struct {
	SessionId string        `json:"session_id"`
	Turns     []HistoryTurn `json:"turns"`
}

type HistoryTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	UserTime string `json:"user_time"`
	BotTime  string `json:"bot_time"`
}

// requests---------------------

type ChatRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionID string `json:"sessionID,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
