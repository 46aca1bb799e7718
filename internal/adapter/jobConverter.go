package adapter

import (
	"fmt"

	"github.com/ammyCodex/DocAI/internal/api"
	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/internal/domain/jobModel"
)

func ToInitJobResponse(id string, sessionId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		SessionId: sessionId,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:         string(job.Status),
		AnswerResponse: toAnswerResponse(job),
		IngestResponse: toIngestResult(job),
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toAnswerResponse(job jobModel.Job) *api.AnswerResponse {
	if job.JobType != jobModel.JobTypeQuery || job.JobPayload.Answer == "" {
		return nil
	}
	return &api.AnswerResponse{
		Question: job.JobPayload.Question,
		Answer:   job.JobPayload.Answer,
		Sources:  job.JobPayload.Sources,
	}
}

func toIngestResult(job jobModel.Job) *api.IngestResult {
	if job.JobType != jobModel.JobTypeProcess || job.Status != jobModel.JobStatusComplete {
		return nil
	}
	return &api.IngestResult{
		Chunks:   job.JobPayload.Chunks,
		Warnings: job.JobPayload.Warnings,
	}
}

func ToHistoryResponse(sessionId string, turns []chatModel.Turn) api.HistoryResponse {
	out := make([]api.HistoryTurn, len(turns))
	for i, turn := range turns {
		out[i] = api.HistoryTurn{
			Question: turn.Question,
			Answer:   turn.Answer,
			UserTime: turn.UserTime,
			BotTime:  turn.BotTime,
		}
	}
	return api.HistoryResponse{SessionId: sessionId, Turns: out}
}

func BadRequest(id string, message string, code int) api.JobResponse {
	return api.JobResponse{
		Id: id,
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}
