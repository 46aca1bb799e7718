package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ammyCodex/DocAI/internal/adapter"
	"github.com/ammyCodex/DocAI/internal/adapter/utils"
	"github.com/ammyCodex/DocAI/internal/api"
	"github.com/ammyCodex/DocAI/internal/config"
	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/internal/domain/jobModel"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id        string
	sessionId string
	question  string
	traceId   string
	jobType   jobModel.JobType
	files     []chatModel.DocumentFile
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler accepts a question, queues a query job against the
// session's indexed documents and returns the job id to poll.
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Chat handler reader :", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || strings.TrimSpace(requestData.Question) == "" {
		logRH.Warn("Bad Chat Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionID, "Bad Request")
		return
	}

	sessionId := requestData.SessionID
	if sessionId == "" {
		sessionId = handlerInstance.service.Sessions.NewSessionID()
		logRH.Debug("New session started", "sessionId", sessionId)
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		sessionId: sessionId,
		question:  requestData.Question,
		traceId:   traceFromContext(request.Context()),
		jobType:   jobModel.JobTypeQuery,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, sessionId))
}

// PostDocumentsHandler receives one or more files via multipart/form-data,
// stages them on disk and queues an ingestion job that rebuilds the
// session's index.
func PostDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	sessionId := r.FormValue("session_id")
	if sessionId == "" {
		sessionId = handlerInstance.service.Sessions.NewSessionID()
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["documents"]) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "at least one document is required")
		return
	}

	var staged []chatModel.DocumentFile
	for _, header := range r.MultipartForm.File["documents"] {
		path, err := stageUpload(targetDir, header.Filename, header)
		if err != nil {
			logRH.Error("Staging upload failed", "file", header.Filename, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, sessionId, "Storage error")
			return
		}
		staged = append(staged, chatModel.DocumentFile{Name: header.Filename, Path: path})
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		sessionId: sessionId,
		traceId:   traceFromContext(r.Context()),
		jobType:   jobModel.JobTypeProcess,
		files:     staged,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, sessionId))
}

func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)

	result, isFound := validateId(idString, traceFromContext(r.Context()))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetHistoryHandler returns the retained turns for a session, oldest first.
// An unknown session returns an empty list rather than an error.
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	sessionId := utils.GetChiURLParam(r, "sessionID")
	if sessionId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "session id is required")
		return
	}

	limit := config.MaxHistoryTurns
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteErrorResponse(w, http.StatusBadRequest, sessionId, "n must be a positive integer")
			return
		}
		limit = n
	}

	turns, err := handlerInstance.service.Sessions.LoadRecent(sessionId, limit)
	if err != nil {
		logRH.Error("Loading history failed", "sessionId", sessionId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, sessionId, "Storage error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(sessionId, turns))
}

// DeleteSessionHandler drops the session's index and history. Deleting a
// session that never existed still returns 204.
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	sessionId := utils.GetChiURLParam(r, "sessionID")
	if sessionId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "session id is required")
		return
	}

	handlerInstance.service.Registry.Drop(r.Context(), sessionId)
	if err := handlerInstance.service.Sessions.Clear(sessionId); err != nil {
		logRH.Error("Clearing session failed", "sessionId", sessionId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, sessionId, "Storage error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func traceFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return id
	}
	return ""
}

func stageUpload(targetDir string, name string, header *multipart.FileHeader) (string, error) {
	fileReader, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(name))
	tempFilePath := filepath.Join(targetDir, filename)
	destination, err := os.Create(tempFilePath)
	if err != nil {
		return "", fmt.Errorf("creating staged file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, fileReader); err != nil {
		return "", fmt.Errorf("writing staged file: %w", err)
	}
	return tempFilePath, nil
}
