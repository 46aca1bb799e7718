package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ammyCodex/DocAI/internal/api"
	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/internal/domain/jobModel"
	"github.com/ammyCodex/DocAI/internal/job"
)

// stubSessionStore counts minted ids so tests can assert a rejected request
// never touched the session layer.
type stubSessionStore struct {
	minted int32
}

func (s *stubSessionStore) NewSessionID() string {
	atomic.AddInt32(&s.minted, 1)
	return "session-test"
}
func (s *stubSessionStore) AppendTurn(string, chatModel.Turn) error          { return nil }
func (s *stubSessionStore) LoadRecent(string, int) ([]chatModel.Turn, error) { return nil, nil }
func (s *stubSessionStore) Clear(string) error                               { return nil }
func (s *stubSessionStore) ReapExpired(time.Duration) int                    { return 0 }

func newTestJobService() (*job.Service, *stubSessionStore) {
	sessions := &stubSessionStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		Sessions:          sessions,
	}
	InitJobHandler(jobSvc)
	handlerInstance.service = jobSvc
	return jobSvc, sessions
}

func postChat(t *testing.T, body api.ChatRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	ChatHandler(rec, req)
	return rec
}

func TestChatHandler_BlankQuestionRejected(t *testing.T) {
	jobSvc, sessions := newTestJobService()

	for _, question := range []string{"", "   ", "\n\t "} {
		rec := postChat(t, api.ChatRequest{Question: question})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("question %q: status got %d, want %d", question, rec.Code, http.StatusBadRequest)
		}
	}

	select {
	case queued := <-jobSvc.JobChannel:
		t.Errorf("blank question queued job %s", queued.Id)
	default:
	}
	if minted := atomic.LoadInt32(&sessions.minted); minted != 0 {
		t.Errorf("blank question minted %d session ids", minted)
	}
}

func TestChatHandler_QueuesQueryJob(t *testing.T) {
	jobSvc, _ := newTestJobService()

	rec := postChat(t, api.ChatRequest{Question: "what is the refund policy?"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusAccepted)
	}

	var resp api.InitJobResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionId != "session-test" {
		t.Errorf("session id got %q, want minted id", resp.SessionId)
	}

	select {
	case queued := <-jobSvc.JobChannel:
		if queued.JobType != jobModel.JobTypeQuery {
			t.Errorf("job type got %v, want %v", queued.JobType, jobModel.JobTypeQuery)
		}
		if queued.JobPayload.Question != "what is the refund policy?" {
			t.Errorf("question got %q", queued.JobPayload.Question)
		}
	default:
		t.Fatal("expected a queued job")
	}
}
