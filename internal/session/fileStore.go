package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Store persists a rolling window of conversation turns per session on disk.
// Each session owns a directory under root holding a single history.json file
// with a JSON array of turns, oldest first.
type Store interface {
	NewSessionID() string
	AppendTurn(sessionID string, turn chatModel.Turn) error
	LoadRecent(sessionID string, n int) ([]chatModel.Turn, error)
	Clear(sessionID string) error
	ReapExpired(maxAge time.Duration) int
}

type fileStore struct {
	root     string
	maxTurns int
	mu       sync.Mutex
	logger   *logger_i.Logger
}

const historyFileName = "history.json"

func NewStore(root string, maxTurns int) (Store, error) {
	if maxTurns <= 0 {
		return nil, fmt.Errorf("maxTurns must be positive, got %d", maxTurns)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating session root %s: %w", root, err)
	}
	return &fileStore{
		root:     root,
		maxTurns: maxTurns,
		logger:   logger_i.NewLogger("sessionStore"),
	}, nil
}

func (s *fileStore) NewSessionID() string {
	return uuid.NewString()
}

func (s *fileStore) historyPath(sessionID string) string {
	return filepath.Join(s.root, sessionID, historyFileName)
}

// load returns the stored turns for a session, treating a missing or
// unreadable file as an empty history.
func (s *fileStore) load(sessionID string) []chatModel.Turn {
	data, err := os.ReadFile(s.historyPath(sessionID))
	if err != nil {
		return nil
	}
	var turns []chatModel.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		s.logger.Warn("discarding corrupt history file", "sessionId", sessionID, "error", err)
		return nil
	}
	return turns
}

func (s *fileStore) AppendTurn(sessionID string, turn chatModel.Turn) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.load(sessionID), turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}

	dir := filepath.Join(s.root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	// Write to a temp file in the same directory, then rename, so a
	// crash mid-write never leaves a truncated history behind.
	tmp, err := os.CreateTemp(dir, historyFileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.historyPath(sessionID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

func (s *fileStore) LoadRecent(sessionID string, n int) ([]chatModel.Turn, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.load(sessionID)
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns, nil
}

// Clear removes all stored state for a session. Clearing a session that
// does not exist is not an error.
func (s *fileStore) Clear(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(s.root, sessionID)); err != nil {
		return fmt.Errorf("removing session directory: %w", err)
	}
	return nil
}

// ReapExpired deletes session directories whose last modification is older
// than maxAge and reports how many were removed. Failures on individual
// directories are logged and skipped.
func (s *fileStore) ReapExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.Warn("listing session root failed", "error", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			s.logger.Warn("removing expired session failed", "sessionId", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("reaped expired sessions", "count", removed)
	}
	return removed
}
