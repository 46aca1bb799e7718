package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking - 50% overlap keeps semantic context across chunk borders
	ChunkSize    = 600
	ChunkOverlap = 300

	//retrieval
	TopK           = 3
	EmbedBatchSize = 10

	//session history
	MaxHistoryTurns  = 10
	RetentionDays    = 10
	ReapInterval     = 6 * time.Hour
	TurnTimeLayout   = "2006-01-02 15:04:05"
	SessionDirPrefix = "sessions"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//embedding providers
	CohereBaseURL    = "https://api.cohere.com/v1"
	CohereEmbedModel = "embed-english-v3.0"
	GoogleEmbedModel = "gemini-embedding-001"
	OpenAIEmbedModel = "text-embedding-3-small"

	//generation providers
	CohereGenModel  = "command-r-plus"
	GeminiModel     = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIChatModel = "gpt-4o-mini"

	MaxAnswerTokens          = 64
	ModelTemperature float32 = 0.2

	//grounding instruction sent ahead of every prompt
	GroundingInstruction = "Answer using only the supplied context. " +
		"If the answer is not present in the context, say that it is not available in the provided documents."

	//qdrant index backend (optional, flat in-memory index is the default)
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour
	RedisPassword    = ""

	NoAuthBypass = true //flip when a real token is provisioned
	AuthToken    = ""
)

// CohereAPIKey and friends come from the environment; godotenv loads a local
// .env in dev.
func CohereAPIKey() string { return os.Getenv("COHERE_API_KEY") }

func GoogleAPIKey() string { return os.Getenv("GOOGLE_API_KEY") }

// QdrantHost enables the Qdrant index backend when set.
func QdrantHost() string { return os.Getenv("QDRANT_HOST") }

// SessionRoot is where per-session history directories live.
func SessionRoot() string {
	if root := os.Getenv("SESSION_ROOT"); root != "" {
		return root
	}
	return SessionDirPrefix
}
