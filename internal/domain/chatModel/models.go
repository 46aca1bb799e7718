package chatModel

import (
	"time"

	"github.com/ammyCodex/DocAI/internal/config"
)

// Turn is one question/answer exchange owned by a session. The time fields
// carry the same formatted layout the store writes to disk.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	UserTime string `json:"user_time"`
	BotTime  string `json:"bot_time"`
}

func NewTurn(question, answer string, askedAt, answeredAt time.Time) Turn {
	return Turn{
		Question: question,
		Answer:   answer,
		UserTime: askedAt.Format(config.TurnTimeLayout),
		BotTime:  answeredAt.Format(config.TurnTimeLayout),
	}
}

// DocumentFile is one staged upload. Name decides the format, Path points at
// the staged bytes on disk.
type DocumentFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)
