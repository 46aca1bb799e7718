package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Extraction")

// Text flattens an ordered batch of staged documents into one plain-text
// stream. A file that cannot be read or has an unsupported extension becomes
// a warning and the batch continues; the result is empty only when every file
// was skipped.
func Text(files []chatModel.DocumentFile) (string, []string) {
	var out strings.Builder
	var warnings []string

	for _, file := range files {
		switch docType(file.Name) {
		case chatModel.PDF:
			pages, err := extractPDF(file.Path)
			if err != nil {
				logger.Warn("Skipping unreadable pdf", "file", file.Name, "error", err)
				warnings = append(warnings, fmt.Sprintf("failed to read %s: %v", file.Name, err))
				continue
			}
			for _, page := range pages {
				if strings.TrimSpace(page.Content) == "" {
					continue
				}
				fmt.Fprintf(&out, "[Page %d]\n%s\n", page.Number, page.Content)
			}

		case chatModel.DOCX:
			text, err := extractDocLike(file.Path)
			if err != nil {
				logger.Warn("Skipping unreadable document", "file", file.Name, "error", err)
				warnings = append(warnings, fmt.Sprintf("failed to read %s: %v", file.Name, err))
				continue
			}
			for _, paragraph := range strings.Split(text, "\n") {
				if strings.TrimSpace(paragraph) == "" {
					continue
				}
				out.WriteString(paragraph)
				out.WriteString("\n")
			}

		default:
			logger.Warn("Unsupported file type", "file", file.Name)
			warnings = append(warnings, fmt.Sprintf("unsupported file type: %s", file.Name))
		}
	}

	return out.String(), warnings
}

func docType(name string) chatModel.DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return chatModel.PDF
	case ".docx", ".txt", ".rtf", ".odt":
		return chatModel.DOCX
	default:
		return chatModel.ERR
	}
}
