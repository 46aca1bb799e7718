package chunk

import (
	"errors"
	"strings"
)

// Split cuts text into overlapping windows of at most chunkSize characters.
// Offsets are counted in runes, not bytes, so a window edge never lands in
// the middle of a multi-byte character. When a window's right edge falls
// strictly inside the text, it is pulled back to just after the last sentence
// end or line break in the window's second half, so chunks tend to end on
// sentence boundaries. The cursor always advances by chunkSize-chunkOverlap,
// which keeps consecutive chunks overlapping and guarantees termination.
//
// Empty or whitespace-only text yields no chunks and no error.
func Split(text string, chunkSize, chunkOverlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if chunkOverlap < 0 {
		return nil, errors.New("chunk overlap must not be negative")
	}
	if chunkOverlap >= chunkSize {
		return nil, errors.New("chunk overlap must be smaller than chunk size")
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil, nil
	}

	stride := chunkSize - chunkOverlap
	var chunks []string

	for start := 0; start < len(runes); start += stride {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			lastBreak := -1
			for i := end - 1; i >= start; i-- {
				if runes[i] == '.' || runes[i] == '\n' {
					lastBreak = i - start
					break
				}
			}

			// only shrink when the boundary is past the window midpoint,
			// otherwise the chunk gets too small to be useful
			if lastBreak > chunkSize/2 {
				end = start + lastBreak + 1
			}
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
	}

	return chunks, nil
}
