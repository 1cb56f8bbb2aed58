package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// defaultSubject is used when no subject line can be extracted from
// generated content.
const defaultSubject = "Important Notice"

// defaultBody is used when the generated content has no body lines.
const defaultBody = "Please review the attached information."

// TextProcessor provides utilities for processing LLM-generated email text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// ParseGeneratedEmail splits raw generated content into subject and body.
// It looks for a "Subject:" line; failing that, the first line is taken as
// the subject. Both fields fall back to defaults when empty.
func (tp *TextProcessor) ParseGeneratedEmail(content string) (subject, body string) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	var bodyLines []string
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) >= len("Subject:") && strings.EqualFold(line[:len("Subject:")], "Subject:") {
			subject = strings.TrimSpace(line[len("Subject:"):])
			bodyLines = nonEmptyTrimmed(lines[i+1:])
			break
		}
		if i == 0 {
			subject = line
			bodyLines = nonEmptyTrimmed(lines[1:])
			break
		}
	}

	if subject == "" {
		subject = defaultSubject
	}
	body = strings.Join(bodyLines, "\n")
	if body == "" {
		body = defaultBody
	}
	return subject, body
}

func nonEmptyTrimmed(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}
