package llm

import "strings"

// SystemPrompt is sent ahead of every user text.
const SystemPrompt = "You are ReadEase, an assistant that rewrites text for dyslexic readers. " +
	"Use short, simple sentences (under 12 words). " +
	"Include a one-line summary labeled 'Summary:'."

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func prepareInput(text string) (string, error) {
	input := clipText(text, maxSimplifyChars)
	if input == "" {
		return "", ErrEmptyInput
	}
	return input, nil
}
