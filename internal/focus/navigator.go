// Package focus tracks which sentence of a text is emphasized while the
// reader steps through it one sentence at a time.
package focus

import "strings"

// Unit is one rendered sentence.
type Unit struct {
	Index      int
	Text       string
	Emphasized bool
}

// Navigator holds a sentence sequence and a clamped cursor into it.
// The cursor is meaningful only while the sequence is non-empty.
type Navigator struct {
	tokenizer Tokenizer
	sentences []string
	cursor    int
}

// NewNavigator returns an empty navigator; a nil tokenizer falls back to LineTokenizer.
func NewNavigator(tokenizer Tokenizer) *Navigator {
	if tokenizer == nil {
		tokenizer = LineTokenizer
	}
	return &Navigator{tokenizer: tokenizer}
}

// Initialize replaces the sequence with the sentences of text and moves the
// cursor back to the first one.
func (n *Navigator) Initialize(text string) {
	n.sentences = nil
	n.cursor = 0
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, sentence := range n.tokenizer.Split(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		n.sentences = append(n.sentences, sentence)
	}
}

// Render returns the sentences in order with the cursor sentence emphasized.
func (n *Navigator) Render() []Unit {
	units := make([]Unit, 0, len(n.sentences))
	for idx, sentence := range n.sentences {
		units = append(units, Unit{Index: idx, Text: sentence, Emphasized: idx == n.cursor})
	}
	return units
}

// Previous steps back one sentence. It reports whether the cursor moved.
func (n *Navigator) Previous() bool {
	if len(n.sentences) == 0 || n.cursor == 0 {
		return false
	}
	n.cursor--
	return true
}

// Next steps forward one sentence. It reports whether the cursor moved.
func (n *Navigator) Next() bool {
	if n.cursor >= len(n.sentences)-1 {
		return false
	}
	n.cursor++
	return true
}

// First jumps to the first sentence.
func (n *Navigator) First() bool {
	if len(n.sentences) == 0 || n.cursor == 0 {
		return false
	}
	n.cursor = 0
	return true
}

// Last jumps to the final sentence.
func (n *Navigator) Last() bool {
	last := len(n.sentences) - 1
	if last < 0 || n.cursor == last {
		return false
	}
	n.cursor = last
	return true
}

// Cursor returns the emphasized index; ok is false for an empty sequence.
func (n *Navigator) Cursor() (index int, ok bool) {
	if len(n.sentences) == 0 {
		return 0, false
	}
	return n.cursor, true
}

// Current returns the emphasized sentence.
func (n *Navigator) Current() (string, bool) {
	if len(n.sentences) == 0 {
		return "", false
	}
	return n.sentences[n.cursor], true
}

// Len reports the number of sentences.
func (n *Navigator) Len() int {
	return len(n.sentences)
}

// Sentences returns a copy of the sequence.
func (n *Navigator) Sentences() []string {
	return append([]string(nil), n.sentences...)
}
