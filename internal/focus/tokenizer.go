package focus

import (
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Tokenizer splits text into sentences in order of appearance.
type Tokenizer interface {
	Split(text string) []string
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(text string) []string

// Split implements Tokenizer.
func (f TokenizerFunc) Split(text string) []string { return f(text) }

type punktTokenizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func (p *punktTokenizer) Split(text string) []string {
	tokens := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, token.Text)
	}
	return out
}

var (
	punktOnce sync.Once
	punkt     Tokenizer
	punktErr  error
)

// DefaultTokenizer returns the English Punkt tokenizer. The training data is
// decoded once per process.
func DefaultTokenizer() (Tokenizer, error) {
	punktOnce.Do(func() {
		tokenizer, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			punktErr = fmt.Errorf("load english punkt model: %w", err)
			return
		}
		punkt = &punktTokenizer{tokenizer: tokenizer}
	})
	return punkt, punktErr
}

// LineTokenizer treats each non-empty line as one sentence. It backs the
// navigator when the Punkt model cannot be loaded.
var LineTokenizer = TokenizerFunc(func(text string) []string {
	return strings.Split(text, "\n")
})
