// Package session owns the per-reader state: the input text, the latest
// simplification and the focus cursor derived from it.
package session

import (
	"github.com/csheth/readease/internal/focus"
	"github.com/csheth/readease/internal/simplify"
)

// State is owned by one reader session and passed explicitly to the code that
// mutates it.
type State struct {
	Input     string
	Source    string
	Navigator *focus.Navigator

	result    simplify.Result
	hasResult bool
}

// New returns an empty session.
func New(tokenizer focus.Tokenizer) *State {
	return &State{Navigator: focus.NewNavigator(tokenizer)}
}

// Apply replaces the previous result. The navigator is rebuilt from the new
// text and always starts at the first sentence; failed results leave it empty.
func (s *State) Apply(result simplify.Result) {
	s.result = result
	s.hasResult = true
	if result.OK() {
		s.Navigator.Initialize(result.Text)
		return
	}
	s.Navigator.Initialize("")
}

// Result returns the latest simplification, if any.
func (s *State) Result() (simplify.Result, bool) {
	return s.result, s.hasResult
}

// Simplified returns what the reader should see for the latest result.
func (s *State) Simplified() string {
	if !s.hasResult {
		return ""
	}
	return s.result.Display()
}

// Clear drops the result but keeps the input for editing.
func (s *State) Clear() {
	s.result = simplify.Result{}
	s.hasResult = false
	s.Navigator.Initialize("")
}
