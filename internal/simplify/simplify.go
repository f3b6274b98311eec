// Package simplify turns arbitrary text into a dyslexia-friendly rewrite and
// reduces every failure to a displayable Result.
package simplify

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/csheth/readease/internal/llm"
	"github.com/csheth/readease/internal/retry"
)

const (
	// NoResponseMessage is shown when the service answered without usable text.
	NoResponseMessage = "No response from the model."
	errorPrefix       = "Error simplifying text: "
)

// ErrEmptyInput is returned for blank input; no request is made.
var ErrEmptyInput = errors.New("please enter or upload text first")

var errNoClient = errors.New("no LLM client configured")

// DefaultPolicy gives each request a minute and one paced retry on transient failures.
var DefaultPolicy = retry.Policy{
	Attempts: 2,
	Backoff:  2 * time.Second,
	Timeout:  60 * time.Second,
}

// Outcome tags the variant held by a Result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNoResponse
	OutcomeError
)

// Result is either a successful rewrite or a failure carrying its cause.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Success wraps simplified text.
func Success(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

// Failure wraps the error behind an unsuccessful request.
func Failure(err error) Result {
	if errors.Is(err, llm.ErrNoResponse) {
		return Result{Outcome: OutcomeNoResponse, Err: err}
	}
	return Result{Outcome: OutcomeError, Err: err}
}

// OK reports whether the result holds simplified text.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Display returns the text to show the reader: the rewrite, or a sentinel message.
func (r Result) Display() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return r.Text
	case OutcomeNoResponse:
		return NoResponseMessage
	default:
		if r.Err == nil {
			return errorPrefix + "unknown error"
		}
		return errorPrefix + r.Err.Error()
	}
}

// Simplifier sends text to an llm.Client under a retry policy.
type Simplifier struct {
	client llm.Client
	policy retry.Policy
}

// New returns a Simplifier. A nil client yields error results instead of panics.
func New(client llm.Client, policy retry.Policy) *Simplifier {
	return &Simplifier{client: client, policy: policy}
}

// Name describes the backend for status lines.
func (s *Simplifier) Name() string {
	if s == nil || s.client == nil {
		return "LLM unavailable"
	}
	return s.client.Name()
}

// Simplify rewrites text. The only returned error is ErrEmptyInput; every
// service failure is folded into the Result.
func (s *Simplifier) Simplify(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyInput
	}
	if s == nil || s.client == nil {
		return Failure(errNoClient), nil
	}

	var output string
	started := time.Now()
	err := retry.Do(ctx, s.policy, llm.IsTransient, func(ctx context.Context) error {
		var callErr error
		output, callErr = s.client.Simplify(ctx, text)
		if callErr != nil && llm.IsTransient(callErr) {
			log.Printf("[simplify] transient failure from %s: %v", s.client.Name(), callErr)
		}
		return callErr
	})
	log.Printf("[simplify] %s finished (duration=%s, err=%v)", s.client.Name(), time.Since(started), err)
	if err != nil {
		return Failure(err), nil
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return Failure(llm.ErrNoResponse), nil
	}
	return Success(output), nil
}
