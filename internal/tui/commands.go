package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/readease/internal/document"
	"github.com/csheth/readease/internal/export"
	"github.com/csheth/readease/internal/fontcache"
	"github.com/csheth/readease/internal/simplify"
)

type simplifyResultMsg struct {
	result simplify.Result
	err    error
}

type pdfResultMsg struct {
	path       string
	extraction *document.Extraction
	err        error
}

type fontResultMsg struct {
	path string
	err  error
}

type exportResultMsg struct {
	path string
	err  error
}

var errNoSimplifier = errors.New("no language model configured")

func simplifyJob(simplifier *simplify.Simplifier, text string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if simplifier == nil {
			res := simplify.Failure(errNoSimplifier)
			return simplifyResultMsg{result: res}, errNoSimplifier
		}
		res, err := simplifier.Simplify(ctx, text)
		if err != nil {
			return simplifyResultMsg{result: res, err: err}, err
		}
		return simplifyResultMsg{result: res}, res.Err
	}
}

func pdfJob(path string, maxPages int) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		path = strings.TrimSpace(path)
		if path == "" {
			err := errors.New("no PDF path given")
			return pdfResultMsg{err: err}, err
		}
		extraction, err := document.ExtractFile(path, maxPages)
		return pdfResultMsg{path: path, extraction: extraction, err: err}, err
	}
}

func fontJob(cache *fontcache.Cache) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		path, err := cache.Ensure(ctx)
		return fontResultMsg{path: path, err: err}, err
	}
}

// exportJob makes a best effort to embed the font; a failed download still
// produces a readable page with the fallback typeface.
func exportJob(cache *fontcache.Cache, path string, page export.Page) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if page.FontPath == "" && cache != nil {
			if fontPath, err := cache.Ensure(ctx); err == nil {
				page.FontPath = fontPath
			}
		}
		if err := export.WriteFile(path, page); err != nil {
			err = fmt.Errorf("export %s: %w", path, err)
			return exportResultMsg{path: path, err: err}, err
		}
		return exportResultMsg{path: path}, nil
	}
}
