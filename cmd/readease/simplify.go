package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/readease/internal/document"
	"github.com/csheth/readease/internal/export"
	"github.com/csheth/readease/internal/fontcache"
	"github.com/csheth/readease/internal/session"
)

var errSimplifyFailed = errors.New("simplification failed")

func newSimplifyCmd(opts *rootOptions) *cobra.Command {
	var htmlPath string
	var noFont bool
	cmd := &cobra.Command{
		Use:   "simplify [file|-]",
		Short: "Simplify a text or PDF file and print the focus sentences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			text, err := readInput(source, cmd.InOrStdin(), opts.maxPages)
			if err != nil {
				return err
			}
			simplifier, err := newSimplifier(cmd.Context(), opts.v)
			if err != nil {
				return err
			}

			state := session.New(sentenceTokenizer())
			state.Input = text
			if source != "-" {
				state.Source = source
			}
			res, err := simplifier.Simplify(cmd.Context(), text)
			if err != nil {
				return err
			}
			state.Apply(res)

			out := cmd.OutOrStdout()
			writeSession(out, state)
			if !res.OK() {
				return errSimplifyFailed
			}
			if htmlPath == "" {
				return nil
			}
			page := export.Page{
				Title:      "ReadEase",
				Simplified: state.Simplified(),
				Units:      state.Navigator.Render(),
			}
			if state.Source != "" {
				page.Title = "ReadEase · " + filepath.Base(state.Source)
			}
			if !noFont {
				page.FontPath = ensureFont(cmd)
			}
			if err := export.WriteFile(htmlPath, page); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", htmlPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlPath, "html", "", "also write an HTML reading view to this path")
	cmd.Flags().BoolVar(&noFont, "no-font", false, "skip the OpenDyslexic download for --html")
	return cmd
}

func newFontCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "font",
		Short: "Download the OpenDyslexic font into the cache and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := fontcache.Default()
			if err != nil {
				return err
			}
			path, err := cache.Ensure(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// ensureFont returns the cached font path, or "" when it cannot be fetched.
func ensureFont(cmd *cobra.Command) string {
	cache, err := fontcache.Default()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "font cache unavailable:", err)
		return ""
	}
	path, err := cache.Ensure(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "font unavailable, using Arial:", err)
		return ""
	}
	return path
}

// readInput loads plain text or, for PDF content, the text of its first pages.
func readInput(source string, stdin io.Reader, maxPages int) (string, error) {
	var data []byte
	var err error
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) || strings.EqualFold(filepath.Ext(source), ".pdf") {
		extraction, err := document.Extract(data, maxPages)
		if err != nil {
			return "", err
		}
		return extraction.Text, nil
	}
	return string(data), nil
}

func writeSession(w io.Writer, state *session.State) {
	fmt.Fprintln(w, state.Simplified())
	units := state.Navigator.Render()
	if len(units) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Focus sentences:")
	for _, unit := range units {
		fmt.Fprintf(w, "%3d. %s\n", unit.Index+1, unit.Text)
	}
}
