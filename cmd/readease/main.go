package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csheth/readease/internal/config"
	"github.com/csheth/readease/internal/document"
	"github.com/csheth/readease/internal/focus"
	"github.com/csheth/readease/internal/fontcache"
	"github.com/csheth/readease/internal/llm"
	"github.com/csheth/readease/internal/simplify"
	"github.com/csheth/readease/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "readease:", err)
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, config.Remediation)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	v           *viper.Viper
	pdfPath     string
	exportPath  string
	logFile     string
	maxPages    int
	noAltScreen bool

	closeLog func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.New()}
	root := &cobra.Command{
		Use:           "readease",
		Short:         "Dyslexia-friendly text simplifier with a sentence focus reader",
		Long:          "ReadEase rewrites text into short, simple sentences and lets you read them one at a time.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyProvider, string(llm.ProviderOpenAI), "LLM backend: openai, gemini or ollama")
	flags.String(config.KeyModel, "", "model name (default "+llm.DefaultModel+")")
	flags.String(config.KeyEndpoint, "", "override the API base URL or Ollama host")
	flags.String(config.KeySecrets, "", "path to a secrets.toml holding "+config.APIKeyEnv)
	flags.StringVar(&opts.logFile, "log-file", "", "append debug logs to this file")
	flags.IntVar(&opts.maxPages, "max-pages", document.DefaultMaxPages, "PDF pages to read")
	bindFlags(opts.v, flags, config.KeyProvider, config.KeyModel, config.KeyEndpoint, config.KeySecrets)

	root.Flags().StringVar(&opts.pdfPath, "pdf", "", "load this PDF into the editor on start")
	root.Flags().StringVar(&opts.exportPath, "export", "readease.html", "where x writes the HTML reading view")
	root.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(newSimplifyCmd(opts), newFontCmd())
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", key, err))
		}
	}
}

// setupLogging keeps log output away from the terminal the UI draws on.
func (o *rootOptions) setupLogging() error {
	if o.logFile == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(o.logFile, "readease")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	o.closeLog = f.Close
	return nil
}

// newSimplifier resolves configuration and builds the backend. It fails
// before any UI is drawn when the API key is missing.
func newSimplifier(ctx context.Context, v *viper.Viper) (*simplify.Simplifier, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if cfg.SecretsPath != "" {
		log.Printf("[config] using secrets from %s", cfg.SecretsPath)
	}
	client, err := llm.New(ctx, cfg.LLMConfig())
	if err != nil {
		return nil, err
	}
	return simplify.New(client, simplify.DefaultPolicy), nil
}

func sentenceTokenizer() focus.Tokenizer {
	tokenizer, err := focus.DefaultTokenizer()
	if err != nil {
		log.Printf("[focus] falling back to line splitting: %v", err)
		return focus.LineTokenizer
	}
	return tokenizer
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	simplifier, err := newSimplifier(ctx, opts.v)
	if err != nil {
		return err
	}
	fonts, err := fontcache.Default()
	if err != nil {
		log.Printf("[fontcache] cache unavailable: %v", err)
		fonts = nil
	}

	programOpts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Simplifier: simplifier,
			Tokenizer:  sentenceTokenizer(),
			Fonts:      fonts,
			ExportPath: opts.exportPath,
			InitialPDF: opts.pdfPath,
			MaxPages:   opts.maxPages,
		}),
		programOpts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
