// Package main is the entry point for the studyshift CLI.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/acquire"
	"github.com/csheth/studyshift/internal/config"
	"github.com/csheth/studyshift/internal/convert"
	"github.com/csheth/studyshift/internal/export"
	"github.com/csheth/studyshift/internal/llm"
	"github.com/csheth/studyshift/internal/logging"
	"github.com/csheth/studyshift/internal/speech"
	"github.com/csheth/studyshift/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "studyshift",
	Short: "Convert study material into the learning style that suits you",
	Long: `studyshift rewrites notes, documents and dictated speech as a visual
explanation, a story, a flowchart, a set of analogies or a practice quiz.

Run without arguments for the interactive terminal UI, or use the convert
subcommand for one-shot conversions in scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./studyshift.yaml or ~/.config/studyshift/studyshift.yaml)")
	pf.String("provider", "", "generation provider: gemini, openai or ollama")
	pf.String("model", "", "model name (default depends on the provider)")
	pf.String("endpoint", "", "custom API endpoint or Ollama host")
	pf.String("theme", "", "colour theme: dark or light")
	pf.String("speech-command", "", "dictation command that prints transcripts, {locale} is substituted")
	pf.String("export-dir", "", "directory for exported files")
	pf.String("log-file", "", "log file path")
	pf.Bool("debug", false, "enable debug logging")

	rootCmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
}

// app holds the components shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	gen      llm.Generator
	unit     *acquire.Unit
	orch     *convert.Orchestrator
	exporter *export.Exporter
}

// newApp loads configuration and wires the components. console receives log
// output in addition to the log file; pass nil to keep the terminal clean.
func newApp(cmd *cobra.Command, console io.Writer) (*app, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Path: cfg.Log.File, Debug: cfg.Log.Debug, Console: console})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	gen, err := llm.NewFromEnv(llm.Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("starting",
		zap.String("provider", gen.Name()),
		zap.String("model", gen.Model()),
		zap.String("theme", cfg.Theme))

	unit := acquire.New(acquire.Options{
		Recognizer: speech.NewCommandRecognizer(cfg.Speech.Command),
		Locale:     cfg.Speech.Locale,
		Logger:     logger,
	})
	return &app{
		cfg:    cfg,
		logger: logger,
		gen:    gen,
		unit:   unit,
		orch:   convert.New(gen, convert.WithLogger(logger)),
		exporter: &export.Exporter{
			Dir:    cfg.Export.Dir,
			PDF:    export.ChromePDF{ExecPath: cfg.Export.ChromePath},
			Logger: logger,
		},
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if a.cfg.AltScreen && !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Acquire:   a.unit,
			Converter: a.orch,
			Exporter:  a.exporter,
			Clipboard: export.SystemClipboard{},
			Theme:     a.cfg.Theme,
			Model:     generatorLabel(a.gen),
			Logger:    a.logger,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// generatorLabel names the provider for status lines. Every generator's
// Name already includes its model.
func generatorLabel(gen llm.Generator) string {
	return gen.Name()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
