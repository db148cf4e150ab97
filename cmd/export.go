// Package cmd — export command.
// This is the main command that orchestrates the pipeline:
// connect → converge → snapshot → assemble → render → write.
//
// It handles flag validation, renderer selection, the offline --input
// mode, and the --all mode that exports every sidebar conversation.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/chatscribe/core"
	"github.com/gaurav-prasanna/chatscribe/core/assemble"
	"github.com/gaurav-prasanna/chatscribe/core/browser"
	"github.com/gaurav-prasanna/chatscribe/core/config"
	"github.com/gaurav-prasanna/chatscribe/core/converge"
	"github.com/gaurav-prasanna/chatscribe/core/discover"
	"github.com/gaurav-prasanna/chatscribe/core/output"
	"github.com/gaurav-prasanna/chatscribe/core/render"
)

// Flag variables.
var (
	flagMarkdown  bool
	flagCSV       bool
	flagPDF       bool
	flagAll       bool
	flagInput     string
	flagOutputDir string
	flagConfig    string
	flagDebugger  string
	flagHeadless  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current conversation to the specified output format",
	Long: `Export forces the full conversation history to load, extracts the
transcript, and writes it in the specified output format.

Examples:
  chatscribe export --markdown
  chatscribe export --pdf --output_dir ./out
  chatscribe export --csv --all
  chatscribe export --markdown --input saved_page.html`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	// Output format flags (mutually exclusive).
	exportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	exportCmd.Flags().BoolVar(&flagCSV, "csv", false, "Output CSV")
	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")

	exportCmd.Flags().BoolVar(&flagAll, "all", false, "Export every conversation in the sidebar")
	exportCmd.Flags().StringVar(&flagInput, "input", "", "Read a saved HTML snapshot instead of a live browser")
	exportCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	exportCmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file overriding the defaults")
	exportCmd.Flags().StringVar(&flagDebugger, "debugger", "", "DevTools URL of a running Chromium (e.g. http://127.0.0.1:9222)")
	exportCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Launch the browser headless (when not attaching)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validateFormatFlags(); err != nil {
		return err
	}
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDebugger != "" {
		cfg.Browser.DebuggerURL = flagDebugger
	}
	if flagHeadless {
		cfg.Browser.Headless = true
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()

	if flagInput != "" {
		return exportSnapshotFile(cfg, log, renderer, writer)
	}

	session, err := browser.Connect(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer session.Close() //nolint:errcheck

	if flagAll {
		return exportAll(ctx, session, cfg, log, renderer, writer)
	}

	path, n, err := exportCurrent(ctx, session, cfg, log, renderer, writer)
	if err != nil {
		return describeFailure(err)
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d bytes)\n", path, n)
	return nil
}

// exportCurrent runs the full pipeline against the conversation shown
// in the connected tab. Returns the written path and payload size.
func exportCurrent(
	ctx context.Context,
	session *browser.Session,
	cfg config.Config,
	log *zap.Logger,
	renderer core.Renderer,
	writer *output.Writer,
) (string, int, error) {
	if err := session.EnsureContainer(ctx); err != nil {
		return "", 0, err
	}

	// Drain progress events while the convergence loop runs.
	progress := make(chan core.Progress, cfg.Convergence.MaxAttempts+4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printProgress(progress)
	}()

	converger := converge.New(session, session, cfg.Convergence, log,
		converge.WithProgress(progress))
	outcome, collected, err := converger.Run(ctx)
	close(progress)
	wg.Wait()
	if err != nil {
		return "", 0, fmt.Errorf("loading history: %w", err)
	}
	log.Info("history materialized",
		zap.String("outcome", string(outcome)),
		zap.Int("turns", collected))

	html, err := session.Snapshot(ctx)
	if err != nil {
		return "", 0, err
	}
	pageTitle, err := session.Title(ctx)
	if err != nil {
		log.Warn("could not read page title", zap.Error(err))
	}

	return assembleAndWrite(html, pageTitle, cfg, log, renderer, writer)
}

// exportSnapshotFile runs extraction and rendering over a saved HTML
// snapshot; there is no history to materialize.
func exportSnapshotFile(
	cfg config.Config,
	log *zap.Logger,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	data, err := os.ReadFile(flagInput)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", flagInput, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}
	pageTitle := doc.Find("title").First().Text()

	path, n, err := assembleAndWrite(string(data), pageTitle, cfg, log, renderer, writer)
	if err != nil {
		return describeFailure(err)
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d bytes)\n", path, n)
	return nil
}

// exportAll discovers the sidebar conversations and exports each one.
// Per-conversation failures are reported and skipped.
func exportAll(
	ctx context.Context,
	session *browser.Session,
	cfg config.Config,
	log *zap.Logger,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	html, err := session.Snapshot(ctx)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}

	entries := discover.Sidebar(doc, cfg.Selectors.SidebarItem)
	if len(entries) == 0 {
		return fmt.Errorf("no conversations found in sidebar")
	}
	fmt.Fprintf(os.Stdout, "Found %d conversations to export\n", len(entries))

	var errCount int
	for i, entry := range entries {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(entries), entry.Title)

		if err := session.OpenSidebarEntry(ctx, entry.Index); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		path, n, err := exportCurrent(ctx, session, cfg, log, renderer, writer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", describeFailure(err))
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s (%d bytes)\n", path, n)
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d conversations failed\n", errCount, len(entries))
	}
	return nil
}

// assembleAndWrite is the shared back half of the pipeline.
func assembleAndWrite(
	html string,
	pageTitle string,
	cfg config.Config,
	log *zap.Logger,
	renderer core.Renderer,
	writer *output.Writer,
) (string, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0, fmt.Errorf("parsing snapshot: %w", err)
	}

	transcript, err := assemble.New(cfg, log).Assemble(doc, pageTitle)
	if err != nil {
		return "", 0, err
	}

	data, err := renderer.Render(transcript)
	if err != nil {
		return "", 0, fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(transcript.Title, transcript.ExportedAt, data, renderer.Extension())
	if err != nil {
		return "", 0, err
	}
	return path, len(data), nil
}

// printProgress renders convergence events as terminal lines, only
// when the collected count changes.
func printProgress(progress <-chan core.Progress) {
	last := -1
	for p := range progress {
		switch p.Phase {
		case core.PhaseStarting:
			fmt.Fprintf(os.Stdout, "Loading conversation history (%d turns visible)...\n", p.Collected)
		case core.PhaseScrollingUp:
			if p.Collected != last {
				fmt.Fprintf(os.Stdout, "  · %d turns collected\n", p.Collected)
			}
		case core.PhaseDone:
			fmt.Fprintf(os.Stdout, "History complete: %d turns\n", p.Collected)
		}
		last = p.Collected
	}
}

// describeFailure converts pipeline errors into short, actionable
// messages; internal detail stays in the logs.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, core.ErrContainerNotFound):
		return fmt.Errorf("no conversation found on the page; open a Gemini conversation and try again")
	case errors.Is(err, core.ErrEmptyTranscript):
		return fmt.Errorf("nothing to export: the conversation has no content")
	case errors.Is(err, core.ErrRenderDependency):
		return fmt.Errorf("the %s engine is unavailable: %v", formatName(), err)
	default:
		return err
	}
}

// validateFormatFlags checks that exactly one output format was chosen.
func validateFormatFlags() error {
	count := 0
	for _, set := range []bool{flagMarkdown, flagCSV, flagPDF} {
		if set {
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("%w: exactly one of --markdown, --csv, or --pdf is required", core.ErrUnsupportedFormat)
	}
	if count > 1 {
		return fmt.Errorf("%w: only one output format allowed per run (got %d)", core.ErrUnsupportedFormat, count)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagCSV:
		return render.NewCSVRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, core.ErrUnsupportedFormat
	}
}

func formatName() string {
	switch {
	case flagMarkdown:
		return "Markdown"
	case flagCSV:
		return "CSV"
	case flagPDF:
		return "PDF"
	default:
		return "output"
	}
}
