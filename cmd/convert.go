// Package cmd — convert command.
// Runs fetch → extract → normalize for each URL (or one local file), then
// renders and writes the result. One URL goes straight through the converter;
// several go through the batch dispatcher.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/core/output"
	"github.com/gaurav-prasanna/parselinks/core/render"
)

var (
	flagFile      string
	flagMarkdown  bool
	flagJSON      bool
	flagPDF       bool
	flagMirror    bool
	flagOutputDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert <url>...",
	Short: "Convert web pages (or a local HTML file) to Markdown, JSON or PDF",
	Long: `Convert fetches each URL, extracts the main content and writes it in the
chosen format. Markdown is the default; without --output_dir it goes to stdout.

Examples:
  parselinks convert https://example.com/post
  parselinks convert https://a.com/x https://b.com/y --json --output_dir ./out
  parselinks convert --file ./saved.html --pdf --output_dir ./out
  parselinks convert https://example.com/docs/intro --mirror --output_dir ./docs`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagFile, "file", "", "Convert a local HTML or Markdown file instead of URLs")

	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown (default)")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	convertCmd.MarkFlagsMutuallyExclusive("markdown", "json", "pdf")

	convertCmd.Flags().BoolVar(&flagMirror, "mirror", false, "Mirror URL paths under the output directory")
	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: stdout for Markdown, current directory otherwise)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if flagFile == "" && len(args) == 0 {
		return errors.New("at least one URL or --file is required")
	}
	if flagFile != "" && len(args) > 0 {
		return errors.New("--file cannot be combined with URLs")
	}
	for _, raw := range args {
		if err := validateURL(raw); err != nil {
			return err
		}
	}

	e := &emitter{
		renderer: selectRenderer(),
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}
	if flagOutputDir != "" || !flagIsMarkdown() {
		w, err := output.New(flagOutputDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		e.writer = w
	}

	conv := newConverter(appConfig, logger)
	ctx := cmd.Context()

	switch {
	case flagFile != "":
		return convertFile(ctx, conv, e, flagFile)
	case len(args) == 1:
		result := conv.Convert(ctx, core.Input{URL: args[0]})
		if !result.OK() {
			return fmt.Errorf("converting %s: no content could be produced", args[0])
		}
		return e.emit(args[0], result.String())
	default:
		return convertMany(ctx, newDispatcher(appConfig, conv, logger), e, args)
	}
}

type pageConverter interface {
	Convert(ctx context.Context, in core.Input) core.FinalResult
}

func convertFile(ctx context.Context, conv pageConverter, e *emitter, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	result := conv.Convert(ctx, core.Input{RawHTML: string(data), Name: filepath.Base(path)})
	if !result.OK() {
		return fmt.Errorf("converting %s: no content could be produced", path)
	}
	return e.emit(path, result.String())
}

type linkBatcher interface {
	Run(ctx context.Context, links []string) []core.LinkResult
}

func convertMany(ctx context.Context, b linkBatcher, e *emitter, links []string) error {
	results := b.Run(ctx, links)
	if dropped := len(links) - len(results); dropped > 0 {
		fmt.Fprintf(e.stderr, "Only the first %d links are converted; %d skipped\n", len(results), dropped)
	}

	var failed int
	for _, r := range results {
		if r.Markdown == nil {
			fmt.Fprintf(e.stderr, "✗ %s: no content could be produced\n", r.Link)
			failed++
			continue
		}
		if err := e.emit(r.Link, *r.Markdown); err != nil {
			fmt.Fprintf(e.stderr, "✗ %s: %v\n", r.Link, err)
			failed++
		}
	}

	if failed == len(results) {
		return fmt.Errorf("all %d links failed", failed)
	}
	if failed > 0 {
		fmt.Fprintf(e.stderr, "\n%d/%d links failed\n", failed, len(results))
	}
	return nil
}

// emitter renders a page and sends it to the writer, or to stdout when no
// writer is configured.
type emitter struct {
	renderer core.Renderer
	writer   *output.Writer
	stdout   io.Writer
	stderr   io.Writer
}

func (e *emitter) emit(source, markdown string) error {
	data, err := e.renderer.Render(markdown, buildMetadata(source, markdown, time.Now()))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if e.writer == nil {
		_, err := e.stdout.Write(data)
		return err
	}

	var path string
	if flagMirror && isURL(source) {
		path, err = e.writer.WriteMirrored(source, data, e.renderer.Extension())
	} else {
		path, err = e.writer.WriteFlat(source, data, e.renderer.Extension())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✓ Written: %s\n", path)
	return nil
}

// buildMetadata derives PageMetadata from the source and the converted Markdown.
func buildMetadata(source, markdown string, now time.Time) core.PageMetadata {
	meta := core.PageMetadata{
		Title:     render.Title(markdown),
		FetchedAt: now.UTC().Format(time.RFC3339),
	}
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		meta.URL = source
		meta.Domain = u.Host
		meta.Path = u.Path
	} else {
		meta.Path = source
	}
	return meta
}

func validateURL(raw string) error {
	if !isURL(raw) {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", raw)
	}
	return nil
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func flagIsMarkdown() bool {
	return !flagJSON && !flagPDF
}

// selectRenderer picks the renderer for the format flags; Markdown by default.
func selectRenderer() core.Renderer {
	switch {
	case flagJSON:
		return render.NewJSONRenderer()
	case flagPDF:
		return render.NewPDFRenderer()
	default:
		return render.NewMarkdownRenderer()
	}
}
