package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/core/output"
	"github.com/gaurav-prasanna/parselinks/core/render"
)

type stubBatcher struct {
	results []core.LinkResult
}

func (s stubBatcher) Run(context.Context, []string) []core.LinkResult {
	return s.results
}

type stubConverter struct {
	got    core.Input
	result core.FinalResult
}

func (s *stubConverter) Convert(_ context.Context, in core.Input) core.FinalResult {
	s.got = in
	return s.result
}

func newTestEmitter() (*emitter, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &emitter{renderer: render.NewMarkdownRenderer(), stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}

func ptr(s string) *string { return &s }

func TestBuildMetadata(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	meta := buildMetadata("https://example.com/docs/intro", "intro\n\n# Docs\n", now)
	assert.Equal(t, core.PageMetadata{
		URL:       "https://example.com/docs/intro",
		Domain:    "example.com",
		Path:      "/docs/intro",
		Title:     "Docs",
		FetchedAt: "2024-05-01T10:00:00Z",
	}, meta)

	file := buildMetadata("saved/page.html", "no heading", now)
	assert.Empty(t, file.URL)
	assert.Empty(t, file.Domain)
	assert.Equal(t, "saved/page.html", file.Path)
	assert.Empty(t, file.Title)
}

func TestConvertManyToStdout(t *testing.T) {
	e, stdout, stderr := newTestEmitter()
	b := stubBatcher{results: []core.LinkResult{
		{Link: "https://a.com", Markdown: ptr("# A")},
		{Link: "https://b.com", Markdown: nil},
		{Link: "https://c.com", Markdown: ptr("# C")},
	}}

	err := convertMany(context.Background(), b, e, []string{"https://a.com", "https://b.com", "https://c.com"})
	require.NoError(t, err)
	assert.Equal(t, "# A\n# C\n", stdout.String())
	assert.Contains(t, stderr.String(), "✗ https://b.com")
	assert.Contains(t, stderr.String(), "1/3 links failed")
}

func TestConvertManyReportsTruncation(t *testing.T) {
	e, _, stderr := newTestEmitter()
	b := stubBatcher{results: []core.LinkResult{{Link: "https://a.com", Markdown: ptr("")}}}

	err := convertMany(context.Background(), b, e, []string{"https://a.com", "https://b.com"})
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Only the first 1 links are converted; 1 skipped")
}

func TestConvertManyAllFailed(t *testing.T) {
	e, _, _ := newTestEmitter()
	b := stubBatcher{results: []core.LinkResult{{Link: "https://a.com"}, {Link: "https://b.com"}}}

	err := convertMany(context.Background(), b, e, []string{"https://a.com", "https://b.com"})
	assert.EqualError(t, err, "all 2 links failed")
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0o644))

	w, err := output.New(filepath.Join(dir, "out"))
	require.NoError(t, err)
	e, stdout, _ := newTestEmitter()
	e.writer = w

	conv := &stubConverter{result: core.Success("# Notes")}
	require.NoError(t, convertFile(context.Background(), conv, e, path))

	assert.Equal(t, core.Input{RawHTML: "# Notes", Name: "notes.md"}, conv.got)
	written := filepath.Join(dir, "out", "notes.md")
	assert.Contains(t, stdout.String(), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n", string(data))
}

func TestConvertFileFailures(t *testing.T) {
	e, _, _ := newTestEmitter()

	err := convertFile(context.Background(), &stubConverter{}, e, filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorContains(t, err, "reading")

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>x</p>"), 0o644))
	err = convertFile(context.Background(), &stubConverter{result: core.Failure()}, e, path)
	assert.ErrorContains(t, err, "no content could be produced")
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, validateURL("https://example.com/post"))
	assert.Error(t, validateURL("example.com/post"))
	assert.Error(t, validateURL("https://"))
}
