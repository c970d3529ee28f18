// Package output writes rendered pages to disk.
// Flat names fold the host and path into one file name (example_com_docs_intro.md);
// mirrored names recreate the URL path under the output directory (docs/intro.md).
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Writer writes rendered output under a single directory.
type Writer struct {
	dir string
}

// New creates a Writer rooted at dir, creating it if needed.
// An empty dir means the current working directory.
func New(dir string) (*Writer, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteFlat writes data under FlatName(source)+ext and returns the path.
func (w *Writer) WriteFlat(source string, data []byte, ext string) (string, error) {
	return w.write(FlatName(source)+ext, data)
}

// WriteMirrored writes data under MirroredName(rawURL)+ext and returns the path.
func (w *Writer) WriteMirrored(rawURL string, data []byte, ext string) (string, error) {
	rel, err := MirroredName(rawURL)
	if err != nil {
		return "", err
	}
	return w.write(rel+ext, data)
}

func (w *Writer) write(rel string, data []byte) (string, error) {
	full := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", full, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", full, err)
	}
	return full, nil
}

// FlatName folds a URL (or a local file path) into a single file name
// without extension.
//
//	https://example.com/docs/intro -> example_com_docs_intro
//	./pages/about.html             -> about
func FlatName(source string) string {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		base := filepath.Base(source)
		return clean(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return clean(u.Host + "/" + strings.Trim(u.Path, "/"))
}

// MirroredName maps a URL path to a slash-separated relative name without
// extension. The root path maps to "index". ".." segments cannot climb
// above the output directory.
func MirroredName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	rel := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if rel == "" {
		return "index", nil
	}
	return rel, nil
}

func clean(s string) string {
	s = strings.Trim(unsafeChars.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "page"
	}
	return s
}
