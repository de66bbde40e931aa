// Package extractor runs the doc-block parser over files, directory trees,
// glob patterns and stdin.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/example/cdoc/internal/cdoc"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

// DefaultInclude selects the files picked up when walking a directory.
var DefaultInclude = []string{"**/*.c", "**/*.h"}

// File holds the records extracted from one source.
type File struct {
	Path    string        `json:"path" yaml:"path"`
	Records []cdoc.Record `json:"records" yaml:"records"`
}

// Extractor finds source files and parses them concurrently. Each file gets
// its own cursor, so parses share no state.
type Extractor struct {
	logger  zerolog.Logger
	workers int
	include []string
	exclude []string
	stdin   io.Reader
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress and skipped files.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithWorkers bounds the number of files parsed at once. Values below one
// are ignored.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithInclude replaces the doublestar patterns that select files found while
// walking directories. Patterns match slash-separated paths relative to the
// walked directory.
func WithInclude(patterns ...string) Option {
	return func(e *Extractor) {
		if len(patterns) > 0 {
			e.include = patterns
		}
	}
}

// WithExclude sets doublestar patterns for files and directories to skip.
func WithExclude(patterns ...string) Option {
	return func(e *Extractor) { e.exclude = patterns }
}

// WithStdin sets the reader used for the "-" path.
func WithStdin(r io.Reader) Option {
	return func(e *Extractor) { e.stdin = r }
}

// New allocates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger:  zerolog.Nop(),
		workers: runtime.GOMAXPROCS(0),
		include: DefaultInclude,
		stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses every source named by paths. Results follow the order of
// paths; files found by walking a directory or expanding a glob are sorted.
func (e *Extractor) Extract(ctx context.Context, paths []string) ([]File, error) {
	sources, err := e.collect(paths)
	if err != nil {
		return nil, err
	}

	files := make([]File, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := e.extractFile(src)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ExtractReader parses a single source. name is only used for reporting.
func (e *Extractor) ExtractReader(name string, r io.Reader) (File, error) {
	docs, err := cdoc.Parse(r)
	if err != nil {
		return File{}, fmt.Errorf("parse %s: %w", name, err)
	}
	e.logger.Debug().Str("path", name).Int("records", len(docs)).Msg("parsed")
	return File{Path: name, Records: docs}, nil
}

func (e *Extractor) extractFile(path string) (File, error) {
	if path == StdinPath {
		return e.ExtractReader(path, e.stdin)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return File{}, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = f.Close() }()
	return e.ExtractReader(path, f)
}

// collect expands paths into the list of sources to parse, dropping
// duplicates.
func (e *Extractor) collect(paths []string) ([]string, error) {
	var sources []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			sources = append(sources, p)
		}
	}

	for _, p := range paths {
		switch {
		case p == StdinPath:
			add(p)
		case isGlob(p):
			matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", p, err)
			}
			if len(matches) == 0 {
				e.logger.Warn().Str("pattern", p).Msg("pattern matched no files")
			}
			sort.Strings(matches)
			for _, m := range matches {
				if !e.excluded(filepath.ToSlash(m)) {
					add(m)
				}
			}
		default:
			info, err := os.Stat(p)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", p, err)
			}
			if !info.IsDir() {
				add(p)
				continue
			}
			found, err := e.walk(p)
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", p, err)
			}
			for _, f := range found {
				add(f)
			}
		}
	}
	return sources, nil
}

// walk returns the files under root selected by the include and exclude
// patterns. Hidden and vendor directories are skipped.
func (e *Extractor) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			e.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if de != nil && de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if de.IsDir() {
			if path == root {
				return nil
			}
			name := de.Name()
			if name == "vendor" || strings.HasPrefix(name, ".") || e.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if e.included(rel) && !e.excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (e *Extractor) included(rel string) bool {
	return matchAny(e.include, rel)
}

func (e *Extractor) excluded(rel string) bool {
	return matchAny(e.exclude, rel)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
