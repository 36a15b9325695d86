package search

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sgrep/internal/classify"
	"github.com/standardbeagle/sgrep/internal/debug"
	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/source"
	"github.com/standardbeagle/sgrep/internal/types"
)

// Options configure an Engine.
type Options struct {
	// Workers bounds file-level parallelism. Zero means NumCPU.
	Workers int
	// MaxFileSize is the per-file byte cap. Zero means types.DefaultMaxFileSize.
	MaxFileSize int64
}

// Engine runs searches over sets of files. Each file's pipeline (load,
// parse, classify, filter, match, assemble) is independent, so files fan
// out to workers; the grammar registry is the only shared state and is
// read-only after startup.
type Engine struct {
	registry    *grammar.Registry
	workers     int
	maxFileSize int64
}

func NewEngine(registry *grammar.Registry, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = types.DefaultMaxFileSize
	}
	return &Engine{
		registry:    registry,
		workers:     workers,
		maxFileSize: maxFileSize,
	}
}

// fileResult is one file's slot in a run. Slots are indexed by submission
// order, so parallel execution never shows in the output ordering.
type fileResult struct {
	matches  []types.Match
	warnings []types.Warning
	searched bool
}

func skipped(path, msg string) fileResult {
	return fileResult{warnings: []types.Warning{{Path: path, Message: msg}}}
}

// Search validates the request, fans the files out to workers, and
// returns matches ordered by file submission, then source position within
// each file. Per-file problems (unknown language, unreadable or binary
// content, parse failure) become warnings, not errors; only an empty
// pattern or cancellation fails the run.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest, files []types.FileTask) (*types.Result, error) {
	if req.Pattern == "" {
		return nil, sgerrors.NewEmptyPatternError()
	}
	if req.Categories.IsEmpty() {
		req.Categories = types.DefaultCategories
	}

	debug.LogSearch("searching %d files for %q (categories=%s case_sensitive=%v whole_word=%v)",
		len(files), req.Pattern, req.Categories, req.CaseSensitive, req.WholeWord)

	cache := newSpanCache()
	result, err := e.forEachFile(ctx, files, func(task types.FileTask) fileResult {
		return e.searchFile(req, task, cache)
	})
	if err != nil {
		return nil, err
	}
	if hits := cache.Hits(); hits > 0 {
		debug.LogSearch("span cache reused %d of %d files", hits, len(files))
	}
	return result, nil
}

// forEachFile runs fn once per file on a bounded worker group.
// Cancellation is checked before each file starts; a file already being
// processed runs to completion.
func (e *Engine) forEachFile(ctx context.Context, files []types.FileTask, fn func(types.FileTask) fileResult) (*types.Result, error) {
	slots := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			slots[i] = fn(files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &types.Result{}
	for _, slot := range slots {
		result.Matches = append(result.Matches, slot.matches...)
		result.Warnings = append(result.Warnings, slot.warnings...)
		if slot.searched {
			result.FilesSearched++
		}
	}
	return result, nil
}

func (e *Engine) searchFile(req types.SearchRequest, task types.FileTask, cache *spanCache) fileResult {
	lang, err := e.registry.ByTag(task.Language)
	if err != nil {
		return skipped(task.Path, err.Error())
	}
	syntax := lang.SyntaxFor(task.Path)

	content, err := source.LoadFile(task.Path, e.maxFileSize)
	if errors.Is(err, source.ErrBinaryFile) {
		return skipped(task.Path, "skipped binary file")
	}
	if err != nil {
		return skipped(task.Path, err.Error())
	}

	spans, ok := e.classifiedSpans(syntax, content, cache)
	if !ok {
		return skipped(task.Path, "parse failed with the "+syntax.Name+" grammar")
	}

	var matches []types.Match
	var idx *source.LineIndex
	for _, span := range Filter(spans, req.Categories) {
		offsets := MatchSpan(span, req.Pattern, req.CaseSensitive, req.WholeWord)
		if len(offsets) == 0 {
			continue
		}
		// The line index is only built once a file actually has a hit.
		if idx == nil {
			idx = source.NewLineIndex(content)
		}
		for _, m := range AssembleMatches(task.Path, idx, span, offsets) {
			matches = append(matches, m)
			if req.MaxPerFile > 0 && len(matches) >= req.MaxPerFile {
				return fileResult{matches: matches, searched: true}
			}
		}
	}
	return fileResult{matches: matches, searched: true}
}

// classifiedSpans parses and classifies content, serving repeated content
// from the run cache. Parse failures are reported, not cached.
func (e *Engine) classifiedSpans(syntax *grammar.Syntax, content []byte, cache *spanCache) ([]types.ClassifiedSpan, bool) {
	key := keyFor(syntax.Name, content)
	if spans, ok := cache.get(key); ok {
		return spans, true
	}

	tree := syntax.Parse(content)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	spans := classify.Spans(tree.RootNode(), content, syntax.Table)
	cache.put(key, spans)
	return spans, true
}
