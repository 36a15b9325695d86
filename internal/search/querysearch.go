package search

import (
	"context"
	"errors"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/source"
	"github.com/standardbeagle/sgrep/internal/types"
)

// QuerySearch runs a tree-sitter query expression over the files instead
// of the category pipeline. Every capture of every match becomes one
// result row positioned at the capture's start. The expression must
// compile against each grammar the task list selects; a compile failure
// aborts the run before any file is read.
func (e *Engine) QuerySearch(ctx context.Context, queryStr string, files []types.FileTask) (*types.Result, error) {
	queries := make(map[string]*tree_sitter.Query)
	defer func() {
		for _, q := range queries {
			q.Close()
		}
	}()

	for _, task := range files {
		lang, err := e.registry.ByTag(task.Language)
		if err != nil {
			// Unknown languages surface as per-file warnings below.
			continue
		}
		syntax := lang.SyntaxFor(task.Path)
		if _, done := queries[syntax.Name]; done {
			continue
		}
		q, err := grammar.CompileQuery(syntax, queryStr)
		if err != nil {
			return nil, err
		}
		queries[syntax.Name] = q
	}

	// The map is read-only once the workers start; compiled queries are
	// safe to share, each worker gets its own cursor.
	return e.forEachFile(ctx, files, func(task types.FileTask) fileResult {
		return e.queryFile(task, queries)
	})
}

func (e *Engine) queryFile(task types.FileTask, queries map[string]*tree_sitter.Query) fileResult {
	lang, err := e.registry.ByTag(task.Language)
	if err != nil {
		return skipped(task.Path, err.Error())
	}
	syntax := lang.SyntaxFor(task.Path)
	query := queries[syntax.Name]
	if query == nil {
		return skipped(task.Path, "no compiled query for the "+syntax.Name+" grammar")
	}

	content, err := source.LoadFile(task.Path, e.maxFileSize)
	if errors.Is(err, source.ErrBinaryFile) {
		return skipped(task.Path, "skipped binary file")
	}
	if err != nil {
		return skipped(task.Path, err.Error())
	}

	tree := syntax.Parse(content)
	if tree == nil {
		return skipped(task.Path, "parse failed with the "+syntax.Name+" grammar")
	}
	defer tree.Close()

	idx := source.NewLineIndex(content)
	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	var matches []types.Match
	qm := cursor.Matches(query, tree.RootNode(), content)
	for m := qm.Next(); m != nil; m = qm.Next() {
		for _, capture := range m.Captures {
			pos := capture.Node.StartPosition()
			line := int(pos.Row) + 1
			matches = append(matches, types.Match{
				File:     task.Path,
				Line:     line,
				Column:   int(pos.Column) + 1,
				LineText: idx.LineText(line),
				Category: types.CategoryNone,
			})
		}
	}
	return fileResult{matches: matches, searched: true}
}
