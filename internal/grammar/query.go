package grammar

import (
	stderrors "errors"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/sgrep/internal/errors"
)

// CompileQuery compiles a tree-sitter query against one grammar. A query
// without a capture gets a whole-match capture appended, so bare
// s-expressions like `(function_item)` work as written. The caller must
// Close the returned query.
func CompileQuery(s *Syntax, queryStr string) (*tree_sitter.Query, error) {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return nil, errors.NewQueryError(queryStr, s.Name, stderrors.New("query must not be empty"))
	}
	if !strings.Contains(queryStr, "@") {
		queryStr += " @node"
	}

	query, qerr := tree_sitter.NewQuery(s.language, queryStr)
	if qerr != nil {
		return nil, errors.NewQueryError(queryStr, s.Name, qerr)
	}
	// Check the query was actually created (tree-sitter Go binding bug)
	if query == nil {
		return nil, errors.NewQueryError(queryStr, s.Name, stderrors.New("query compilation returned nothing"))
	}
	return query, nil
}
