// Package mcp exposes the search engine over the Model Context Protocol
// so agent clients can run syntax-aware searches without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/sgrep/internal/config"
	"github.com/standardbeagle/sgrep/internal/debug"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/search"
	"github.com/standardbeagle/sgrep/internal/types"
	"github.com/standardbeagle/sgrep/internal/version"
	"github.com/standardbeagle/sgrep/internal/walker"
	"github.com/standardbeagle/sgrep/pkg/pathutil"
)

// Server wires the registry, walker and engine behind MCP tools.
type Server struct {
	server   *mcp.Server
	registry *grammar.Registry
	engine   *search.Engine
	cfg      *config.Config
	root     string
}

// NewServer builds an MCP server rooted at root. Tool calls default
// their search path to the root.
func NewServer(root string, cfg *config.Config, registry *grammar.Registry) *Server {
	s := &Server{
		registry: registry,
		engine: search.NewEngine(registry, search.Options{
			Workers:     cfg.Search.Workers,
			MaxFileSize: cfg.Walk.MaxFileSize,
		}),
		cfg:  cfg,
		root: root,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "sgrep-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s
}

// Run serves MCP over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "syntax_search",
		Description: "Syntax-aware literal search over source code. Parses files with " +
			"tree-sitter and matches only inside the requested token kinds " +
			"(identifier, string, comment), so `text` in a comment does not hit " +
			"`text` the variable. Use instead of grep when the token kind matters.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"pattern": {
					Type:        "string",
					Description: "Literal text to search for (no regex)",
				},
				"language": {
					Type:        "string",
					Description: "Language tag, e.g. rust, go, typescript, python (see list_languages)",
				},
				"path": {
					Type:        "string",
					Description: "File or directory to search; defaults to the server root",
				},
				"kinds": {
					Type:        "string",
					Description: "Comma-separated token kinds: identifier, string, comment (default identifier, which covers keywords)",
				},
				"case": {
					Type:        "string",
					Description: "Case mode: smart (default), sensitive, insensitive",
				},
				"whole_word": {
					Type:        "boolean",
					Description: "Match whole tokens / word-bounded occurrences only",
				},
				"max_results": {
					Type:        "integer",
					Description: "Cap on returned matches (0 = unlimited)",
				},
			},
			Required: []string{"pattern", "language"},
		},
	}, s.handleSyntaxSearch)

	s.server.AddTool(&mcp.Tool{
		Name: "list_languages",
		Description: "List every language this server can parse, with tags, aliases " +
			"and file extensions. Tags feed syntax_search's language parameter.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleListLanguages)
}

type syntaxSearchParams struct {
	Pattern    string `json:"pattern"`
	Language   string `json:"language"`
	Path       string `json:"path"`
	Kinds      string `json:"kinds"`
	Case       string `json:"case"`
	WholeWord  bool   `json:"whole_word"`
	MaxResults int    `json:"max_results"`
}

// searchResponse is the syntax_search payload. Matches reuse the wire
// shape of the CLI's JSON output.
type searchResponse struct {
	Query         string          `json:"query"`
	Language      string          `json:"language"`
	CaseSensitive bool            `json:"case_sensitive"`
	Count         int             `json:"count"`
	Truncated     bool            `json:"truncated,omitempty"`
	TimeMs        int64           `json:"time_ms"`
	FilesSearched int             `json:"files_searched"`
	Matches       []types.Match   `json:"matches"`
	Warnings      []types.Warning `json:"warnings,omitempty"`
}

func (s *Server) handleSyntaxSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params syntaxSearchParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResponse("syntax_search", fmt.Errorf("invalid parameters: %w", err))
	}

	if params.Pattern == "" {
		return errorResponse("syntax_search", fmt.Errorf("pattern is required"))
	}
	if params.Language == "" {
		return errorResponse("syntax_search", fmt.Errorf("language is required (one of %v)", s.registry.Tags()))
	}

	lang, err := s.registry.ByTag(params.Language)
	if err != nil {
		if hint := s.registry.SuggestTag(params.Language); hint != "" {
			return errorResponse("syntax_search", fmt.Errorf("unknown language %q (did you mean %q?)", params.Language, hint))
		}
		return errorResponse("syntax_search", fmt.Errorf("unknown language %q (one of %v)", params.Language, s.registry.Tags()))
	}

	kinds, err := types.ParseCategorySet(params.Kinds)
	if err != nil {
		return errorResponse("syntax_search", err)
	}
	caseMode, err := types.ParseCaseMode(params.Case)
	if err != nil {
		return errorResponse("syntax_search", err)
	}

	root := params.Path
	if root == "" {
		root = s.root
	} else if !filepath.IsAbs(root) {
		root = filepath.Join(s.root, root)
	}

	started := time.Now()

	w := walker.New(walker.Options{
		Excludes:        s.cfg.Walk.Exclude,
		FollowSymlinks:  s.cfg.Walk.FollowSymlinks,
		DetectArtifacts: s.cfg.Walk.ArtifactDetection,
	})
	files, walkWarnings, err := w.Discover(ctx, root, lang)
	if err != nil {
		return errorResponse("syntax_search", err)
	}

	result, err := s.engine.Search(ctx, types.SearchRequest{
		Pattern:       params.Pattern,
		Categories:    kinds,
		CaseSensitive: caseMode.Resolve(params.Pattern),
		WholeWord:     params.WholeWord,
	}, files)
	if err != nil {
		return errorResponse("syntax_search", err)
	}

	matches := result.Matches
	truncated := false
	if params.MaxResults > 0 && len(matches) > params.MaxResults {
		matches = matches[:params.MaxResults]
		truncated = true
	}

	warnings := append(walkWarnings, result.Warnings...)

	return jsonResponse(&searchResponse{
		Query:         params.Pattern,
		Language:      lang.Tag,
		CaseSensitive: caseMode.Resolve(params.Pattern),
		Count:         len(matches),
		Truncated:     truncated,
		TimeMs:        time.Since(started).Milliseconds(),
		FilesSearched: result.FilesSearched,
		Matches:       pathutil.ToRelativeMatches(matches, root),
		Warnings:      pathutil.ToRelativeWarnings(warnings, root),
	})
}

type languageInfo struct {
	Tag        string   `json:"tag"`
	Aliases    []string `json:"aliases,omitempty"`
	Extensions []string `json:"extensions"`
}

func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	langs := s.registry.Languages()
	infos := make([]languageInfo, 0, len(langs))
	for _, lang := range langs {
		infos = append(infos, languageInfo{
			Tag:        lang.Tag,
			Aliases:    lang.Aliases,
			Extensions: lang.Extensions(),
		})
	}
	return jsonResponse(map[string]interface{}{
		"languages": infos,
		"count":     len(infos),
	})
}
