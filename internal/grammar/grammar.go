// Grammar registry: maps language tags to parsing capability plus the
// classification table that turns node kinds into search categories.
//
// The registry is built once at startup and read-only afterwards, so it
// is shared across concurrent file searches without locking. Parsers
// themselves are not concurrency-safe; each Syntax keeps a pool of them.
package grammar

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/sgrep/internal/debug"
	"github.com/standardbeagle/sgrep/internal/errors"
)

// Syntax is one concrete grammar: a tree-sitter language binding, the
// file extensions it parses, and the classification table for its node
// kinds.
type Syntax struct {
	Name       string
	Extensions []string
	Table      *ClassTable

	language *tree_sitter.Language
	pool     sync.Pool
}

// newSyntax wraps a grammar binding. The binding is exercised once here
// so an ABI-incompatible grammar fails at registration, not mid-search.
func newSyntax(name string, languagePtr unsafe.Pointer, table *ClassTable, extensions ...string) (*Syntax, error) {
	if languagePtr == nil {
		return nil, fmt.Errorf("grammar %s: nil language pointer", name)
	}
	s := &Syntax{
		Name:       name,
		Extensions: extensions,
		Table:      table,
		language:   tree_sitter.NewLanguage(languagePtr),
	}
	s.pool.New = func() any {
		return s.newParser()
	}

	parser := s.newParser()
	if parser == nil {
		return nil, fmt.Errorf("grammar %s: language rejected by parser (version mismatch?)", name)
	}
	s.pool.Put(parser)
	return s, nil
}

func (s *Syntax) newParser() *tree_sitter.Parser {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(s.language); err != nil {
		parser.Close()
		return nil
	}
	return parser
}

// Language returns the bound tree-sitter language, for query compilation.
func (s *Syntax) Language() *tree_sitter.Language {
	return s.language
}

// Parse parses content into a syntax tree. The caller owns the returned
// tree and must Close it; a nil tree means the parser failed outright.
// Safe for concurrent use.
func (s *Syntax) Parse(content []byte) *tree_sitter.Tree {
	parser, _ := s.pool.Get().(*tree_sitter.Parser)
	if parser == nil {
		return nil
	}
	defer s.pool.Put(parser)
	return s.parseWith(parser, content)
}

func (s *Syntax) parseWith(parser *tree_sitter.Parser, content []byte) (tree *tree_sitter.Tree) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("tree-sitter panic in %s parser: %v", s.Name, r)
			tree = nil
		}
	}()

	// Tree-sitter mutates input buffers via CGO; parse a copy so the
	// caller's content stays pristine.
	parserBuffer := make([]byte, len(content))
	copy(parserBuffer, content)

	return parser.Parse(parserBuffer, nil)
}

// Language is one user-facing language tag. Most tags own a single
// Syntax; TypeScript carries ts and tsx, OCaml carries implementation
// and interface grammars.
type Language struct {
	Tag      string
	Aliases  []string
	Syntaxes []*Syntax
}

// Extensions returns every file extension the language's grammars parse.
func (l *Language) Extensions() []string {
	var exts []string
	for _, s := range l.Syntaxes {
		exts = append(exts, s.Extensions...)
	}
	return exts
}

// SyntaxFor picks the grammar for a path by extension, falling back to
// the language's primary grammar when the extension is foreign. The
// fallback covers explicit file arguments like `--rust notes.txt`.
func (l *Language) SyntaxFor(path string) *Syntax {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range l.Syntaxes {
		for _, e := range s.Extensions {
			if e == ext {
				return s
			}
		}
	}
	return l.Syntaxes[0]
}

// Registry maps language tags and file extensions to grammars.
type Registry struct {
	byTag map[string]*Language
	byExt map[string]*Syntax
	langs []*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTag: make(map[string]*Language),
		byExt: make(map[string]*Syntax),
	}
}

// Register adds a language. Duplicate tags, aliases or extensions are
// rejected so table typos surface immediately.
func (r *Registry) Register(lang *Language) error {
	if len(lang.Syntaxes) == 0 {
		return fmt.Errorf("language %s has no grammars", lang.Tag)
	}

	names := append([]string{lang.Tag}, lang.Aliases...)
	for _, name := range names {
		key := strings.ToLower(name)
		if _, exists := r.byTag[key]; exists {
			return fmt.Errorf("language tag %q registered twice", key)
		}
		r.byTag[key] = lang
	}

	for _, s := range lang.Syntaxes {
		for _, ext := range s.Extensions {
			key := strings.ToLower(ext)
			if _, exists := r.byExt[key]; exists {
				return fmt.Errorf("extension %q registered twice", key)
			}
			r.byExt[key] = s
		}
	}

	r.langs = append(r.langs, lang)
	return nil
}

// ByTag resolves a language tag or alias, case-insensitively. An unknown
// tag fails with ParseUnavailable.
func (r *Registry) ByTag(tag string) (*Language, error) {
	lang, ok := r.byTag[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return nil, errors.NewParseUnavailableError(tag)
	}
	return lang, nil
}

// ForFile resolves a grammar from a file's extension.
func (r *Registry) ForFile(path string) (*Syntax, bool) {
	s, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return s, ok
}

// Languages returns every registered language in registration order.
func (r *Registry) Languages() []*Language {
	return r.langs
}

// Tags returns the canonical tag of every registered language.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.langs))
	for _, lang := range r.langs {
		tags = append(tags, lang.Tag)
	}
	return tags
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the process-wide registry of compiled-in grammars,
// built eagerly on first use and immutable afterwards.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtin = newBuiltinRegistry()
	})
	return builtin
}
