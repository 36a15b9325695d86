package grammar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/types"
)

func TestBuiltinRegistryTags(t *testing.T) {
	r := Builtin()

	for _, tag := range []string{
		"rust", "ocaml", "go", "javascript", "typescript", "python",
		"java", "csharp", "cpp", "php", "zig",
	} {
		lang, err := r.ByTag(tag)
		require.NoError(t, err, "tag %s must be registered", tag)
		assert.Equal(t, tag, lang.Tag)
		assert.NotEmpty(t, lang.Extensions(), "tag %s must own extensions", tag)
	}
}

func TestByTagAliases(t *testing.T) {
	r := Builtin()

	tests := []struct {
		alias string
		tag   string
	}{
		{"rs", "rust"},
		{"golang", "go"},
		{"js", "javascript"},
		{"ts", "typescript"},
		{"py", "python"},
		{"c++", "cpp"},
		{"cs", "csharp"},
		{"ml", "ocaml"},
		{"RUST", "rust"}, // case insensitive
	}
	for _, tt := range tests {
		lang, err := r.ByTag(tt.alias)
		require.NoError(t, err, "alias %s", tt.alias)
		assert.Equal(t, tt.tag, lang.Tag, "alias %s", tt.alias)
	}
}

func TestByTagUnknown(t *testing.T) {
	_, err := Builtin().ByTag("fortran")
	require.Error(t, err)
	assert.True(t, errors.IsParseUnavailable(err), "unknown tag must fail with ParseUnavailable")
}

func TestForFile(t *testing.T) {
	r := Builtin()

	tests := []struct {
		path string
		name string
	}{
		{"src/lib.rs", "rust"},
		{"main.go", "go"},
		{"app.jsx", "javascript"},
		{"view.tsx", "tsx"},
		{"mod.ts", "typescript"},
		{"setup.py", "python"},
		{"Main.java", "java"},
		{"Program.cs", "csharp"},
		{"engine.hpp", "cpp"},
		{"index.php", "php"},
		{"build.zig", "zig"},
		{"parser.mli", "ocaml_interface"},
	}
	for _, tt := range tests {
		s, ok := r.ForFile(tt.path)
		require.True(t, ok, "extension of %s must resolve", tt.path)
		assert.Equal(t, tt.name, s.Name, "path %s", tt.path)
	}

	_, ok := r.ForFile("README.md")
	assert.False(t, ok, "unknown extensions must not resolve")
}

func TestSyntaxFor(t *testing.T) {
	ts, err := Builtin().ByTag("typescript")
	require.NoError(t, err)

	assert.Equal(t, "tsx", ts.SyntaxFor("component.tsx").Name)
	assert.Equal(t, "typescript", ts.SyntaxFor("module.ts").Name)
	// Foreign extension falls back to the primary grammar
	assert.Equal(t, "typescript", ts.SyntaxFor("notes.txt").Name)
}

func TestParseProducesTree(t *testing.T) {
	rust, err := Builtin().ByTag("rust")
	require.NoError(t, err)
	syntax := rust.SyntaxFor("main.rs")

	tree := syntax.Parse([]byte("fn main() {}\n"))
	require.NotNil(t, tree, "valid source must parse")
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "source_file", root.Kind())
	assert.False(t, root.HasError())
}

func TestParseMalformedStillYieldsTree(t *testing.T) {
	rust, err := Builtin().ByTag("rust")
	require.NoError(t, err)
	syntax := rust.SyntaxFor("main.rs")

	tree := syntax.Parse([]byte("fn main( {{{ \"unterminated\n"))
	require.NotNil(t, tree, "malformed source degrades, it does not fail")
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
}

func TestParseConcurrent(t *testing.T) {
	golang, err := Builtin().ByTag("go")
	require.NoError(t, err)
	syntax := golang.SyntaxFor("x.go")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				tree := syntax.Parse([]byte("package main\n\nfunc main() {}\n"))
				if tree != nil {
					tree.Close()
				}
			}
		}()
	}
	wg.Wait()
}

func TestSuggestTag(t *testing.T) {
	r := Builtin()

	assert.Equal(t, "python", r.SuggestTag("pyton"))
	assert.Equal(t, "rust", r.SuggestTag("rus"))
	assert.Empty(t, r.SuggestTag("qqqqqq"), "nothing close should suggest nothing")
}

func TestCompileQuery(t *testing.T) {
	rust, err := Builtin().ByTag("rust")
	require.NoError(t, err)
	syntax := rust.SyntaxFor("main.rs")

	t.Run("bare query gets a capture", func(t *testing.T) {
		q, err := CompileQuery(syntax, "(function_item)")
		require.NoError(t, err)
		defer q.Close()
		assert.Contains(t, q.CaptureNames(), "node")
	})

	t.Run("explicit capture kept", func(t *testing.T) {
		q, err := CompileQuery(syntax, "(function_item name: (identifier) @fn)")
		require.NoError(t, err)
		defer q.Close()
		assert.Contains(t, q.CaptureNames(), "fn")
	})

	t.Run("invalid node kind fails", func(t *testing.T) {
		_, err := CompileQuery(syntax, "(bogus_node_kind_xyz)")
		require.Error(t, err)
		var queryErr *errors.QueryError
		assert.ErrorAs(t, err, &queryErr)
	})

	t.Run("empty query fails", func(t *testing.T) {
		_, err := CompileQuery(syntax, "   ")
		assert.Error(t, err)
	})
}

func TestClassTables(t *testing.T) {
	t.Run("rust", func(t *testing.T) {
		table := rustTable()

		cat, ok := table.Classify("identifier")
		require.True(t, ok)
		assert.Equal(t, types.CategoryIdentifier, cat)

		cat, ok = table.Classify("string_literal")
		require.True(t, ok)
		assert.Equal(t, types.CategoryString, cat)
		assert.True(t, table.IsAtomic("string_literal"))

		cat, ok = table.Classify("line_comment")
		require.True(t, ok)
		assert.Equal(t, types.CategoryComment, cat)
		assert.True(t, table.IsAtomic("line_comment"))

		cat, ok = table.ClassifyToken("fn")
		require.True(t, ok)
		assert.Equal(t, types.CategoryKeyword, cat)

		_, ok = table.ClassifyToken("{")
		assert.False(t, ok, "punctuation is never a keyword")

		_, ok = table.Classify("integer_literal")
		assert.False(t, ok, "unmapped kinds carry no category")
	})

	t.Run("php variable_name is atomic", func(t *testing.T) {
		table := phpTable()
		assert.True(t, table.IsAtomic("variable_name"))
	})
}
