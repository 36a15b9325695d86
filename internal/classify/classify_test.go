package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sgrep/internal/classify"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/types"
)

// spansFor parses src with the named language and classifies the tree.
func spansFor(t *testing.T, tag, path, src string) []types.ClassifiedSpan {
	t.Helper()
	lang, err := grammar.Builtin().ByTag(tag)
	require.NoError(t, err)
	syntax := lang.SyntaxFor(path)
	tree := syntax.Parse([]byte(src))
	require.NotNil(t, tree, "source must parse")
	defer tree.Close()
	return classify.Spans(tree.RootNode(), []byte(src), syntax.Table)
}

func byCategory(spans []types.ClassifiedSpan, cat types.Category) []types.ClassifiedSpan {
	var out []types.ClassifiedSpan
	for _, s := range spans {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

func texts(spans []types.ClassifiedSpan) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out
}

func TestRustCommentAndIdentifier(t *testing.T) {
	spans := spansFor(t, "rust", "main.rs", "// test code\nfn test() {}\n")

	comments := byCategory(spans, types.CategoryComment)
	require.Len(t, comments, 1)
	assert.Equal(t, "// test code", comments[0].Text)

	keywords := byCategory(spans, types.CategoryKeyword)
	require.Len(t, keywords, 1)
	assert.Equal(t, "fn", keywords[0].Text)

	idents := byCategory(spans, types.CategoryIdentifier)
	require.Len(t, idents, 1)
	assert.Equal(t, "test", idents[0].Text)

	// Punctuation never classifies.
	for _, s := range spans {
		assert.NotContains(t, []string{"(", ")", "{", "}"}, s.Text)
	}
}

func TestRustStringLiteralIsAtomic(t *testing.T) {
	spans := spansFor(t, "rust", "main.rs", "fn f() { let s = \"test\"; }\n")

	strings := byCategory(spans, types.CategoryString)
	require.Len(t, strings, 1)
	assert.Equal(t, `"test"`, strings[0].Text, "the whole literal is one unit, quotes included")

	// Nothing inside the literal reappears as an identifier.
	idents := texts(byCategory(spans, types.CategoryIdentifier))
	assert.ElementsMatch(t, []string{"f", "s"}, idents)
}

func TestPythonInterpolatedStringIsAtomic(t *testing.T) {
	spans := spansFor(t, "python", "app.py", "name = f\"hello {name}\"\n")

	strings := byCategory(spans, types.CategoryString)
	require.Len(t, strings, 1)
	assert.Equal(t, `f"hello {name}"`, strings[0].Text)

	idents := byCategory(spans, types.CategoryIdentifier)
	require.Len(t, idents, 1, "only the assignment target is an identifier")
	assert.Equal(t, 0, idents[0].ByteStart)
}

func TestGoMixedCategories(t *testing.T) {
	src := "package main\n\n// greet the world\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	spans := spansFor(t, "go", "main.go", src)

	comments := texts(byCategory(spans, types.CategoryComment))
	assert.Equal(t, []string{"// greet the world"}, comments)

	strings := texts(byCategory(spans, types.CategoryString))
	assert.Equal(t, []string{`"hi"`}, strings)

	keywords := texts(byCategory(spans, types.CategoryKeyword))
	assert.Contains(t, keywords, "package")
	assert.Contains(t, keywords, "func")

	idents := texts(byCategory(spans, types.CategoryIdentifier))
	assert.Contains(t, idents, "main")
	assert.Contains(t, idents, "println")
}

func TestSpansAreSourceOrderedAndRoundTrip(t *testing.T) {
	src := "// first\nfn alpha() { let x = \"mid\"; }\n// last\nfn omega() {}\n"
	spans := spansFor(t, "rust", "lib.rs", src)
	require.NotEmpty(t, spans)

	prev := -1
	for i, s := range spans {
		assert.Greater(t, s.ByteStart, prev, "span %d out of source order", i)
		assert.Less(t, s.ByteStart, s.ByteEnd, "span %d is empty", i)
		require.LessOrEqual(t, s.ByteEnd, len(src))
		assert.Equal(t, src[s.ByteStart:s.ByteEnd], s.Text, "span %d text must mirror its byte range", i)
		prev = s.ByteStart
	}
}

func TestMalformedInputStillClassifies(t *testing.T) {
	// Unbalanced input forces the grammar into error recovery; the
	// well-formed tokens must survive.
	spans := spansFor(t, "rust", "broken.rs", "fn main( {\n// still here\n")

	keywords := texts(byCategory(spans, types.CategoryKeyword))
	assert.Contains(t, keywords, "fn")

	idents := texts(byCategory(spans, types.CategoryIdentifier))
	assert.Contains(t, idents, "main")

	comments := texts(byCategory(spans, types.CategoryComment))
	assert.Contains(t, comments, "// still here")
}

func TestNilInputs(t *testing.T) {
	lang, err := grammar.Builtin().ByTag("rust")
	require.NoError(t, err)
	table := lang.SyntaxFor("x.rs").Table

	assert.Nil(t, classify.Spans(nil, []byte("fn f() {}"), table))

	tree := lang.SyntaxFor("x.rs").Parse([]byte("fn f() {}"))
	require.NotNil(t, tree)
	defer tree.Close()
	assert.Nil(t, classify.Spans(tree.RootNode(), []byte("fn f() {}"), nil))
}
