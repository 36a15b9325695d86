package grammar

import (
	"unsafe"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_ocaml "github.com/tree-sitter/tree-sitter-ocaml/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/sgrep/internal/debug"
)

type syntaxSpec struct {
	name  string
	ptr   unsafe.Pointer
	table *ClassTable
	exts  []string
}

// newBuiltinRegistry wires every compiled-in grammar to its table. A
// grammar whose binding fails to load is skipped with a debug note
// rather than taking the whole tool down.
func newBuiltinRegistry() *Registry {
	r := NewRegistry()

	add := func(tag string, aliases []string, specs ...syntaxSpec) {
		lang := &Language{Tag: tag, Aliases: aliases}
		for _, sp := range specs {
			s, err := newSyntax(sp.name, sp.ptr, sp.table, sp.exts...)
			if err != nil {
				debug.LogParse("skipping grammar %s: %v", sp.name, err)
				continue
			}
			lang.Syntaxes = append(lang.Syntaxes, s)
		}
		if len(lang.Syntaxes) == 0 {
			return
		}
		if err := r.Register(lang); err != nil {
			debug.LogParse("registering %s: %v", tag, err)
		}
	}

	add("rust", []string{"rs"},
		syntaxSpec{"rust", tree_sitter_rust.Language(), rustTable(), []string{".rs"}})

	ocaml := ocamlTable()
	add("ocaml", []string{"ml"},
		syntaxSpec{"ocaml", tree_sitter_ocaml.LanguageOCaml(), ocaml, []string{".ml"}},
		syntaxSpec{"ocaml_interface", tree_sitter_ocaml.LanguageOCamlInterface(), ocaml, []string{".mli"}})

	add("go", []string{"golang"},
		syntaxSpec{"go", tree_sitter_go.Language(), goTable(), []string{".go"}})

	add("javascript", []string{"js", "jsx"},
		syntaxSpec{"javascript", tree_sitter_javascript.Language(), javascriptTable(), []string{".js", ".jsx", ".mjs", ".cjs"}})

	ts := typescriptTable()
	add("typescript", []string{"ts"},
		syntaxSpec{"typescript", tree_sitter_typescript.LanguageTypescript(), ts, []string{".ts"}},
		syntaxSpec{"tsx", tree_sitter_typescript.LanguageTSX(), ts, []string{".tsx"}})

	add("python", []string{"py"},
		syntaxSpec{"python", tree_sitter_python.Language(), pythonTable(), []string{".py", ".pyi"}})

	add("java", nil,
		syntaxSpec{"java", tree_sitter_java.Language(), javaTable(), []string{".java"}})

	add("csharp", []string{"cs", "c#"},
		syntaxSpec{"csharp", tree_sitter_csharp.Language(), csharpTable(), []string{".cs"}})

	add("cpp", []string{"c++", "cxx", "cc"},
		syntaxSpec{"cpp", tree_sitter_cpp.Language(), cppTable(), []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h", ".c"}})

	add("php", nil,
		syntaxSpec{"php", tree_sitter_php.LanguagePHP(), phpTable(), []string{".php", ".phtml"}})

	add("zig", nil,
		syntaxSpec{"zig", tree_sitter_zig.Language(), zigTable(), []string{".zig"}})

	return r
}
