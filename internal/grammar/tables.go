package grammar

import "github.com/standardbeagle/sgrep/internal/types"

// ClassTable classifies one language's node kinds into search categories.
// Tables are data, not code: adding a language is a table plus a grammar
// binding, never a classifier change. Kinds absent from a table carry no
// category and are excluded from search entirely.
type ClassTable struct {
	kinds    map[string]types.Category
	atomic   map[string]bool
	keywords map[string]bool
}

// Classify returns the category registered for a named node kind.
func (t *ClassTable) Classify(kind string) (types.Category, bool) {
	c, ok := t.kinds[kind]
	return c, ok
}

// ClassifyToken returns the category for an anonymous token kind. Only
// keyword tokens classify; operators and punctuation never do.
func (t *ClassTable) ClassifyToken(kind string) (types.Category, bool) {
	if t.keywords[kind] {
		return types.CategoryKeyword, true
	}
	return types.CategoryNone, false
}

// IsAtomic reports whether a node kind is emitted as a single span even
// when the node has children. String literals and comments are always
// atomic: delimiters, escapes and embedded interpolation stay inside the
// one span instead of surfacing as separate tokens.
func (t *ClassTable) IsAtomic(kind string) bool {
	return t.atomic[kind]
}

// tableSpec assembles a ClassTable from per-category kind lists. Listing
// a kind a grammar never produces is harmless; omitting one it does
// produce silently drops those tokens from search, so the lists err on
// the side of superset.
type tableSpec struct {
	identifiers   []string // named kinds -> Identifier
	namedKeywords []string // named kinds -> Keyword (reserved words the grammar names)
	strings       []string // named kinds -> StringLiteral, atomic
	comments      []string // named kinds -> Comment, atomic
	keywords      []string // anonymous tokens -> Keyword
	atomic        []string // extra atomic kinds beyond strings and comments
}

func (spec tableSpec) build() *ClassTable {
	t := &ClassTable{
		kinds:    make(map[string]types.Category),
		atomic:   make(map[string]bool),
		keywords: make(map[string]bool, len(spec.keywords)),
	}
	for _, k := range spec.identifiers {
		t.kinds[k] = types.CategoryIdentifier
	}
	for _, k := range spec.namedKeywords {
		t.kinds[k] = types.CategoryKeyword
	}
	for _, k := range spec.strings {
		t.kinds[k] = types.CategoryString
		t.atomic[k] = true
	}
	for _, k := range spec.comments {
		t.kinds[k] = types.CategoryComment
		t.atomic[k] = true
	}
	for _, k := range spec.atomic {
		t.atomic[k] = true
	}
	for _, k := range spec.keywords {
		t.keywords[k] = true
	}
	return t
}

func rustTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "field_identifier", "type_identifier",
			"shorthand_field_identifier", "primitive_type",
			"lifetime_identifier", "metavariable",
		},
		namedKeywords: []string{
			"self", "super", "crate", "mutable_specifier", "boolean_literal",
		},
		strings: []string{
			"string_literal", "raw_string_literal", "char_literal",
		},
		comments: []string{
			"line_comment", "block_comment",
		},
		keywords: []string{
			"as", "async", "await", "break", "const", "continue", "dyn",
			"else", "enum", "extern", "fn", "for", "if", "impl", "in",
			"let", "loop", "macro_rules!", "match", "mod", "move", "mut",
			"pub", "ref", "return", "static", "struct", "trait", "type",
			"union", "unsafe", "use", "where", "while", "yield",
		},
	}.build()
}

func ocamlTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"value_name", "module_name", "module_type_name", "type_constructor",
			"constructor_name", "field_name", "label_name", "method_name",
			"class_name", "class_type_name", "instance_variable_name",
			"type_variable",
		},
		namedKeywords: []string{
			"boolean",
		},
		strings: []string{
			"string", "quoted_string", "character",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"and", "as", "assert", "begin", "class", "constraint", "do",
			"done", "downto", "else", "end", "exception", "external", "for",
			"fun", "function", "functor", "if", "in", "include", "inherit",
			"initializer", "lazy", "let", "match", "method", "module",
			"mutable", "new", "nonrec", "object", "of", "open", "private",
			"rec", "sig", "struct", "then", "to", "try", "type", "val",
			"virtual", "when", "while", "with",
		},
	}.build()
}

func goTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "field_identifier", "type_identifier",
			"package_identifier", "label_name", "blank_identifier",
			"nil", "true", "false", "iota",
		},
		strings: []string{
			"interpreted_string_literal", "raw_string_literal", "rune_literal",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"break", "case", "chan", "const", "continue", "default",
			"defer", "else", "fallthrough", "for", "func", "go", "goto",
			"if", "import", "interface", "map", "package", "range",
			"return", "select", "struct", "switch", "type", "var",
		},
	}.build()
}

func javascriptTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "property_identifier", "shorthand_property_identifier",
			"shorthand_property_identifier_pattern", "statement_identifier",
			"private_property_identifier",
		},
		namedKeywords: []string{
			"this", "super", "true", "false", "null", "undefined",
		},
		strings: []string{
			"string", "template_string",
		},
		comments: []string{
			"comment", "html_comment",
		},
		keywords: []string{
			"as", "async", "await", "break", "case", "catch", "class",
			"const", "continue", "debugger", "default", "delete", "do",
			"else", "export", "extends", "finally", "for", "from",
			"function", "get", "if", "import", "in", "instanceof", "let",
			"new", "of", "return", "set", "static", "switch", "target",
			"throw", "try", "typeof", "var", "void", "while", "with",
			"yield",
		},
	}.build()
}

func typescriptTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "property_identifier", "shorthand_property_identifier",
			"shorthand_property_identifier_pattern", "statement_identifier",
			"private_property_identifier", "type_identifier",
		},
		namedKeywords: []string{
			"this", "super", "true", "false", "null", "undefined",
			"predefined_type",
		},
		strings: []string{
			"string", "template_string",
		},
		comments: []string{
			"comment", "html_comment",
		},
		keywords: []string{
			"abstract", "accessor", "as", "asserts", "async", "await",
			"break", "case", "catch", "class", "const", "continue",
			"debugger", "declare", "default", "delete", "do", "else",
			"enum", "export", "extends", "finally", "for", "from",
			"function", "get", "global", "if", "implements", "import",
			"in", "infer", "instanceof", "interface", "is", "keyof", "let",
			"module", "namespace", "new", "of", "out", "override",
			"private", "protected", "public", "readonly", "require",
			"return", "satisfies", "set", "static", "switch", "target",
			"throw", "try", "type", "typeof", "unique", "var", "void",
			"while", "with", "yield",
		},
	}.build()
}

func pythonTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier",
		},
		namedKeywords: []string{
			"true", "false", "none",
		},
		strings: []string{
			"string", "concatenated_string",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"and", "as", "assert", "async", "await", "break", "case",
			"class", "continue", "def", "del", "elif", "else", "except",
			"finally", "for", "from", "global", "if", "import", "in",
			"is", "lambda", "match", "nonlocal", "not", "or", "pass",
			"raise", "return", "try", "while", "with", "yield",
		},
	}.build()
}

func javaTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "type_identifier",
		},
		namedKeywords: []string{
			"this", "super", "true", "false", "null_literal",
			"boolean_type", "void_type",
		},
		strings: []string{
			"string_literal", "character_literal", "text_block",
		},
		comments: []string{
			"line_comment", "block_comment",
		},
		keywords: []string{
			"abstract", "assert", "boolean", "break", "byte", "case",
			"catch", "char", "class", "const", "continue", "default",
			"do", "double", "else", "enum", "exports", "extends", "final",
			"finally", "float", "for", "goto", "if", "implements",
			"import", "instanceof", "int", "interface", "long", "module",
			"native", "new", "non-sealed", "open", "opens", "package",
			"permits", "private", "protected", "provides", "public",
			"record", "requires", "return", "sealed", "short", "static",
			"strictfp", "switch", "synchronized", "throw", "throws", "to",
			"transient", "transitive", "try", "uses", "var", "void",
			"volatile", "while", "with", "yield",
		},
	}.build()
}

func csharpTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier",
		},
		namedKeywords: []string{
			"this_expression", "base_expression", "boolean_literal",
			"null_literal", "predefined_type", "implicit_type",
			"void_keyword",
		},
		strings: []string{
			"string_literal", "verbatim_string_literal", "raw_string_literal",
			"interpolated_string_expression", "character_literal",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"abstract", "add", "alias", "and", "as", "ascending", "async",
			"await", "base", "bool", "break", "by", "byte", "case",
			"catch", "char", "checked", "class", "const", "continue",
			"decimal", "default", "delegate", "descending", "do", "double",
			"dynamic", "else", "enum", "equals", "event", "explicit",
			"extern", "file", "finally", "fixed", "float", "for",
			"foreach", "from", "get", "global", "goto", "group", "if",
			"implicit", "in", "init", "int", "interface", "internal",
			"into", "is", "join", "let", "lock", "long", "managed",
			"nameof", "namespace", "new", "not", "notnull", "object", "on",
			"operator", "or", "orderby", "out", "override", "params",
			"partial", "private", "protected", "public", "readonly",
			"record", "ref", "remove", "required", "return", "sbyte",
			"scoped", "sealed", "select", "set", "short", "sizeof",
			"stackalloc", "static", "string", "struct", "switch", "this",
			"throw", "try", "typeof", "uint", "ulong", "unchecked",
			"unmanaged", "unsafe", "ushort", "using", "value", "var",
			"virtual", "void", "volatile", "when", "where", "while",
			"with", "yield",
		},
	}.build()
}

func cppTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "field_identifier", "type_identifier",
			"namespace_identifier", "statement_identifier",
		},
		namedKeywords: []string{
			"primitive_type", "auto", "this", "nullptr", "true", "false",
		},
		strings: []string{
			"string_literal", "raw_string_literal", "char_literal",
			"concatenated_string", "system_lib_string",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"alignas", "alignof", "and", "asm", "bool", "break", "case",
			"catch", "char", "class", "co_await", "co_return", "co_yield",
			"compl", "concept", "const", "const_cast", "consteval",
			"constexpr", "constinit", "continue", "decltype", "default",
			"delete", "do", "double", "dynamic_cast", "else", "enum",
			"explicit", "export", "extern", "final", "float", "for",
			"friend", "goto", "if", "inline", "int", "long", "mutable",
			"namespace", "new", "noexcept", "not", "operator", "or",
			"override", "private", "protected", "public", "register",
			"reinterpret_cast", "requires", "return", "short", "signed",
			"sizeof", "static", "static_assert", "static_cast", "struct",
			"switch", "template", "thread_local", "throw", "try",
			"typedef", "typeid", "typename", "union", "unsigned", "using",
			"virtual", "void", "volatile", "while", "xor",
		},
	}.build()
}

func phpTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"name", "variable_name",
		},
		namedKeywords: []string{
			"boolean", "null",
		},
		strings: []string{
			"string", "encapsed_string", "heredoc", "nowdoc",
		},
		comments: []string{
			"comment",
		},
		keywords: []string{
			"abstract", "and", "array", "as", "break", "callable", "case",
			"catch", "class", "clone", "const", "continue", "declare",
			"default", "do", "echo", "else", "elseif", "empty", "enum",
			"extends", "final", "finally", "fn", "for", "foreach",
			"function", "global", "goto", "if", "implements", "include",
			"include_once", "instanceof", "insteadof", "interface",
			"isset", "list", "match", "namespace", "new", "or", "print",
			"private", "protected", "public", "readonly", "require",
			"require_once", "return", "static", "switch", "throw",
			"trait", "try", "unset", "use", "var", "while", "xor",
			"yield",
		},
		// A variable_name wraps a bare name node; emitting both would
		// stack two identifier spans on the same bytes.
		atomic: []string{"variable_name"},
	}.build()
}

func zigTable() *ClassTable {
	return tableSpec{
		identifiers: []string{
			"identifier", "builtin_identifier",
		},
		namedKeywords: []string{
			"true", "false", "null", "undefined", "unreachable", "anytype",
		},
		strings: []string{
			"string", "string_literal", "multiline_string",
			"multiline_string_literal", "character", "char_literal",
		},
		comments: []string{
			"comment", "line_comment", "doc_comment", "container_doc_comment",
		},
		keywords: []string{
			"addrspace", "align", "allowzero", "and", "anyframe",
			"anytype", "asm", "async", "await", "break", "callconv",
			"catch", "comptime", "const", "continue", "defer", "else",
			"enum", "errdefer", "error", "export", "extern", "false",
			"fn", "for", "if", "inline", "linksection", "noalias",
			"noinline", "nosuspend", "null", "opaque", "or", "orelse",
			"packed", "pub", "resume", "return", "struct", "suspend",
			"switch", "test", "threadlocal", "true", "try", "undefined",
			"union", "unreachable", "usingnamespace", "var", "volatile",
			"while",
		},
	}.build()
}
