package types

import (
	"fmt"
	"strings"

	edlib "github.com/hbollon/go-edlib"
)

// Category classifies a source span for search purposes. The set of
// categories is closed; node kinds a grammar table does not map are
// excluded from search entirely rather than falling back to a bucket.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryIdentifier
	CategoryKeyword
	CategoryString
	CategoryComment
)

// String returns the canonical name used in output and JSON.
func (c Category) String() string {
	switch c {
	case CategoryIdentifier:
		return "identifier"
	case CategoryKeyword:
		return "keyword"
	case CategoryString:
		return "string"
	case CategoryComment:
		return "comment"
	default:
		return "none"
	}
}

// MarshalJSON encodes the category as its canonical name.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a canonical category name.
func (c *Category) UnmarshalJSON(data []byte) error {
	name := strings.Trim(string(data), `"`)
	switch name {
	case "identifier":
		*c = CategoryIdentifier
	case "keyword":
		*c = CategoryKeyword
	case "string":
		*c = CategoryString
	case "comment":
		*c = CategoryComment
	case "none":
		*c = CategoryNone
	default:
		return fmt.Errorf("unknown category %q", name)
	}
	return nil
}

// CategorySet is a bit set of categories requested for one search.
type CategorySet uint8

const (
	// SetIdentifiers is the user-facing "identifier" kind: it covers
	// keywords too, matching the tool's documented default behavior.
	SetIdentifiers CategorySet = 1<<CategoryIdentifier | 1<<CategoryKeyword
	SetStrings     CategorySet = 1 << CategoryString
	SetComments    CategorySet = 1 << CategoryComment
)

// DefaultCategories is the request set used when the caller names no kinds.
const DefaultCategories = SetIdentifiers

// Has reports whether the set contains the given category.
func (s CategorySet) Has(c Category) bool {
	return s&(1<<c) != 0
}

// IsEmpty reports whether no category is requested.
func (s CategorySet) IsEmpty() bool {
	return s == 0
}

// String lists the user-facing kind names in stable order.
func (s CategorySet) String() string {
	var names []string
	if s&SetIdentifiers != 0 {
		names = append(names, "identifier")
	}
	if s.Has(CategoryString) {
		names = append(names, "string")
	}
	if s.Has(CategoryComment) {
		names = append(names, "comment")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// kindNames maps accepted -k/--kind spellings to category sets. The
// canonical names are identifier, string and comment; the rest are
// aliases kept cheap to type.
var kindNames = map[string]CategorySet{
	"identifier":  SetIdentifiers,
	"identifiers": SetIdentifiers,
	"id":          SetIdentifiers,
	"ident":       SetIdentifiers,
	"string":      SetStrings,
	"strings":     SetStrings,
	"str":         SetStrings,
	"comment":     SetComments,
	"comments":    SetComments,
}

// canonicalKinds are the names offered in suggestions and help text.
var canonicalKinds = []string{"identifier", "string", "comment"}

// ParseCategorySet parses a comma-separated kind list ("identifier,comment").
// An empty spec yields the default set. Unknown names fail with a
// did-you-mean suggestion when one is close enough.
func ParseCategorySet(spec string) (CategorySet, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultCategories, nil
	}

	var set CategorySet
	for _, part := range strings.Split(spec, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		k, ok := kindNames[name]
		if !ok {
			if hint := SuggestKind(name); hint != "" {
				return 0, fmt.Errorf("unknown kind %q (did you mean %q?)", name, hint)
			}
			return 0, fmt.Errorf("unknown kind %q (valid kinds: %s)", name, strings.Join(canonicalKinds, ", "))
		}
		set |= k
	}
	if set.IsEmpty() {
		return DefaultCategories, nil
	}
	return set, nil
}

// SuggestKind returns the closest canonical kind name, or "" when nothing
// is within editing distance 2.
func SuggestKind(name string) string {
	name = strings.ToLower(name)
	best, bestDistance := "", 1000
	for _, canonical := range canonicalKinds {
		if d := edlib.LevenshteinDistance(name, canonical); d < bestDistance {
			best, bestDistance = canonical, d
		}
	}
	if bestDistance == 0 || bestDistance > 2 {
		return ""
	}
	return best
}
