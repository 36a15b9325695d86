package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/sgrep/internal/types"
)

func TestFilter(t *testing.T) {
	spans := []types.ClassifiedSpan{
		{ByteStart: 0, ByteEnd: 2, Category: types.CategoryKeyword, Text: "fn"},
		{ByteStart: 3, ByteEnd: 7, Category: types.CategoryIdentifier, Text: "main"},
		{ByteStart: 10, ByteEnd: 16, Category: types.CategoryString, Text: `"test"`},
		{ByteStart: 20, ByteEnd: 28, Category: types.CategoryComment, Text: "// done"},
	}

	t.Run("comments_only", func(t *testing.T) {
		got := Filter(spans, types.SetComments)
		assert.Len(t, got, 1)
		assert.Equal(t, types.CategoryComment, got[0].Category)
	})

	t.Run("identifier_set_covers_keywords", func(t *testing.T) {
		got := Filter(spans, types.SetIdentifiers)
		assert.Len(t, got, 2)
		assert.Equal(t, types.CategoryKeyword, got[0].Category)
		assert.Equal(t, types.CategoryIdentifier, got[1].Category)
	})

	t.Run("order_preserved", func(t *testing.T) {
		all := types.SetIdentifiers | types.SetStrings | types.SetComments
		got := Filter(spans, all)
		assert.Equal(t, spans, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Filter(spans, types.SetIdentifiers)
		twice := Filter(once, types.SetIdentifiers)
		assert.Equal(t, once, twice)
	})

	t.Run("empty_inputs", func(t *testing.T) {
		assert.Nil(t, Filter(nil, types.SetComments))
		assert.Nil(t, Filter(spans, 0))
	})
}
