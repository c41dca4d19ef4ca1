package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("\xEF\xBB\xBFProduct_ID,customer_id\n1,2"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"product_id", "customer_id"}, parser.Headers())
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name\n\xff\xfe"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("a;b\n1;2"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"a", "b"}, parser.Headers())
	})
}

func TestParser_ReadRow(t *testing.T) {
	parser, err := NewParser(strings.NewReader("a,b,c\n 1 , 2\n,,\n"))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "1", row.Get("a"))
	assert.Equal(t, "2", row.Get("b"))
	assert.Equal(t, "", row.Get("c"))
	assert.False(t, row.IsEmpty())

	row, err = parser.ReadRow()
	require.NoError(t, err)
	assert.True(t, row.IsEmpty())

	_, err = parser.ReadRow()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParser_MissingHeaders(t *testing.T) {
	parser, err := NewParser(strings.NewReader("product_id\n1"))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())
	assert.Equal(t, []string{"customer_id"}, parser.MissingHeaders("product_id", "customer_id"))
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection(2)
	assert.False(t, ec.HasErrors())
	assert.Empty(t, ec.Errors())

	ec.AddRequiredError(2, "product_id")
	ec.AddTypeError(3, "customer_id", "uuid", "abc")
	ec.AddTypeError(4, "customer_id", "uuid", "def")

	assert.True(t, ec.HasErrors())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, 3, ec.TotalCount())
	require.Len(t, ec.Errors(), 2)
	assert.Equal(t, "row 3, column 'customer_id': expected uuid", ec.Errors()[1].Error())
	assert.Equal(t, "abc", ec.Errors()[1].Value)
}
