package csvimport

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExclusivity(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	c1, c2 := uuid.New(), uuid.New()

	t.Run("reads assignments in file order", func(t *testing.T) {
		file := fmt.Sprintf("customer_id,product_id,note\n%s,%s,first\n%s,%s,\n\n%s,%s,again\n", c1, p1, c2, p2, c1, p1)

		result, err := ReadExclusivity(strings.NewReader(file), 10)
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 1, result.Duplicates)
		assert.False(t, result.Errors.HasErrors())
		require.Len(t, result.Assignments, 2)
		assert.Equal(t, 2, result.Assignments[0].Row)
		assert.Equal(t, p1, result.Assignments[0].ProductID)
		assert.Equal(t, c1, result.Assignments[0].CustomerID)
		assert.Equal(t, p2, result.Assignments[1].ProductID)
	})

	t.Run("collects row errors", func(t *testing.T) {
		file := fmt.Sprintf("product_id,customer_id\n%s,\nnot-a-uuid,%s\n%s,%s\n", p1, c1, p2, c2)

		result, err := ReadExclusivity(strings.NewReader(file), 10)
		require.NoError(t, err)
		require.Len(t, result.Assignments, 1)
		errs := result.Errors.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, RowError{Row: 2, Column: "customer_id", Code: ErrCodeImportRequiredField, Message: "field 'customer_id' is required"}, errs[0])
		assert.Equal(t, ErrCodeImportInvalidType, errs[1].Code)
		assert.Equal(t, "not-a-uuid", errs[1].Value)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadExclusivity(strings.NewReader("product_id\n"+p1.String()), 10)
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadExclusivity(strings.NewReader("product_id,customer_id\n"), 10)
		assert.ErrorIs(t, err, ErrNoDataRows)
	})
}
