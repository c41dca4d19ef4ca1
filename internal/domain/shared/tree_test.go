package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTreePath(t *testing.T) {
	root, mid, leaf := uuid.New(), uuid.New(), uuid.New()
	rootPath := RootPath(root)
	midPath := rootPath.Child(mid)
	leafPath := midPath.Child(leaf)

	assert.Equal(t, 0, rootPath.Depth())
	assert.Equal(t, 2, leafPath.Depth())
	assert.Equal(t, []uuid.UUID{root, mid}, leafPath.AncestorIDs())
	assert.Nil(t, rootPath.AncestorIDs())

	assert.True(t, rootPath.Contains(rootPath))
	assert.True(t, rootPath.Contains(leafPath))
	assert.False(t, leafPath.Contains(midPath))
	assert.False(t, TreePath("").Contains(rootPath))
	assert.Equal(t, root.String()+"/%", rootPath.DescendantPattern())
}

func TestValidateCode(t *testing.T) {
	assert.NoError(t, ValidateCode("Product", "ECO-01_a"))
	assert.ErrorContains(t, ValidateCode("Product", ""), "Product code cannot be empty")
	assert.ErrorContains(t, ValidateCode("Product", "A@B"), "can only contain")
	assert.ErrorContains(t, ValidateName("Category", "", 100), "Category name cannot be empty")
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
	assert.Empty(t, UniqueIDs(nil))
}
