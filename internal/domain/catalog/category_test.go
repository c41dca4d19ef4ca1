package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	tenantID := uuid.New()
	root, err := NewCategory(tenantID, "garden", "Garden")
	require.NoError(t, err)
	assert.Equal(t, "GARDEN", root.Code)
	assert.True(t, root.IsRoot())

	child, err := NewChildCategory(tenantID, "compost", "Compost", root)
	require.NoError(t, err)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, root.Path.Child(child.ID), child.Path)
	assert.Equal(t, []uuid.UUID{root.ID, child.ID}, child.LineageIDs())

	assert.True(t, child.IsChildOf(root))
	assert.True(t, root.IsChildOf(root))
	assert.False(t, root.IsChildOf(child))
	assert.False(t, child.IsChildOf(nil))
}

func TestNewChildCategory_MaxDepth(t *testing.T) {
	tenantID := uuid.New()
	parent, err := NewCategory(tenantID, "L0", "Level 0")
	require.NoError(t, err)
	for i := 1; i < MaxCategoryDepth; i++ {
		parent, err = NewChildCategory(tenantID, "L", "Level", parent)
		require.NoError(t, err)
	}
	_, err = NewChildCategory(tenantID, "TOO", "Too deep", parent)
	assert.ErrorContains(t, err, "cannot exceed")

	_, err = NewChildCategory(tenantID, "X", "X", nil)
	assert.ErrorContains(t, err, "Parent category is required")
}
