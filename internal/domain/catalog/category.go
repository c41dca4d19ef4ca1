package catalog

import (
	"fmt"
	"strings"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// Category is a node of the product category tree.
type Category struct {
	shared.TenantAggregateRoot
	Code     string
	Name     string
	ParentID *uuid.UUID
	Path     shared.TreePath
	Level    int
}

// NewCategory creates a new root category
func NewCategory(tenantID uuid.UUID, code, name string) (*Category, error) {
	if err := shared.ValidateCode("Category", code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName("Category", name, 100); err != nil {
		return nil, err
	}
	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
	}
	c.Path = shared.RootPath(c.ID)
	return c, nil
}

// NewChildCategory creates a new child category under a parent
func NewChildCategory(tenantID uuid.UUID, code, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}
	c, err := NewCategory(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	c.ParentID = &parent.ID
	c.Level = parent.Level + 1
	c.Path = parent.Path.Child(c.ID)
	return c, nil
}

func (c *Category) Rename(name string) error {
	if err := shared.ValidateName("Category", name, 100); err != nil {
		return err
	}
	c.Name = name
	c.IncrementVersion()
	return nil
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// LineageIDs returns the ancestors followed by the category itself.
// Pricelist rules applied on a category match any product in this lineage.
func (c *Category) LineageIDs() []uuid.UUID {
	return append(c.Path.AncestorIDs(), c.ID)
}

// IsChildOf reports child_of membership: other is c or one of its ancestors.
func (c *Category) IsChildOf(other *Category) bool {
	if other == nil {
		return false
	}
	return other.Path.Contains(c.Path)
}
