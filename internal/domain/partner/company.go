package partner

import (
	"fmt"
	"strings"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

const MaxCompanyDepth = 5

// Company is a node of the company hierarchy. Products and requests are
// scoped to a company and its sub-companies.
type Company struct {
	shared.TenantAggregateRoot
	Code               string
	Name               string
	ParentID           *uuid.UUID
	Path               shared.TreePath
	Level              int
	DefaultPricelistID *uuid.UUID
}

func NewCompany(tenantID uuid.UUID, code, name string) (*Company, error) {
	if err := shared.ValidateCode("Company", code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName("Company", name, 200); err != nil {
		return nil, err
	}
	c := &Company{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
	}
	c.Path = shared.RootPath(c.ID)
	return c, nil
}

func NewSubCompany(tenantID uuid.UUID, code, name string, parent *Company) (*Company, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent company is required")
	}
	if parent.Level >= MaxCompanyDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Company depth cannot exceed %d levels", MaxCompanyDepth))
	}
	c, err := NewCompany(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	c.ParentID = &parent.ID
	c.Level = parent.Level + 1
	c.Path = parent.Path.Child(c.ID)
	return c, nil
}

func (c *Company) SetDefaultPricelist(pricelistID *uuid.UUID) {
	c.DefaultPricelistID = pricelistID
	c.IncrementVersion()
}

// IsChildOf reports whether c is other or one of its sub-companies.
func (c *Company) IsChildOf(other *Company) bool {
	return other != nil && other.Path.Contains(c.Path)
}
