package catalog

import (
	"context"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// ExclusivityMode constrains products on their exclusive_ok flag.
type ExclusivityMode string

const (
	// ExclusivityIgnored puts no constraint on exclusivity.
	ExclusivityIgnored ExclusivityMode = ""
	// ExclusivityNone admits non-exclusive products only.
	ExclusivityNone ExclusivityMode = "non_exclusive"
	// ExclusivityOnly admits exclusive products only.
	ExclusivityOnly ExclusivityMode = "exclusive"
	// ExclusivityAllowList admits non-exclusive products and the allowed ones.
	ExclusivityAllowList ExclusivityMode = "allow_list"
)

// ProductDomain is a product search predicate. Clauses are AND-ed; unset
// clauses do not constrain. Category and company clauses use child_of
// semantics and must be resolved to flat ID sets before querying.
type ProductDomain struct {
	SaleOkOnly  bool
	Exclusivity ExclusivityMode
	// AllowedIDs is the allow-list for ExclusivityAllowList.
	AllowedIDs []uuid.UUID

	CategoryChildOf []uuid.UUID
	ProductID       *uuid.UUID
	// CompanyChildOf admits products of that company, its sub-companies, or no company.
	CompanyChildOf *uuid.UUID

	// RestrictTo limits the result to these IDs when Restricted is set;
	// an empty restriction admits nothing.
	RestrictTo []uuid.UUID
	Restricted bool
}

// SelectionDomain is the predicate for products selectable on a sales
// document: saleable, and either non-exclusive or allowed for the customer.
// A nil allow-list means no customer is set.
func SelectionDomain(customerAllowList []uuid.UUID) ProductDomain {
	return ProductDomain{
		SaleOkOnly:  true,
		Exclusivity: ExclusivityAllowList,
		AllowedIDs:  shared.UniqueIDs(customerAllowList),
	}
}

// HierarchyResolver expands child_of clauses into descendant ID sets.
type HierarchyResolver interface {
	// CategorySubtreeIDs returns the roots and all their descendants.
	CategorySubtreeIDs(ctx context.Context, tenantID uuid.UUID, roots []uuid.UUID) ([]uuid.UUID, error)
	// CompanySubtreeIDs returns the root and all its descendants.
	CompanySubtreeIDs(ctx context.Context, tenantID uuid.UUID, root uuid.UUID) ([]uuid.UUID, error)
}

// ProductCriteria is a resolved ProductDomain where every clause is a flat
// equality or membership test.
type ProductCriteria struct {
	SaleOkOnly  bool
	Exclusivity ExclusivityMode
	AllowedIDs  []uuid.UUID

	FilterCategories bool
	CategoryIDs      []uuid.UUID

	// FilterCompanies admits products whose company is in CompanyIDs or unset.
	FilterCompanies bool
	CompanyIDs      []uuid.UUID

	FilterProducts bool
	ProductIDs     []uuid.UUID
}

// Resolve turns child_of clauses into ID sets.
func (d ProductDomain) Resolve(ctx context.Context, tenantID uuid.UUID, r HierarchyResolver) (ProductCriteria, error) {
	c := ProductCriteria{
		SaleOkOnly:  d.SaleOkOnly,
		Exclusivity: d.Exclusivity,
		AllowedIDs:  d.AllowedIDs,
	}
	if len(d.CategoryChildOf) > 0 {
		ids, err := r.CategorySubtreeIDs(ctx, tenantID, d.CategoryChildOf)
		if err != nil {
			return c, err
		}
		c.FilterCategories = true
		c.CategoryIDs = ids
	}
	if d.CompanyChildOf != nil {
		ids, err := r.CompanySubtreeIDs(ctx, tenantID, *d.CompanyChildOf)
		if err != nil {
			return c, err
		}
		c.FilterCompanies = true
		c.CompanyIDs = ids
	}
	switch {
	case d.ProductID != nil && d.Restricted:
		c.FilterProducts = true
		c.ProductIDs = nil
		for _, id := range d.RestrictTo {
			if id == *d.ProductID {
				c.ProductIDs = []uuid.UUID{id}
				break
			}
		}
	case d.ProductID != nil:
		c.FilterProducts = true
		c.ProductIDs = []uuid.UUID{*d.ProductID}
	case d.Restricted:
		c.FilterProducts = true
		c.ProductIDs = shared.UniqueIDs(d.RestrictTo)
	}
	return c, nil
}

// Empty reports whether the criteria cannot match any product.
func (c ProductCriteria) Empty() bool {
	return (c.FilterProducts && len(c.ProductIDs) == 0) ||
		(c.FilterCategories && len(c.CategoryIDs) == 0)
}

// Matches evaluates the criteria against a loaded product. Archived products
// never match.
func (c ProductCriteria) Matches(p *Product) bool {
	if !p.IsActive() {
		return false
	}
	if c.SaleOkOnly && !p.SaleOk {
		return false
	}
	switch c.Exclusivity {
	case ExclusivityNone:
		if p.ExclusiveOk {
			return false
		}
	case ExclusivityOnly:
		if !p.ExclusiveOk {
			return false
		}
	case ExclusivityAllowList:
		if p.ExclusiveOk && !containsID(c.AllowedIDs, p.ID) {
			return false
		}
	}
	if c.FilterCategories && (p.CategoryID == nil || !containsID(c.CategoryIDs, *p.CategoryID)) {
		return false
	}
	if c.FilterCompanies && p.CompanyID != nil && !containsID(c.CompanyIDs, *p.CompanyID) {
		return false
	}
	if c.FilterProducts && !containsID(c.ProductIDs, p.ID) {
		return false
	}
	return true
}

// Terms renders the domain in the prefix-notation list form understood by
// web clients, e.g. [["sale_ok","=",true],"|",["exclusive_ok","=",false],["id","in",[...]]].
func (d ProductDomain) Terms() []any {
	terms := make([]any, 0, 8)
	if d.SaleOkOnly {
		terms = append(terms, []any{"sale_ok", "=", true})
	}
	switch d.Exclusivity {
	case ExclusivityNone:
		terms = append(terms, []any{"exclusive_ok", "=", false})
	case ExclusivityOnly:
		terms = append(terms, []any{"exclusive_ok", "=", true})
	case ExclusivityAllowList:
		terms = append(terms, "|", []any{"exclusive_ok", "=", false}, []any{"id", "in", idStrings(d.AllowedIDs)})
	}
	if len(d.CategoryChildOf) > 0 {
		terms = append(terms, []any{"categ_id", "child_of", idStrings(d.CategoryChildOf)})
	}
	if d.ProductID != nil {
		terms = append(terms, []any{"id", "=", d.ProductID.String()})
	}
	if d.CompanyChildOf != nil {
		terms = append(terms, "|", []any{"company_id", "child_of", d.CompanyChildOf.String()}, []any{"company_id", "=", false})
	}
	if d.Restricted {
		terms = append(terms, []any{"id", "in", idStrings(d.RestrictTo)})
	}
	return terms
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
