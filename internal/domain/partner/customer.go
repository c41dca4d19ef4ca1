package partner

import (
	"regexp"
	"strings"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Customer is a partner that can be sold to.
type Customer struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Email       string
	Phone       string
	CompanyID   *uuid.UUID
	PricelistID *uuid.UUID

	// ExclusiveProductIDs is the inverse side of the product exclusivity
	// relation. It is loaded from the relation and written through products.
	ExclusiveProductIDs []uuid.UUID
}

func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	if err := shared.ValidateCode("Customer", code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName("Customer", name, 200); err != nil {
		return nil, err
	}
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

func (c *Customer) Rename(name string) error {
	if err := shared.ValidateName("Customer", name, 200); err != nil {
		return err
	}
	c.Name = name
	c.IncrementVersion()
	return nil
}

// SetContact sets phone and email; empty values clear them.
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" && (len(phone) > 50 || !phonePattern.MatchString(phone)) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	if email != "" && (len(email) > 200 || !emailPattern.MatchString(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Phone = phone
	c.Email = email
	c.IncrementVersion()
	return nil
}

func (c *Customer) SetCompany(companyID *uuid.UUID) {
	c.CompanyID = companyID
	c.IncrementVersion()
}

func (c *Customer) SetPricelist(pricelistID *uuid.UUID) {
	c.PricelistID = pricelistID
	c.IncrementVersion()
}

// AllowsProduct reports whether the customer is on the product's allow-list.
func (c *Customer) AllowsProduct(productID uuid.UUID) bool {
	for _, id := range c.ExclusiveProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// PlanExclusiveProducts computes how replacing the allow-list with productIDs
// changes the relation: the products to add the customer to and to remove it from.
func (c *Customer) PlanExclusiveProducts(productIDs []uuid.UUID) (add, remove []uuid.UUID) {
	next := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = struct{}{}
		if !c.AllowsProduct(id) {
			add = append(add, id)
		}
	}
	for _, id := range c.ExclusiveProductIDs {
		if _, keep := next[id]; !keep {
			remove = append(remove, id)
		}
	}
	return add, remove
}
