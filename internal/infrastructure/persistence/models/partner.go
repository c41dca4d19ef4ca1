package models

import (
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for customers.
type CustomerModel struct {
	TenantAggregateModel
	Code        string     `gorm:"type:varchar(50);not null;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Email       string     `gorm:"type:varchar(200)"`
	Phone       string     `gorm:"type:varchar(50)"`
	CompanyID   *uuid.UUID `gorm:"type:uuid;index"`
	PricelistID *uuid.UUID `gorm:"type:uuid"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model; ExclusiveProductIDs is filled by the repository.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		CompanyID:           m.CompanyID,
		PricelistID:         m.PricelistID,
	}
}

func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.CompanyID = c.CompanyID
	m.PricelistID = c.PricelistID
}

// CompanyModel is the persistence model for the company tree.
type CompanyModel struct {
	TenantAggregateModel
	Code               string     `gorm:"type:varchar(50);not null;index"`
	Name               string     `gorm:"type:varchar(200);not null"`
	ParentID           *uuid.UUID `gorm:"type:uuid;index"`
	Path               string     `gorm:"type:varchar(500);not null;index"`
	Level              int        `gorm:"not null;default:0"`
	DefaultPricelistID *uuid.UUID `gorm:"type:uuid"`
}

func (CompanyModel) TableName() string {
	return "companies"
}

func (m *CompanyModel) ToDomain() *partner.Company {
	return &partner.Company{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		ParentID:            m.ParentID,
		Path:                shared.TreePath(m.Path),
		Level:               m.Level,
		DefaultPricelistID:  m.DefaultPricelistID,
	}
}

func (m *CompanyModel) FromDomain(c *partner.Company) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.ParentID = c.ParentID
	m.Path = c.Path.String()
	m.Level = c.Level
	m.DefaultPricelistID = c.DefaultPricelistID
}
